package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaimStatusPredicates(t *testing.T) {
	tests := []struct {
		status             ClaimStatus
		canApprove         bool
		canReject          bool
		canStartProcessing bool
		canComplete        bool
		canCancel          bool
		isTerminal         bool
	}{
		{ClaimStatusRequested, true, true, false, false, true, false},
		{ClaimStatusApproved, false, false, true, true, true, false},
		{ClaimStatusInProgress, false, false, false, true, false, false},
		{ClaimStatusCompleted, false, false, false, false, false, true},
		{ClaimStatusRejected, false, false, false, false, false, true},
		{ClaimStatusCancelled, false, false, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.True(t, tt.status.IsValid())
			assert.Equal(t, tt.canApprove, tt.status.CanApprove())
			assert.Equal(t, tt.canReject, tt.status.CanReject())
			assert.Equal(t, tt.canStartProcessing, tt.status.CanStartProcessing())
			assert.Equal(t, tt.canComplete, tt.status.CanComplete())
			assert.Equal(t, tt.canCancel, tt.status.CanCancel())
			assert.Equal(t, tt.isTerminal, tt.status.IsTerminal())
		})
	}

	assert.False(t, ClaimStatus("LIMBO").IsValid())
}

func TestReturnShippingStatusPredicates(t *testing.T) {
	tests := []struct {
		status             ReturnShippingStatus
		canSchedulePickup  bool
		canRegisterShipping bool
		canConfirmReceived bool
	}{
		{ReturnShippingPending, true, true, false},
		{ReturnShippingPickupScheduled, false, true, true},
		{ReturnShippingInTransit, false, false, true},
		{ReturnShippingReceived, false, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.True(t, tt.status.IsValid())
			assert.Equal(t, tt.canSchedulePickup, tt.status.CanSchedulePickup())
			assert.Equal(t, tt.canRegisterShipping, tt.status.CanRegisterShipping())
			assert.Equal(t, tt.canConfirmReceived, tt.status.CanConfirmReceived())
		})
	}

	assert.False(t, ReturnShippingStatus("").IsValid())
}

func TestClaimTypeBehavior(t *testing.T) {
	assert.True(t, ClaimTypeReturn.RequiresReturn())
	assert.True(t, ClaimTypeExchange.RequiresReturn())
	assert.False(t, ClaimTypeCancel.RequiresReturn())
	assert.False(t, ClaimTypePartialRefund.RequiresReturn())

	assert.True(t, ClaimTypeCancel.RequiresRefund())
	assert.True(t, ClaimTypeReturn.RequiresRefund())
	assert.True(t, ClaimTypePartialRefund.RequiresRefund())
	assert.False(t, ClaimTypeExchange.RequiresRefund())

	assert.False(t, ClaimType("STORE_CREDIT").IsValid())
}

func TestInspectionResultBehavior(t *testing.T) {
	assert.True(t, InspectionPass.IsRefundable())
	assert.True(t, InspectionPartial.IsRefundable())
	assert.False(t, InspectionFail.IsRefundable())
	assert.False(t, InspectionResult("MAYBE").IsValid())
}

func TestClaimReasonBehavior(t *testing.T) {
	assert.True(t, ReasonDefectiveProduct.IsSellerFault())
	assert.True(t, ReasonWrongItem.IsSellerFault())
	assert.False(t, ReasonChangeOfMind.IsSellerFault())
	assert.False(t, ReasonSizeOrColor.IsSellerFault())
}

func TestIdentifierGeneration(t *testing.T) {
	id := NewClaimID()
	assert.Contains(t, id, "CLM-")

	number := NewClaimNumber(baseTime)
	assert.Contains(t, number, "CN20260302-")
	assert.NotEqual(t, number, NewClaimNumber(baseTime))
}
