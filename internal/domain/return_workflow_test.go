package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func approvedReturnClaim(t *testing.T) *Claim {
	t.Helper()
	claim := createTestClaim(t, ClaimTypeReturn)
	require.NoError(t, claim.Approve("admin1", t1))
	return claim
}

// TestScheduleReturnPickup tests pickup scheduling
func TestScheduleReturnPickup(t *testing.T) {
	tests := []struct {
		name        string
		setupClaim  func(t *testing.T) *Claim
		scheduledAt time.Time
		address     string
		now         time.Time
		expectError error
	}{
		{
			name:        "Schedule pickup on approved return",
			setupClaim:  approvedReturnClaim,
			scheduledAt: t2,
			address:     "Seoul addr",
			now:         t1,
			expectError: nil,
		},
		{
			name: "Return not required for cancel claim",
			setupClaim: func(t *testing.T) *Claim {
				return createTestClaim(t, ClaimTypeCancel)
			},
			scheduledAt: t2,
			address:     "Seoul addr",
			now:         t1,
			expectError: ErrReturnNotRequired,
		},
		{
			name:        "Pickup time in the past",
			setupClaim:  approvedReturnClaim,
			scheduledAt: baseTime,
			address:     "Seoul addr",
			now:         t1,
			expectError: ErrPickupInPast,
		},
		{
			name:        "Blank address",
			setupClaim:  approvedReturnClaim,
			scheduledAt: t2,
			address:     "   ",
			now:         t1,
			expectError: ErrBlankPickupAddress,
		},
		{
			name:        "Missing schedule",
			setupClaim:  approvedReturnClaim,
			scheduledAt: time.Time{},
			address:     "Seoul addr",
			now:         t1,
			expectError: ErrMissingPickupSchedule,
		},
		{
			name: "Cannot schedule twice",
			setupClaim: func(t *testing.T) *Claim {
				claim := approvedReturnClaim(t)
				require.NoError(t, claim.ScheduleReturnPickup(t2, "Seoul addr", "010-1111-2222", t1))
				return claim
			},
			scheduledAt: t3,
			address:     "Busan addr",
			now:         t2,
			expectError: newShippingWorkflowError("schedule return pickup", "return shipping status is PICKUP_SCHEDULED"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim := tt.setupClaim(t)

			err := claim.ScheduleReturnPickup(tt.scheduledAt, tt.address, "010-1111-2222", tt.now)

			if tt.expectError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectError, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, ReturnShippingPickupScheduled, claim.ReturnShippingStatus)
				assert.Equal(t, MethodSellerPickup, claim.ReturnShippingMethod)
				require.NotNil(t, claim.ReturnPickupScheduledAt)
				assert.Equal(t, tt.scheduledAt, *claim.ReturnPickupScheduledAt)
				assert.Equal(t, tt.address, claim.ReturnPickupAddress)
				assert.Equal(t, "010-1111-2222", claim.ReturnCustomerPhone)
			}
		})
	}
}

// TestScheduleReturnPickupAdvancesLifecycle verifies the outer status moves to
// IN_PROGRESS only when the lifecycle permits it
func TestScheduleReturnPickupAdvancesLifecycle(t *testing.T) {
	t.Run("Approved claim advances", func(t *testing.T) {
		claim := approvedReturnClaim(t)
		require.NoError(t, claim.ScheduleReturnPickup(t2, "Seoul addr", "010-1111-2222", t1))
		assert.Equal(t, ClaimStatusInProgress, claim.Status)
	})

	t.Run("Requested claim stays requested", func(t *testing.T) {
		claim := createTestClaim(t, ClaimTypeReturn)
		require.NoError(t, claim.ScheduleReturnPickup(t2, "Seoul addr", "010-1111-2222", t1))
		assert.Equal(t, ClaimStatusRequested, claim.Status)
		assert.Equal(t, ReturnShippingPickupScheduled, claim.ReturnShippingStatus)
	})
}

// TestRegisterReturnShipping tests tracking registration
func TestRegisterReturnShipping(t *testing.T) {
	tests := []struct {
		name           string
		setupClaim     func(t *testing.T) *Claim
		method         ReturnShippingMethod
		trackingNumber string
		carrier        string
		expectError    error
	}{
		{
			name:           "Customer self-ship from pending",
			setupClaim:     approvedReturnClaim,
			method:         MethodCustomerShip,
			trackingNumber: "TRK-100",
			carrier:        "CJ",
			expectError:    nil,
		},
		{
			name: "Courier collects a scheduled pickup",
			setupClaim: func(t *testing.T) *Claim {
				claim := approvedReturnClaim(t)
				require.NoError(t, claim.ScheduleReturnPickup(t2, "Seoul addr", "010-1111-2222", t1))
				return claim
			},
			method:         MethodSellerPickup,
			trackingNumber: "TRK-200",
			carrier:        "HANJIN",
			expectError:    nil,
		},
		{
			name: "Return not required",
			setupClaim: func(t *testing.T) *Claim {
				return createTestClaim(t, ClaimTypePartialRefund)
			},
			method:         MethodCustomerShip,
			trackingNumber: "TRK-300",
			carrier:        "CJ",
			expectError:    ErrReturnNotRequired,
		},
		{
			name:           "Unknown method",
			setupClaim:     approvedReturnClaim,
			method:         ReturnShippingMethod("DRONE"),
			trackingNumber: "TRK-400",
			carrier:        "CJ",
			expectError:    ErrInvalidShippingMethod,
		},
		{
			name:           "Blank tracking number",
			setupClaim:     approvedReturnClaim,
			method:         MethodCustomerShip,
			trackingNumber: " ",
			carrier:        "CJ",
			expectError:    ErrBlankTrackingNumber,
		},
		{
			name:           "Blank carrier",
			setupClaim:     approvedReturnClaim,
			method:         MethodCustomerShip,
			trackingNumber: "TRK-500",
			carrier:        "",
			expectError:    ErrBlankCarrier,
		},
		{
			name: "Cannot register after receipt",
			setupClaim: func(t *testing.T) *Claim {
				claim := approvedReturnClaim(t)
				require.NoError(t, claim.RegisterReturnShipping(MethodCustomerShip, "TRK-1", "CJ", t1))
				require.NoError(t, claim.ConfirmReturnReceived(InspectionPass, "", t2))
				return claim
			},
			method:         MethodCustomerShip,
			trackingNumber: "TRK-600",
			carrier:        "CJ",
			expectError:    newShippingWorkflowError("register return shipping", "return shipping status is RECEIVED"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claim := tt.setupClaim(t)

			err := claim.RegisterReturnShipping(tt.method, tt.trackingNumber, tt.carrier, t2)

			if tt.expectError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectError, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, ReturnShippingInTransit, claim.ReturnShippingStatus)
				assert.Equal(t, tt.method, claim.ReturnShippingMethod)
				assert.Equal(t, tt.trackingNumber, claim.ReturnTrackingNumber)
				assert.Equal(t, tt.carrier, claim.ReturnCarrier)
			}
		})
	}
}

// TestUpdateReturnShippingStatus tests the carrier-webhook update, which
// overwrites the sub-status without a permission check
func TestUpdateReturnShippingStatus(t *testing.T) {
	t.Run("Webhook overwrites status and tracking", func(t *testing.T) {
		claim := approvedReturnClaim(t)
		require.NoError(t, claim.UpdateReturnShippingStatus(ReturnShippingInTransit, "TRK-W1", t2))
		assert.Equal(t, ReturnShippingInTransit, claim.ReturnShippingStatus)
		assert.Equal(t, "TRK-W1", claim.ReturnTrackingNumber)
	})

	t.Run("Blank tracking leaves existing value", func(t *testing.T) {
		claim := approvedReturnClaim(t)
		require.NoError(t, claim.RegisterReturnShipping(MethodCustomerShip, "TRK-1", "CJ", t1))
		require.NoError(t, claim.UpdateReturnShippingStatus(ReturnShippingReceived, "", t2))
		assert.Equal(t, ReturnShippingReceived, claim.ReturnShippingStatus)
		assert.Equal(t, "TRK-1", claim.ReturnTrackingNumber)
	})

	t.Run("Webhook never touches the lifecycle", func(t *testing.T) {
		claim := createTestClaim(t, ClaimTypeReturn)
		require.NoError(t, claim.CancelByCustomer(t1))
		require.NoError(t, claim.UpdateReturnShippingStatus(ReturnShippingInTransit, "TRK-W2", t2))
		assert.Equal(t, ClaimStatusCancelled, claim.Status)
	})

	t.Run("Return not required", func(t *testing.T) {
		claim := createTestClaim(t, ClaimTypeCancel)
		err := claim.UpdateReturnShippingStatus(ReturnShippingInTransit, "TRK-W3", t2)
		assert.Equal(t, ErrReturnNotRequired, err)
	})

	t.Run("Unknown status", func(t *testing.T) {
		claim := approvedReturnClaim(t)
		err := claim.UpdateReturnShippingStatus(ReturnShippingStatus("TELEPORTED"), "", t2)
		assert.Equal(t, ErrInvalidShippingStatus, err)
	})
}

// TestConfirmReturnReceived tests warehouse receipt and the inspection-driven
// lifecycle effects
func TestConfirmReturnReceived(t *testing.T) {
	t.Run("Pass on a return completes the claim", func(t *testing.T) {
		claim := approvedReturnClaim(t)
		require.NoError(t, claim.ScheduleReturnPickup(t2, "Seoul addr", "010-1111-2222", t1))

		require.NoError(t, claim.ConfirmReturnReceived(InspectionPass, "", t3))

		assert.Equal(t, ReturnShippingReceived, claim.ReturnShippingStatus)
		assert.Equal(t, ClaimStatusCompleted, claim.Status)
		assert.Equal(t, InspectionPass, claim.InspectionResult)
		require.NotNil(t, claim.ReturnReceivedAt)
		assert.Equal(t, t3, *claim.ReturnReceivedAt)
	})

	t.Run("Pass on an exchange keeps the claim in progress", func(t *testing.T) {
		claim := createTestClaim(t, ClaimTypeExchange)
		require.NoError(t, claim.Approve("admin1", t1))
		require.NoError(t, claim.RegisterReturnShipping(MethodCustomerShip, "TRK-1", "CJ", t1))

		require.NoError(t, claim.ConfirmReturnReceived(InspectionPass, "", t3))

		assert.Equal(t, ReturnShippingReceived, claim.ReturnShippingStatus)
		assert.Equal(t, ClaimStatusInProgress, claim.Status)
	})

	t.Run("Fail rejects the claim with a synthesized reason", func(t *testing.T) {
		claim := approvedReturnClaim(t)
		require.NoError(t, claim.ScheduleReturnPickup(t2, "Seoul addr", "010-1111-2222", t1))

		require.NoError(t, claim.ConfirmReturnReceived(InspectionFail, "damaged", t3))

		assert.Equal(t, ClaimStatusRejected, claim.Status)
		assert.Contains(t, claim.RejectReason, "damaged")
		assert.Contains(t, claim.RejectReason, "검수 불합격")
	})

	t.Run("Fail with no note uses the default reason", func(t *testing.T) {
		claim := approvedReturnClaim(t)
		require.NoError(t, claim.RegisterReturnShipping(MethodCustomerShip, "TRK-1", "CJ", t1))

		require.NoError(t, claim.ConfirmReturnReceived(InspectionFail, "  ", t3))

		assert.Equal(t, ClaimStatusRejected, claim.Status)
		assert.Equal(t, "검수 불합격", claim.RejectReason)
	})

	t.Run("Partial leaves the lifecycle untouched", func(t *testing.T) {
		claim := approvedReturnClaim(t)
		require.NoError(t, claim.ScheduleReturnPickup(t2, "Seoul addr", "010-1111-2222", t1))

		require.NoError(t, claim.ConfirmReturnReceived(InspectionPartial, "scuffed box", t3))

		assert.Equal(t, ReturnShippingReceived, claim.ReturnShippingStatus)
		assert.Equal(t, ClaimStatusInProgress, claim.Status)
		assert.Equal(t, "scuffed box", claim.InspectionNote)
	})

	t.Run("Cannot confirm before shipment", func(t *testing.T) {
		claim := approvedReturnClaim(t)
		err := claim.ConfirmReturnReceived(InspectionPass, "", t3)
		assert.Equal(t,
			newShippingWorkflowError("confirm return received", "return shipping status is PENDING"),
			err)
	})

	t.Run("Unknown inspection result", func(t *testing.T) {
		claim := approvedReturnClaim(t)
		require.NoError(t, claim.RegisterReturnShipping(MethodCustomerShip, "TRK-1", "CJ", t1))
		err := claim.ConfirmReturnReceived(InspectionResult("MAYBE"), "", t3)
		assert.Equal(t, ErrInvalidInspectionResult, err)
	})
}

// TestExchangeWorkflow tests the exchange redelivery leg
func TestExchangeWorkflow(t *testing.T) {
	receivedExchange := func(t *testing.T, result InspectionResult) *Claim {
		t.Helper()
		claim := createTestClaim(t, ClaimTypeExchange)
		require.NoError(t, claim.Approve("admin1", t1))
		require.NoError(t, claim.ScheduleReturnPickup(t2, "Seoul addr", "010-1111-2222", t1))
		require.NoError(t, claim.RegisterReturnShipping(MethodSellerPickup, "TRK-1", "CJ", t2))
		require.NoError(t, claim.ConfirmReturnReceived(result, "", t3))
		return claim
	}

	t.Run("Ship and deliver replacement completes the claim", func(t *testing.T) {
		claim := receivedExchange(t, InspectionPass)

		require.NoError(t, claim.RegisterExchangeShipping("TRK-EX1", "CJ", t3))
		assert.Equal(t, "TRK-EX1", claim.ExchangeTrackingNumber)
		assert.Equal(t, "CJ", claim.ExchangeCarrier)
		require.NotNil(t, claim.ExchangeShippedAt)

		require.NoError(t, claim.ConfirmExchangeDelivered(t4))
		require.NotNil(t, claim.ExchangeDeliveredAt)
		assert.Equal(t, ClaimStatusCompleted, claim.Status)
	})

	t.Run("Partial inspection still allows the exchange leg", func(t *testing.T) {
		claim := receivedExchange(t, InspectionPartial)
		require.NoError(t, claim.RegisterExchangeShipping("TRK-EX2", "CJ", t3))
	})

	t.Run("Not applicable to other claim types", func(t *testing.T) {
		claim := createTestClaim(t, ClaimTypeReturn)
		assert.Equal(t, ErrExchangeNotApplicable, claim.RegisterExchangeShipping("TRK-EX3", "CJ", t1))
		assert.Equal(t, ErrExchangeNotApplicable, claim.ConfirmExchangeDelivered(t1))
	})

	t.Run("Cannot ship before return is received", func(t *testing.T) {
		claim := createTestClaim(t, ClaimTypeExchange)
		require.NoError(t, claim.Approve("admin1", t1))

		err := claim.RegisterExchangeShipping("TRK-EX4", "CJ", t2)
		assert.Equal(t,
			newShippingWorkflowError("register exchange shipping", "return has not been received"),
			err)
	})

	t.Run("Cannot ship after failed inspection", func(t *testing.T) {
		claim := receivedExchange(t, InspectionFail)

		err := claim.RegisterExchangeShipping("TRK-EX5", "CJ", t4)
		assert.Equal(t,
			newShippingWorkflowError("register exchange shipping", "inspection did not pass"),
			err)
	})

	t.Run("Cannot confirm delivery before shipping", func(t *testing.T) {
		claim := receivedExchange(t, InspectionPass)

		err := claim.ConfirmExchangeDelivered(t4)
		assert.Equal(t,
			newShippingWorkflowError("confirm exchange delivered", "exchange has not been shipped"),
			err)
	})
}

// TestReturnClaimEndToEnd drives a RETURN claim from request to completion
func TestReturnClaimEndToEnd(t *testing.T) {
	claim, err := NewClaim("CLM-E2E-1", "CN20260302-E2E00001", "O1", "",
		ClaimTypeReturn, ReasonChangeOfMind, "", 1, 10000, baseTime)
	require.NoError(t, err)
	assert.Equal(t, ClaimStatusRequested, claim.Status)
	assert.Equal(t, ReturnShippingPending, claim.ReturnShippingStatus)

	require.NoError(t, claim.Approve("admin1", t1))
	assert.Equal(t, ClaimStatusApproved, claim.Status)

	err = claim.Approve("admin1", t2)
	var transitionErr *StatusTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, ClaimStatusApproved, transitionErr.Current)

	require.NoError(t, claim.ScheduleReturnPickup(t2, "Seoul addr", "010-1111-2222", t1))
	assert.Equal(t, ReturnShippingPickupScheduled, claim.ReturnShippingStatus)
	assert.Equal(t, ClaimStatusInProgress, claim.Status)

	require.NoError(t, claim.ConfirmReturnReceived(InspectionPass, "", t3))
	assert.Equal(t, ReturnShippingReceived, claim.ReturnShippingStatus)
	assert.Equal(t, ClaimStatusCompleted, claim.Status)
}

// TestExchangeClaimEndToEnd drives an EXCHANGE claim through both legs
func TestExchangeClaimEndToEnd(t *testing.T) {
	claim, err := NewClaim("CLM-E2E-2", "CN20260302-E2E00002", "O2", "OI-7",
		ClaimTypeExchange, ReasonSizeOrColor, "want a larger size", 1, 0, baseTime)
	require.NoError(t, err)

	require.NoError(t, claim.Approve("admin1", t1))
	require.NoError(t, claim.ScheduleReturnPickup(t2, "Seoul addr", "010-1111-2222", t1))
	require.NoError(t, claim.RegisterReturnShipping(MethodSellerPickup, "TRK-1", "CJ", t2))
	require.NoError(t, claim.ConfirmReturnReceived(InspectionPass, "", t3))
	assert.Equal(t, ClaimStatusInProgress, claim.Status)

	require.NoError(t, claim.RegisterExchangeShipping("TRK-EX", "CJ", t3))
	require.NoError(t, claim.ConfirmExchangeDelivered(t4))
	assert.Equal(t, ClaimStatusCompleted, claim.Status)
}
