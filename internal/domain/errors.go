package domain

import "fmt"

// ValidationError reports a missing or malformed input. Always caller-fixable.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// StatusTransitionError reports an operation invoked while the claim is not
// in a status that permits it. Carries the current status for diagnostics.
type StatusTransitionError struct {
	Op      string
	Current ClaimStatus
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("cannot %s claim in status %s", e.Op, e.Current)
}

func newStatusTransitionError(op string, current ClaimStatus) *StatusTransitionError {
	return &StatusTransitionError{Op: op, Current: current}
}

// ShippingWorkflowError reports a claim-type or sub-workflow stage mismatch
// in the return or exchange logistics flow.
type ShippingWorkflowError struct {
	Op     string
	Reason string
}

func (e *ShippingWorkflowError) Error() string {
	if e.Op == "" {
		return e.Reason
	}
	return fmt.Sprintf("cannot %s: %s", e.Op, e.Reason)
}

func newShippingWorkflowError(op, reason string) *ShippingWorkflowError {
	return &ShippingWorkflowError{Op: op, Reason: reason}
}

// Validation errors for Claim inputs
var (
	ErrMissingOrderID          = &ValidationError{Field: "orderId", Message: "order id is required"}
	ErrMissingClaimID          = &ValidationError{Field: "claimId", Message: "claim id is required"}
	ErrMissingClaimNumber      = &ValidationError{Field: "claimNumber", Message: "claim number is required"}
	ErrInvalidClaimType        = &ValidationError{Field: "claimType", Message: "unknown claim type"}
	ErrInvalidClaimReason      = &ValidationError{Field: "claimReason", Message: "unknown claim reason"}
	ErrInvalidQuantity         = &ValidationError{Field: "quantity", Message: "quantity must be at least 1"}
	ErrNegativeRefundAmount    = &ValidationError{Field: "refundAmount", Message: "refund amount must not be negative"}
	ErrMissingTimestamp        = &ValidationError{Field: "now", Message: "operation timestamp is required"}
	ErrBlankActor              = &ValidationError{Field: "actor", Message: "actor is required"}
	ErrBlankRejectReason       = &ValidationError{Field: "rejectReason", Message: "reject reason is required"}
	ErrBlankPickupAddress      = &ValidationError{Field: "pickupAddress", Message: "pickup address is required"}
	ErrMissingPickupSchedule   = &ValidationError{Field: "scheduledAt", Message: "pickup schedule is required"}
	ErrBlankTrackingNumber     = &ValidationError{Field: "trackingNumber", Message: "tracking number is required"}
	ErrBlankCarrier            = &ValidationError{Field: "carrier", Message: "carrier is required"}
	ErrInvalidShippingMethod   = &ValidationError{Field: "returnShippingMethod", Message: "unknown return shipping method"}
	ErrInvalidShippingStatus   = &ValidationError{Field: "returnShippingStatus", Message: "unknown return shipping status"}
	ErrInvalidInspectionResult = &ValidationError{Field: "inspectionResult", Message: "unknown inspection result"}
	ErrInvalidClaimStatus      = &ValidationError{Field: "status", Message: "unknown claim status"}
)

// Shipping-workflow errors with a fixed cause
var (
	ErrReturnNotRequired     = &ShippingWorkflowError{Reason: "claim type does not require return shipping"}
	ErrExchangeNotApplicable = &ShippingWorkflowError{Reason: "claim type is not exchange"}
	ErrPickupInPast          = &ShippingWorkflowError{Op: "schedule return pickup", Reason: "pickup time is in the past"}
)
