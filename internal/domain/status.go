package domain

// ClaimStatus is the overall lifecycle state of a claim.
// The transition graph is REQUESTED -> APPROVED -> IN_PROGRESS -> COMPLETED,
// with REQUESTED -> REJECTED and {REQUESTED, APPROVED} -> CANCELLED as side
// branches. The permission predicates below are the only source of truth for
// that graph; the aggregate consults them instead of re-encoding transitions.
type ClaimStatus string

const (
	ClaimStatusRequested  ClaimStatus = "REQUESTED"
	ClaimStatusApproved   ClaimStatus = "APPROVED"
	ClaimStatusInProgress ClaimStatus = "IN_PROGRESS"
	ClaimStatusCompleted  ClaimStatus = "COMPLETED"
	ClaimStatusRejected   ClaimStatus = "REJECTED"
	ClaimStatusCancelled  ClaimStatus = "CANCELLED"
)

// IsValid checks if the status is a known claim status
func (s ClaimStatus) IsValid() bool {
	switch s {
	case ClaimStatusRequested, ClaimStatusApproved, ClaimStatusInProgress,
		ClaimStatusCompleted, ClaimStatusRejected, ClaimStatusCancelled:
		return true
	default:
		return false
	}
}

// CanApprove reports whether an admin may approve the claim
func (s ClaimStatus) CanApprove() bool {
	return s == ClaimStatusRequested
}

// CanReject reports whether an admin may reject the claim
func (s ClaimStatus) CanReject() bool {
	return s == ClaimStatusRequested
}

// CanStartProcessing reports whether the claim may move to IN_PROGRESS
func (s ClaimStatus) CanStartProcessing() bool {
	return s == ClaimStatusApproved
}

// CanComplete reports whether the claim may be resolved as COMPLETED.
// APPROVED completes directly when no processing step was needed.
func (s ClaimStatus) CanComplete() bool {
	return s == ClaimStatusInProgress || s == ClaimStatusApproved
}

// CanCancel reports whether the customer may still withdraw the claim
func (s ClaimStatus) CanCancel() bool {
	return s == ClaimStatusRequested || s == ClaimStatusApproved
}

// IsTerminal reports whether no lifecycle operation leaves this status
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimStatusCompleted || s == ClaimStatusRejected || s == ClaimStatusCancelled
}

// ReturnShippingStatus is the state of the return-logistics sub-workflow.
// Strictly forward: PENDING -> PICKUP_SCHEDULED -> IN_TRANSIT -> RECEIVED,
// where self-shipped returns skip PICKUP_SCHEDULED. The zero value means the
// claim type does not involve return shipping at all.
type ReturnShippingStatus string

const (
	ReturnShippingPending         ReturnShippingStatus = "PENDING"
	ReturnShippingPickupScheduled ReturnShippingStatus = "PICKUP_SCHEDULED"
	ReturnShippingInTransit       ReturnShippingStatus = "IN_TRANSIT"
	ReturnShippingReceived        ReturnShippingStatus = "RECEIVED"
)

// IsValid checks if the status is a known return shipping status
func (s ReturnShippingStatus) IsValid() bool {
	switch s {
	case ReturnShippingPending, ReturnShippingPickupScheduled,
		ReturnShippingInTransit, ReturnShippingReceived:
		return true
	default:
		return false
	}
}

// CanSchedulePickup reports whether a seller pickup may still be booked
func (s ReturnShippingStatus) CanSchedulePickup() bool {
	return s == ReturnShippingPending
}

// CanRegisterShipping reports whether carrier tracking may be attached.
// A scheduled pickup registers tracking once the courier collects the parcel.
func (s ReturnShippingStatus) CanRegisterShipping() bool {
	return s == ReturnShippingPending || s == ReturnShippingPickupScheduled
}

// CanConfirmReceived reports whether the warehouse may confirm receipt.
// Receipt from PICKUP_SCHEDULED is allowed since carriers do not always
// push an in-transit update before the parcel arrives.
func (s ReturnShippingStatus) CanConfirmReceived() bool {
	return s == ReturnShippingPickupScheduled || s == ReturnShippingInTransit
}
