package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ClaimType classifies a post-purchase claim
type ClaimType string

const (
	ClaimTypeCancel        ClaimType = "CANCEL"
	ClaimTypeReturn        ClaimType = "RETURN"
	ClaimTypeExchange      ClaimType = "EXCHANGE"
	ClaimTypePartialRefund ClaimType = "PARTIAL_REFUND"
)

// IsValid checks if the claim type is valid
func (t ClaimType) IsValid() bool {
	switch t {
	case ClaimTypeCancel, ClaimTypeReturn, ClaimTypeExchange, ClaimTypePartialRefund:
		return true
	default:
		return false
	}
}

// RequiresReturn reports whether the claim type needs the item shipped back
func (t ClaimType) RequiresReturn() bool {
	return t == ClaimTypeReturn || t == ClaimTypeExchange
}

// RequiresRefund reports whether resolving the claim pays money back
func (t ClaimType) RequiresRefund() bool {
	return t == ClaimTypeCancel || t == ClaimTypeReturn || t == ClaimTypePartialRefund
}

// ClaimReason is the customer-stated reason for the claim
type ClaimReason string

const (
	ReasonChangeOfMind     ClaimReason = "CHANGE_OF_MIND"
	ReasonDefectiveProduct ClaimReason = "DEFECTIVE_PRODUCT"
	ReasonWrongItem        ClaimReason = "WRONG_ITEM_DELIVERED"
	ReasonDamagedInTransit ClaimReason = "DAMAGED_IN_TRANSIT"
	ReasonSizeOrColor      ClaimReason = "SIZE_OR_COLOR"
	ReasonDelayedDelivery  ClaimReason = "DELAYED_DELIVERY"
	ReasonOther            ClaimReason = "OTHER"
)

// IsValid checks if the claim reason is valid
func (r ClaimReason) IsValid() bool {
	switch r {
	case ReasonChangeOfMind, ReasonDefectiveProduct, ReasonWrongItem,
		ReasonDamagedInTransit, ReasonSizeOrColor, ReasonDelayedDelivery, ReasonOther:
		return true
	default:
		return false
	}
}

// IsSellerFault reports whether the seller bears return shipping cost for this reason
func (r ClaimReason) IsSellerFault() bool {
	switch r {
	case ReasonDefectiveProduct, ReasonWrongItem, ReasonDamagedInTransit, ReasonDelayedDelivery:
		return true
	default:
		return false
	}
}

// InspectionResult is the warehouse quality-check outcome on a received return
type InspectionResult string

const (
	InspectionPass    InspectionResult = "PASS"
	InspectionFail    InspectionResult = "FAIL"
	InspectionPartial InspectionResult = "PARTIAL"
)

// IsValid checks if the inspection result is valid
func (r InspectionResult) IsValid() bool {
	switch r {
	case InspectionPass, InspectionFail, InspectionPartial:
		return true
	default:
		return false
	}
}

// IsRefundable reports whether the inspected return qualifies for refund or exchange.
// PARTIAL still qualifies; the deduction is decided outside the aggregate.
func (r InspectionResult) IsRefundable() bool {
	return r == InspectionPass || r == InspectionPartial
}

// ReturnShippingMethod is how the returned item travels back
type ReturnShippingMethod string

const (
	MethodSellerPickup ReturnShippingMethod = "SELLER_PICKUP"
	MethodCustomerShip ReturnShippingMethod = "CUSTOMER_SHIP"
)

// IsValid checks if the return shipping method is valid
func (m ReturnShippingMethod) IsValid() bool {
	return m == MethodSellerPickup || m == MethodCustomerShip
}

// NewClaimID generates an opaque globally unique claim identifier
func NewClaimID() string {
	return "CLM-" + uuid.New().String()
}

// NewClaimNumber generates a human-readable claim number for the given day
func NewClaimNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("CN%s-%s", now.UTC().Format("20060102"), suffix)
}
