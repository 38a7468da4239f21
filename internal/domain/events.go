package domain

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents a domain event
type DomainEvent interface {
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
}

// BaseDomainEvent contains common event fields
type BaseDomainEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AggregateId string    `json:"aggregateId"`
	Timestamp   time.Time `json:"timestamp"`
}

func (e BaseDomainEvent) EventType() string     { return e.Type }
func (e BaseDomainEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseDomainEvent) AggregateID() string   { return e.AggregateId }

func newBaseEvent(eventType string, claim *Claim, occurredAt time.Time) BaseDomainEvent {
	return BaseDomainEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		AggregateId: claim.ClaimID,
		Timestamp:   occurredAt.UTC(),
	}
}

// ClaimRequestedEvent is raised when a customer files a new claim
type ClaimRequestedEvent struct {
	BaseDomainEvent
	ClaimID      string      `json:"claimId"`
	ClaimNumber  string      `json:"claimNumber"`
	OrderID      string      `json:"orderId"`
	OrderItemID  string      `json:"orderItemId,omitempty"`
	ClaimType    ClaimType   `json:"claimType"`
	ClaimReason  ClaimReason `json:"claimReason"`
	Quantity     int         `json:"quantity"`
	RefundAmount int64       `json:"refundAmount"`
}

// NewClaimRequestedEvent creates a new ClaimRequestedEvent
func NewClaimRequestedEvent(claim *Claim, occurredAt time.Time) *ClaimRequestedEvent {
	return &ClaimRequestedEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.requested", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		ClaimNumber:     claim.ClaimNumber,
		OrderID:         claim.OrderID,
		OrderItemID:     claim.OrderItemID,
		ClaimType:       claim.ClaimType,
		ClaimReason:     claim.ClaimReason,
		Quantity:        claim.Quantity,
		RefundAmount:    claim.RefundAmount,
	}
}

// ClaimApprovedEvent is raised when a claim is approved
type ClaimApprovedEvent struct {
	BaseDomainEvent
	ClaimID   string    `json:"claimId"`
	OrderID   string    `json:"orderId"`
	ClaimType ClaimType `json:"claimType"`
	Actor     string    `json:"actor,omitempty"`
}

// NewClaimApprovedEvent creates a new ClaimApprovedEvent
func NewClaimApprovedEvent(claim *Claim, actor string, occurredAt time.Time) *ClaimApprovedEvent {
	return &ClaimApprovedEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.approved", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		OrderID:         claim.OrderID,
		ClaimType:       claim.ClaimType,
		Actor:           actor,
	}
}

// ClaimRejectedEvent is raised when a claim is rejected
type ClaimRejectedEvent struct {
	BaseDomainEvent
	ClaimID string `json:"claimId"`
	OrderID string `json:"orderId"`
	Actor   string `json:"actor"`
	Reason  string `json:"reason"`
}

// NewClaimRejectedEvent creates a new ClaimRejectedEvent
func NewClaimRejectedEvent(claim *Claim, actor string, reason string, occurredAt time.Time) *ClaimRejectedEvent {
	return &ClaimRejectedEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.rejected", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		OrderID:         claim.OrderID,
		Actor:           actor,
		Reason:          reason,
	}
}

// ClaimProcessingStartedEvent is raised when claim processing begins
type ClaimProcessingStartedEvent struct {
	BaseDomainEvent
	ClaimID   string    `json:"claimId"`
	OrderID   string    `json:"orderId"`
	ClaimType ClaimType `json:"claimType"`
}

// NewClaimProcessingStartedEvent creates a new ClaimProcessingStartedEvent
func NewClaimProcessingStartedEvent(claim *Claim, occurredAt time.Time) *ClaimProcessingStartedEvent {
	return &ClaimProcessingStartedEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.processing-started", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		OrderID:         claim.OrderID,
		ClaimType:       claim.ClaimType,
	}
}

// ClaimCompletedEvent is raised when a claim is resolved as completed.
// Refund processing and inventory restock consume this downstream.
type ClaimCompletedEvent struct {
	BaseDomainEvent
	ClaimID      string    `json:"claimId"`
	OrderID      string    `json:"orderId"`
	ClaimType    ClaimType `json:"claimType"`
	RefundAmount int64     `json:"refundAmount"`
}

// NewClaimCompletedEvent creates a new ClaimCompletedEvent
func NewClaimCompletedEvent(claim *Claim, occurredAt time.Time) *ClaimCompletedEvent {
	return &ClaimCompletedEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.completed", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		OrderID:         claim.OrderID,
		ClaimType:       claim.ClaimType,
		RefundAmount:    claim.RefundAmount,
	}
}

// ClaimCancelledEvent is raised when the customer withdraws the claim
type ClaimCancelledEvent struct {
	BaseDomainEvent
	ClaimID string `json:"claimId"`
	OrderID string `json:"orderId"`
}

// NewClaimCancelledEvent creates a new ClaimCancelledEvent
func NewClaimCancelledEvent(claim *Claim, occurredAt time.Time) *ClaimCancelledEvent {
	return &ClaimCancelledEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.cancelled", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		OrderID:         claim.OrderID,
	}
}

// ReturnPickupScheduledEvent is raised when a seller pickup is booked
type ReturnPickupScheduledEvent struct {
	BaseDomainEvent
	ClaimID       string     `json:"claimId"`
	OrderID       string     `json:"orderId"`
	ScheduledAt   *time.Time `json:"scheduledAt"`
	PickupAddress string     `json:"pickupAddress"`
	ClaimStatus   ClaimStatus `json:"claimStatus"`
}

// NewReturnPickupScheduledEvent creates a new ReturnPickupScheduledEvent
func NewReturnPickupScheduledEvent(claim *Claim, occurredAt time.Time) *ReturnPickupScheduledEvent {
	return &ReturnPickupScheduledEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.return-pickup-scheduled", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		OrderID:         claim.OrderID,
		ScheduledAt:     claim.ReturnPickupScheduledAt,
		PickupAddress:   claim.ReturnPickupAddress,
		ClaimStatus:     claim.Status,
	}
}

// ReturnShippingRegisteredEvent is raised when return tracking is attached
type ReturnShippingRegisteredEvent struct {
	BaseDomainEvent
	ClaimID        string               `json:"claimId"`
	OrderID        string               `json:"orderId"`
	Method         ReturnShippingMethod `json:"method"`
	TrackingNumber string               `json:"trackingNumber"`
	Carrier        string               `json:"carrier"`
	ClaimStatus    ClaimStatus          `json:"claimStatus"`
}

// NewReturnShippingRegisteredEvent creates a new ReturnShippingRegisteredEvent
func NewReturnShippingRegisteredEvent(claim *Claim, occurredAt time.Time) *ReturnShippingRegisteredEvent {
	return &ReturnShippingRegisteredEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.return-shipping-registered", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		OrderID:         claim.OrderID,
		Method:          claim.ReturnShippingMethod,
		TrackingNumber:  claim.ReturnTrackingNumber,
		Carrier:         claim.ReturnCarrier,
		ClaimStatus:     claim.Status,
	}
}

// ReturnShippingStatusUpdatedEvent is raised on a carrier webhook update
type ReturnShippingStatusUpdatedEvent struct {
	BaseDomainEvent
	ClaimID        string               `json:"claimId"`
	ShippingStatus ReturnShippingStatus `json:"shippingStatus"`
	TrackingNumber string               `json:"trackingNumber,omitempty"`
}

// NewReturnShippingStatusUpdatedEvent creates a new ReturnShippingStatusUpdatedEvent
func NewReturnShippingStatusUpdatedEvent(claim *Claim, occurredAt time.Time) *ReturnShippingStatusUpdatedEvent {
	return &ReturnShippingStatusUpdatedEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.return-status-updated", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		ShippingStatus:  claim.ReturnShippingStatus,
		TrackingNumber:  claim.ReturnTrackingNumber,
	}
}

// ReturnReceivedEvent is raised when the warehouse confirms receipt and
// inspection of the returned item
type ReturnReceivedEvent struct {
	BaseDomainEvent
	ClaimID          string           `json:"claimId"`
	OrderID          string           `json:"orderId"`
	InspectionResult InspectionResult `json:"inspectionResult"`
	InspectionNote   string           `json:"inspectionNote,omitempty"`
	ClaimStatus      ClaimStatus      `json:"claimStatus"`
}

// NewReturnReceivedEvent creates a new ReturnReceivedEvent
func NewReturnReceivedEvent(claim *Claim, occurredAt time.Time) *ReturnReceivedEvent {
	return &ReturnReceivedEvent{
		BaseDomainEvent:  newBaseEvent("oms.claim.return-received", claim, occurredAt),
		ClaimID:          claim.ClaimID,
		OrderID:          claim.OrderID,
		InspectionResult: claim.InspectionResult,
		InspectionNote:   claim.InspectionNote,
		ClaimStatus:      claim.Status,
	}
}

// ExchangeShippingRegisteredEvent is raised when the replacement item ships
type ExchangeShippingRegisteredEvent struct {
	BaseDomainEvent
	ClaimID        string `json:"claimId"`
	OrderID        string `json:"orderId"`
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
}

// NewExchangeShippingRegisteredEvent creates a new ExchangeShippingRegisteredEvent
func NewExchangeShippingRegisteredEvent(claim *Claim, occurredAt time.Time) *ExchangeShippingRegisteredEvent {
	return &ExchangeShippingRegisteredEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.exchange-shipped", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		OrderID:         claim.OrderID,
		TrackingNumber:  claim.ExchangeTrackingNumber,
		Carrier:         claim.ExchangeCarrier,
	}
}

// ExchangeDeliveredEvent is raised when the replacement item is delivered
type ExchangeDeliveredEvent struct {
	BaseDomainEvent
	ClaimID     string      `json:"claimId"`
	OrderID     string      `json:"orderId"`
	ClaimStatus ClaimStatus `json:"claimStatus"`
}

// NewExchangeDeliveredEvent creates a new ExchangeDeliveredEvent
func NewExchangeDeliveredEvent(claim *Claim, occurredAt time.Time) *ExchangeDeliveredEvent {
	return &ExchangeDeliveredEvent{
		BaseDomainEvent: newBaseEvent("oms.claim.exchange-delivered", claim, occurredAt),
		ClaimID:         claim.ClaimID,
		OrderID:         claim.OrderID,
		ClaimStatus:     claim.Status,
	}
}
