package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Claim is the aggregate root for the post-purchase claims bounded context.
// It couples the overall lifecycle status with a return-logistics sub-workflow
// and, for exchanges, an outbound redelivery leg. Every mutating operation
// takes the current instant explicitly; the aggregate never reads the clock.
type Claim struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClaimID           string             `bson:"claimId" json:"claimId"`
	ClaimNumber       string             `bson:"claimNumber" json:"claimNumber"`
	OrderID           string             `bson:"orderId" json:"orderId"`
	OrderItemID       string             `bson:"orderItemId,omitempty" json:"orderItemId,omitempty"`
	ClaimType         ClaimType          `bson:"claimType" json:"claimType"`
	ClaimReason       ClaimReason        `bson:"claimReason" json:"claimReason"`
	ClaimReasonDetail string             `bson:"claimReasonDetail,omitempty" json:"claimReasonDetail,omitempty"`
	Quantity          int                `bson:"quantity" json:"quantity"`
	RefundAmount      int64              `bson:"refundAmount" json:"refundAmount"`
	Status            ClaimStatus        `bson:"status" json:"status"`
	ProcessedBy       string             `bson:"processedBy,omitempty" json:"processedBy,omitempty"`
	ProcessedAt       *time.Time         `bson:"processedAt,omitempty" json:"processedAt,omitempty"`
	RejectReason      string             `bson:"rejectReason,omitempty" json:"rejectReason,omitempty"`

	ReturnShippingMethod    ReturnShippingMethod `bson:"returnShippingMethod,omitempty" json:"returnShippingMethod,omitempty"`
	ReturnShippingStatus    ReturnShippingStatus `bson:"returnShippingStatus,omitempty" json:"returnShippingStatus,omitempty"`
	ReturnPickupScheduledAt *time.Time           `bson:"returnPickupScheduledAt,omitempty" json:"returnPickupScheduledAt,omitempty"`
	ReturnPickupAddress     string               `bson:"returnPickupAddress,omitempty" json:"returnPickupAddress,omitempty"`
	ReturnCustomerPhone     string               `bson:"returnCustomerPhone,omitempty" json:"returnCustomerPhone,omitempty"`
	ReturnTrackingNumber    string               `bson:"returnTrackingNumber,omitempty" json:"returnTrackingNumber,omitempty"`
	ReturnCarrier           string               `bson:"returnCarrier,omitempty" json:"returnCarrier,omitempty"`
	ReturnReceivedAt        *time.Time           `bson:"returnReceivedAt,omitempty" json:"returnReceivedAt,omitempty"`
	InspectionResult        InspectionResult     `bson:"inspectionResult,omitempty" json:"inspectionResult,omitempty"`
	InspectionNote          string               `bson:"inspectionNote,omitempty" json:"inspectionNote,omitempty"`

	ExchangeTrackingNumber string     `bson:"exchangeTrackingNumber,omitempty" json:"exchangeTrackingNumber,omitempty"`
	ExchangeCarrier        string     `bson:"exchangeCarrier,omitempty" json:"exchangeCarrier,omitempty"`
	ExchangeShippedAt      *time.Time `bson:"exchangeShippedAt,omitempty" json:"exchangeShippedAt,omitempty"`
	ExchangeDeliveredAt    *time.Time `bson:"exchangeDeliveredAt,omitempty" json:"exchangeDeliveredAt,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`

	// Domain events - transient, not persisted
	domainEvents []DomainEvent `bson:"-" json:"-"`
}

// NewClaim creates a new Claim aggregate in REQUESTED status. Claims whose
// type requires a physical return start the logistics sub-workflow at PENDING.
func NewClaim(
	claimID string,
	claimNumber string,
	orderID string,
	orderItemID string,
	claimType ClaimType,
	claimReason ClaimReason,
	claimReasonDetail string,
	quantity int,
	refundAmount int64,
	now time.Time,
) (*Claim, error) {
	if strings.TrimSpace(claimID) == "" {
		return nil, ErrMissingClaimID
	}
	if strings.TrimSpace(claimNumber) == "" {
		return nil, ErrMissingClaimNumber
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, ErrMissingOrderID
	}
	if !claimType.IsValid() {
		return nil, ErrInvalidClaimType
	}
	if !claimReason.IsValid() {
		return nil, ErrInvalidClaimReason
	}
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if refundAmount < 0 {
		return nil, ErrNegativeRefundAmount
	}
	if now.IsZero() {
		return nil, ErrMissingTimestamp
	}

	claim := &Claim{
		ClaimID:           claimID,
		ClaimNumber:       claimNumber,
		OrderID:           orderID,
		OrderItemID:       orderItemID,
		ClaimType:         claimType,
		ClaimReason:       claimReason,
		ClaimReasonDetail: claimReasonDetail,
		Quantity:          quantity,
		RefundAmount:      refundAmount,
		Status:            ClaimStatusRequested,
		CreatedAt:         now.UTC(),
		UpdatedAt:         now.UTC(),
		domainEvents:      make([]DomainEvent, 0),
	}

	if claimType.RequiresReturn() {
		claim.ReturnShippingStatus = ReturnShippingPending
	}

	claim.addDomainEvent(NewClaimRequestedEvent(claim, now))

	return claim, nil
}

// ClaimState carries every persisted field of a claim for rehydration
type ClaimState struct {
	ID                      primitive.ObjectID   `bson:"_id,omitempty"`
	ClaimID                 string               `bson:"claimId"`
	ClaimNumber             string               `bson:"claimNumber"`
	OrderID                 string               `bson:"orderId"`
	OrderItemID             string               `bson:"orderItemId,omitempty"`
	ClaimType               ClaimType            `bson:"claimType"`
	ClaimReason             ClaimReason          `bson:"claimReason"`
	ClaimReasonDetail       string               `bson:"claimReasonDetail,omitempty"`
	Quantity                int                  `bson:"quantity"`
	RefundAmount            int64                `bson:"refundAmount"`
	Status                  ClaimStatus          `bson:"status"`
	ProcessedBy             string               `bson:"processedBy,omitempty"`
	ProcessedAt             *time.Time           `bson:"processedAt,omitempty"`
	RejectReason            string               `bson:"rejectReason,omitempty"`
	ReturnShippingMethod    ReturnShippingMethod `bson:"returnShippingMethod,omitempty"`
	ReturnShippingStatus    ReturnShippingStatus `bson:"returnShippingStatus,omitempty"`
	ReturnPickupScheduledAt *time.Time           `bson:"returnPickupScheduledAt,omitempty"`
	ReturnPickupAddress     string               `bson:"returnPickupAddress,omitempty"`
	ReturnCustomerPhone     string               `bson:"returnCustomerPhone,omitempty"`
	ReturnTrackingNumber    string               `bson:"returnTrackingNumber,omitempty"`
	ReturnCarrier           string               `bson:"returnCarrier,omitempty"`
	ReturnReceivedAt        *time.Time           `bson:"returnReceivedAt,omitempty"`
	InspectionResult        InspectionResult     `bson:"inspectionResult,omitempty"`
	InspectionNote          string               `bson:"inspectionNote,omitempty"`
	ExchangeTrackingNumber  string               `bson:"exchangeTrackingNumber,omitempty"`
	ExchangeCarrier         string               `bson:"exchangeCarrier,omitempty"`
	ExchangeShippedAt       *time.Time           `bson:"exchangeShippedAt,omitempty"`
	ExchangeDeliveredAt     *time.Time           `bson:"exchangeDeliveredAt,omitempty"`
	CreatedAt               time.Time            `bson:"createdAt"`
	UpdatedAt               time.Time            `bson:"updatedAt"`
}

// RehydrateClaim reconstructs a Claim from stored state. This is the trusted
// deserialization path: it checks shape only, skips business validation, and
// raises no domain events.
func RehydrateClaim(state ClaimState) (*Claim, error) {
	if state.ClaimID == "" {
		return nil, ErrMissingClaimID
	}
	if state.ClaimNumber == "" {
		return nil, ErrMissingClaimNumber
	}
	if state.OrderID == "" {
		return nil, ErrMissingOrderID
	}
	if !state.ClaimType.IsValid() {
		return nil, ErrInvalidClaimType
	}
	if !state.ClaimReason.IsValid() {
		return nil, ErrInvalidClaimReason
	}
	if !state.Status.IsValid() {
		return nil, ErrInvalidClaimStatus
	}
	if state.ReturnShippingStatus != "" && !state.ReturnShippingStatus.IsValid() {
		return nil, ErrInvalidShippingStatus
	}

	return &Claim{
		ID:                      state.ID,
		ClaimID:                 state.ClaimID,
		ClaimNumber:             state.ClaimNumber,
		OrderID:                 state.OrderID,
		OrderItemID:             state.OrderItemID,
		ClaimType:               state.ClaimType,
		ClaimReason:             state.ClaimReason,
		ClaimReasonDetail:       state.ClaimReasonDetail,
		Quantity:                state.Quantity,
		RefundAmount:            state.RefundAmount,
		Status:                  state.Status,
		ProcessedBy:             state.ProcessedBy,
		ProcessedAt:             state.ProcessedAt,
		RejectReason:            state.RejectReason,
		ReturnShippingMethod:    state.ReturnShippingMethod,
		ReturnShippingStatus:    state.ReturnShippingStatus,
		ReturnPickupScheduledAt: state.ReturnPickupScheduledAt,
		ReturnPickupAddress:     state.ReturnPickupAddress,
		ReturnCustomerPhone:     state.ReturnCustomerPhone,
		ReturnTrackingNumber:    state.ReturnTrackingNumber,
		ReturnCarrier:           state.ReturnCarrier,
		ReturnReceivedAt:        state.ReturnReceivedAt,
		InspectionResult:        state.InspectionResult,
		InspectionNote:          state.InspectionNote,
		ExchangeTrackingNumber:  state.ExchangeTrackingNumber,
		ExchangeCarrier:         state.ExchangeCarrier,
		ExchangeShippedAt:       state.ExchangeShippedAt,
		ExchangeDeliveredAt:     state.ExchangeDeliveredAt,
		CreatedAt:               state.CreatedAt,
		UpdatedAt:               state.UpdatedAt,
		domainEvents:            make([]DomainEvent, 0),
	}, nil
}

// IsNew returns true if the claim has not been persisted yet
func (c *Claim) IsNew() bool {
	return c.ID.IsZero()
}

// Approve approves the claim. Actor may be blank for system-initiated
// approvals.
func (c *Claim) Approve(actor string, now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if !c.Status.CanApprove() {
		return newStatusTransitionError("approve", c.Status)
	}

	at := now.UTC()
	c.Status = ClaimStatusApproved
	c.ProcessedBy = actor
	c.ProcessedAt = &at
	c.UpdatedAt = at
	c.addDomainEvent(NewClaimApprovedEvent(c, actor, now))

	return nil
}

// Reject rejects the claim with a reason
func (c *Claim) Reject(actor string, reason string, now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if strings.TrimSpace(actor) == "" {
		return ErrBlankActor
	}
	if strings.TrimSpace(reason) == "" {
		return ErrBlankRejectReason
	}
	if !c.Status.CanReject() {
		return newStatusTransitionError("reject", c.Status)
	}

	at := now.UTC()
	c.Status = ClaimStatusRejected
	c.ProcessedBy = actor
	c.ProcessedAt = &at
	c.RejectReason = reason
	c.UpdatedAt = at
	c.addDomainEvent(NewClaimRejectedEvent(c, actor, reason, now))

	return nil
}

// StartProcessing moves an approved claim into active processing
func (c *Claim) StartProcessing(now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if !c.Status.CanStartProcessing() {
		return newStatusTransitionError("start processing", c.Status)
	}

	c.Status = ClaimStatusInProgress
	c.UpdatedAt = now.UTC()
	c.addDomainEvent(NewClaimProcessingStartedEvent(c, now))

	return nil
}

// Complete resolves the claim as successfully processed
func (c *Claim) Complete(now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if !c.Status.CanComplete() {
		return newStatusTransitionError("complete", c.Status)
	}

	c.Status = ClaimStatusCompleted
	c.UpdatedAt = now.UTC()
	c.addDomainEvent(NewClaimCompletedEvent(c, now))

	return nil
}

// CancelByCustomer withdraws the claim at the customer's request
func (c *Claim) CancelByCustomer(now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if !c.Status.CanCancel() {
		return newStatusTransitionError("cancel", c.Status)
	}

	c.Status = ClaimStatusCancelled
	c.UpdatedAt = now.UTC()
	c.addDomainEvent(NewClaimCancelledEvent(c, now))

	return nil
}

// ScheduleReturnPickup books a seller pickup for the returned item and, when
// the lifecycle permits, advances the claim into IN_PROGRESS.
func (c *Claim) ScheduleReturnPickup(scheduledAt time.Time, address string, phone string, now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if !c.ClaimType.RequiresReturn() {
		return ErrReturnNotRequired
	}
	if !c.ReturnShippingStatus.CanSchedulePickup() {
		return newShippingWorkflowError("schedule return pickup",
			"return shipping status is "+string(c.ReturnShippingStatus))
	}
	if scheduledAt.IsZero() {
		return ErrMissingPickupSchedule
	}
	if scheduledAt.Before(now) {
		return ErrPickupInPast
	}
	if strings.TrimSpace(address) == "" {
		return ErrBlankPickupAddress
	}

	at := scheduledAt.UTC()
	c.ReturnShippingMethod = MethodSellerPickup
	c.ReturnShippingStatus = ReturnShippingPickupScheduled
	c.ReturnPickupScheduledAt = &at
	c.ReturnPickupAddress = address
	c.ReturnCustomerPhone = phone
	c.UpdatedAt = now.UTC()
	c.advanceToInProgress()
	c.addDomainEvent(NewReturnPickupScheduledEvent(c, now))

	return nil
}

// RegisterReturnShipping attaches carrier tracking to the return leg and, when
// the lifecycle permits, advances the claim into IN_PROGRESS.
func (c *Claim) RegisterReturnShipping(method ReturnShippingMethod, trackingNumber string, carrier string, now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if !c.ClaimType.RequiresReturn() {
		return ErrReturnNotRequired
	}
	if !c.ReturnShippingStatus.CanRegisterShipping() {
		return newShippingWorkflowError("register return shipping",
			"return shipping status is "+string(c.ReturnShippingStatus))
	}
	if !method.IsValid() {
		return ErrInvalidShippingMethod
	}
	if strings.TrimSpace(trackingNumber) == "" {
		return ErrBlankTrackingNumber
	}
	if strings.TrimSpace(carrier) == "" {
		return ErrBlankCarrier
	}

	c.ReturnShippingMethod = method
	c.ReturnShippingStatus = ReturnShippingInTransit
	c.ReturnTrackingNumber = trackingNumber
	c.ReturnCarrier = carrier
	c.UpdatedAt = now.UTC()
	c.advanceToInProgress()
	c.addDomainEvent(NewReturnShippingRegisteredEvent(c, now))

	return nil
}

// UpdateReturnShippingStatus overwrites the return shipping status from a
// carrier webhook. The carrier is the authority on parcel movement, so unlike
// every other transition this one carries no permission check.
// TODO: confirm with the claims team whether webhook regressions
// (e.g. RECEIVED back to IN_TRANSIT) should really be accepted.
func (c *Claim) UpdateReturnShippingStatus(newStatus ReturnShippingStatus, trackingNumber string, now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if !c.ClaimType.RequiresReturn() {
		return ErrReturnNotRequired
	}
	if !newStatus.IsValid() {
		return ErrInvalidShippingStatus
	}

	c.ReturnShippingStatus = newStatus
	if strings.TrimSpace(trackingNumber) != "" {
		c.ReturnTrackingNumber = trackingNumber
	}
	c.UpdatedAt = now.UTC()
	c.addDomainEvent(NewReturnShippingStatusUpdatedEvent(c, now))

	return nil
}

// ConfirmReturnReceived records warehouse receipt and inspection of the
// returned item, then applies the inspection-driven lifecycle effects:
// a passing RETURN completes immediately, a failed inspection rejects the
// claim, and PARTIAL leaves the lifecycle untouched pending a manual
// depreciation decision.
func (c *Claim) ConfirmReturnReceived(result InspectionResult, note string, now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if !c.ClaimType.RequiresReturn() {
		return ErrReturnNotRequired
	}
	if !c.ReturnShippingStatus.CanConfirmReceived() {
		return newShippingWorkflowError("confirm return received",
			"return shipping status is "+string(c.ReturnShippingStatus))
	}
	if !result.IsValid() {
		return ErrInvalidInspectionResult
	}

	at := now.UTC()
	c.ReturnShippingStatus = ReturnShippingReceived
	c.ReturnReceivedAt = &at
	c.InspectionResult = result
	c.InspectionNote = note
	c.UpdatedAt = at

	switch result {
	case InspectionPass:
		if c.ClaimType == ClaimTypeReturn && c.Status.CanComplete() {
			c.Status = ClaimStatusCompleted
		}
	case InspectionFail:
		if c.Status != ClaimStatusRejected {
			c.Status = ClaimStatusRejected
			c.RejectReason = failedInspectionReason(note)
		}
	}

	c.addDomainEvent(NewReturnReceivedEvent(c, now))

	return nil
}

// failedInspectionReason synthesizes the customer-facing reject reason for a
// failed inspection. The prefix is fixed copy owned by the CS team.
func failedInspectionReason(note string) string {
	if strings.TrimSpace(note) == "" {
		return "검수 불합격"
	}
	return "검수 불합격: " + note
}

// RegisterExchangeShipping ships the replacement item for an exchange claim.
// Only valid once the return came back and passed inspection (PARTIAL counts).
func (c *Claim) RegisterExchangeShipping(trackingNumber string, carrier string, now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if c.ClaimType != ClaimTypeExchange {
		return ErrExchangeNotApplicable
	}
	if c.ReturnShippingStatus != ReturnShippingReceived {
		return newShippingWorkflowError("register exchange shipping", "return has not been received")
	}
	if !c.InspectionResult.IsRefundable() {
		return newShippingWorkflowError("register exchange shipping", "inspection did not pass")
	}
	if strings.TrimSpace(trackingNumber) == "" {
		return ErrBlankTrackingNumber
	}
	if strings.TrimSpace(carrier) == "" {
		return ErrBlankCarrier
	}

	at := now.UTC()
	c.ExchangeTrackingNumber = trackingNumber
	c.ExchangeCarrier = carrier
	c.ExchangeShippedAt = &at
	c.UpdatedAt = at
	c.addDomainEvent(NewExchangeShippingRegisteredEvent(c, now))

	return nil
}

// ConfirmExchangeDelivered records redelivery of the replacement item and,
// when the lifecycle permits, completes the claim.
func (c *Claim) ConfirmExchangeDelivered(now time.Time) error {
	if now.IsZero() {
		return ErrMissingTimestamp
	}
	if c.ClaimType != ClaimTypeExchange {
		return ErrExchangeNotApplicable
	}
	if c.ExchangeShippedAt == nil {
		return newShippingWorkflowError("confirm exchange delivered", "exchange has not been shipped")
	}

	at := now.UTC()
	c.ExchangeDeliveredAt = &at
	c.UpdatedAt = at
	if c.Status.CanComplete() {
		c.Status = ClaimStatusCompleted
	}
	c.addDomainEvent(NewExchangeDeliveredEvent(c, now))

	return nil
}

// advanceToInProgress moves the claim to IN_PROGRESS when the lifecycle
// permits. The logistics sub-workflow never forces the outer status, so a
// webhook arriving after cancellation cannot resurrect a resolved claim.
func (c *Claim) advanceToInProgress() {
	if c.Status.CanStartProcessing() {
		c.Status = ClaimStatusInProgress
	}
}

// HasReturnShipping returns true if the claim carries the return sub-workflow
func (c *Claim) HasReturnShipping() bool {
	return c.ReturnShippingStatus != ""
}

// State snapshots every persisted field, symmetric with RehydrateClaim
func (c *Claim) State() ClaimState {
	return ClaimState{
		ID:                      c.ID,
		ClaimID:                 c.ClaimID,
		ClaimNumber:             c.ClaimNumber,
		OrderID:                 c.OrderID,
		OrderItemID:             c.OrderItemID,
		ClaimType:               c.ClaimType,
		ClaimReason:             c.ClaimReason,
		ClaimReasonDetail:       c.ClaimReasonDetail,
		Quantity:                c.Quantity,
		RefundAmount:            c.RefundAmount,
		Status:                  c.Status,
		ProcessedBy:             c.ProcessedBy,
		ProcessedAt:             c.ProcessedAt,
		RejectReason:            c.RejectReason,
		ReturnShippingMethod:    c.ReturnShippingMethod,
		ReturnShippingStatus:    c.ReturnShippingStatus,
		ReturnPickupScheduledAt: c.ReturnPickupScheduledAt,
		ReturnPickupAddress:     c.ReturnPickupAddress,
		ReturnCustomerPhone:     c.ReturnCustomerPhone,
		ReturnTrackingNumber:    c.ReturnTrackingNumber,
		ReturnCarrier:           c.ReturnCarrier,
		ReturnReceivedAt:        c.ReturnReceivedAt,
		InspectionResult:        c.InspectionResult,
		InspectionNote:          c.InspectionNote,
		ExchangeTrackingNumber:  c.ExchangeTrackingNumber,
		ExchangeCarrier:         c.ExchangeCarrier,
		ExchangeShippedAt:       c.ExchangeShippedAt,
		ExchangeDeliveredAt:     c.ExchangeDeliveredAt,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

// addDomainEvent adds a domain event to the claim
func (c *Claim) addDomainEvent(event DomainEvent) {
	c.domainEvents = append(c.domainEvents, event)
}

// DomainEvents returns all pending domain events
func (c *Claim) DomainEvents() []DomainEvent {
	return c.domainEvents
}

// ClearDomainEvents clears all pending domain events
func (c *Claim) ClearDomainEvents() {
	c.domainEvents = make([]DomainEvent, 0)
}
