package cloudevents

import (
	"time"
)

// EventType constants for claim domain events
const (
	// Claim lifecycle events
	ClaimRequested         = "oms.claim.requested"
	ClaimApproved          = "oms.claim.approved"
	ClaimRejected          = "oms.claim.rejected"
	ClaimProcessingStarted = "oms.claim.processing-started"
	ClaimCompleted         = "oms.claim.completed"
	ClaimCancelled         = "oms.claim.cancelled"

	// Return logistics events
	ReturnPickupScheduled       = "oms.claim.return-pickup-scheduled"
	ReturnShippingRegistered    = "oms.claim.return-shipping-registered"
	ReturnShippingStatusUpdated = "oms.claim.return-shipping-status-updated"
	ReturnReceived              = "oms.claim.return-received"

	// Exchange events
	ExchangeShippingRegistered = "oms.claim.exchange-shipping-registered"
	ExchangeDelivered          = "oms.claim.exchange-delivered"

	// Inbound events consumed from other systems
	CarrierTrackingUpdated = "oms.carrier.tracking-updated"
)

// Source constants for event sources
const (
	SourceClaimService = "/oms/claim-service"
	SourceOrderService = "/oms/order-service"
)

// ClaimCloudEvent represents a CloudEvents v1.0 compliant event for claim processing
type ClaimCloudEvent struct {
	SpecVersion     string                 `json:"specversion"`
	Type            string                 `json:"type"`
	Source          string                 `json:"source"`
	Subject         string                 `json:"subject,omitempty"`
	ID              string                 `json:"id"`
	Time            time.Time              `json:"time"`
	DataContentType string                 `json:"datacontenttype"`
	Data            interface{}            `json:"data"`
	Extensions      map[string]interface{} `json:"-"`

	// OMS-specific extensions
	CorrelationID string `json:"omscorrelationid,omitempty"`
	OrderID       string `json:"omsorderid,omitempty"`
	ClaimID       string `json:"omsclaimid,omitempty"`
	SellerID      string `json:"omssellerid,omitempty"`
	ChannelID     string `json:"omschannelid,omitempty"`

	// W3C Trace Context extensions
	TraceParent string `json:"traceparent,omitempty"`
	TraceState  string `json:"tracestate,omitempty"`
}

// ClaimRequestedData represents the data payload for ClaimRequested events
type ClaimRequestedData struct {
	ClaimID      string `json:"claimId"`
	ClaimNumber  string `json:"claimNumber"`
	OrderID      string `json:"orderId"`
	OrderItemID  string `json:"orderItemId"`
	ClaimType    string `json:"claimType"`
	ClaimReason  string `json:"claimReason"`
	Quantity     int    `json:"quantity"`
	RefundAmount int64  `json:"refundAmount,omitempty"`
}

// ClaimStatusChangedData represents the payload for lifecycle transition events
type ClaimStatusChangedData struct {
	ClaimID     string `json:"claimId"`
	ClaimNumber string `json:"claimNumber"`
	OrderID     string `json:"orderId"`
	ClaimType   string `json:"claimType"`
	Status      string `json:"status"`
	Actor       string `json:"actor,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// ReturnShippingData represents the payload for return logistics events
type ReturnShippingData struct {
	ClaimID        string     `json:"claimId"`
	OrderID        string     `json:"orderId"`
	ShippingStatus string     `json:"shippingStatus"`
	ShippingMethod string     `json:"shippingMethod,omitempty"`
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	Carrier        string     `json:"carrier,omitempty"`
	PickupDate     *time.Time `json:"pickupDate,omitempty"`
}

// ReturnReceivedData represents the payload for ReturnReceived events
type ReturnReceivedData struct {
	ClaimID          string `json:"claimId"`
	OrderID          string `json:"orderId"`
	InspectionResult string `json:"inspectionResult"`
	InspectionNote   string `json:"inspectionNote,omitempty"`
	ClaimStatus      string `json:"claimStatus"`
}

// ExchangeShippingData represents the payload for exchange shipment events
type ExchangeShippingData struct {
	ClaimID        string `json:"claimId"`
	OrderID        string `json:"orderId"`
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier"`
}

// CarrierTrackingData represents the payload of inbound carrier tracking events
type CarrierTrackingData struct {
	ClaimID        string `json:"claimId"`
	TrackingNumber string `json:"trackingNumber"`
	Carrier        string `json:"carrier,omitempty"`
	Status         string `json:"status"`
}
