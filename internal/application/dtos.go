package application

import "time"

// ClaimDTO represents a claim in application layer responses
type ClaimDTO struct {
	ClaimID           string     `json:"claimId"`
	ClaimNumber       string     `json:"claimNumber"`
	OrderID           string     `json:"orderId"`
	OrderItemID       string     `json:"orderItemId,omitempty"`
	ClaimType         string     `json:"claimType"`
	ClaimReason       string     `json:"claimReason"`
	ClaimReasonDetail string     `json:"claimReasonDetail,omitempty"`
	Quantity          int        `json:"quantity"`
	RefundAmount      int64      `json:"refundAmount"`
	Status            string     `json:"status"`
	ProcessedBy       string     `json:"processedBy,omitempty"`
	ProcessedAt       *time.Time `json:"processedAt,omitempty"`
	RejectReason      string     `json:"rejectReason,omitempty"`

	ReturnShipping *ReturnShippingDTO `json:"returnShipping,omitempty"`
	Exchange       *ExchangeDTO       `json:"exchange,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ReturnShippingDTO represents the return-logistics block of a claim
type ReturnShippingDTO struct {
	Method            string     `json:"method,omitempty"`
	Status            string     `json:"status"`
	PickupScheduledAt *time.Time `json:"pickupScheduledAt,omitempty"`
	PickupAddress     string     `json:"pickupAddress,omitempty"`
	CustomerPhone     string     `json:"customerPhone,omitempty"`
	TrackingNumber    string     `json:"trackingNumber,omitempty"`
	Carrier           string     `json:"carrier,omitempty"`
	ReceivedAt        *time.Time `json:"receivedAt,omitempty"`
	InspectionResult  string     `json:"inspectionResult,omitempty"`
	InspectionNote    string     `json:"inspectionNote,omitempty"`
}

// ExchangeDTO represents the redelivery leg of an exchange claim
type ExchangeDTO struct {
	TrackingNumber string     `json:"trackingNumber,omitempty"`
	Carrier        string     `json:"carrier,omitempty"`
	ShippedAt      *time.Time `json:"shippedAt,omitempty"`
	DeliveredAt    *time.Time `json:"deliveredAt,omitempty"`
}

// ClaimListDTO represents a simplified claim for list operations
type ClaimListDTO struct {
	ClaimID              string    `json:"claimId"`
	ClaimNumber          string    `json:"claimNumber"`
	OrderID              string    `json:"orderId"`
	ClaimType            string    `json:"claimType"`
	ClaimReason          string    `json:"claimReason"`
	Status               string    `json:"status"`
	ReturnShippingStatus string    `json:"returnShippingStatus,omitempty"`
	RefundAmount         int64     `json:"refundAmount"`
	CreatedAt            time.Time `json:"createdAt"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// PagedClaimsResult represents a paginated list of claims
type PagedClaimsResult struct {
	Data       []ClaimListDTO `json:"data"`
	Page       int64          `json:"page"`
	PageSize   int64          `json:"pageSize"`
	TotalItems int64          `json:"totalItems"`
	TotalPages int64          `json:"totalPages"`
}
