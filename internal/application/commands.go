package application

import (
	"time"

	"github.com/oms-platform/claim-service/internal/domain"
)

// RequestClaimCommand represents the command to file a new claim
type RequestClaimCommand struct {
	OrderID           string
	OrderItemID       string
	ClaimType         string
	ClaimReason       string
	ClaimReasonDetail string
	Quantity          int
	RefundAmount      int64
}

// ToDomainClaimType converts the string claim type to domain.ClaimType
func (c *RequestClaimCommand) ToDomainClaimType() domain.ClaimType {
	return domain.ClaimType(c.ClaimType)
}

// ToDomainClaimReason converts the string claim reason to domain.ClaimReason
func (c *RequestClaimCommand) ToDomainClaimReason() domain.ClaimReason {
	return domain.ClaimReason(c.ClaimReason)
}

// ApproveClaimCommand represents the command to approve a claim.
// Actor is blank for system-initiated approvals.
type ApproveClaimCommand struct {
	ClaimID string
	Actor   string
}

// RejectClaimCommand represents the command to reject a claim
type RejectClaimCommand struct {
	ClaimID string
	Actor   string
	Reason  string
}

// StartProcessingCommand represents the command to begin claim processing
type StartProcessingCommand struct {
	ClaimID string
}

// CompleteClaimCommand represents the command to resolve a claim
type CompleteClaimCommand struct {
	ClaimID string
}

// CancelClaimCommand represents the customer's withdrawal of a claim
type CancelClaimCommand struct {
	ClaimID string
}

// ScheduleReturnPickupCommand represents the command to book a seller pickup
type ScheduleReturnPickupCommand struct {
	ClaimID     string
	ScheduledAt time.Time
	Address     string
	Phone       string
}

// RegisterReturnShippingCommand represents the command to attach return tracking
type RegisterReturnShippingCommand struct {
	ClaimID        string
	Method         string
	TrackingNumber string
	Carrier        string
}

// UpdateReturnShippingCommand carries a carrier webhook status update
type UpdateReturnShippingCommand struct {
	ClaimID        string
	Status         string
	TrackingNumber string
}

// ConfirmReturnReceivedCommand represents warehouse receipt and inspection
type ConfirmReturnReceivedCommand struct {
	ClaimID string
	Result  string
	Note    string
}

// RegisterExchangeShippingCommand represents the exchange redelivery leg
type RegisterExchangeShippingCommand struct {
	ClaimID        string
	TrackingNumber string
	Carrier        string
}

// ConfirmExchangeDeliveredCommand confirms redelivery of the replacement item
type ConfirmExchangeDeliveredCommand struct {
	ClaimID string
}

// GetClaimQuery represents the query to get a single claim
type GetClaimQuery struct {
	ClaimID string
}

// GetClaimByNumberQuery represents the lookup by human-readable claim number
type GetClaimByNumberQuery struct {
	ClaimNumber string
}

// ListClaimsByOrderQuery represents the query for all claims against one order
type ListClaimsByOrderQuery struct {
	OrderID  string
	Page     int64
	PageSize int64
}

// ToDomainPagination converts the query paging to domain.Pagination
func (q *ListClaimsByOrderQuery) ToDomainPagination() domain.Pagination {
	pagination := domain.DefaultPagination()
	if q.Page > 0 {
		pagination.Page = q.Page
	}
	if q.PageSize > 0 && q.PageSize <= 100 {
		pagination.PageSize = q.PageSize
	}
	return pagination
}

// ListClaimsQuery represents the query to list claims with filters and pagination
type ListClaimsQuery struct {
	OrderID   *string
	Status    *string
	ClaimType *string
	Reason    *string
	FromDate  *time.Time
	ToDate    *time.Time

	Page     int64
	PageSize int64
}

// ToDomainFilter converts the query filters to a domain.ClaimFilter
func (q *ListClaimsQuery) ToDomainFilter() domain.ClaimFilter {
	filter := domain.ClaimFilter{
		OrderID:  q.OrderID,
		FromDate: q.FromDate,
		ToDate:   q.ToDate,
	}
	if q.Status != nil {
		status := domain.ClaimStatus(*q.Status)
		filter.Status = &status
	}
	if q.ClaimType != nil {
		claimType := domain.ClaimType(*q.ClaimType)
		filter.ClaimType = &claimType
	}
	if q.Reason != nil {
		reason := domain.ClaimReason(*q.Reason)
		filter.Reason = &reason
	}
	return filter
}

// ToDomainPagination converts the query paging to domain.Pagination
func (q *ListClaimsQuery) ToDomainPagination() domain.Pagination {
	pagination := domain.DefaultPagination()
	if q.Page > 0 {
		pagination.Page = q.Page
	}
	if q.PageSize > 0 && q.PageSize <= 100 {
		pagination.PageSize = q.PageSize
	}
	return pagination
}
