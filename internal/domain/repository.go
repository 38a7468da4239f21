package domain

import (
	"context"
	"time"
)

// ClaimRepository defines the interface for claim persistence
type ClaimRepository interface {
	// Save persists a claim (upsert)
	Save(ctx context.Context, claim *Claim) error

	// FindByID retrieves a claim by its ClaimID
	FindByID(ctx context.Context, claimID string) (*Claim, error)

	// FindByClaimNumber retrieves a claim by its human-readable number
	FindByClaimNumber(ctx context.Context, claimNumber string) (*Claim, error)

	// FindByOrderID retrieves all claims filed against an order
	FindByOrderID(ctx context.Context, orderID string, pagination Pagination) ([]*Claim, error)

	// FindByFilter retrieves claims matching the filter
	FindByFilter(ctx context.Context, filter ClaimFilter, pagination Pagination) ([]*Claim, error)

	// Count returns the total number of claims matching the filter
	Count(ctx context.Context, filter ClaimFilter) (int64, error)
}

// Pagination represents pagination options
type Pagination struct {
	Page     int64
	PageSize int64
}

// DefaultPagination returns default pagination options
func DefaultPagination() Pagination {
	return Pagination{
		Page:     1,
		PageSize: 20,
	}
}

// Skip returns the number of documents to skip
func (p Pagination) Skip() int64 {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the maximum number of documents to return
func (p Pagination) Limit() int64 {
	return p.PageSize
}

// ClaimFilter represents filter options for querying claims.
// Date bounds apply to CreatedAt, inclusive from and exclusive to.
type ClaimFilter struct {
	OrderID   *string
	Status    *ClaimStatus
	ClaimType *ClaimType
	Reason    *ClaimReason
	FromDate  *time.Time
	ToDate    *time.Time
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish publishes a domain event
	Publish(ctx context.Context, event DomainEvent) error

	// PublishAll publishes multiple domain events
	PublishAll(ctx context.Context, events []DomainEvent) error
}
