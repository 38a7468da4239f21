package application

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/oms-platform/claim-service/internal/domain"
	"github.com/oms-platform/claim-service/pkg/errors"
	"github.com/oms-platform/claim-service/pkg/logging"
	"github.com/oms-platform/claim-service/pkg/middleware"
)

// ClaimApplicationService handles claim-related use cases. The domain never
// reads the clock, so every use case stamps the current instant exactly once
// here and passes it down.
type ClaimApplicationService struct {
	claimRepo       domain.ClaimRepository
	logger          *logging.Logger
	businessMetrics *middleware.BusinessMetrics
}

// NewClaimApplicationService creates a new ClaimApplicationService
func NewClaimApplicationService(
	claimRepo domain.ClaimRepository,
	logger *logging.Logger,
	businessMetrics *middleware.BusinessMetrics,
) *ClaimApplicationService {
	return &ClaimApplicationService{
		claimRepo:       claimRepo,
		logger:          logger,
		businessMetrics: businessMetrics,
	}
}

// RequestClaim files a new claim against an order
func (s *ClaimApplicationService) RequestClaim(ctx context.Context, cmd RequestClaimCommand) (*ClaimDTO, error) {
	now := time.Now().UTC()
	claimID := domain.NewClaimID()
	claimNumber := domain.NewClaimNumber(now)

	claim, err := domain.NewClaim(
		claimID,
		claimNumber,
		cmd.OrderID,
		cmd.OrderItemID,
		cmd.ToDomainClaimType(),
		cmd.ToDomainClaimReason(),
		cmd.ClaimReasonDetail,
		cmd.Quantity,
		cmd.RefundAmount,
		now,
	)
	if err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.claimRepo.Save(ctx, claim); err != nil {
		s.logger.WithError(err).Error("Failed to save claim", "claimId", claimID)
		return nil, fmt.Errorf("failed to save claim: %w", err)
	}

	s.businessMetrics.RecordClaimCreated(cmd.ClaimType, cmd.ClaimReason)

	// Events are saved to outbox by repository in transaction

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.requested",
		EntityType: "claim",
		EntityID:   claimID,
		Action:     "created",
		RelatedIDs: map[string]string{
			"orderId":   cmd.OrderID,
			"claimType": cmd.ClaimType,
		},
	})

	return ToClaimDTO(claim), nil
}

// GetClaim retrieves a claim by ID
func (s *ClaimApplicationService) GetClaim(ctx context.Context, query GetClaimQuery) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, query.ClaimID)
	if err != nil {
		return nil, err
	}
	return ToClaimDTO(claim), nil
}

// GetClaimByNumber retrieves a claim by its human-readable number
func (s *ClaimApplicationService) GetClaimByNumber(ctx context.Context, query GetClaimByNumberQuery) (*ClaimDTO, error) {
	claim, err := s.claimRepo.FindByClaimNumber(ctx, query.ClaimNumber)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get claim", "claimNumber", query.ClaimNumber)
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	if claim == nil {
		return nil, errors.ErrNotFoundWithID("claim", query.ClaimNumber)
	}
	return ToClaimDTO(claim), nil
}

// ListClaims lists claims with filters and pagination
func (s *ClaimApplicationService) ListClaims(ctx context.Context, query ListClaimsQuery) (*PagedClaimsResult, error) {
	filter := query.ToDomainFilter()
	pagination := query.ToDomainPagination()

	total, err := s.claimRepo.Count(ctx, filter)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count claims")
		return nil, fmt.Errorf("failed to count claims: %w", err)
	}

	claims, err := s.claimRepo.FindByFilter(ctx, filter, pagination)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list claims")
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}

	totalPages := (total + pagination.PageSize - 1) / pagination.PageSize

	return &PagedClaimsResult{
		Data:       ToClaimListDTOs(claims),
		Page:       pagination.Page,
		PageSize:   pagination.PageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}, nil
}

// ListClaimsByOrder lists every claim filed against a single order
func (s *ClaimApplicationService) ListClaimsByOrder(ctx context.Context, query ListClaimsByOrderQuery) ([]ClaimListDTO, error) {
	claims, err := s.claimRepo.FindByOrderID(ctx, query.OrderID, query.ToDomainPagination())
	if err != nil {
		s.logger.WithError(err).Error("Failed to list claims", "orderId", query.OrderID)
		return nil, fmt.Errorf("failed to list claims by order: %w", err)
	}
	return ToClaimListDTOs(claims), nil
}

// ApproveClaim approves a requested claim
func (s *ClaimApplicationService) ApproveClaim(ctx context.Context, cmd ApproveClaimCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	if err := claim.Approve(cmd.Actor, time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.approved",
		EntityType: "claim",
		EntityID:   cmd.ClaimID,
		Action:     "approved",
		RelatedIDs: map[string]string{
			"actor": cmd.Actor,
		},
	})

	return ToClaimDTO(claim), nil
}

// RejectClaim rejects a requested claim with a reason
func (s *ClaimApplicationService) RejectClaim(ctx context.Context, cmd RejectClaimCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	if err := claim.Reject(cmd.Actor, cmd.Reason, time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	s.businessMetrics.RecordClaimResolved(string(claim.Status))

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.rejected",
		EntityType: "claim",
		EntityID:   cmd.ClaimID,
		Action:     "rejected",
		RelatedIDs: map[string]string{
			"actor":  cmd.Actor,
			"reason": cmd.Reason,
		},
	})

	return ToClaimDTO(claim), nil
}

// StartProcessing moves an approved claim into active processing
func (s *ClaimApplicationService) StartProcessing(ctx context.Context, cmd StartProcessingCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	if err := claim.StartProcessing(time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.processing_started",
		EntityType: "claim",
		EntityID:   cmd.ClaimID,
		Action:     "processing_started",
	})

	return ToClaimDTO(claim), nil
}

// CompleteClaim resolves a claim as successfully processed
func (s *ClaimApplicationService) CompleteClaim(ctx context.Context, cmd CompleteClaimCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	if err := claim.Complete(time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	s.businessMetrics.RecordClaimResolved(string(claim.Status))
	if claim.ClaimType.RequiresRefund() {
		s.businessMetrics.RecordRefundAmount(string(claim.ClaimType), claim.RefundAmount)
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.completed",
		EntityType: "claim",
		EntityID:   cmd.ClaimID,
		Action:     "completed",
	})

	return ToClaimDTO(claim), nil
}

// CancelClaim withdraws a claim at the customer's request
func (s *ClaimApplicationService) CancelClaim(ctx context.Context, cmd CancelClaimCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	if err := claim.CancelByCustomer(time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	s.businessMetrics.RecordClaimResolved(string(claim.Status))

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.cancelled",
		EntityType: "claim",
		EntityID:   cmd.ClaimID,
		Action:     "cancelled",
	})

	return ToClaimDTO(claim), nil
}

// ScheduleReturnPickup books a seller pickup for the return leg
func (s *ClaimApplicationService) ScheduleReturnPickup(ctx context.Context, cmd ScheduleReturnPickupCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	if err := claim.ScheduleReturnPickup(cmd.ScheduledAt, cmd.Address, cmd.Phone, time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.return_pickup_scheduled",
		EntityType: "claim",
		EntityID:   cmd.ClaimID,
		Action:     "return_pickup_scheduled",
	})

	return ToClaimDTO(claim), nil
}

// RegisterReturnShipping attaches carrier tracking to the return leg
func (s *ClaimApplicationService) RegisterReturnShipping(ctx context.Context, cmd RegisterReturnShippingCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	method := domain.ReturnShippingMethod(cmd.Method)
	if err := claim.RegisterReturnShipping(method, cmd.TrackingNumber, cmd.Carrier, time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.return_shipping_registered",
		EntityType: "claim",
		EntityID:   cmd.ClaimID,
		Action:     "return_shipping_registered",
		RelatedIDs: map[string]string{
			"trackingNumber": cmd.TrackingNumber,
			"carrier":        cmd.Carrier,
		},
	})

	return ToClaimDTO(claim), nil
}

// UpdateReturnShipping applies a carrier webhook status update
func (s *ClaimApplicationService) UpdateReturnShipping(ctx context.Context, cmd UpdateReturnShippingCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	status := domain.ReturnShippingStatus(cmd.Status)
	if err := claim.UpdateReturnShippingStatus(status, cmd.TrackingNumber, time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	return ToClaimDTO(claim), nil
}

// ConfirmReturnReceived records warehouse receipt and inspection
func (s *ClaimApplicationService) ConfirmReturnReceived(ctx context.Context, cmd ConfirmReturnReceivedCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	result := domain.InspectionResult(cmd.Result)
	if err := claim.ConfirmReturnReceived(result, cmd.Note, time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	s.businessMetrics.RecordReturnReceived(cmd.Result)
	if claim.Status.IsTerminal() {
		s.businessMetrics.RecordClaimResolved(string(claim.Status))
	}
	if claim.Status == domain.ClaimStatusCompleted && claim.ClaimType.RequiresRefund() {
		s.businessMetrics.RecordRefundAmount(string(claim.ClaimType), claim.RefundAmount)
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.return_received",
		EntityType: "claim",
		EntityID:   cmd.ClaimID,
		Action:     "return_received",
		RelatedIDs: map[string]string{
			"inspectionResult": cmd.Result,
		},
	})

	return ToClaimDTO(claim), nil
}

// RegisterExchangeShipping ships the replacement item for an exchange claim
func (s *ClaimApplicationService) RegisterExchangeShipping(ctx context.Context, cmd RegisterExchangeShippingCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	if err := claim.RegisterExchangeShipping(cmd.TrackingNumber, cmd.Carrier, time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.exchange_shipped",
		EntityType: "claim",
		EntityID:   cmd.ClaimID,
		Action:     "exchange_shipped",
		RelatedIDs: map[string]string{
			"trackingNumber": cmd.TrackingNumber,
		},
	})

	return ToClaimDTO(claim), nil
}

// ConfirmExchangeDelivered confirms redelivery of the replacement item
func (s *ClaimApplicationService) ConfirmExchangeDelivered(ctx context.Context, cmd ConfirmExchangeDeliveredCommand) (*ClaimDTO, error) {
	claim, err := s.loadClaim(ctx, cmd.ClaimID)
	if err != nil {
		return nil, err
	}

	if err := claim.ConfirmExchangeDelivered(time.Now().UTC()); err != nil {
		return nil, mapClaimError(err)
	}

	if err := s.saveClaim(ctx, claim); err != nil {
		return nil, err
	}

	if claim.Status.IsTerminal() {
		s.businessMetrics.RecordClaimResolved(string(claim.Status))
	}

	s.logger.LogBusinessEvent(ctx, logging.BusinessEvent{
		EventType:  "claim.exchange_delivered",
		EntityType: "claim",
		EntityID:   cmd.ClaimID,
		Action:     "exchange_delivered",
	})

	return ToClaimDTO(claim), nil
}

// loadClaim fetches a claim or returns a not-found AppError
func (s *ClaimApplicationService) loadClaim(ctx context.Context, claimID string) (*domain.Claim, error) {
	claim, err := s.claimRepo.FindByID(ctx, claimID)
	if err != nil {
		s.logger.WithError(err).Error("Failed to get claim", "claimId", claimID)
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	if claim == nil {
		return nil, errors.ErrNotFoundWithID("claim", claimID)
	}
	return claim, nil
}

// saveClaim persists the claim; events go to the outbox in the same transaction
func (s *ClaimApplicationService) saveClaim(ctx context.Context, claim *domain.Claim) error {
	if err := s.claimRepo.Save(ctx, claim); err != nil {
		s.logger.WithError(err).Error("Failed to save claim", "claimId", claim.ClaimID)
		return fmt.Errorf("failed to save claim: %w", err)
	}
	return nil
}

// mapClaimError translates the domain's typed failures to transport-facing
// AppErrors: validation to 400, transition and workflow conflicts to 409.
func mapClaimError(err error) error {
	var validationErr *domain.ValidationError
	if stderrors.As(err, &validationErr) {
		return errors.ErrValidation(err.Error()).
			WithDetail("field", validationErr.Field).
			Wrap(err)
	}

	var transitionErr *domain.StatusTransitionError
	if stderrors.As(err, &transitionErr) {
		return errors.ErrConflict(err.Error()).
			WithDetail("currentStatus", string(transitionErr.Current)).
			Wrap(err)
	}

	var workflowErr *domain.ShippingWorkflowError
	if stderrors.As(err, &workflowErr) {
		return errors.ErrConflict(err.Error()).Wrap(err)
	}

	return errors.ErrInternal("").Wrap(err)
}
