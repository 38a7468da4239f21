package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/oms-platform/claim-service/internal/domain"
	sharedErrors "github.com/oms-platform/claim-service/pkg/errors"
	"github.com/oms-platform/claim-service/pkg/logging"
	"github.com/oms-platform/claim-service/pkg/metrics"
	"github.com/oms-platform/claim-service/pkg/middleware"
)

// MockClaimRepository is an in-memory implementation of ClaimRepository for testing
type MockClaimRepository struct {
	claims  map[string]*domain.Claim
	saveErr error
	findErr error
}

func NewMockClaimRepository() *MockClaimRepository {
	return &MockClaimRepository{
		claims: make(map[string]*domain.Claim),
	}
}

func (m *MockClaimRepository) Save(ctx context.Context, claim *domain.Claim) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.claims[claim.ClaimID] = claim
	claim.ClearDomainEvents()
	return nil
}

func (m *MockClaimRepository) FindByID(ctx context.Context, claimID string) (*domain.Claim, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.claims[claimID], nil
}

func (m *MockClaimRepository) FindByClaimNumber(ctx context.Context, claimNumber string) (*domain.Claim, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, claim := range m.claims {
		if claim.ClaimNumber == claimNumber {
			return claim, nil
		}
	}
	return nil, nil
}

func (m *MockClaimRepository) FindByOrderID(ctx context.Context, orderID string, pagination domain.Pagination) ([]*domain.Claim, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var result []*domain.Claim
	for _, claim := range m.claims {
		if claim.OrderID == orderID {
			result = append(result, claim)
		}
	}
	return result, nil
}

func (m *MockClaimRepository) FindByFilter(ctx context.Context, filter domain.ClaimFilter, pagination domain.Pagination) ([]*domain.Claim, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	var result []*domain.Claim
	for _, claim := range m.claims {
		if filter.OrderID != nil && claim.OrderID != *filter.OrderID {
			continue
		}
		if filter.Status != nil && claim.Status != *filter.Status {
			continue
		}
		if filter.ClaimType != nil && claim.ClaimType != *filter.ClaimType {
			continue
		}
		result = append(result, claim)
	}
	return result, nil
}

func (m *MockClaimRepository) Count(ctx context.Context, filter domain.ClaimFilter) (int64, error) {
	if m.findErr != nil {
		return 0, m.findErr
	}
	claims, _ := m.FindByFilter(ctx, filter, domain.DefaultPagination())
	return int64(len(claims)), nil
}

func (m *MockClaimRepository) SetSaveError(err error) {
	m.saveErr = err
}

func (m *MockClaimRepository) SetFindError(err error) {
	m.findErr = err
}

// AddClaim adds a claim directly to the mock (for test setup)
func (m *MockClaimRepository) AddClaim(claim *domain.Claim) {
	claim.ClearDomainEvents()
	m.claims[claim.ClaimID] = claim
}

// createTestService creates a service with a mock repository for testing
func createTestService() (*ClaimApplicationService, *MockClaimRepository) {
	service, repo, _ := createTestServiceWithMetrics()
	return service, repo
}

// createTestServiceWithMetrics additionally exposes the metrics registry for
// asserting on recorded business metrics
func createTestServiceWithMetrics() (*ClaimApplicationService, *MockClaimRepository, *metrics.Metrics) {
	repo := NewMockClaimRepository()
	logger := logging.New(logging.DefaultConfig("test"))
	m := metrics.New(metrics.DefaultConfig("test"))
	service := NewClaimApplicationService(repo, logger, middleware.NewBusinessMetrics(m))
	return service, repo, m
}

// newReturnClaim builds a RETURN claim in REQUESTED status for test setup
func newReturnClaim(t *testing.T) *domain.Claim {
	t.Helper()
	now := time.Now().UTC()
	claim, err := domain.NewClaim(
		domain.NewClaimID(),
		domain.NewClaimNumber(now),
		"ORD-1001",
		"ITEM-1",
		domain.ClaimTypeReturn,
		domain.ReasonDefectiveProduct,
		"screen cracked on arrival",
		1,
		25000,
		now,
	)
	if err != nil {
		t.Fatalf("NewClaim() error = %v", err)
	}
	return claim
}

func TestClaimApplicationService_RequestClaim(t *testing.T) {
	t.Run("files claim successfully", func(t *testing.T) {
		service, repo := createTestService()
		ctx := context.Background()

		cmd := RequestClaimCommand{
			OrderID:      "ORD-1001",
			OrderItemID:  "ITEM-1",
			ClaimType:    "RETURN",
			ClaimReason:  "DEFECTIVE_PRODUCT",
			Quantity:     1,
			RefundAmount: 25000,
		}

		dto, err := service.RequestClaim(ctx, cmd)

		if err != nil {
			t.Fatalf("RequestClaim() error = %v", err)
		}
		if dto.OrderID != "ORD-1001" {
			t.Errorf("OrderID = %v, want ORD-1001", dto.OrderID)
		}
		if dto.Status != string(domain.ClaimStatusRequested) {
			t.Errorf("Status = %v, want REQUESTED", dto.Status)
		}
		if dto.ClaimID == "" || dto.ClaimNumber == "" {
			t.Errorf("identifiers not assigned: %+v", dto)
		}
		if len(repo.claims) != 1 {
			t.Errorf("claims stored = %d, want 1", len(repo.claims))
		}
	})

	t.Run("returns validation error for invalid claim type", func(t *testing.T) {
		service, _ := createTestService()
		ctx := context.Background()

		cmd := RequestClaimCommand{
			OrderID:     "ORD-1001",
			ClaimType:   "STORE_CREDIT",
			ClaimReason: "OTHER",
			Quantity:    1,
		}

		_, err := service.RequestClaim(ctx, cmd)

		if err == nil {
			t.Fatal("RequestClaim() should return error for invalid claim type")
		}
		var appErr *sharedErrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != sharedErrors.CodeValidationError {
			t.Errorf("error = %v, want validation AppError", err)
		}
	})

	t.Run("returns error when save fails", func(t *testing.T) {
		service, repo := createTestService()
		repo.SetSaveError(errors.New("database error"))
		ctx := context.Background()

		cmd := RequestClaimCommand{
			OrderID:     "ORD-1001",
			ClaimType:   "CANCEL",
			ClaimReason: "CHANGE_OF_MIND",
			Quantity:    1,
		}

		_, err := service.RequestClaim(ctx, cmd)

		if err == nil {
			t.Fatal("RequestClaim() should return error when save fails")
		}
	})
}

func TestClaimApplicationService_GetClaim(t *testing.T) {
	t.Run("returns claim when found", func(t *testing.T) {
		service, repo := createTestService()
		ctx := context.Background()

		claim := newReturnClaim(t)
		repo.AddClaim(claim)

		dto, err := service.GetClaim(ctx, GetClaimQuery{ClaimID: claim.ClaimID})

		if err != nil {
			t.Fatalf("GetClaim() error = %v", err)
		}
		if dto.ClaimID != claim.ClaimID {
			t.Errorf("ClaimID = %v, want %v", dto.ClaimID, claim.ClaimID)
		}
	})

	t.Run("returns not found for unknown claim", func(t *testing.T) {
		service, _ := createTestService()
		ctx := context.Background()

		_, err := service.GetClaim(ctx, GetClaimQuery{ClaimID: "CLM-missing1"})

		if err == nil {
			t.Fatal("GetClaim() should return error for unknown claim")
		}
		var appErr *sharedErrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != sharedErrors.CodeNotFound {
			t.Errorf("error = %v, want not-found AppError", err)
		}
	})

	t.Run("wraps repository errors", func(t *testing.T) {
		service, repo := createTestService()
		repo.SetFindError(errors.New("connection reset"))
		ctx := context.Background()

		_, err := service.GetClaim(ctx, GetClaimQuery{ClaimID: "CLM-abc12345"})

		if err == nil {
			t.Fatal("GetClaim() should propagate repository error")
		}
	})
}

func TestClaimApplicationService_GetClaimByNumber(t *testing.T) {
	service, repo := createTestService()
	ctx := context.Background()

	claim := newReturnClaim(t)
	repo.AddClaim(claim)

	dto, err := service.GetClaimByNumber(ctx, GetClaimByNumberQuery{ClaimNumber: claim.ClaimNumber})
	if err != nil {
		t.Fatalf("GetClaimByNumber() error = %v", err)
	}
	if dto.ClaimNumber != claim.ClaimNumber {
		t.Errorf("ClaimNumber = %v, want %v", dto.ClaimNumber, claim.ClaimNumber)
	}

	_, err = service.GetClaimByNumber(ctx, GetClaimByNumberQuery{ClaimNumber: "CN00000000-XXXXXXXX"})
	if err == nil {
		t.Fatal("GetClaimByNumber() should return error for unknown number")
	}
}

func TestClaimApplicationService_ListClaims(t *testing.T) {
	service, repo := createTestService()
	ctx := context.Background()

	first := newReturnClaim(t)
	second := newReturnClaim(t)
	repo.AddClaim(first)
	repo.AddClaim(second)

	status := "REQUESTED"
	result, err := service.ListClaims(ctx, ListClaimsQuery{Status: &status, Page: 1, PageSize: 20})
	if err != nil {
		t.Fatalf("ListClaims() error = %v", err)
	}
	if result.TotalItems != 2 {
		t.Errorf("TotalItems = %d, want 2", result.TotalItems)
	}
	if result.TotalPages != 1 {
		t.Errorf("TotalPages = %d, want 1", result.TotalPages)
	}
	if len(result.Data) != 2 {
		t.Errorf("Data length = %d, want 2", len(result.Data))
	}
}

func TestClaimApplicationService_ApprovalFlow(t *testing.T) {
	t.Run("approves requested claim", func(t *testing.T) {
		service, repo := createTestService()
		ctx := context.Background()

		claim := newReturnClaim(t)
		repo.AddClaim(claim)

		dto, err := service.ApproveClaim(ctx, ApproveClaimCommand{ClaimID: claim.ClaimID, Actor: "admin-1"})

		if err != nil {
			t.Fatalf("ApproveClaim() error = %v", err)
		}
		if dto.Status != string(domain.ClaimStatusApproved) {
			t.Errorf("Status = %v, want APPROVED", dto.Status)
		}
		if dto.ProcessedBy != "admin-1" {
			t.Errorf("ProcessedBy = %v, want admin-1", dto.ProcessedBy)
		}
	})

	t.Run("rejects requested claim with reason", func(t *testing.T) {
		service, repo := createTestService()
		ctx := context.Background()

		claim := newReturnClaim(t)
		repo.AddClaim(claim)

		dto, err := service.RejectClaim(ctx, RejectClaimCommand{
			ClaimID: claim.ClaimID,
			Actor:   "admin-1",
			Reason:  "out of return window",
		})

		if err != nil {
			t.Fatalf("RejectClaim() error = %v", err)
		}
		if dto.Status != string(domain.ClaimStatusRejected) {
			t.Errorf("Status = %v, want REJECTED", dto.Status)
		}
		if dto.RejectReason != "out of return window" {
			t.Errorf("RejectReason = %v", dto.RejectReason)
		}
	})

	t.Run("approve of completed claim returns conflict", func(t *testing.T) {
		service, repo := createTestService()
		ctx := context.Background()

		now := time.Now().UTC()
		claim := newReturnClaim(t)
		if err := claim.Approve("admin-1", now); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		repo.AddClaim(claim)

		_, err := service.ApproveClaim(ctx, ApproveClaimCommand{ClaimID: claim.ClaimID, Actor: "admin-2"})

		if err == nil {
			t.Fatal("ApproveClaim() should fail for non-requested claim")
		}
		var appErr *sharedErrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != sharedErrors.CodeConflict {
			t.Errorf("error = %v, want conflict AppError", err)
		}
	})
}

func TestClaimApplicationService_ReturnWorkflow(t *testing.T) {
	setupApprovedReturn := func(t *testing.T, repo *MockClaimRepository) *domain.Claim {
		t.Helper()
		now := time.Now().UTC()
		claim := newReturnClaim(t)
		if err := claim.Approve("admin-1", now); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		repo.AddClaim(claim)
		return claim
	}

	t.Run("schedules pickup then receives return", func(t *testing.T) {
		service, repo := createTestService()
		ctx := context.Background()
		claim := setupApprovedReturn(t, repo)

		_, err := service.ScheduleReturnPickup(ctx, ScheduleReturnPickupCommand{
			ClaimID:     claim.ClaimID,
			ScheduledAt: time.Now().UTC().Add(48 * time.Hour),
			Address:     "서울시 강남구 테헤란로 1",
			Phone:       "010-1234-5678",
		})
		if err != nil {
			t.Fatalf("ScheduleReturnPickup() error = %v", err)
		}

		dto, err := service.ConfirmReturnReceived(ctx, ConfirmReturnReceivedCommand{
			ClaimID: claim.ClaimID,
			Result:  "PASS",
		})
		if err != nil {
			t.Fatalf("ConfirmReturnReceived() error = %v", err)
		}
		if dto.ReturnShipping == nil || dto.ReturnShipping.Status != string(domain.ReturnShippingReceived) {
			t.Fatalf("return shipping not received: %+v", dto.ReturnShipping)
		}
	})

	t.Run("carrier update advances shipping status", func(t *testing.T) {
		service, repo := createTestService()
		ctx := context.Background()
		claim := setupApprovedReturn(t, repo)

		now := time.Now().UTC()
		if err := claim.RegisterReturnShipping(domain.MethodCustomerShip, "1234567890", "CJ", now); err != nil {
			t.Fatalf("RegisterReturnShipping() error = %v", err)
		}
		claim.ClearDomainEvents()

		dto, err := service.UpdateReturnShipping(ctx, UpdateReturnShippingCommand{
			ClaimID:        claim.ClaimID,
			Status:         "IN_TRANSIT",
			TrackingNumber: "1234567890",
		})
		if err != nil {
			t.Fatalf("UpdateReturnShipping() error = %v", err)
		}
		if dto.ReturnShipping.Status != string(domain.ReturnShippingInTransit) {
			t.Errorf("shipping status = %v, want IN_TRANSIT", dto.ReturnShipping.Status)
		}
	})

	t.Run("pickup after shipping registered returns conflict", func(t *testing.T) {
		service, repo := createTestService()
		ctx := context.Background()
		claim := setupApprovedReturn(t, repo)

		now := time.Now().UTC()
		if err := claim.RegisterReturnShipping(domain.MethodCustomerShip, "1234567890", "CJ", now); err != nil {
			t.Fatalf("RegisterReturnShipping() error = %v", err)
		}
		claim.ClearDomainEvents()

		_, err := service.ScheduleReturnPickup(ctx, ScheduleReturnPickupCommand{
			ClaimID:     claim.ClaimID,
			ScheduledAt: now.Add(24 * time.Hour),
			Address:     "서울시",
			Phone:       "010-1234-5678",
		})

		if err == nil {
			t.Fatal("ScheduleReturnPickup() should fail once the parcel is in transit")
		}
		var appErr *sharedErrors.AppError
		if !errors.As(err, &appErr) || appErr.Code != sharedErrors.CodeConflict {
			t.Errorf("error = %v, want conflict AppError", err)
		}
	})
}

func TestClaimApplicationService_RefundAmountMetric(t *testing.T) {
	t.Run("complete records refund amount", func(t *testing.T) {
		service, repo, m := createTestServiceWithMetrics()
		ctx := context.Background()

		now := time.Now().UTC()
		claim := newReturnClaim(t)
		if err := claim.Approve("admin-1", now); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		repo.AddClaim(claim)

		if _, err := service.CompleteClaim(ctx, CompleteClaimCommand{ClaimID: claim.ClaimID}); err != nil {
			t.Fatalf("CompleteClaim() error = %v", err)
		}

		got := testutil.ToFloat64(m.RefundAmount.WithLabelValues("test", "RETURN"))
		if got != float64(claim.RefundAmount) {
			t.Errorf("refund amount = %v, want %v", got, claim.RefundAmount)
		}
	})

	t.Run("passing inspection records refund amount", func(t *testing.T) {
		service, repo, m := createTestServiceWithMetrics()
		ctx := context.Background()

		now := time.Now().UTC()
		claim := newReturnClaim(t)
		if err := claim.Approve("admin-1", now); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		if err := claim.RegisterReturnShipping(domain.MethodCustomerShip, "1234567890", "CJ", now); err != nil {
			t.Fatalf("RegisterReturnShipping() error = %v", err)
		}
		repo.AddClaim(claim)

		if _, err := service.ConfirmReturnReceived(ctx, ConfirmReturnReceivedCommand{
			ClaimID: claim.ClaimID,
			Result:  "PASS",
		}); err != nil {
			t.Fatalf("ConfirmReturnReceived() error = %v", err)
		}

		got := testutil.ToFloat64(m.RefundAmount.WithLabelValues("test", "RETURN"))
		if got != float64(claim.RefundAmount) {
			t.Errorf("refund amount = %v, want %v", got, claim.RefundAmount)
		}
	})

	t.Run("completed exchange records nothing", func(t *testing.T) {
		service, repo, m := createTestServiceWithMetrics()
		ctx := context.Background()

		now := time.Now().UTC()
		claim, err := domain.NewClaim(
			domain.NewClaimID(),
			domain.NewClaimNumber(now),
			"ORD-2003",
			"ITEM-9",
			domain.ClaimTypeExchange,
			domain.ReasonSizeOrColor,
			"",
			1,
			0,
			now,
		)
		if err != nil {
			t.Fatalf("NewClaim() error = %v", err)
		}
		if err := claim.Approve("admin-1", now); err != nil {
			t.Fatalf("Approve() error = %v", err)
		}
		repo.AddClaim(claim)

		if _, err := service.CompleteClaim(ctx, CompleteClaimCommand{ClaimID: claim.ClaimID}); err != nil {
			t.Fatalf("CompleteClaim() error = %v", err)
		}

		if got := testutil.ToFloat64(m.RefundAmount.WithLabelValues("test", "EXCHANGE")); got != 0 {
			t.Errorf("refund amount = %v, want 0 for an exchange", got)
		}
	})
}

func TestClaimApplicationService_ExchangeWorkflow(t *testing.T) {
	service, repo := createTestService()
	ctx := context.Background()

	now := time.Now().UTC()
	claim, err := domain.NewClaim(
		domain.NewClaimID(),
		domain.NewClaimNumber(now),
		"ORD-2002",
		"ITEM-9",
		domain.ClaimTypeExchange,
		domain.ReasonSizeOrColor,
		"",
		1,
		0,
		now,
	)
	if err != nil {
		t.Fatalf("NewClaim() error = %v", err)
	}
	if err := claim.Approve("admin-1", now); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}
	if err := claim.RegisterReturnShipping(domain.MethodCustomerShip, "1234567890", "CJ", now); err != nil {
		t.Fatalf("RegisterReturnShipping() error = %v", err)
	}
	if err := claim.UpdateReturnShippingStatus(domain.ReturnShippingInTransit, "1234567890", now); err != nil {
		t.Fatalf("UpdateReturnShippingStatus() error = %v", err)
	}
	if err := claim.ConfirmReturnReceived(domain.InspectionPass, "", now); err != nil {
		t.Fatalf("ConfirmReturnReceived() error = %v", err)
	}
	repo.AddClaim(claim)

	_, err = service.RegisterExchangeShipping(ctx, RegisterExchangeShippingCommand{
		ClaimID:        claim.ClaimID,
		TrackingNumber: "9876543210",
		Carrier:        "HANJIN",
	})
	if err != nil {
		t.Fatalf("RegisterExchangeShipping() error = %v", err)
	}

	dto, err := service.ConfirmExchangeDelivered(ctx, ConfirmExchangeDeliveredCommand{ClaimID: claim.ClaimID})
	if err != nil {
		t.Fatalf("ConfirmExchangeDelivered() error = %v", err)
	}
	if dto.Status != string(domain.ClaimStatusCompleted) {
		t.Errorf("Status = %v, want COMPLETED", dto.Status)
	}
	if dto.Exchange == nil || dto.Exchange.DeliveredAt == nil {
		t.Errorf("exchange delivery not recorded: %+v", dto.Exchange)
	}
}
