package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oms-platform/claim-service/internal/application"
	"github.com/oms-platform/claim-service/pkg/errors"
	"github.com/oms-platform/claim-service/pkg/logging"
	"github.com/oms-platform/claim-service/pkg/middleware"
)

type mockClaimService struct {
	requestClaimFn         func(ctx context.Context, cmd application.RequestClaimCommand) (*application.ClaimDTO, error)
	getClaimFn             func(ctx context.Context, query application.GetClaimQuery) (*application.ClaimDTO, error)
	getClaimByNumberFn     func(ctx context.Context, query application.GetClaimByNumberQuery) (*application.ClaimDTO, error)
	listClaimsFn           func(ctx context.Context, query application.ListClaimsQuery) (*application.PagedClaimsResult, error)
	listClaimsByOrderFn    func(ctx context.Context, query application.ListClaimsByOrderQuery) ([]application.ClaimListDTO, error)
	approveClaimFn         func(ctx context.Context, cmd application.ApproveClaimCommand) (*application.ClaimDTO, error)
	rejectClaimFn          func(ctx context.Context, cmd application.RejectClaimCommand) (*application.ClaimDTO, error)
	startProcessingFn      func(ctx context.Context, cmd application.StartProcessingCommand) (*application.ClaimDTO, error)
	completeClaimFn        func(ctx context.Context, cmd application.CompleteClaimCommand) (*application.ClaimDTO, error)
	cancelClaimFn          func(ctx context.Context, cmd application.CancelClaimCommand) (*application.ClaimDTO, error)
	scheduleReturnPickupFn func(ctx context.Context, cmd application.ScheduleReturnPickupCommand) (*application.ClaimDTO, error)
	registerReturnFn       func(ctx context.Context, cmd application.RegisterReturnShippingCommand) (*application.ClaimDTO, error)
	updateReturnFn         func(ctx context.Context, cmd application.UpdateReturnShippingCommand) (*application.ClaimDTO, error)
	confirmReceivedFn      func(ctx context.Context, cmd application.ConfirmReturnReceivedCommand) (*application.ClaimDTO, error)
	registerExchangeFn     func(ctx context.Context, cmd application.RegisterExchangeShippingCommand) (*application.ClaimDTO, error)
	confirmDeliveredFn     func(ctx context.Context, cmd application.ConfirmExchangeDeliveredCommand) (*application.ClaimDTO, error)
}

func (m *mockClaimService) RequestClaim(ctx context.Context, cmd application.RequestClaimCommand) (*application.ClaimDTO, error) {
	if m.requestClaimFn == nil {
		panic("RequestClaim not implemented")
	}
	return m.requestClaimFn(ctx, cmd)
}

func (m *mockClaimService) GetClaim(ctx context.Context, query application.GetClaimQuery) (*application.ClaimDTO, error) {
	if m.getClaimFn == nil {
		panic("GetClaim not implemented")
	}
	return m.getClaimFn(ctx, query)
}

func (m *mockClaimService) GetClaimByNumber(ctx context.Context, query application.GetClaimByNumberQuery) (*application.ClaimDTO, error) {
	if m.getClaimByNumberFn == nil {
		panic("GetClaimByNumber not implemented")
	}
	return m.getClaimByNumberFn(ctx, query)
}

func (m *mockClaimService) ListClaims(ctx context.Context, query application.ListClaimsQuery) (*application.PagedClaimsResult, error) {
	if m.listClaimsFn == nil {
		panic("ListClaims not implemented")
	}
	return m.listClaimsFn(ctx, query)
}

func (m *mockClaimService) ListClaimsByOrder(ctx context.Context, query application.ListClaimsByOrderQuery) ([]application.ClaimListDTO, error) {
	if m.listClaimsByOrderFn == nil {
		panic("ListClaimsByOrder not implemented")
	}
	return m.listClaimsByOrderFn(ctx, query)
}

func (m *mockClaimService) ApproveClaim(ctx context.Context, cmd application.ApproveClaimCommand) (*application.ClaimDTO, error) {
	if m.approveClaimFn == nil {
		panic("ApproveClaim not implemented")
	}
	return m.approveClaimFn(ctx, cmd)
}

func (m *mockClaimService) RejectClaim(ctx context.Context, cmd application.RejectClaimCommand) (*application.ClaimDTO, error) {
	if m.rejectClaimFn == nil {
		panic("RejectClaim not implemented")
	}
	return m.rejectClaimFn(ctx, cmd)
}

func (m *mockClaimService) StartProcessing(ctx context.Context, cmd application.StartProcessingCommand) (*application.ClaimDTO, error) {
	if m.startProcessingFn == nil {
		panic("StartProcessing not implemented")
	}
	return m.startProcessingFn(ctx, cmd)
}

func (m *mockClaimService) CompleteClaim(ctx context.Context, cmd application.CompleteClaimCommand) (*application.ClaimDTO, error) {
	if m.completeClaimFn == nil {
		panic("CompleteClaim not implemented")
	}
	return m.completeClaimFn(ctx, cmd)
}

func (m *mockClaimService) CancelClaim(ctx context.Context, cmd application.CancelClaimCommand) (*application.ClaimDTO, error) {
	if m.cancelClaimFn == nil {
		panic("CancelClaim not implemented")
	}
	return m.cancelClaimFn(ctx, cmd)
}

func (m *mockClaimService) ScheduleReturnPickup(ctx context.Context, cmd application.ScheduleReturnPickupCommand) (*application.ClaimDTO, error) {
	if m.scheduleReturnPickupFn == nil {
		panic("ScheduleReturnPickup not implemented")
	}
	return m.scheduleReturnPickupFn(ctx, cmd)
}

func (m *mockClaimService) RegisterReturnShipping(ctx context.Context, cmd application.RegisterReturnShippingCommand) (*application.ClaimDTO, error) {
	if m.registerReturnFn == nil {
		panic("RegisterReturnShipping not implemented")
	}
	return m.registerReturnFn(ctx, cmd)
}

func (m *mockClaimService) UpdateReturnShipping(ctx context.Context, cmd application.UpdateReturnShippingCommand) (*application.ClaimDTO, error) {
	if m.updateReturnFn == nil {
		panic("UpdateReturnShipping not implemented")
	}
	return m.updateReturnFn(ctx, cmd)
}

func (m *mockClaimService) ConfirmReturnReceived(ctx context.Context, cmd application.ConfirmReturnReceivedCommand) (*application.ClaimDTO, error) {
	if m.confirmReceivedFn == nil {
		panic("ConfirmReturnReceived not implemented")
	}
	return m.confirmReceivedFn(ctx, cmd)
}

func (m *mockClaimService) RegisterExchangeShipping(ctx context.Context, cmd application.RegisterExchangeShippingCommand) (*application.ClaimDTO, error) {
	if m.registerExchangeFn == nil {
		panic("RegisterExchangeShipping not implemented")
	}
	return m.registerExchangeFn(ctx, cmd)
}

func (m *mockClaimService) ConfirmExchangeDelivered(ctx context.Context, cmd application.ConfirmExchangeDeliveredCommand) (*application.ClaimDTO, error) {
	if m.confirmDeliveredFn == nil {
		panic("ConfirmExchangeDelivered not implemented")
	}
	return m.confirmDeliveredFn(ctx, cmd)
}

func newTestRouter(service ClaimService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	middleware.InitValidator()
	router := gin.New()
	router.Use(middleware.ActorAuth(nil))
	logger := logging.New(logging.DefaultConfig("test"))
	handlers := NewClaimHandlers(service, logger)
	api := router.Group("/api/v1")
	handlers.RegisterRoutes(api)
	handlers.RegisterWebhookRoutes(api, "test-webhook-token")
	return router
}

func performRequest(router *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

var adminHeaders = map[string]string{"X-Admin-ID": "admin-1"}

func TestClaimHandlers_RequestClaim(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockClaimService{
			requestClaimFn: func(ctx context.Context, cmd application.RequestClaimCommand) (*application.ClaimDTO, error) {
				if cmd.OrderID != "ORD-1001" || cmd.ClaimType != "RETURN" {
					t.Fatalf("unexpected command: %+v", cmd)
				}
				return &application.ClaimDTO{ClaimID: "CLM-abc12345", OrderID: cmd.OrderID}, nil
			},
		}
		router := newTestRouter(service)
		body := `{"orderId":"ORD-1001","claimType":"RETURN","claimReason":"DEFECTIVE_PRODUCT","quantity":1,"refundAmount":25000}`
		rec := performRequest(router, http.MethodPost, "/api/v1/claims", body, nil)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
		if !strings.Contains(rec.Body.String(), `"claimId":"CLM-abc12345"`) {
			t.Fatalf("unexpected body: %s", rec.Body.String())
		}
	})

	t.Run("bad json", func(t *testing.T) {
		service := &mockClaimService{
			requestClaimFn: func(ctx context.Context, cmd application.RequestClaimCommand) (*application.ClaimDTO, error) {
				return nil, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPost, "/api/v1/claims", `{"orderId":}`, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("invalid claim type", func(t *testing.T) {
		service := &mockClaimService{
			requestClaimFn: func(ctx context.Context, cmd application.RequestClaimCommand) (*application.ClaimDTO, error) {
				t.Fatal("service should not be called")
				return nil, nil
			},
		}
		router := newTestRouter(service)
		body := `{"orderId":"ORD-1001","claimType":"REFUND_ALL","claimReason":"OTHER","quantity":1}`
		rec := performRequest(router, http.MethodPost, "/api/v1/claims", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("app error", func(t *testing.T) {
		service := &mockClaimService{
			requestClaimFn: func(ctx context.Context, cmd application.RequestClaimCommand) (*application.ClaimDTO, error) {
				return nil, errors.ErrValidation("refund amount exceeds order total")
			},
		}
		router := newTestRouter(service)
		body := `{"orderId":"ORD-1001","claimType":"PARTIAL_REFUND","claimReason":"DAMAGED_IN_TRANSIT","quantity":1,"refundAmount":999999}`
		rec := performRequest(router, http.MethodPost, "/api/v1/claims", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestClaimHandlers_GetClaim(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockClaimService{
			getClaimFn: func(ctx context.Context, query application.GetClaimQuery) (*application.ClaimDTO, error) {
				if query.ClaimID != "CLM-abc12345" {
					t.Fatalf("ClaimID = %s", query.ClaimID)
				}
				return &application.ClaimDTO{ClaimID: query.ClaimID}, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodGet, "/api/v1/claims/CLM-abc12345", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("not found", func(t *testing.T) {
		service := &mockClaimService{
			getClaimFn: func(ctx context.Context, query application.GetClaimQuery) (*application.ClaimDTO, error) {
				return nil, errors.ErrNotFoundWithID("claim", query.ClaimID)
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodGet, "/api/v1/claims/CLM-missing1", "", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("internal error", func(t *testing.T) {
		service := &mockClaimService{
			getClaimFn: func(ctx context.Context, query application.GetClaimQuery) (*application.ClaimDTO, error) {
				return nil, fmt.Errorf("boom")
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodGet, "/api/v1/claims/CLM-abc12345", "", nil)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestClaimHandlers_GetClaimByNumber(t *testing.T) {
	service := &mockClaimService{
		getClaimByNumberFn: func(ctx context.Context, query application.GetClaimByNumberQuery) (*application.ClaimDTO, error) {
			if query.ClaimNumber != "CN20260831-A1B2C3D4" {
				t.Fatalf("ClaimNumber = %s", query.ClaimNumber)
			}
			return &application.ClaimDTO{ClaimNumber: query.ClaimNumber}, nil
		},
	}
	router := newTestRouter(service)
	rec := performRequest(router, http.MethodGet, "/api/v1/claims/number/CN20260831-A1B2C3D4", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestClaimHandlers_ListClaims(t *testing.T) {
	t.Run("filters and paging", func(t *testing.T) {
		service := &mockClaimService{
			listClaimsFn: func(ctx context.Context, query application.ListClaimsQuery) (*application.PagedClaimsResult, error) {
				if query.Status == nil || *query.Status != "REQUESTED" {
					t.Fatalf("Status filter not passed: %+v", query)
				}
				if query.Page != 2 || query.PageSize != 10 {
					t.Fatalf("paging not passed: page=%d pageSize=%d", query.Page, query.PageSize)
				}
				return &application.PagedClaimsResult{Page: 2, PageSize: 10}, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodGet, "/api/v1/claims?status=REQUESTED&page=2&pageSize=10", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		service := &mockClaimService{
			listClaimsFn: func(ctx context.Context, query application.ListClaimsQuery) (*application.PagedClaimsResult, error) {
				if query.Page != 1 || query.PageSize != 20 {
					t.Fatalf("default paging: page=%d pageSize=%d", query.Page, query.PageSize)
				}
				if query.Status != nil || query.OrderID != nil {
					t.Fatalf("unexpected filters: %+v", query)
				}
				if query.FromDate != nil || query.ToDate != nil {
					t.Fatalf("unexpected date filters: %+v", query)
				}
				return &application.PagedClaimsResult{Page: 1, PageSize: 20}, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodGet, "/api/v1/claims", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("date range", func(t *testing.T) {
		from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
		service := &mockClaimService{
			listClaimsFn: func(ctx context.Context, query application.ListClaimsQuery) (*application.PagedClaimsResult, error) {
				if query.FromDate == nil || !query.FromDate.Equal(from) {
					t.Fatalf("FromDate not passed: %+v", query.FromDate)
				}
				if query.ToDate == nil || !query.ToDate.Equal(to) {
					t.Fatalf("ToDate not passed: %+v", query.ToDate)
				}
				return &application.PagedClaimsResult{Page: 1, PageSize: 20}, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodGet,
			"/api/v1/claims?fromDate=2026-01-01T00:00:00Z&toDate=2026-02-01T00:00:00Z", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("malformed fromDate", func(t *testing.T) {
		service := &mockClaimService{
			listClaimsFn: func(ctx context.Context, query application.ListClaimsQuery) (*application.PagedClaimsResult, error) {
				t.Fatal("service should not be called for a malformed date")
				return nil, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodGet, "/api/v1/claims?fromDate=2026-01-01", "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("malformed toDate", func(t *testing.T) {
		service := &mockClaimService{
			listClaimsFn: func(ctx context.Context, query application.ListClaimsQuery) (*application.PagedClaimsResult, error) {
				t.Fatal("service should not be called for a malformed date")
				return nil, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodGet, "/api/v1/claims?toDate=yesterday", "", nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestClaimHandlers_ListClaimsByOrder(t *testing.T) {
	service := &mockClaimService{
		listClaimsByOrderFn: func(ctx context.Context, query application.ListClaimsByOrderQuery) ([]application.ClaimListDTO, error) {
			if query.OrderID != "ORD-1001" {
				t.Fatalf("OrderID = %s", query.OrderID)
			}
			return []application.ClaimListDTO{{ClaimID: "CLM-abc12345"}}, nil
		},
	}
	router := newTestRouter(service)
	rec := performRequest(router, http.MethodGet, "/api/v1/orders/ORD-1001/claims", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestClaimHandlers_ApproveClaim(t *testing.T) {
	t.Run("success with admin actor", func(t *testing.T) {
		service := &mockClaimService{
			approveClaimFn: func(ctx context.Context, cmd application.ApproveClaimCommand) (*application.ClaimDTO, error) {
				if cmd.Actor != "admin-1" {
					t.Fatalf("Actor = %s", cmd.Actor)
				}
				return &application.ClaimDTO{ClaimID: cmd.ClaimID, Status: "APPROVED"}, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/claims/CLM-abc12345/approve", "", adminHeaders)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing admin header", func(t *testing.T) {
		service := &mockClaimService{}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/claims/CLM-abc12345/approve", "", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("transition conflict", func(t *testing.T) {
		service := &mockClaimService{
			approveClaimFn: func(ctx context.Context, cmd application.ApproveClaimCommand) (*application.ClaimDTO, error) {
				return nil, errors.ErrConflict("claim already completed")
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/claims/CLM-abc12345/approve", "", adminHeaders)
		if rec.Code != http.StatusConflict {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestClaimHandlers_RejectClaim(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		service := &mockClaimService{
			rejectClaimFn: func(ctx context.Context, cmd application.RejectClaimCommand) (*application.ClaimDTO, error) {
				if cmd.Reason != "out of return window" {
					t.Fatalf("Reason = %s", cmd.Reason)
				}
				return &application.ClaimDTO{ClaimID: cmd.ClaimID, Status: "REJECTED"}, nil
			},
		}
		router := newTestRouter(service)
		body := `{"reason":"out of return window"}`
		rec := performRequest(router, http.MethodPut, "/api/v1/claims/CLM-abc12345/reject", body, adminHeaders)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("missing reason", func(t *testing.T) {
		service := &mockClaimService{}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/claims/CLM-abc12345/reject", `{}`, adminHeaders)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestClaimHandlers_Lifecycle(t *testing.T) {
	t.Run("start processing", func(t *testing.T) {
		service := &mockClaimService{
			startProcessingFn: func(ctx context.Context, cmd application.StartProcessingCommand) (*application.ClaimDTO, error) {
				return &application.ClaimDTO{ClaimID: cmd.ClaimID, Status: "IN_PROGRESS"}, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/claims/CLM-abc12345/start-processing", "", adminHeaders)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("complete", func(t *testing.T) {
		service := &mockClaimService{
			completeClaimFn: func(ctx context.Context, cmd application.CompleteClaimCommand) (*application.ClaimDTO, error) {
				return &application.ClaimDTO{ClaimID: cmd.ClaimID, Status: "COMPLETED"}, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/claims/CLM-abc12345/complete", "", adminHeaders)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("cancel does not require admin", func(t *testing.T) {
		service := &mockClaimService{
			cancelClaimFn: func(ctx context.Context, cmd application.CancelClaimCommand) (*application.ClaimDTO, error) {
				return &application.ClaimDTO{ClaimID: cmd.ClaimID, Status: "CANCELLED"}, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/claims/CLM-abc12345/cancel", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestClaimHandlers_ReturnWorkflow(t *testing.T) {
	t.Run("schedule pickup", func(t *testing.T) {
		service := &mockClaimService{
			scheduleReturnPickupFn: func(ctx context.Context, cmd application.ScheduleReturnPickupCommand) (*application.ClaimDTO, error) {
				if cmd.Address != "서울시 강남구 테헤란로 1" {
					t.Fatalf("Address = %s", cmd.Address)
				}
				return &application.ClaimDTO{ClaimID: cmd.ClaimID}, nil
			},
		}
		router := newTestRouter(service)
		body := `{"scheduledAt":"2026-09-02T10:00:00Z","address":"서울시 강남구 테헤란로 1","phone":"010-1234-5678"}`
		rec := performRequest(router, http.MethodPost, "/api/v1/claims/CLM-abc12345/return/pickup", body, adminHeaders)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("schedule pickup rejects bad phone", func(t *testing.T) {
		service := &mockClaimService{}
		router := newTestRouter(service)
		body := `{"scheduledAt":"2026-09-02T10:00:00Z","address":"서울시","phone":"not-a-phone"}`
		rec := performRequest(router, http.MethodPost, "/api/v1/claims/CLM-abc12345/return/pickup", body, adminHeaders)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("register shipping", func(t *testing.T) {
		service := &mockClaimService{
			registerReturnFn: func(ctx context.Context, cmd application.RegisterReturnShippingCommand) (*application.ClaimDTO, error) {
				if cmd.Carrier != "CJ" || cmd.TrackingNumber != "1234567890" {
					t.Fatalf("unexpected command: %+v", cmd)
				}
				return &application.ClaimDTO{ClaimID: cmd.ClaimID}, nil
			},
		}
		router := newTestRouter(service)
		body := `{"method":"CUSTOMER_SHIP","trackingNumber":"1234567890","carrier":"CJ"}`
		rec := performRequest(router, http.MethodPost, "/api/v1/claims/CLM-abc12345/return/shipping", body, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("register shipping rejects unknown carrier", func(t *testing.T) {
		service := &mockClaimService{}
		router := newTestRouter(service)
		body := `{"method":"CUSTOMER_SHIP","trackingNumber":"1234567890","carrier":"PIGEON"}`
		rec := performRequest(router, http.MethodPost, "/api/v1/claims/CLM-abc12345/return/shipping", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("register shipping rejects non-alphanumeric tracking number", func(t *testing.T) {
		service := &mockClaimService{}
		router := newTestRouter(service)
		body := `{"method":"CUSTOMER_SHIP","trackingNumber":"1234-5678-90","carrier":"CJ"}`
		rec := performRequest(router, http.MethodPost, "/api/v1/claims/CLM-abc12345/return/shipping", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("confirm received", func(t *testing.T) {
		service := &mockClaimService{
			confirmReceivedFn: func(ctx context.Context, cmd application.ConfirmReturnReceivedCommand) (*application.ClaimDTO, error) {
				if cmd.Result != "FAIL" || cmd.Note != "파손" {
					t.Fatalf("unexpected command: %+v", cmd)
				}
				return &application.ClaimDTO{ClaimID: cmd.ClaimID}, nil
			},
		}
		router := newTestRouter(service)
		body := `{"result":"FAIL","note":"파손"}`
		rec := performRequest(router, http.MethodPost, "/api/v1/claims/CLM-abc12345/return/receive", body, adminHeaders)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestClaimHandlers_ExchangeWorkflow(t *testing.T) {
	t.Run("register exchange shipping", func(t *testing.T) {
		service := &mockClaimService{
			registerExchangeFn: func(ctx context.Context, cmd application.RegisterExchangeShippingCommand) (*application.ClaimDTO, error) {
				if cmd.TrackingNumber != "9876543210" {
					t.Fatalf("TrackingNumber = %s", cmd.TrackingNumber)
				}
				return &application.ClaimDTO{ClaimID: cmd.ClaimID}, nil
			},
		}
		router := newTestRouter(service)
		body := `{"trackingNumber":"9876543210","carrier":"HANJIN"}`
		rec := performRequest(router, http.MethodPost, "/api/v1/claims/CLM-abc12345/exchange/shipping", body, adminHeaders)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("confirm delivered", func(t *testing.T) {
		service := &mockClaimService{
			confirmDeliveredFn: func(ctx context.Context, cmd application.ConfirmExchangeDeliveredCommand) (*application.ClaimDTO, error) {
				return &application.ClaimDTO{ClaimID: cmd.ClaimID}, nil
			},
		}
		router := newTestRouter(service)
		rec := performRequest(router, http.MethodPut, "/api/v1/claims/CLM-abc12345/exchange/delivered", "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}

func TestClaimHandlers_CarrierTrackingWebhook(t *testing.T) {
	t.Run("valid token", func(t *testing.T) {
		service := &mockClaimService{
			updateReturnFn: func(ctx context.Context, cmd application.UpdateReturnShippingCommand) (*application.ClaimDTO, error) {
				if cmd.Status != "IN_TRANSIT" {
					t.Fatalf("Status = %s", cmd.Status)
				}
				return &application.ClaimDTO{ClaimID: cmd.ClaimID}, nil
			},
		}
		router := newTestRouter(service)
		body := `{"claimId":"CLM-abc12345","status":"IN_TRANSIT","trackingNumber":"1234567890"}`
		headers := map[string]string{"X-Webhook-Token": "test-webhook-token"}
		rec := performRequest(router, http.MethodPost, "/api/v1/webhooks/carrier/tracking", body, headers)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("pending status accepted", func(t *testing.T) {
		// Carriers may roll a shipment back to PENDING, e.g. a failed pickup
		service := &mockClaimService{
			updateReturnFn: func(ctx context.Context, cmd application.UpdateReturnShippingCommand) (*application.ClaimDTO, error) {
				if cmd.Status != "PENDING" {
					t.Fatalf("Status = %s", cmd.Status)
				}
				return &application.ClaimDTO{ClaimID: cmd.ClaimID}, nil
			},
		}
		router := newTestRouter(service)
		body := `{"claimId":"CLM-abc12345","status":"PENDING"}`
		headers := map[string]string{"X-Webhook-Token": "test-webhook-token"}
		rec := performRequest(router, http.MethodPost, "/api/v1/webhooks/carrier/tracking", body, headers)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("missing token", func(t *testing.T) {
		service := &mockClaimService{}
		router := newTestRouter(service)
		body := `{"claimId":"CLM-abc12345","status":"IN_TRANSIT"}`
		rec := performRequest(router, http.MethodPost, "/api/v1/webhooks/carrier/tracking", body, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("wrong token", func(t *testing.T) {
		service := &mockClaimService{}
		router := newTestRouter(service)
		body := `{"claimId":"CLM-abc12345","status":"IN_TRANSIT"}`
		headers := map[string]string{"X-Webhook-Token": "wrong"}
		rec := performRequest(router, http.MethodPost, "/api/v1/webhooks/carrier/tracking", body, headers)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d", rec.Code)
		}
	})
}
