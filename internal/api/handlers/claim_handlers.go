package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oms-platform/claim-service/internal/application"
	"github.com/oms-platform/claim-service/pkg/errors"
	"github.com/oms-platform/claim-service/pkg/logging"
	"github.com/oms-platform/claim-service/pkg/middleware"
)

// ClaimService is the application-layer surface the HTTP handlers depend on
type ClaimService interface {
	RequestClaim(ctx context.Context, cmd application.RequestClaimCommand) (*application.ClaimDTO, error)
	GetClaim(ctx context.Context, query application.GetClaimQuery) (*application.ClaimDTO, error)
	GetClaimByNumber(ctx context.Context, query application.GetClaimByNumberQuery) (*application.ClaimDTO, error)
	ListClaims(ctx context.Context, query application.ListClaimsQuery) (*application.PagedClaimsResult, error)
	ListClaimsByOrder(ctx context.Context, query application.ListClaimsByOrderQuery) ([]application.ClaimListDTO, error)
	ApproveClaim(ctx context.Context, cmd application.ApproveClaimCommand) (*application.ClaimDTO, error)
	RejectClaim(ctx context.Context, cmd application.RejectClaimCommand) (*application.ClaimDTO, error)
	StartProcessing(ctx context.Context, cmd application.StartProcessingCommand) (*application.ClaimDTO, error)
	CompleteClaim(ctx context.Context, cmd application.CompleteClaimCommand) (*application.ClaimDTO, error)
	CancelClaim(ctx context.Context, cmd application.CancelClaimCommand) (*application.ClaimDTO, error)
	ScheduleReturnPickup(ctx context.Context, cmd application.ScheduleReturnPickupCommand) (*application.ClaimDTO, error)
	RegisterReturnShipping(ctx context.Context, cmd application.RegisterReturnShippingCommand) (*application.ClaimDTO, error)
	UpdateReturnShipping(ctx context.Context, cmd application.UpdateReturnShippingCommand) (*application.ClaimDTO, error)
	ConfirmReturnReceived(ctx context.Context, cmd application.ConfirmReturnReceivedCommand) (*application.ClaimDTO, error)
	RegisterExchangeShipping(ctx context.Context, cmd application.RegisterExchangeShippingCommand) (*application.ClaimDTO, error)
	ConfirmExchangeDelivered(ctx context.Context, cmd application.ConfirmExchangeDeliveredCommand) (*application.ClaimDTO, error)
}

// ClaimHandlers contains handlers for claim operations
type ClaimHandlers struct {
	service ClaimService
	logger  *logging.Logger
}

// NewClaimHandlers creates a new ClaimHandlers
func NewClaimHandlers(service ClaimService, logger *logging.Logger) *ClaimHandlers {
	return &ClaimHandlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers claim routes on the router
func (h *ClaimHandlers) RegisterRoutes(router *gin.RouterGroup) {
	claims := router.Group("/claims")
	{
		claims.POST("", h.RequestClaim)
		claims.GET("", h.ListClaims)
		claims.GET("/:claimId", h.GetClaim)
		claims.GET("/number/:claimNumber", h.GetClaimByNumber)

		claims.PUT("/:claimId/approve", middleware.RequireAdmin(), h.ApproveClaim)
		claims.PUT("/:claimId/reject", middleware.RequireAdmin(), h.RejectClaim)
		claims.PUT("/:claimId/start-processing", middleware.RequireAdmin(), h.StartProcessing)
		claims.PUT("/:claimId/complete", middleware.RequireAdmin(), h.CompleteClaim)
		claims.PUT("/:claimId/cancel", h.CancelClaim)

		claims.POST("/:claimId/return/pickup", middleware.RequireAdmin(), h.ScheduleReturnPickup)
		claims.POST("/:claimId/return/shipping", h.RegisterReturnShipping)
		claims.PUT("/:claimId/return/shipping", middleware.RequireAdmin(), h.UpdateReturnShipping)
		claims.POST("/:claimId/return/receive", middleware.RequireAdmin(), h.ConfirmReturnReceived)

		claims.POST("/:claimId/exchange/shipping", middleware.RequireAdmin(), h.RegisterExchangeShipping)
		claims.PUT("/:claimId/exchange/delivered", h.ConfirmExchangeDelivered)
	}

	orders := router.Group("/orders")
	{
		orders.GET("/:orderId/claims", h.ListClaimsByOrder)
	}
}

// RegisterWebhookRoutes registers the carrier callback routes. These bypass
// actor auth and are guarded by a shared webhook token instead.
func (h *ClaimHandlers) RegisterWebhookRoutes(router *gin.RouterGroup, webhookToken string) {
	webhooks := router.Group("/webhooks")
	webhooks.Use(middleware.WebhookAuth(webhookToken))
	{
		webhooks.POST("/carrier/tracking", h.CarrierTrackingWebhook)
	}
}

// RequestClaim handles filing a new claim against an order
func (h *ClaimHandlers) RequestClaim(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		OrderID           string `json:"orderId" binding:"required"`
		OrderItemID       string `json:"orderItemId"`
		ClaimType         string `json:"claimType" binding:"required,oneof=CANCEL RETURN EXCHANGE PARTIAL_REFUND"`
		ClaimReason       string `json:"claimReason" binding:"required"`
		ClaimReasonDetail string `json:"claimReasonDetail"`
		Quantity          int    `json:"quantity" binding:"required,min=1"`
		RefundAmount      int64  `json:"refundAmount" binding:"min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.id":   req.OrderID,
		"claim.type": req.ClaimType,
	})

	cmd := application.RequestClaimCommand{
		OrderID:           req.OrderID,
		OrderItemID:       req.OrderItemID,
		ClaimType:         req.ClaimType,
		ClaimReason:       req.ClaimReason,
		ClaimReasonDetail: req.ClaimReasonDetail,
		Quantity:          req.Quantity,
		RefundAmount:      req.RefundAmount,
	}

	claim, err := h.service.RequestClaim(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusCreated, claim)
}

// GetClaim handles getting a claim by ID
func (h *ClaimHandlers) GetClaim(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	query := application.GetClaimQuery{ClaimID: claimID}

	claim, err := h.service.GetClaim(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// GetClaimByNumber handles getting a claim by its human-readable number
func (h *ClaimHandlers) GetClaimByNumber(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimNumber := c.Param("claimNumber")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.number": claimNumber,
	})

	query := application.GetClaimByNumberQuery{ClaimNumber: claimNumber}

	claim, err := h.service.GetClaimByNumber(c.Request.Context(), query)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// ListClaims handles listing claims with filters and pagination
func (h *ClaimHandlers) ListClaims(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	query := application.ListClaimsQuery{
		Page:     page,
		PageSize: pageSize,
	}
	if v := c.Query("orderId"); v != "" {
		query.OrderID = &v
	}
	if v := c.Query("status"); v != "" {
		query.Status = &v
	}
	if v := c.Query("claimType"); v != "" {
		query.ClaimType = &v
	}
	if v := c.Query("reason"); v != "" {
		query.Reason = &v
	}
	if v := c.Query("fromDate"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			responder.RespondValidationError("validation failed", map[string]string{
				"fromDate": "must be an RFC 3339 timestamp",
			})
			return
		}
		query.FromDate = &from
	}
	if v := c.Query("toDate"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			responder.RespondValidationError("validation failed", map[string]string{
				"toDate": "must be an RFC 3339 timestamp",
			})
			return
		}
		query.ToDate = &to
	}

	result, err := h.service.ListClaims(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListClaimsByOrder handles listing all claims filed against one order
func (h *ClaimHandlers) ListClaimsByOrder(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	orderID := c.Param("orderId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"order.id": orderID,
	})

	page, _ := strconv.ParseInt(c.DefaultQuery("page", "1"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.DefaultQuery("pageSize", "20"), 10, 64)

	query := application.ListClaimsByOrderQuery{
		OrderID:  orderID,
		Page:     page,
		PageSize: pageSize,
	}

	claims, err := h.service.ListClaimsByOrder(c.Request.Context(), query)
	if err != nil {
		responder.RespondInternalError(err)
		return
	}

	c.JSON(http.StatusOK, claims)
}

// ApproveClaim handles approving a requested claim
func (h *ClaimHandlers) ApproveClaim(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	cmd := application.ApproveClaimCommand{
		ClaimID: claimID,
		Actor:   middleware.GetAdminID(c),
	}

	claim, err := h.service.ApproveClaim(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// RejectClaim handles rejecting a requested claim
func (h *ClaimHandlers) RejectClaim(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.RejectClaimCommand{
		ClaimID: claimID,
		Actor:   middleware.GetAdminID(c),
		Reason:  req.Reason,
	}

	claim, err := h.service.RejectClaim(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// StartProcessing handles moving an approved claim into active processing
func (h *ClaimHandlers) StartProcessing(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	cmd := application.StartProcessingCommand{ClaimID: claimID}

	claim, err := h.service.StartProcessing(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// CompleteClaim handles resolving a claim as successfully processed
func (h *ClaimHandlers) CompleteClaim(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	cmd := application.CompleteClaimCommand{ClaimID: claimID}

	claim, err := h.service.CompleteClaim(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// CancelClaim handles withdrawing a claim at the customer's request
func (h *ClaimHandlers) CancelClaim(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	cmd := application.CancelClaimCommand{ClaimID: claimID}

	claim, err := h.service.CancelClaim(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// ScheduleReturnPickup handles booking a seller pickup for the return leg
func (h *ClaimHandlers) ScheduleReturnPickup(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	var req struct {
		ScheduledAt time.Time `json:"scheduledAt" binding:"required"`
		Address     string    `json:"address" binding:"required"`
		Phone       string    `json:"phone" binding:"required,phone_kr"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.ScheduleReturnPickupCommand{
		ClaimID:     claimID,
		ScheduledAt: req.ScheduledAt,
		Address:     req.Address,
		Phone:       req.Phone,
	}

	claim, err := h.service.ScheduleReturnPickup(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// RegisterReturnShipping handles attaching carrier tracking to the return leg
func (h *ClaimHandlers) RegisterReturnShipping(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	var req struct {
		Method         string `json:"method" binding:"required,oneof=SELLER_PICKUP CUSTOMER_SHIP"`
		TrackingNumber string `json:"trackingNumber" binding:"required,tracking_number"`
		Carrier        string `json:"carrier" binding:"required,carrier_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.RegisterReturnShippingCommand{
		ClaimID:        claimID,
		Method:         req.Method,
		TrackingNumber: req.TrackingNumber,
		Carrier:        req.Carrier,
	}

	claim, err := h.service.RegisterReturnShipping(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// UpdateReturnShipping handles a manual return shipping status correction
func (h *ClaimHandlers) UpdateReturnShipping(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	var req struct {
		Status         string `json:"status" binding:"required,oneof=PENDING PICKUP_SCHEDULED IN_TRANSIT RECEIVED"`
		TrackingNumber string `json:"trackingNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.UpdateReturnShippingCommand{
		ClaimID:        claimID,
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
	}

	claim, err := h.service.UpdateReturnShipping(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// ConfirmReturnReceived handles warehouse receipt and inspection of a return
func (h *ClaimHandlers) ConfirmReturnReceived(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	var req struct {
		Result string `json:"result" binding:"required,oneof=PASS FAIL PARTIAL"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.ConfirmReturnReceivedCommand{
		ClaimID: claimID,
		Result:  req.Result,
		Note:    req.Note,
	}

	claim, err := h.service.ConfirmReturnReceived(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// RegisterExchangeShipping handles shipping the replacement item
func (h *ClaimHandlers) RegisterExchangeShipping(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	var req struct {
		TrackingNumber string `json:"trackingNumber" binding:"required,tracking_number"`
		Carrier        string `json:"carrier" binding:"required,carrier_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd := application.RegisterExchangeShippingCommand{
		ClaimID:        claimID,
		TrackingNumber: req.TrackingNumber,
		Carrier:        req.Carrier,
	}

	claim, err := h.service.RegisterExchangeShipping(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// ConfirmExchangeDelivered handles confirming redelivery of the replacement
func (h *ClaimHandlers) ConfirmExchangeDelivered(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	claimID := c.Param("claimId")
	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id": claimID,
	})

	cmd := application.ConfirmExchangeDeliveredCommand{ClaimID: claimID}

	claim, err := h.service.ConfirmExchangeDelivered(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}

// CarrierTrackingWebhook handles push status updates from carrier systems.
// The carrier identifies the claim by our claim ID carried in the original
// shipping registration.
func (h *ClaimHandlers) CarrierTrackingWebhook(c *gin.Context) {
	responder := middleware.NewErrorResponder(c, h.logger.Logger)

	var req struct {
		ClaimID        string `json:"claimId" binding:"required,claim_id"`
		Status         string `json:"status" binding:"required,oneof=PENDING PICKUP_SCHEDULED IN_TRANSIT RECEIVED"`
		TrackingNumber string `json:"trackingNumber"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	middleware.AddSpanAttributes(c, map[string]interface{}{
		"claim.id":        req.ClaimID,
		"tracking.status": req.Status,
	})

	cmd := application.UpdateReturnShippingCommand{
		ClaimID:        req.ClaimID,
		Status:         req.Status,
		TrackingNumber: req.TrackingNumber,
	}

	claim, err := h.service.UpdateReturnShipping(c.Request.Context(), cmd)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok {
			responder.RespondWithAppError(appErr)
		} else {
			responder.RespondInternalError(err)
		}
		return
	}

	c.JSON(http.StatusOK, claim)
}
