package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/oms-platform/claim-service/pkg/logging"
)

// CloudEvents OMS extension context keys
const (
	ContextKeyOMSCorrelationID = "omsCorrelationId"
	ContextKeyOMSOrderID       = "omsOrderId"
	ContextKeyOMSClaimID       = "omsClaimId"
	ContextKeyOMSSellerID      = "omsSellerId"
	ContextKeyOMSChannelID     = "omsChannelId"
)

// CloudEvents OMS extension HTTP header names
const (
	HeaderOMSCorrelationID = "X-OMS-Correlation-ID"
	HeaderOMSOrderID       = "X-OMS-Order-ID"
	HeaderOMSClaimID       = "X-OMS-Claim-ID"
	HeaderOMSSellerID      = "X-OMS-Seller-ID"
	HeaderOMSChannelID     = "X-OMS-Channel-ID"
)

// CloudEvents middleware extracts OMS CloudEvents extensions from HTTP headers
// and adds them to the request context for downstream logging and propagation.
func CloudEvents() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(HeaderOMSCorrelationID)
		orderID := c.GetHeader(HeaderOMSOrderID)
		claimID := c.GetHeader(HeaderOMSClaimID)
		sellerID := c.GetHeader(HeaderOMSSellerID)
		channelID := c.GetHeader(HeaderOMSChannelID)

		// Set in Gin context
		if correlationID != "" {
			c.Set(ContextKeyOMSCorrelationID, correlationID)
		}
		if orderID != "" {
			c.Set(ContextKeyOMSOrderID, orderID)
		}
		if claimID != "" {
			c.Set(ContextKeyOMSClaimID, claimID)
		}
		if sellerID != "" {
			c.Set(ContextKeyOMSSellerID, sellerID)
		}
		if channelID != "" {
			c.Set(ContextKeyOMSChannelID, channelID)
		}

		// Set in Go context for logging package
		ctx := c.Request.Context()
		if correlationID != "" {
			ctx = logging.ContextWithOMSCorrelationID(ctx, correlationID)
		}
		if orderID != "" {
			ctx = logging.ContextWithOMSOrderID(ctx, orderID)
		}
		if claimID != "" {
			ctx = logging.ContextWithOMSClaimID(ctx, claimID)
		}
		if sellerID != "" {
			ctx = logging.ContextWithOMSSellerID(ctx, sellerID)
		}
		if channelID != "" {
			ctx = logging.ContextWithOMSChannelID(ctx, channelID)
		}
		c.Request = c.Request.WithContext(ctx)

		// Propagate headers in response (for tracing)
		if correlationID != "" {
			c.Header(HeaderOMSCorrelationID, correlationID)
		}
		if orderID != "" {
			c.Header(HeaderOMSOrderID, orderID)
		}
		if claimID != "" {
			c.Header(HeaderOMSClaimID, claimID)
		}

		c.Next()
	}
}

// GetOMSCorrelationID extracts OMS correlation ID from Gin context
func GetOMSCorrelationID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyOMSCorrelationID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// GetOMSOrderID extracts OMS order ID from Gin context
func GetOMSOrderID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyOMSOrderID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// GetOMSClaimID extracts OMS claim ID from Gin context
func GetOMSClaimID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyOMSClaimID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// GetOMSSellerID extracts OMS seller ID from Gin context
func GetOMSSellerID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyOMSSellerID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// GetOMSChannelID extracts OMS channel ID from Gin context
func GetOMSChannelID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyOMSChannelID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// CloudEventExtensions holds all OMS CloudEvent extension values
type CloudEventExtensions struct {
	CorrelationID string
	OrderID       string
	ClaimID       string
	SellerID      string
	ChannelID     string
}

// GetCloudEventExtensions extracts all CloudEvent extensions from Gin context
func GetCloudEventExtensions(c *gin.Context) CloudEventExtensions {
	return CloudEventExtensions{
		CorrelationID: GetOMSCorrelationID(c),
		OrderID:       GetOMSOrderID(c),
		ClaimID:       GetOMSClaimID(c),
		SellerID:      GetOMSSellerID(c),
		ChannelID:     GetOMSChannelID(c),
	}
}

// ToLoggingContext converts CloudEventExtensions to logging.CloudEventContext
func (ce CloudEventExtensions) ToLoggingContext() logging.CloudEventContext {
	return logging.CloudEventContext{
		CorrelationID: ce.CorrelationID,
		OrderID:       ce.OrderID,
		ClaimID:       ce.ClaimID,
		SellerID:      ce.SellerID,
		ChannelID:     ce.ChannelID,
	}
}

// PropagationCloudEventHeaders returns CloudEvents OMS headers for propagation to downstream services
func PropagationCloudEventHeaders(c *gin.Context) map[string]string {
	headers := make(map[string]string)

	if id := GetOMSCorrelationID(c); id != "" {
		headers[HeaderOMSCorrelationID] = id
	}
	if id := GetOMSOrderID(c); id != "" {
		headers[HeaderOMSOrderID] = id
	}
	if id := GetOMSClaimID(c); id != "" {
		headers[HeaderOMSClaimID] = id
	}
	if id := GetOMSSellerID(c); id != "" {
		headers[HeaderOMSSellerID] = id
	}
	if id := GetOMSChannelID(c); id != "" {
		headers[HeaderOMSChannelID] = id
	}

	return headers
}

// CloudEventsLogger middleware adds CloudEvents extensions to logs
func CloudEventsLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ext := GetCloudEventExtensions(c)
		enrichedLogger := logger.WithCloudEventContext(ext.ToLoggingContext())
		c.Set("logger", enrichedLogger)

		c.Next()
	}
}

// GetEnrichedLogger retrieves the CloudEvents-enriched logger from Gin context
func GetEnrichedLogger(c *gin.Context, fallbackLogger *logging.Logger) *logging.Logger {
	if logger, exists := c.Get("logger"); exists {
		if l, ok := logger.(*logging.Logger); ok {
			return l
		}
	}
	return fallbackLogger
}
