package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Actor context keys
const (
	ContextKeyAdminID    = "adminId"
	ContextKeyCustomerID = "customerId"
)

// Actor HTTP header names
const (
	HeaderAdminID      = "X-Admin-ID"
	HeaderCustomerID   = "X-Customer-ID"
	HeaderWebhookToken = "X-Webhook-Token"
)

// ActorAuthConfig holds configuration for actor extraction middleware
type ActorAuthConfig struct {
	// Validator is an optional interface to validate admin access
	Validator AdminValidator
}

// AdminValidator interface for validating admin access
type AdminValidator interface {
	// ValidateAdmin checks whether the admin ID identifies an active operator
	ValidateAdmin(adminID string) error
}

// ActorAuth middleware extracts the acting party from request headers and
// stores it in the Gin context. Admin identity is validated when a
// validator is configured; customer identity is carried as-is.
func ActorAuth(config *ActorAuthConfig) gin.HandlerFunc {
	if config == nil {
		config = &ActorAuthConfig{}
	}

	return func(c *gin.Context) {
		adminID := c.GetHeader(HeaderAdminID)
		customerID := c.GetHeader(HeaderCustomerID)

		if adminID != "" && config.Validator != nil {
			if err := config.Validator.ValidateAdmin(adminID); err != nil {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
					"code":    "UNAUTHORIZED_ADMIN",
					"message": "Admin identity is not authorized",
				})
				return
			}
		}

		if adminID != "" {
			c.Set(ContextKeyAdminID, adminID)
		}
		if customerID != "" {
			c.Set(ContextKeyCustomerID, customerID)
		}

		c.Next()
	}
}

// RequireAdmin ensures an admin identity is present on the request.
// Use this for review endpoints (approve, reject, inspection).
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetAdminID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "MISSING_ADMIN_CONTEXT",
				"message": "Admin identity is required for this endpoint",
			})
			return
		}
		c.Next()
	}
}

// RequireCustomer ensures a customer identity is present on the request.
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetCustomerID(c) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "MISSING_CUSTOMER_CONTEXT",
				"message": "Customer identity is required for this endpoint",
			})
			return
		}
		c.Next()
	}
}

// WebhookAuth validates a shared-secret token on carrier webhook endpoints.
// An empty configured token disables the check (local development).
func WebhookAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}

		provided := c.GetHeader(HeaderWebhookToken)
		if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "INVALID_WEBHOOK_TOKEN",
				"message": "Webhook token is missing or invalid",
			})
			return
		}

		c.Next()
	}
}

// GetAdminID extracts the admin ID from Gin context
func GetAdminID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyAdminID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}

// GetCustomerID extracts the customer ID from Gin context
func GetCustomerID(c *gin.Context) string {
	if val, exists := c.Get(ContextKeyCustomerID); exists {
		if id, ok := val.(string); ok {
			return id
		}
	}
	return ""
}
