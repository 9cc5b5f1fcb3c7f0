package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Identity headers accepted when no upstream authenticator populated the
// context. They are trusted as-is; deployments put an auth proxy in front.
const (
	HeaderLandlordID = "X-Landlord-ID"
	HeaderTenantID   = "X-Tenant-ID"

	ctxKeyLandlordID = "landlordID"
	ctxKeyTenantID   = "tenantProfileID"
)

var logField = map[string]string{
	ctxKeyLandlordID: "landlord_id",
	ctxKeyTenantID:   "tenant_id",
}

// LandlordID returns the acting landlord: the "landlordID" context value set
// by an authenticator, else the X-Landlord-ID header. Empty when neither.
func LandlordID(c *gin.Context) string {
	return identity(c, ctxKeyLandlordID, HeaderLandlordID)
}

// TenantID returns the acting tenant profile id from the "tenantProfileID"
// context value or the X-Tenant-ID header.
func TenantID(c *gin.Context) string {
	return identity(c, ctxKeyTenantID, HeaderTenantID)
}

func identity(c *gin.Context, key, header string) string {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c.Request != nil {
		return strings.TrimSpace(c.GetHeader(header))
	}
	return ""
}

// RequireLandlord rejects requests without a landlord identity and stores
// the resolved id in the context for the logger and rate limiter.
func RequireLandlord() gin.HandlerFunc {
	return require(ctxKeyLandlordID, LandlordID)
}

// RequireTenant is RequireLandlord for tenant-facing routes.
func RequireTenant() gin.HandlerFunc {
	return require(ctxKeyTenantID, TenantID)
}

func require(key string, resolve func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := resolve(c)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"request_id": c.Writer.Header().Get(requestIDHeader),
				"code":       "unauthorized",
				"message":    "unauthorized",
			})
			return
		}
		c.Set(key, id)
		withLogField(c, logField[key], id)
		c.Next()
	}
}
