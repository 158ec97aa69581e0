package middleware

import (
	"net/http"

	"pawon-ops/internal/authz"

	"github.com/gin-gonic/gin"
)

// AuthzService adalah interface lokal agar middleware tidak terikat
// implementasi konkret package authz.
type AuthzService interface {
	Enforce(req authz.EnforceRequest) (bool, error)
}

// Authorize adalah gerbang kasar resource x action dari tabel otorisasi
// pusat. Aturan yang tergantung state entity dicek di dalam engine.
func Authorize(service AuthzService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextActorRole)
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing auth context"})
			c.Abort()
			return
		}

		allowed, err := service.Enforce(authz.EnforceRequest{
			Role:     role,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "forbidden",
				"message":  "You do not have permission to perform this action",
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
