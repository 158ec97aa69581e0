package middleware

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	"pawon-ops/internal/directory"
	"pawon-ops/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextActorID   = "actor_employee_id"
	ContextActorRole = "actor_role"
)

// AuthMiddleware memvalidasi JWT lalu me-resolve actor dari directory.
// Role TIDAK diambil dari klaim token; directory adalah sumber kebenaran
// supaya perubahan role/non-aktif langsung berlaku tanpa menunggu token
// kedaluwarsa.
func AuthMiddleware(dir directory.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		authHeader := c.GetHeader("Authorization")
		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token not found", nil)
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(os.Getenv("JWT_SECRET")), nil
		})

		if err != nil || !token.Valid {
			code := "INVALID_TOKEN"
			message := "Invalid token"
			if err != nil && strings.Contains(err.Error(), "expired") {
				code = "TOKEN_EXPIRED"
				message = "Token has expired"
			}
			response.Error(c, http.StatusUnauthorized, code, message, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid token claims", nil)
			c.Abort()
			return
		}

		employeeID, ok := claims["employee_id"].(string)
		if !ok || employeeID == "" {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Employee ID not found in token", nil)
			c.Abort()
			return
		}

		record, err := dir.GetEmployee(c.Request.Context(), employeeID)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Employee tidak dikenal", nil)
			c.Abort()
			return
		}
		if !record.IsActive {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Employee sudah tidak aktif", nil)
			c.Abort()
			return
		}

		c.Set(ContextActorID, record.ID)
		c.Set(ContextActorRole, record.Role)

		c.Next()
	}
}
