package auth

import (
	"pawon-ops/internal/directory"
	"pawon-ops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, dir directory.Service) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", middleware.RateLimitByIP(0.1, 5), handler.Login)
		auth.POST("/refresh", middleware.RateLimitByIP(0.5, 5), handler.RefreshToken)
		auth.GET("/me", middleware.AuthMiddleware(dir), middleware.RateLimitByActor(2, 5), handler.Me)
	}
}
