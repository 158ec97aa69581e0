package notification

import (
	"pawon-ops/internal/directory"
	"pawon-ops/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authzService middleware.AuthzService,
	dir directory.Service,
) {
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(dir))
	{
		notifications.GET("", middleware.Authorize(authzService, "notification", "read"), handler.List)
		notifications.GET("/unread-count", middleware.Authorize(authzService, "notification", "read"), handler.UnreadCount)
		notifications.POST("/:id/read", middleware.Authorize(authzService, "notification", "read"), handler.MarkRead)
	}
}
