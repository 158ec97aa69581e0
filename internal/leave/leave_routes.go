package leave

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
	leaves := r.Group("/leaves")
	leaves.Use(middleware.AuthMiddleware(dir))
	{
		leaves.GET("", middleware.Authorize(authzService, "leave", "read"), handler.List)
		leaves.GET("/:id", middleware.Authorize(authzService, "leave", "read"), handler.GetByID)
		leaves.POST("", middleware.Authorize(authzService, "leave", "create"), handler.Submit)
		leaves.POST("/:id/approve", middleware.Authorize(authzService, "leave", "approve"), handler.Approve)
		leaves.POST("/:id/reject", middleware.Authorize(authzService, "leave", "approve"), handler.Reject)
	}
}
