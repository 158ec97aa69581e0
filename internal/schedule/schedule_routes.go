package schedule

import (
	"pawon-ops/internal/directory"
	"pawon-ops/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	authzService middleware.AuthzService,
	dir directory.Service,
	rdb *redis.Client,
) {
	schedules := r.Group("/schedules")
	schedules.Use(middleware.AuthMiddleware(dir))
	{
		schedules.GET("", middleware.Authorize(authzService, "schedule", "read"), handler.ListPeriod)
		schedules.POST("/generate",
			middleware.Authorize(authzService, "schedule", "generate"),
			middleware.Idempotency(rdb),
			handler.Generate,
		)
		schedules.PATCH("/assignments/:id", middleware.Authorize(authzService, "schedule", "update"), handler.UpdateAssignment)
		schedules.POST("/publish", middleware.Authorize(authzService, "schedule", "publish"), handler.Publish)
	}
}
