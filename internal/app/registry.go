package app

import (
	"database/sql"
	"os"
	"strings"
	"time"

	"pawon-ops/internal/auth"
	"pawon-ops/internal/authz"
	"pawon-ops/internal/authz/infra"
	"pawon-ops/internal/directory"
	"pawon-ops/internal/leave"
	"pawon-ops/internal/messaging/kafka"
	"pawon-ops/internal/middleware"
	"pawon-ops/internal/notification"
	"pawon-ops/internal/schedule"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	directoryRepo := directory.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	scheduleRepo := schedule.NewRepository(gormDB)

	// --- Authorization Core ---
	enforcer, err := infra.NewEnforcer()
	if err != nil {
		return err
	}
	authzService := authz.NewService(enforcer)
	if err := authzService.LoadPolicy(); err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo)
	directoryService := directory.NewService(directoryRepo, rdb)
	leaveService := leave.NewService(db, leaveRepo, directoryService, outboxRepo)
	notificationService := notification.NewService(notificationRepo)
	scheduleService := schedule.NewService(
		db,
		scheduleRepo,
		directoryService,
		outboxRepo,
		schedule.NewWeeklyClosingPolicy(closingDayFromEnv()),
		schedule.NewStaticTimeTable(),
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	leaveHandler := leave.NewHandler(leaveService)
	notificationHandler := notification.NewHandler(notificationService)
	scheduleHandler := schedule.NewHandler(scheduleService)

	// --- Routes Registration ---
	router.Use(middleware.ContextLogger(zap.L()))

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, directoryService)
		leave.RegisterRoutes(api, leaveHandler, authzService, directoryService)
		notification.RegisterRoutes(api, notificationHandler, authzService, directoryService)
		schedule.RegisterRoutes(api, scheduleHandler, authzService, directoryService, rdb)
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	return nil
}

// closingDayFromEnv membaca hari tutup mingguan restoran; default Senin.
func closingDayFromEnv() time.Weekday {
	switch strings.ToUpper(os.Getenv("SCHEDULE_CLOSING_DAY")) {
	case "SUNDAY":
		return time.Sunday
	case "TUESDAY":
		return time.Tuesday
	case "WEDNESDAY":
		return time.Wednesday
	case "THURSDAY":
		return time.Thursday
	case "FRIDAY":
		return time.Friday
	case "SATURDAY":
		return time.Saturday
	default:
		return time.Monday
	}
}
