package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"pawon-ops/internal/events"
	"pawon-ops/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeSchedulePublished menyiarkan terbitnya jadwal bulanan ke setiap
// karyawan yang punya assignment pada periode tersebut.
func ConsumeSchedulePublished(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.schedule_inbox")
	log.Info("schedule inbox consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("schedule inbox consumer stopped")
				return
			}
			log.Error("fetch schedule published message failed", zap.Error(err))
			continue
		}

		var event events.SchedulePublishedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode schedule published event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		entityID := fmt.Sprintf("%d-%02d", event.Year, event.Month)
		items := make([]notification.IngestItem, 0, len(event.EmployeeIDs))
		for _, employeeID := range event.EmployeeIDs {
			items = append(items, notification.IngestItem{
				RecipientID: employeeID,
				EntityType:  notification.EntitySchedule,
				EntityID:    entityID,
				Message:     event.Message,
			})
		}

		if err := notificationService.Ingest(ctx, items); err != nil {
			log.Error("ingest schedule notifications failed",
				zap.String("period", entityID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit schedule published message failed", zap.Error(err))
			continue
		}

		log.Info("schedule publish broadcast delivered",
			zap.String("period", entityID),
			zap.Int("recipients", len(items)),
		)
	}
}
