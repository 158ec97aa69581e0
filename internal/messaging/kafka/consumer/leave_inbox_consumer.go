package consumer

import (
	"context"
	"encoding/json"

	"pawon-ops/internal/directory"
	"pawon-ops/internal/events"
	"pawon-ops/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveStatusChanged memasukkan event perubahan status cuti ke
// inbox notifikasi. RecipientRole di-fan-out ke semua karyawan aktif
// dengan role tersebut (mis. antrean persetujuan HR).
func ConsumeLeaveStatusChanged(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	directoryService directory.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_inbox")
	log.Info("leave inbox consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave inbox consumer stopped")
				return
			}
			log.Error("fetch leave status message failed", zap.Error(err))
			continue
		}

		var event events.LeaveStatusChangedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave status event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		items, err := resolveLeaveRecipients(ctx, event, directoryService)
		if err != nil {
			log.Error("resolve leave notification recipients failed",
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
			continue
		}

		if err := notificationService.Ingest(ctx, items); err != nil {
			log.Error("ingest leave notifications failed",
				zap.String("leave_id", event.LeaveID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave status message failed", zap.Error(err))
			continue
		}

		log.Info("leave notifications delivered",
			zap.String("leave_id", event.LeaveID),
			zap.String("status", event.Status),
			zap.Int("recipients", len(items)),
		)
	}
}

func resolveLeaveRecipients(
	ctx context.Context,
	event events.LeaveStatusChangedEvent,
	directoryService directory.Service,
) ([]notification.IngestItem, error) {
	var items []notification.IngestItem

	if event.RecipientID != "" {
		items = append(items, notification.IngestItem{
			RecipientID: event.RecipientID,
			EntityType:  notification.EntityLeaveRequest,
			EntityID:    event.LeaveID,
			Message:     event.Message,
		})
	}

	if event.RecipientRole != "" {
		pool, err := directoryService.ListActiveByRole(ctx, event.RecipientRole)
		if err != nil {
			return nil, err
		}
		for _, rec := range pool {
			// pemilik cuti tidak perlu menerima pesan antrean dua kali
			if rec.ID == event.RecipientID {
				continue
			}
			items = append(items, notification.IngestItem{
				RecipientID: rec.ID,
				EntityType:  notification.EntityLeaveRequest,
				EntityID:    event.LeaveID,
				Message:     event.Message,
			})
		}
	}

	return items, nil
}
