package notification

import (
	"context"

	notificationerrors "pawon-ops/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type IngestItem struct {
	RecipientID string
	EntityType  string
	EntityID    string
	Message     string
}

type Service interface {
	// Ingest dipanggil consumer Kafka: satu event bisa menjadi banyak
	// baris inbox (fan-out per recipient).
	Ingest(ctx context.Context, items []IngestItem) error
	ListForActor(ctx context.Context, recipientID string, limit, offset int) ([]NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id, recipientID string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Ingest(ctx context.Context, items []IngestItem) error {
	rows := make([]Notification, 0, len(items))
	for _, it := range items {
		recipientID, err := uuid.Parse(it.RecipientID)
		if err != nil {
			// recipient rusak tidak boleh menggagalkan seluruh batch
			s.logger.Warn("skip notification with invalid recipient",
				zap.String("recipient_id", it.RecipientID),
				zap.String("entity_id", it.EntityID),
			)
			continue
		}
		rows = append(rows, Notification{
			RecipientID: recipientID,
			EntityType:  it.EntityType,
			EntityID:    it.EntityID,
			Message:     it.Message,
		})
	}

	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return err
	}

	s.logger.Info("notifications ingested", zap.Int("count", len(rows)))
	return nil
}

func (s *service) ListForActor(ctx context.Context, recipientID string, limit, offset int) ([]NotificationResponse, int64, error) {
	total, err := s.repo.CountByRecipient(ctx, recipientID)
	if err != nil {
		return nil, 0, err
	}

	rows, err := s.repo.FindByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]NotificationResponse, len(rows))
	for i, n := range rows {
		responses[i] = mapToResponse(n)
	}
	return responses, total, nil
}

func (s *service) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	return s.repo.CountUnreadByRecipient(ctx, recipientID)
}

func (s *service) MarkRead(ctx context.Context, id, recipientID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notificationerrors.ErrNotificationNotFound
	}

	updated, err := s.repo.MarkRead(ctx, id, recipientID)
	if err != nil {
		return err
	}
	if !updated {
		return notificationerrors.ErrNotificationNotFound
	}
	return nil
}
