package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(ctx context.Context, notifications []Notification) error
	FindByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error)
	CountByRecipient(ctx context.Context, recipientID string) (int64, error)
	CountUnreadByRecipient(ctx context.Context, recipientID string) (int64, error)
	// MarkRead hanya mengubah baris milik recipient tersebut. Mengembalikan
	// false bila notifikasi tidak ada atau bukan milik recipient.
	MarkRead(ctx context.Context, id, recipientID string) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, notifications []Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(notifications, 200).Error
}

func (r *repository) FindByRecipient(ctx context.Context, recipientID string, limit, offset int) ([]Notification, error) {
	var rows []Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountByRecipient(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ?", recipientID).
		Count(&count).Error
	return count, err
}

func (r *repository) CountUnreadByRecipient(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("recipient_id = ?", recipientID).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, id, recipientID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id = ?", id).
		Where("recipient_id = ?", recipientID).
		Update("is_read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
