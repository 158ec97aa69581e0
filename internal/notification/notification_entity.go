package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification adalah inbox in-app per karyawan, dimaterialisasi oleh
// consumer dari event workflow di Kafka.
type Notification struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	RecipientID uuid.UUID `gorm:"column:recipient_id;type:uuid;not null;index:idx_notifications_recipient"`

	EntityType string `gorm:"column:entity_type;type:varchar(30);not null"`
	EntityID   string `gorm:"column:entity_id;type:varchar(40);not null"`
	Message    string `gorm:"column:message;type:text;not null"`

	IsRead    bool `gorm:"column:is_read;not null;default:false;index:idx_notifications_recipient"`
	CreatedAt time.Time
}

func (Notification) TableName() string {
	return "notifications"
}
