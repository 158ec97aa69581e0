package notification

import "time"

const (
	EntityLeaveRequest = "LEAVE_REQUEST"
	EntitySchedule     = "SCHEDULE"
)

type NotificationResponse struct {
	ID         string    `json:"id"`
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

func mapToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID.String(),
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		Message:    n.Message,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}
