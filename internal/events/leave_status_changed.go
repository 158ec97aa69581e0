package events

import "time"

const LeaveStatusChangedTopic = "pawon.leave.status.v1"

// LeaveStatusChangedEvent diterbitkan setiap transisi status cuti yang
// berhasil. RecipientID adalah karyawan pemilik cuti; RecipientRole
// diisi jika notifikasi ditujukan ke pool role (mis. antrean HR).
type LeaveStatusChangedEvent struct {
	EventType     string    `json:"event_type"`
	LeaveID       string    `json:"leave_id"`
	EmployeeID    string    `json:"employee_id"`
	Status        string    `json:"status"`
	Message       string    `json:"message"`
	RecipientID   string    `json:"recipient_id,omitempty"`
	RecipientRole string    `json:"recipient_role,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
