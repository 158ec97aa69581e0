package events

import "time"

const SchedulePublishedTopic = "pawon.schedule.published.v1"

// SchedulePublishedEvent adalah broadcast ke semua karyawan yang punya
// assignment pada periode tersebut.
type SchedulePublishedEvent struct {
	EventType   string    `json:"event_type"`
	Month       int       `json:"month"`
	Year        int       `json:"year"`
	Message     string    `json:"message"`
	EmployeeIDs []string  `json:"employee_ids"`
	PublishedBy string    `json:"published_by"`
	OccurredAt  time.Time `json:"occurred_at"`
}
