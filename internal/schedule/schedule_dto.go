package schedule

type GenerateScheduleRequest struct {
	Month       int      `json:"month" binding:"required,min=1,max=12"`
	Year        int      `json:"year" binding:"required,min=2000,max=2100"`
	EmployeeIDs []string `json:"employee_ids" binding:"required,min=1,dive,uuid"`
}

type UpdateAssignmentRequest struct {
	ShiftType string `json:"shift_type" binding:"required,oneof=OFF MORNING MIDDLE"`
}

type PublishScheduleRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=2000,max=2100"`
}

type AssignmentResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	Date        string `json:"date"`
	ShiftType   string `json:"shift_type"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Color       string `json:"color"`
	IsPublished bool   `json:"is_published"`
}

type PeriodResponse struct {
	Month       int                  `json:"month"`
	Year        int                  `json:"year"`
	IsPublished bool                 `json:"is_published"`
	Assignments []AssignmentResponse `json:"assignments"`
}
