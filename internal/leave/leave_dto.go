package leave

type SubmitLeaveRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
	LeaveType  string `json:"leave_type" binding:"required,oneof=SICK ANNUAL OTHER"`
	StartDate  string `json:"start_date" binding:"required"`
	EndDate    string `json:"end_date" binding:"required"`
	Reason     string `json:"reason" binding:"required"`
}

type LeaveResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	TotalDays  int    `json:"total_days"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`

	SubmittedBy      string  `json:"submitted_by"`
	ManagerDecidedBy *string `json:"manager_decided_by,omitempty"`
	ManagerDecidedAt *string `json:"manager_decided_at,omitempty"`
	HRDecidedBy      *string `json:"hr_decided_by,omitempty"`
	HRDecidedAt      *string `json:"hr_decided_at,omitempty"`
}

const (
	// ListScopeOwn: riwayat milik actor sendiri.
	// ListScopeQueue: antrean keputusan sesuai tier actor.
	ListScopeOwn   = "own"
	ListScopeQueue = "queue"
)
