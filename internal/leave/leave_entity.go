package leave

import (
	"time"

	"github.com/google/uuid"
)

// LeaveRequest adalah pengajuan cuti dengan rantai persetujuan dua tier:
// manajer restoran lalu HR. Record tidak pernah dihapus fisik; status
// terminal (APPROVED/REJECTED) bersifat final.
type LeaveRequest struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;index:idx_leave_requests_employee_dates"`

	LeaveType string    `gorm:"column:leave_type;type:varchar(20);not null;default:'ANNUAL'"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null;index:idx_leave_requests_employee_dates"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null;index:idx_leave_requests_employee_dates"`
	TotalDays int       `gorm:"column:total_days;type:int;not null;default:1"`
	Reason    string    `gorm:"column:reason;type:text;not null"`

	Status      string    `gorm:"column:status;type:varchar(20);not null;default:'PENDING_MANAGER';index"`
	SubmittedBy uuid.UUID `gorm:"column:submitted_by;type:uuid;not null"`

	ManagerDecidedBy *uuid.UUID `gorm:"column:manager_decided_by;type:uuid"`
	ManagerDecidedAt *time.Time `gorm:"column:manager_decided_at;type:timestamptz"`
	HRDecidedBy      *uuid.UUID `gorm:"column:hr_decided_by;type:uuid"`
	HRDecidedAt      *time.Time `gorm:"column:hr_decided_at;type:timestamptz"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
