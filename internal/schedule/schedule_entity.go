package schedule

import (
	"time"

	"github.com/google/uuid"
)

// ShiftAssignment adalah satu sel jadwal: satu karyawan, satu hari.
// Unik per (employee, date). StartTime/EndTime diturunkan dari tipe
// shift lewat TimeTable dan kosong untuk OFF. Color hanya atribut
// tampilan yang ikut tersimpan di record.
type ShiftAssignment struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"column:employee_id;type:uuid;not null;uniqueIndex:uq_shift_assignments_employee_date"`
	Date       time.Time `gorm:"column:date;type:date;not null;uniqueIndex:uq_shift_assignments_employee_date;index:idx_shift_assignments_date"`

	ShiftType string `gorm:"column:shift_type;type:varchar(10);not null;default:'OFF'"`
	StartTime string `gorm:"column:start_time;type:varchar(5);not null;default:''"`
	EndTime   string `gorm:"column:end_time;type:varchar(5);not null;default:''"`
	Color     string `gorm:"column:color;type:varchar(10);not null;default:''"`

	IsPublished bool `gorm:"column:is_published;not null;default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ShiftAssignment) TableName() string {
	return "shift_assignments"
}
