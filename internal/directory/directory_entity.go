package directory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Employee adalah record direktori karyawan. Workflow engine hanya
// membaca id, role dan flag aktif; mutasi data karyawan terjadi di
// aplikasi HR terpisah.
type Employee struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName     string    `gorm:"column:full_name;type:varchar(150);not null"`
	Email        string    `gorm:"column:email;type:varchar(150);not null;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash;type:varchar(100);not null"`
	Role         string    `gorm:"column:role;type:varchar(30);not null;default:'EMPLOYEE'"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Employee) TableName() string {
	return "employees"
}
