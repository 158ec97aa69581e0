package auth

import (
	"github.com/google/uuid"
)

// Account adalah read model kredensial di atas tabel employees; auth
// tidak pernah menulis ke tabel ini.
type Account struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	FullName     string    `gorm:"column:full_name"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role"`
	IsActive     bool      `gorm:"column:is_active"`
}

func (Account) TableName() string {
	return "employees"
}
