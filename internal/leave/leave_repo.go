package leave

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error)
	// UpdateStatus menulis transisi hanya jika status di DB masih sama
	// dengan expectedStatus (optimistic precondition). Mengembalikan
	// false tanpa error jika precondition meleset.
	UpdateStatus(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error)
	HasActiveOverlap(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx mengembalikan repository yang seluruh statement-nya berjalan
// di atas tx milik service, bukan koneksi autocommit. ConnPool session
// diganti ke *sql.Tx, sama seperti yang dilakukan gorm.DB.Begin.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	txdb := r.db.Session(&gorm.Session{Context: r.db.Statement.Context, NewDB: true})
	txdb.Statement.ConnPool = tx
	return &repository{db: txdb}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) FindByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) FindByStatus(ctx context.Context, status string) ([]LeaveRequest, error) {
	var leaves []LeaveRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&leaves).Error
	return leaves, err
}

func (r *repository) UpdateStatus(ctx context.Context, l *LeaveRequest, expectedStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ?", l.ID).
		Where("status = ?", expectedStatus).
		Updates(map[string]any{
			"status":             l.Status,
			"manager_decided_by": l.ManagerDecidedBy,
			"manager_decided_at": l.ManagerDecidedAt,
			"hr_decided_by":      l.HRDecidedBy,
			"hr_decided_at":      l.HRDecidedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) HasActiveOverlap(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status <> ?", StatusRejected).
		Where("NOT (end_date < ? OR start_date > ?)", startDate, endDate).
		Count(&count).Error
	return count > 0, err
}
