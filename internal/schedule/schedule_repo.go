package schedule

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateBatch(ctx context.Context, assignments []ShiftAssignment) error
	FindByID(ctx context.Context, id string) (*ShiftAssignment, error)
	FindByPeriod(ctx context.Context, month, year int) ([]ShiftAssignment, error)
	CountByPeriod(ctx context.Context, month, year int) (int64, error)
	CountUnpublishedByPeriod(ctx context.Context, month, year int) (int64, error)
	// UpdateShift menulis tipe+jam baru hanya jika tipe di DB masih
	// sama dengan expectedType (optimistic precondition).
	UpdateShift(ctx context.Context, a *ShiftAssignment, expectedType string) (bool, error)
	// PublishPeriod membalik is_published seluruh periode dalam satu
	// statement; mengembalikan jumlah baris yang berubah.
	PublishPeriod(ctx context.Context, month, year int) (int64, error)
	DistinctEmployeeIDsByPeriod(ctx context.Context, month, year int) ([]string, error)
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

// periodRange: [awal bulan, awal bulan berikutnya)
func periodRange(month, year int) (time.Time, time.Time) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func (r *repository) CreateBatch(ctx context.Context, assignments []ShiftAssignment) error {
	return r.db.WithContext(ctx).CreateInBatches(assignments, 200).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*ShiftAssignment, error) {
	var a ShiftAssignment
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *repository) FindByPeriod(ctx context.Context, month, year int) ([]ShiftAssignment, error) {
	start, end := periodRange(month, year)

	var assignments []ShiftAssignment
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", start, end).
		Order("employee_id, date ASC").
		Find(&assignments).Error
	return assignments, err
}

func (r *repository) CountByPeriod(ctx context.Context, month, year int) (int64, error) {
	start, end := periodRange(month, year)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&ShiftAssignment{}).
		Where("date >= ? AND date < ?", start, end).
		Count(&count).Error
	return count, err
}

func (r *repository) CountUnpublishedByPeriod(ctx context.Context, month, year int) (int64, error) {
	start, end := periodRange(month, year)

	var count int64
	err := r.db.WithContext(ctx).
		Model(&ShiftAssignment{}).
		Where("date >= ? AND date < ?", start, end).
		Where("is_published = ?", false).
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateShift(ctx context.Context, a *ShiftAssignment, expectedType string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&ShiftAssignment{}).
		Where("id = ?", a.ID).
		Where("shift_type = ?", expectedType).
		Updates(map[string]any{
			"shift_type": a.ShiftType,
			"start_time": a.StartTime,
			"end_time":   a.EndTime,
			"color":      a.Color,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) PublishPeriod(ctx context.Context, month, year int) (int64, error) {
	start, end := periodRange(month, year)

	res := r.db.WithContext(ctx).
		Model(&ShiftAssignment{}).
		Where("date >= ? AND date < ?", start, end).
		Where("is_published = ?", false).
		Update("is_published", true)
	return res.RowsAffected, res.Error
}

func (r *repository) DistinctEmployeeIDsByPeriod(ctx context.Context, month, year int) ([]string, error) {
	start, end := periodRange(month, year)

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&ShiftAssignment{}).
		Distinct().
		Where("date >= ? AND date < ?", start, end).
		Order("employee_id::text").
		Pluck("employee_id::text", &ids).Error
	return ids, err
}
