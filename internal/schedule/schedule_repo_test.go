package schedule_test

import (
	"context"
	"testing"
	"time"

	"pawon-ops/internal/authz"
	"pawon-ops/internal/messaging/kafka"
	"pawon-ops/internal/schedule"
	scheduleerrors "pawon-ops/internal/schedule/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockedRepository(t *testing.T) (schedule.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)

	return schedule.NewRepository(gormDB), mock
}

func TestScheduleRepository_WithTx(t *testing.T) {
	ctx := context.Background()

	t.Run("publish flips the period on the service tx, not the pool", func(t *testing.T) {
		repo, poolMock := newMockedRepository(t)

		txDB, txMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer txDB.Close()

		txMock.ExpectBegin()
		txMock.ExpectExec(`UPDATE "shift_assignments" SET`).WillReturnResult(sqlmock.NewResult(0, 62))
		txMock.ExpectCommit()

		tx, err := txDB.Begin()
		assert.NoError(t, err)

		affected, err := repo.WithTx(tx).PublishPeriod(ctx, 3, 2025)

		assert.NoError(t, err)
		assert.Equal(t, int64(62), affected)
		assert.NoError(t, tx.Commit())
		assert.NoError(t, txMock.ExpectationsWereMet())
		// koneksi pool tidak pernah tersentuh
		assert.NoError(t, poolMock.ExpectationsWereMet())
	})

	t.Run("rollback discards the shift update", func(t *testing.T) {
		repo, poolMock := newMockedRepository(t)

		txDB, txMock, err := sqlmock.New()
		assert.NoError(t, err)
		defer txDB.Close()

		txMock.ExpectBegin()
		txMock.ExpectExec(`UPDATE "shift_assignments" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		txMock.ExpectRollback()

		tx, err := txDB.Begin()
		assert.NoError(t, err)

		a := &schedule.ShiftAssignment{ID: uuid.New(), ShiftType: schedule.ShiftMiddle, StartTime: "11:00", EndTime: "19:00"}
		ok, err := repo.WithTx(tx).UpdateShift(ctx, a, schedule.ShiftMorning)

		assert.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, tx.Rollback())
		assert.NoError(t, txMock.ExpectationsWereMet())
		assert.NoError(t, poolMock.ExpectationsWereMet())
	})

	t.Run("repository without tx keeps using the pool", func(t *testing.T) {
		repo, poolMock := newMockedRepository(t)

		poolMock.ExpectQuery(`SELECT count`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(62))

		total, err := repo.CountByPeriod(ctx, 3, 2025)

		assert.NoError(t, err)
		assert.Equal(t, int64(62), total)
		assert.NoError(t, poolMock.ExpectationsWereMet())
	})
}

// Jalur publish end-to-end di atas satu koneksi: flip is_published dan
// baris outbox broadcast harus satu transaksi, dan kekalahan race pada
// jumlah baris membatalkan keduanya.
func TestScheduleService_PublishTransaction(t *testing.T) {
	ctx := context.Background()
	manager := authz.Actor{EmployeeID: uuid.New().String(), Role: authz.RoleRestaurantManager}
	employeeID := uuid.New()

	newFullService := func(t *testing.T) (schedule.Service, sqlmock.Sqlmock) {
		t.Helper()

		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
		assert.NoError(t, err)

		svc := schedule.NewService(
			db,
			schedule.NewRepository(gormDB),
			activeDirectory(),
			kafka.NewOutboxRepository(db),
			schedule.NewWeeklyClosingPolicy(time.Monday),
			schedule.NewStaticTimeTable(),
		)
		return svc, mock
	}

	countRow := func(n int64) *sqlmock.Rows {
		return sqlmock.NewRows([]string{"count"}).AddRow(n)
	}

	t.Run("publish flip and outbox row commit together", func(t *testing.T) {
		svc, mock := newFullService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count`).WillReturnRows(countRow(62))
		mock.ExpectQuery(`SELECT count`).WillReturnRows(countRow(62))
		mock.ExpectQuery(`SELECT DISTINCT`).
			WillReturnRows(sqlmock.NewRows([]string{"employee_id"}).AddRow(employeeID.String()))
		mock.ExpectExec(`UPDATE "shift_assignments" SET`).WillReturnResult(sqlmock.NewResult(0, 62))
		mock.ExpectExec(`INSERT INTO outbox_events`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		// setelah commit, response dibangun dari baca ulang periode di pool
		mock.ExpectQuery(`SELECT (.+) FROM "shift_assignments"`).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "employee_id", "date", "shift_type", "start_time", "end_time", "color", "is_published",
			}).AddRow(
				uuid.New().String(), employeeID.String(),
				time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC),
				schedule.ShiftMorning, "07:00", "15:00", "", true,
			))

		resp, err := svc.Publish(ctx, manager, schedule.PublishScheduleRequest{Month: 3, Year: 2025})

		assert.NoError(t, err)
		assert.True(t, resp.IsPublished)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative row-count race aborts the whole transaction", func(t *testing.T) {
		svc, mock := newFullService(t)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count`).WillReturnRows(countRow(62))
		mock.ExpectQuery(`SELECT count`).WillReturnRows(countRow(62))
		mock.ExpectQuery(`SELECT DISTINCT`).
			WillReturnRows(sqlmock.NewRows([]string{"employee_id"}).AddRow(employeeID.String()))
		mock.ExpectExec(`UPDATE "shift_assignments" SET`).WillReturnResult(sqlmock.NewResult(0, 31))
		mock.ExpectRollback()

		_, err := svc.Publish(ctx, manager, schedule.PublishScheduleRequest{Month: 3, Year: 2025})

		assert.ErrorIs(t, err, scheduleerrors.ErrPublishConcurrentUpdate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
