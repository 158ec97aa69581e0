package leave_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"pawon-ops/internal/authz"
	"pawon-ops/internal/directory"
	"pawon-ops/internal/leave"
	leaveerrors "pawon-ops/internal/leave/errors"
	"pawon-ops/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLeaveRepository struct {
	createFn           func(ctx context.Context, l *leave.LeaveRequest) error
	findByIDFn         func(ctx context.Context, id string) (*leave.LeaveRequest, error)
	findByEmployeeFn   func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error)
	findByStatusFn     func(ctx context.Context, status string) ([]leave.LeaveRequest, error)
	updateStatusFn     func(ctx context.Context, l *leave.LeaveRequest, expectedStatus string) (bool, error)
	hasActiveOverlapFn func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error {
	return f.createFn(ctx, l)
}

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeLeaveRepository) FindByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return f.findByEmployeeFn(ctx, employeeID)
}

func (f *fakeLeaveRepository) FindByStatus(ctx context.Context, status string) ([]leave.LeaveRequest, error) {
	return f.findByStatusFn(ctx, status)
}

func (f *fakeLeaveRepository) UpdateStatus(ctx context.Context, l *leave.LeaveRequest, expectedStatus string) (bool, error) {
	return f.updateStatusFn(ctx, l, expectedStatus)
}

func (f *fakeLeaveRepository) HasActiveOverlap(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	return f.hasActiveOverlapFn(ctx, employeeID, startDate, endDate)
}

type fakeDirectoryService struct {
	getEmployeeFn            func(ctx context.Context, id string) (directory.EmployeeRecord, error)
	requireActiveEmployeesFn func(ctx context.Context, ids []string) ([]directory.EmployeeRecord, error)
	listActiveByRoleFn       func(ctx context.Context, role string) ([]directory.EmployeeRecord, error)
}

func (f *fakeDirectoryService) GetEmployee(ctx context.Context, id string) (directory.EmployeeRecord, error) {
	return f.getEmployeeFn(ctx, id)
}

func (f *fakeDirectoryService) RequireActiveEmployees(ctx context.Context, ids []string) ([]directory.EmployeeRecord, error) {
	return f.requireActiveEmployeesFn(ctx, ids)
}

func (f *fakeDirectoryService) ListActiveByRole(ctx context.Context, role string) ([]directory.EmployeeRecord, error) {
	return f.listActiveByRoleFn(ctx, role)
}

type fakeOutboxRepository struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutboxRepository) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutboxRepository) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutboxRepository) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutboxRepository) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutboxRepository) MarkFailed(ctx context.Context, id string, reason string) error {
	return nil
}

func activeDirectory() *fakeDirectoryService {
	return &fakeDirectoryService{
		requireActiveEmployeesFn: func(ctx context.Context, ids []string) ([]directory.EmployeeRecord, error) {
			records := make([]directory.EmployeeRecord, len(ids))
			for i, id := range ids {
				records[i] = directory.EmployeeRecord{ID: id, Role: authz.RoleEmployee, IsActive: true}
			}
			return records, nil
		},
	}
}

func TestLeaveService_Submit(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()
	actor := authz.Actor{EmployeeID: employeeID.String(), Role: authz.RoleEmployee}

	validReq := leave.SubmitLeaveRequest{
		EmployeeID: employeeID.String(),
		LeaveType:  "ANNUAL",
		StartDate:  "2025-03-10",
		EndDate:    "2025-03-12",
		Reason:     "Mudik lebaran",
	}

	t.Run("success starts at manager tier and notifies manager pool", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		var created *leave.LeaveRequest
		repo := &fakeLeaveRepository{
			hasActiveOverlapFn: func(ctx context.Context, id string, start, end time.Time) (bool, error) {
				return false, nil
			},
			createFn: func(ctx context.Context, l *leave.LeaveRequest) error {
				created = l
				return nil
			},
		}
		outbox := &fakeOutboxRepository{}
		svc := leave.NewService(db, repo, activeDirectory(), outbox)

		resp, err := svc.Submit(ctx, actor, validReq)

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPendingManager, resp.Status)
		assert.Equal(t, 3, resp.TotalDays)
		assert.NotNil(t, created)
		assert.Equal(t, employeeID, created.SubmittedBy)
		assert.Len(t, outbox.created, 1)
		assert.Contains(t, string(outbox.created[0].Payload), authz.RoleRestaurantManager)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("manager submits on behalf of employee", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		manager := authz.Actor{EmployeeID: uuid.New().String(), Role: authz.RoleRestaurantManager}
		repo := &fakeLeaveRepository{
			hasActiveOverlapFn: func(ctx context.Context, id string, start, end time.Time) (bool, error) {
				return false, nil
			},
			createFn: func(ctx context.Context, l *leave.LeaveRequest) error { return nil },
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		resp, err := svc.Submit(ctx, manager, validReq)

		assert.NoError(t, err)
		assert.Equal(t, manager.EmployeeID, resp.SubmittedBy)
	})

	t.Run("negative employee cannot submit for someone else", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		other := leave.SubmitLeaveRequest{
			EmployeeID: uuid.New().String(),
			LeaveType:  "SICK",
			StartDate:  "2025-03-10",
			EndDate:    "2025-03-10",
			Reason:     "Demam",
		}
		svc := leave.NewService(db, &fakeLeaveRepository{}, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.Submit(ctx, actor, other)

		assert.ErrorIs(t, err, leaveerrors.ErrSubmitNotAllowed)
	})

	t.Run("negative overlap with active leave", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		repo := &fakeLeaveRepository{
			hasActiveOverlapFn: func(ctx context.Context, id string, start, end time.Time) (bool, error) {
				return true, nil
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.Submit(ctx, actor, validReq)

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveOverlap)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative end before start", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		bad := validReq
		bad.StartDate = "2025-03-12"
		bad.EndDate = "2025-03-10"
		svc := leave.NewService(db, &fakeLeaveRepository{}, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.Submit(ctx, actor, bad)

		assert.ErrorIs(t, err, leaveerrors.ErrInvalidDateRange)
	})

	t.Run("negative empty reason", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		bad := validReq
		bad.Reason = ""
		svc := leave.NewService(db, &fakeLeaveRepository{}, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.Submit(ctx, actor, bad)

		assert.ErrorIs(t, err, leaveerrors.ErrReasonRequired)
	})
}

func TestLeaveService_Decide(t *testing.T) {
	ctx := context.Background()
	leaveID := uuid.New()
	ownerID := uuid.New()
	manager := authz.Actor{EmployeeID: uuid.New().String(), Role: authz.RoleRestaurantManager}
	hr := authz.Actor{EmployeeID: uuid.New().String(), Role: authz.RoleHRManager}

	pendingManager := func() *leave.LeaveRequest {
		return &leave.LeaveRequest{
			ID:         leaveID,
			EmployeeID: ownerID,
			LeaveType:  "ANNUAL",
			StartDate:  time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
			TotalDays:  3,
			Reason:     "Mudik lebaran",
			Status:     leave.StatusPendingManager,
		}
	}

	t.Run("manager approve forwards to HR and notifies both", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return pendingManager(), nil
			},
			updateStatusFn: func(ctx context.Context, l *leave.LeaveRequest, expectedStatus string) (bool, error) {
				assert.Equal(t, leave.StatusPendingManager, expectedStatus)
				assert.Equal(t, leave.StatusPendingHR, l.Status)
				assert.NotNil(t, l.ManagerDecidedBy)
				assert.NotNil(t, l.ManagerDecidedAt)
				return true, nil
			},
		}
		outbox := &fakeOutboxRepository{}
		svc := leave.NewService(db, repo, activeDirectory(), outbox)

		resp, err := svc.Approve(ctx, manager, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusPendingHR, resp.Status)
		// satu event ke pemilik + satu ke pool HR
		assert.Len(t, outbox.created, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("hr approve finalizes", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		l := pendingManager()
		l.Status = leave.StatusPendingHR
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return l, nil
			},
			updateStatusFn: func(ctx context.Context, l *leave.LeaveRequest, expectedStatus string) (bool, error) {
				assert.Equal(t, leave.StatusPendingHR, expectedStatus)
				assert.NotNil(t, l.HRDecidedBy)
				return true, nil
			},
		}
		outbox := &fakeOutboxRepository{}
		svc := leave.NewService(db, repo, activeDirectory(), outbox)

		resp, err := svc.Approve(ctx, hr, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusApproved, resp.Status)
		assert.Len(t, outbox.created, 1)
	})

	t.Run("hr reject at second tier is terminal", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		l := pendingManager()
		l.Status = leave.StatusPendingHR
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return l, nil
			},
			updateStatusFn: func(ctx context.Context, l *leave.LeaveRequest, expectedStatus string) (bool, error) {
				return true, nil
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		resp, err := svc.Reject(ctx, hr, leaveID.String())

		assert.NoError(t, err)
		assert.Equal(t, leave.StatusRejected, resp.Status)
	})

	t.Run("negative decide on terminal status", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		l := pendingManager()
		l.Status = leave.StatusRejected
		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return l, nil
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.Approve(ctx, hr, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveAlreadyFinal)
	})

	t.Run("negative wrong role for tier", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return pendingManager(), nil
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.Approve(ctx, hr, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotAuthorizedForState)
	})

	t.Run("negative optimistic race loser gets conflict", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return pendingManager(), nil
			},
			updateStatusFn: func(ctx context.Context, l *leave.LeaveRequest, expectedStatus string) (bool, error) {
				// penulis lain sudah menggeser status
				return false, nil
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.Approve(ctx, manager, leaveID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveConcurrentUpdate)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative leave not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.Approve(ctx, manager, uuid.New().String())

		assert.ErrorIs(t, err, leaveerrors.ErrLeaveNotFound)
	})
}

func TestLeaveService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("manager default scope is pending queue", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeLeaveRepository{
			findByStatusFn: func(ctx context.Context, status string) ([]leave.LeaveRequest, error) {
				assert.Equal(t, leave.StatusPendingManager, status)
				return []leave.LeaveRequest{{ID: uuid.New(), EmployeeID: uuid.New(), Status: status}}, nil
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		rows, err := svc.List(ctx, authz.Actor{EmployeeID: uuid.New().String(), Role: authz.RoleRestaurantManager}, "")

		assert.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("hr queue scope reads hr tier", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeLeaveRepository{
			findByStatusFn: func(ctx context.Context, status string) ([]leave.LeaveRequest, error) {
				assert.Equal(t, leave.StatusPendingHR, status)
				return nil, nil
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.List(ctx, authz.Actor{EmployeeID: uuid.New().String(), Role: authz.RoleHRManager}, leave.ListScopeQueue)

		assert.NoError(t, err)
	})

	t.Run("employee default scope is own history", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		me := uuid.New().String()
		repo := &fakeLeaveRepository{
			findByEmployeeFn: func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
				assert.Equal(t, me, employeeID)
				return nil, nil
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.List(ctx, authz.Actor{EmployeeID: me, Role: authz.RoleEmployee}, "")

		assert.NoError(t, err)
	})

	t.Run("negative employee cannot read queue scope", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		svc := leave.NewService(db, &fakeLeaveRepository{}, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.List(ctx, authz.Actor{EmployeeID: uuid.New().String(), Role: authz.RoleEmployee}, leave.ListScopeQueue)

		assert.ErrorIs(t, err, leaveerrors.ErrNotAuthorizedForState)
	})
}

func TestLeaveService_GetByID(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	l := &leave.LeaveRequest{
		ID:         uuid.New(),
		EmployeeID: ownerID,
		Status:     leave.StatusPendingManager,
	}

	t.Run("owner can read own leave", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return l, nil
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		resp, err := svc.GetByID(ctx, authz.Actor{EmployeeID: ownerID.String(), Role: authz.RoleEmployee}, l.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, ownerID.String(), resp.EmployeeID)
	})

	t.Run("negative other employee cannot read", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		repo := &fakeLeaveRepository{
			findByIDFn: func(ctx context.Context, id string) (*leave.LeaveRequest, error) {
				return l, nil
			},
		}
		svc := leave.NewService(db, repo, activeDirectory(), &fakeOutboxRepository{})

		_, err = svc.GetByID(ctx, authz.Actor{EmployeeID: uuid.New().String(), Role: authz.RoleEmployee}, l.ID.String())

		assert.ErrorIs(t, err, leaveerrors.ErrNotAuthorizedForState)
	})
}
