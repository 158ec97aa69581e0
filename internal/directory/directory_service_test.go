package directory_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"pawon-ops/internal/directory"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeDirectoryRepository struct {
	findByIDFn         func(ctx context.Context, id string) (*directory.Employee, error)
	findByEmailFn      func(ctx context.Context, email string) (*directory.Employee, error)
	findActiveByIDsFn  func(ctx context.Context, ids []string) ([]directory.Employee, error)
	findActiveByRoleFn func(ctx context.Context, role string) ([]directory.Employee, error)
}

func (f *fakeDirectoryRepository) FindByID(ctx context.Context, id string) (*directory.Employee, error) {
	return f.findByIDFn(ctx, id)
}

func (f *fakeDirectoryRepository) FindByEmail(ctx context.Context, email string) (*directory.Employee, error) {
	return f.findByEmailFn(ctx, email)
}

func (f *fakeDirectoryRepository) FindActiveByIDs(ctx context.Context, ids []string) ([]directory.Employee, error) {
	return f.findActiveByIDsFn(ctx, ids)
}

func (f *fakeDirectoryRepository) FindActiveByRole(ctx context.Context, role string) ([]directory.Employee, error) {
	return f.findActiveByRoleFn(ctx, role)
}

func TestDirectoryService_GetEmployee(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("success cache miss fills cache", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		repo := &fakeDirectoryRepository{
			findByIDFn: func(ctx context.Context, id string) (*directory.Employee, error) {
				assert.Equal(t, employeeID.String(), id)
				return &directory.Employee{
					ID:       employeeID,
					FullName: "Budi Santoso",
					Role:     "RESTAURANT_MANAGER",
					IsActive: true,
				}, nil
			},
		}
		svc := directory.NewService(repo, rdb)

		expected := directory.EmployeeRecord{
			ID:       employeeID.String(),
			FullName: "Budi Santoso",
			Role:     "RESTAURANT_MANAGER",
			IsActive: true,
		}
		payload, err := json.Marshal(expected)
		assert.NoError(t, err)

		key := "directory:employee:" + employeeID.String()
		mock.ExpectGet(key).RedisNil()
		mock.ExpectSet(key, payload, 5*time.Minute).SetVal("OK")

		rec, err := svc.GetEmployee(ctx, employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, expected, rec)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success cache hit skips repo", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		repo := &fakeDirectoryRepository{
			findByIDFn: func(ctx context.Context, id string) (*directory.Employee, error) {
				t.Fatal("repo should not be called on cache hit")
				return nil, nil
			},
		}
		svc := directory.NewService(repo, rdb)

		cached := directory.EmployeeRecord{
			ID:       employeeID.String(),
			FullName: "Budi Santoso",
			Role:     "HR_MANAGER",
			IsActive: true,
		}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)

		mock.ExpectGet("directory:employee:" + employeeID.String()).SetVal(string(payload))

		rec, err := svc.GetEmployee(ctx, employeeID.String())

		assert.NoError(t, err)
		assert.Equal(t, cached, rec)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative unknown employee", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()
		unknownID := uuid.New().String()

		repo := &fakeDirectoryRepository{
			findByIDFn: func(ctx context.Context, id string) (*directory.Employee, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		svc := directory.NewService(repo, rdb)

		mock.ExpectGet("directory:employee:" + unknownID).RedisNil()

		_, err := svc.GetEmployee(ctx, unknownID)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "employee not found")
	})

	t.Run("negative malformed id", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		svc := directory.NewService(&fakeDirectoryRepository{}, rdb)

		_, err := svc.GetEmployee(ctx, "not-a-uuid")

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid employee id")
	})
}

func TestDirectoryService_RequireActiveEmployees(t *testing.T) {
	ctx := context.Background()
	idA := uuid.New()
	idB := uuid.New()

	t.Run("success preserves input order", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		repo := &fakeDirectoryRepository{
			findActiveByIDsFn: func(ctx context.Context, ids []string) ([]directory.Employee, error) {
				// repo mengembalikan urutan sembarang
				return []directory.Employee{
					{ID: idB, FullName: "Sari", Role: "EMPLOYEE", IsActive: true},
					{ID: idA, FullName: "Agus", Role: "EMPLOYEE", IsActive: true},
				}, nil
			},
		}
		svc := directory.NewService(repo, rdb)

		records, err := svc.RequireActiveEmployees(ctx, []string{idA.String(), idB.String()})

		assert.NoError(t, err)
		assert.Len(t, records, 2)
		assert.Equal(t, idA.String(), records[0].ID)
		assert.Equal(t, idB.String(), records[1].ID)
	})

	t.Run("negative one employee inactive or missing", func(t *testing.T) {
		rdb, _ := redismock.NewClientMock()
		repo := &fakeDirectoryRepository{
			findActiveByIDsFn: func(ctx context.Context, ids []string) ([]directory.Employee, error) {
				return []directory.Employee{
					{ID: idA, FullName: "Agus", Role: "EMPLOYEE", IsActive: true},
				}, nil
			},
		}
		svc := directory.NewService(repo, rdb)

		_, err := svc.RequireActiveEmployees(ctx, []string{idA.String(), idB.String()})

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "employee not found")
	})
}
