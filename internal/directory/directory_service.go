package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	directoryerrors "pawon-ops/internal/directory/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const cacheTTL = 5 * time.Minute

// EmployeeRecord adalah bentuk read-only yang dikonsumsi engine:
// cukup identitas, role dan flag aktif.
type EmployeeRecord struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}

type Service interface {
	GetEmployee(ctx context.Context, id string) (EmployeeRecord, error)
	// RequireActiveEmployees memvalidasi bahwa setiap id ada dan aktif.
	// Mengembalikan record terurut sesuai input.
	RequireActiveEmployees(ctx context.Context, ids []string) ([]EmployeeRecord, error)
	ListActiveByRole(ctx context.Context, role string) ([]EmployeeRecord, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	group  singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("directory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.service")
	}
	return &service{repo: repo, rdb: rdb, logger: l}
}

func cacheKey(id string) string {
	return fmt.Sprintf("directory:employee:%s", id)
}

func (s *service) GetEmployee(ctx context.Context, id string) (EmployeeRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return EmployeeRecord{}, directoryerrors.ErrInvalidEmployeeID
	}

	if s.rdb != nil {
		if val, err := s.rdb.Get(ctx, cacheKey(id)).Result(); err == nil {
			var rec EmployeeRecord
			if err := json.Unmarshal([]byte(val), &rec); err == nil {
				return rec, nil
			}
			// cache korup, lanjut ke DB
			s.logger.Warn("directory cache decode failed", zap.String("employee_id", id))
		}
	}

	// singleflight mencegah stampede ke DB saat cache kosong
	v, err, _ := s.group.Do(id, func() (any, error) {
		e, err := s.repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return EmployeeRecord{}, directoryerrors.ErrEmployeeNotFound
			}
			return EmployeeRecord{}, err
		}

		rec := mapToRecord(*e)
		if s.rdb != nil {
			if payload, err := json.Marshal(rec); err == nil {
				if err := s.rdb.Set(ctx, cacheKey(id), payload, cacheTTL).Err(); err != nil {
					s.logger.Warn("directory cache set failed",
						zap.String("employee_id", id),
						zap.Error(err),
					)
				}
			}
		}
		return rec, nil
	})
	if err != nil {
		return EmployeeRecord{}, err
	}

	return v.(EmployeeRecord), nil
}

func (s *service) RequireActiveEmployees(ctx context.Context, ids []string) ([]EmployeeRecord, error) {
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, directoryerrors.ErrInvalidEmployeeID
		}
	}

	employees, err := s.repo.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Employee, len(employees))
	for _, e := range employees {
		byID[e.ID.String()] = e
	}

	records := make([]EmployeeRecord, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			s.logger.Warn("employee missing or inactive", zap.String("employee_id", id))
			return nil, directoryerrors.ErrEmployeeNotFound
		}
		records = append(records, mapToRecord(e))
	}

	return records, nil
}

func (s *service) ListActiveByRole(ctx context.Context, role string) ([]EmployeeRecord, error) {
	employees, err := s.repo.FindActiveByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	records := make([]EmployeeRecord, len(employees))
	for i, e := range employees {
		records[i] = mapToRecord(e)
	}
	return records, nil
}

func mapToRecord(e Employee) EmployeeRecord {
	return EmployeeRecord{
		ID:       e.ID.String(),
		FullName: e.FullName,
		Role:     e.Role,
		IsActive: e.IsActive,
	}
}
