package authz

import (
	"sync"

	"github.com/casbin/casbin/v2"
	"go.uber.org/zap"
)

type EnforceRequest struct {
	Role     string
	Resource string
	Action   string
}

type Service interface {
	LoadPolicy() error
	Enforce(req EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	logger   *zap.Logger
	mu       sync.Mutex
}

func NewService(enforcer *casbin.Enforcer, logger ...*zap.Logger) Service {
	l := zap.L().Named("authz.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("authz.service")
	}
	return &service{enforcer: enforcer, logger: l}
}

// LoadPolicy memuat PermissionTable statis ke enforcer.
// Dipanggil sekali saat startup; tidak ada policy dari DB.
func (s *service) LoadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.enforcer.ClearPolicy()

	// Semua role konkret tergabung ke grup ANY_STAFF
	for _, role := range AllRoles {
		if _, err := s.enforcer.AddGroupingPolicy(role, GroupAnyStaff); err != nil {
			return err
		}
	}

	for _, p := range PermissionTable {
		if _, err := s.enforcer.AddPolicy(p.Role, p.Resource, p.Action); err != nil {
			return err
		}
	}

	s.logger.Info("authorization policy loaded",
		zap.Int("permissions", len(PermissionTable)),
		zap.Int("roles", len(AllRoles)),
	)
	return nil
}

func (s *service) Enforce(req EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	allowed, err := s.enforcer.Enforce(req.Role, req.Resource, req.Action)
	if err != nil {
		s.logger.Error("enforce failed",
			zap.String("role", req.Role),
			zap.String("resource", req.Resource),
			zap.String("action", req.Action),
			zap.Error(err),
		)
		return false, err
	}

	s.logger.Debug("enforce result",
		zap.String("role", req.Role),
		zap.String("resource", req.Resource),
		zap.String("action", req.Action),
		zap.Bool("allowed", allowed),
	)
	return allowed, nil
}
