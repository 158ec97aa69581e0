package leave

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"pawon-ops/internal/authz"
	"pawon-ops/internal/directory"
	"pawon-ops/internal/events"
	leaveerrors "pawon-ops/internal/leave/errors"
	"pawon-ops/internal/messaging/kafka"
	"pawon-ops/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Submit(ctx context.Context, actor authz.Actor, req SubmitLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error)
	Reject(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error)
	List(ctx context.Context, actor authz.Actor, scope string) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	dir    directory.Service
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	dir directory.Service,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, dir: dir, outbox: outbox, logger: l}
}

func (s *service) Submit(ctx context.Context, actor authz.Actor, req SubmitLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("submit leave requested",
		zap.String("actor_id", actor.EmployeeID),
		zap.String("actor_role", actor.Role),
		zap.String("employee_id", req.EmployeeID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	employeeUUID, startDate, endDate, err := validateSubmitRequest(req)
	if err != nil {
		s.logger.Warn("submit leave validation failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if !CanSubmitFor(actor, req.EmployeeID) {
		s.logger.Warn("submit leave not allowed",
			zap.String("actor_id", actor.EmployeeID),
			zap.String("actor_role", actor.Role),
			zap.String("employee_id", req.EmployeeID),
		)
		return LeaveResponse{}, leaveerrors.ErrSubmitNotAllowed
	}

	// Target pengajuan harus karyawan aktif di directory
	if _, err := s.dir.RequireActiveEmployees(ctx, []string{req.EmployeeID}); err != nil {
		return LeaveResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	overlap, err := qtx.HasActiveOverlap(ctx, req.EmployeeID, startDate, endDate)
	if err != nil {
		s.logger.Error("submit leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		s.logger.Warn("submit leave overlap detected",
			zap.String("employee_id", req.EmployeeID),
			zap.String("start_date", req.StartDate),
			zap.String("end_date", req.EndDate),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveOverlap
	}

	actorUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	l := &LeaveRequest{
		ID:          uuid.New(),
		EmployeeID:  employeeUUID,
		LeaveType:   req.LeaveType,
		StartDate:   startDate,
		EndDate:     endDate,
		TotalDays:   totalDays,
		Reason:      req.Reason,
		Status:      StatusPendingManager,
		SubmittedBy: actorUUID,
	}

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("submit leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	// Notifikasi ke pool manajer restoran: ada pengajuan baru
	if err := s.enqueueLeaveNotification(ctx, tx, l, events.LeaveStatusChangedEvent{
		RecipientRole: authz.RoleRestaurantManager,
		Message:       "Pengajuan cuti baru menunggu persetujuan manajer",
	}); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	s.logger.Info("submit leave success",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", req.EmployeeID),
	)

	return mapToResponse(*l), nil
}

func (s *service) Approve(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, ActionApprove)
}

func (s *service) Reject(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error) {
	return s.decide(ctx, actor, id, ActionReject)
}

// decide menerapkan satu transisi approve/reject dengan precondition
// optimistic pada status: dua approver yang balapan tidak mungkin
// sama-sama "berhasil".
func (s *service) decide(ctx context.Context, actor authz.Actor, id, action string) (LeaveResponse, error) {
	s.logger.Debug("leave decision requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("actor_role", actor.Role),
		zap.String("action", action),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("leave decision begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	fromStatus := l.Status
	toStatus, err := ResolveTransition(fromStatus, action, actor.Role)
	if err != nil {
		s.logger.Warn("leave decision refused",
			zap.String("leave_id", id),
			zap.String("from_status", fromStatus),
			zap.String("action", action),
			zap.String("actor_role", actor.Role),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	actorUUID, err := uuid.Parse(actor.EmployeeID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}
	now := time.Now().UTC()
	l.Status = toStatus
	switch fromStatus {
	case StatusPendingManager:
		l.ManagerDecidedBy = &actorUUID
		l.ManagerDecidedAt = &now
	case StatusPendingHR:
		l.HRDecidedBy = &actorUUID
		l.HRDecidedAt = &now
	}

	ok, err := qtx.UpdateStatus(ctx, l, fromStatus)
	if err != nil {
		s.logger.Error("leave decision persist failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	if !ok {
		// Status sudah bergeser di bawah kita; penulis lain menang.
		s.logger.Warn("leave decision lost the race",
			zap.String("leave_id", id),
			zap.String("expected_status", fromStatus),
		)
		return LeaveResponse{}, leaveerrors.ErrLeaveConcurrentUpdate
	}

	// Notifikasi ke pemilik cuti
	if err := s.enqueueLeaveNotification(ctx, tx, l, events.LeaveStatusChangedEvent{
		RecipientID: l.EmployeeID.String(),
		Message:     statusMessage(toStatus),
	}); err != nil {
		return LeaveResponse{}, err
	}

	// Naik ke tier HR: beri tahu pool HR ada antrean baru
	if toStatus == StatusPendingHR {
		if err := s.enqueueLeaveNotification(ctx, tx, l, events.LeaveStatusChangedEvent{
			RecipientRole: authz.RoleHRManager,
			Message:       "Pengajuan cuti menunggu persetujuan HR",
		}); err != nil {
			return LeaveResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("leave decision commit failed",
			zap.String("leave_id", id),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}
	s.logger.Info("leave decision success",
		zap.String("leave_id", id),
		zap.String("from_status", fromStatus),
		zap.String("to_status", toStatus),
	)
	return mapToResponse(*l), nil
}

func (s *service) List(ctx context.Context, actor authz.Actor, scope string) ([]LeaveResponse, error) {
	if scope == "" {
		// Default: approver melihat antreannya, lainnya riwayat sendiri
		switch actor.Role {
		case authz.RoleRestaurantManager, authz.RoleHRManager:
			scope = ListScopeQueue
		default:
			scope = ListScopeOwn
		}
	}

	var (
		leaves []LeaveRequest
		err    error
	)
	switch scope {
	case ListScopeQueue:
		switch actor.Role {
		case authz.RoleRestaurantManager:
			leaves, err = s.repo.FindByStatus(ctx, StatusPendingManager)
		case authz.RoleHRManager:
			leaves, err = s.repo.FindByStatus(ctx, StatusPendingHR)
		default:
			return nil, leaveerrors.ErrNotAuthorizedForState
		}
	default:
		leaves, err = s.repo.FindByEmployee(ctx, actor.EmployeeID)
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) GetByID(ctx context.Context, actor authz.Actor, id string) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	// Pemilik dan kedua tier penyetuju boleh melihat detail
	if l.EmployeeID.String() != actor.EmployeeID &&
		actor.Role != authz.RoleRestaurantManager &&
		actor.Role != authz.RoleHRManager {
		return LeaveResponse{}, leaveerrors.ErrNotAuthorizedForState
	}

	return mapToResponse(*l), nil
}

func (s *service) enqueueLeaveNotification(ctx context.Context, tx *sql.Tx, l *LeaveRequest, event events.LeaveStatusChangedEvent) error {
	event.EventType = "leave.status_changed"
	event.LeaveID = l.ID.String()
	event.EmployeeID = l.EmployeeID.String()
	event.Status = l.Status
	event.OccurredAt = time.Now().UTC()

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveStatusChangedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("enqueue leave notification failed",
			zap.String("leave_id", l.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func statusMessage(status string) string {
	switch status {
	case StatusPendingHR:
		return "Pengajuan cuti Anda disetujui manajer dan diteruskan ke HR"
	case StatusApproved:
		return "Pengajuan cuti Anda disetujui"
	case StatusRejected:
		return "Pengajuan cuti Anda ditolak"
	default:
		return "Status pengajuan cuti Anda berubah"
	}
}

func validateSubmitRequest(req SubmitLeaveRequest) (uuid.UUID, time.Time, time.Time, error) {
	employeeUUID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidEmployeeID
	}
	if req.Reason == "" {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrReasonRequired
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return uuid.Nil, time.Time{}, time.Time{}, err
	}
	if startDate.After(endDate) {
		return uuid.Nil, time.Time{}, time.Time{}, leaveerrors.ErrInvalidDateRange
	}
	return employeeUUID, startDate, endDate, nil
}

func parseDate(v string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, leaveerrors.ErrInvalidDateFormat
	}
	return t, nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:          l.ID.String(),
		EmployeeID:  l.EmployeeID.String(),
		LeaveType:   l.LeaveType,
		StartDate:   l.StartDate.Format("2006-01-02"),
		EndDate:     l.EndDate.Format("2006-01-02"),
		TotalDays:   l.TotalDays,
		Reason:      l.Reason,
		Status:      l.Status,
		SubmittedBy: l.SubmittedBy.String(),
	}
	if l.ManagerDecidedBy != nil {
		v := l.ManagerDecidedBy.String()
		resp.ManagerDecidedBy = &v
	}
	if l.ManagerDecidedAt != nil {
		v := l.ManagerDecidedAt.Format(time.RFC3339)
		resp.ManagerDecidedAt = &v
	}
	if l.HRDecidedBy != nil {
		v := l.HRDecidedBy.String()
		resp.HRDecidedBy = &v
	}
	if l.HRDecidedAt != nil {
		v := l.HRDecidedAt.Format(time.RFC3339)
		resp.HRDecidedAt = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
