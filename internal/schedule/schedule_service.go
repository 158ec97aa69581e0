package schedule

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"pawon-ops/internal/authz"
	"pawon-ops/internal/directory"
	"pawon-ops/internal/events"
	"pawon-ops/internal/messaging/kafka"
	scheduleerrors "pawon-ops/internal/schedule/errors"
	"pawon-ops/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Generate(ctx context.Context, actor authz.Actor, req GenerateScheduleRequest) (PeriodResponse, error)
	UpdateAssignment(ctx context.Context, actor authz.Actor, id string, req UpdateAssignmentRequest) (AssignmentResponse, error)
	Publish(ctx context.Context, actor authz.Actor, req PublishScheduleRequest) (PeriodResponse, error)
	ListPeriod(ctx context.Context, month, year int) (PeriodResponse, error)
}

type service struct {
	db        *sql.DB
	repo      Repository
	dir       directory.Service
	outbox    kafka.OutboxRepository
	policy    ShiftPolicy
	timeTable TimeTable
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	dir directory.Service,
	outbox kafka.OutboxRepository,
	policy ShiftPolicy,
	timeTable TimeTable,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("schedule.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("schedule.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		dir:       dir,
		outbox:    outbox,
		policy:    policy,
		timeTable: timeTable,
		logger:    l,
	}
}

func validPeriod(month, year int) bool {
	return month >= 1 && month <= 12 && year >= 2000 && year <= 2100
}

func (s *service) Generate(ctx context.Context, actor authz.Actor, req GenerateScheduleRequest) (PeriodResponse, error) {
	s.logger.Debug("generate schedule requested",
		zap.String("actor_id", actor.EmployeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int("employees", len(req.EmployeeIDs)),
	)

	if actor.Role != authz.RoleRestaurantManager {
		return PeriodResponse{}, scheduleerrors.ErrManagerOnly
	}
	if !validPeriod(req.Month, req.Year) {
		return PeriodResponse{}, scheduleerrors.ErrInvalidPeriod
	}
	if len(req.EmployeeIDs) == 0 {
		return PeriodResponse{}, scheduleerrors.ErrNoEmployees
	}

	employees, err := s.dir.RequireActiveEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return PeriodResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("generate schedule begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Generate bersifat create-only: periode yang sudah punya assignment
	// dianggap sudah di-generate, bukan di-merge.
	existing, err := qtx.CountByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		s.logger.Error("generate schedule existing check failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	if existing > 0 {
		s.logger.Warn("generate schedule period already exists",
			zap.Int("month", req.Month),
			zap.Int("year", req.Year),
			zap.Int64("existing", existing),
		)
		return PeriodResponse{}, scheduleerrors.ErrScheduleAlreadyGenerated
	}

	assignments, err := s.buildPeriodAssignments(req.Month, req.Year, employees)
	if err != nil {
		return PeriodResponse{}, err
	}

	if err := qtx.CreateBatch(ctx, assignments); err != nil {
		// Double-submit yang lolos cek count akan menabrak unique
		// (employee_id, date); laporkan sebagai konflik, bukan 500.
		if isUniqueViolation(err) {
			return PeriodResponse{}, scheduleerrors.ErrScheduleAlreadyGenerated
		}
		s.logger.Error("generate schedule persist failed", zap.Error(err))
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("generate schedule commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	s.logger.Info("generate schedule success",
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int("assignments", len(assignments)),
	)

	return mapToPeriodResponse(req.Month, req.Year, assignments), nil
}

func (s *service) buildPeriodAssignments(month, year int, employees []directory.EmployeeRecord) ([]ShiftAssignment, error) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := start.AddDate(0, 1, -1).Day()

	assignments := make([]ShiftAssignment, 0, len(employees)*daysInMonth)
	for _, e := range employees {
		employeeUUID, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, scheduleerrors.ErrNoEmployees
		}
		for day := 1; day <= daysInMonth; day++ {
			date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
			shiftType := s.policy.DefaultShiftType(date)
			times, err := s.timeTable.ShiftTimes(shiftType, date)
			if err != nil {
				return nil, err
			}

			assignments = append(assignments, ShiftAssignment{
				ID:          uuid.New(),
				EmployeeID:  employeeUUID,
				Date:        date,
				ShiftType:   shiftType,
				StartTime:   times.Start,
				EndTime:     times.End,
				Color:       colorForShift(shiftType),
				IsPublished: false,
			})
		}
	}
	return assignments, nil
}

func (s *service) UpdateAssignment(ctx context.Context, actor authz.Actor, id string, req UpdateAssignmentRequest) (AssignmentResponse, error) {
	s.logger.Debug("update assignment requested",
		zap.String("assignment_id", id),
		zap.String("actor_id", actor.EmployeeID),
		zap.String("shift_type", req.ShiftType),
	)

	// Manajer restoran tetap boleh mengubah jadwal SETELAH publish;
	// role lain tidak pernah boleh, published maupun draft.
	if actor.Role != authz.RoleRestaurantManager {
		return AssignmentResponse{}, scheduleerrors.ErrManagerOnly
	}
	if !IsValidShiftType(req.ShiftType) {
		return AssignmentResponse{}, scheduleerrors.ErrInvalidShiftType
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update assignment begin tx failed", zap.Error(err))
		return AssignmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AssignmentResponse{}, scheduleerrors.ErrAssignmentNotFound
		}
		return AssignmentResponse{}, err
	}

	times, err := s.timeTable.ShiftTimes(req.ShiftType, a.Date)
	if err != nil {
		return AssignmentResponse{}, err
	}

	previousType := a.ShiftType
	a.ShiftType = req.ShiftType
	a.StartTime = times.Start
	a.EndTime = times.End
	a.Color = colorForShift(req.ShiftType)

	ok, err := qtx.UpdateShift(ctx, a, previousType)
	if err != nil {
		s.logger.Error("update assignment persist failed",
			zap.String("assignment_id", id),
			zap.Error(err),
		)
		return AssignmentResponse{}, err
	}
	if !ok {
		s.logger.Warn("update assignment lost the race",
			zap.String("assignment_id", id),
			zap.String("expected_type", previousType),
		)
		return AssignmentResponse{}, scheduleerrors.ErrAssignmentConcurrentUpdate
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update assignment commit failed",
			zap.String("assignment_id", id),
			zap.Error(err),
		)
		return AssignmentResponse{}, err
	}
	s.logger.Info("update assignment success",
		zap.String("assignment_id", id),
		zap.String("from_type", previousType),
		zap.String("to_type", req.ShiftType),
	)

	return mapToAssignmentResponse(*a), nil
}

func (s *service) Publish(ctx context.Context, actor authz.Actor, req PublishScheduleRequest) (PeriodResponse, error) {
	s.logger.Debug("publish schedule requested",
		zap.String("actor_id", actor.EmployeeID),
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
	)

	if actor.Role != authz.RoleRestaurantManager {
		return PeriodResponse{}, scheduleerrors.ErrManagerOnly
	}
	if !validPeriod(req.Month, req.Year) {
		return PeriodResponse{}, scheduleerrors.ErrInvalidPeriod
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("publish schedule begin tx failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	total, err := qtx.CountByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return PeriodResponse{}, err
	}
	if total == 0 {
		return PeriodResponse{}, scheduleerrors.ErrScheduleNotFound
	}

	unpublished, err := qtx.CountUnpublishedByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return PeriodResponse{}, err
	}
	if unpublished == 0 {
		// Publish satu arah dan tidak idempoten: panggilan ulang ditolak.
		s.logger.Warn("publish schedule already published",
			zap.Int("month", req.Month),
			zap.Int("year", req.Year),
		)
		return PeriodResponse{}, scheduleerrors.ErrScheduleAlreadyPublished
	}

	employeeIDs, err := qtx.DistinctEmployeeIDsByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return PeriodResponse{}, err
	}

	affected, err := qtx.PublishPeriod(ctx, req.Month, req.Year)
	if err != nil {
		s.logger.Error("publish schedule persist failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	if affected != unpublished {
		// Assignment berubah di antara count dan update; batalkan utuh.
		s.logger.Warn("publish schedule lost the race",
			zap.Int64("expected", unpublished),
			zap.Int64("affected", affected),
		)
		return PeriodResponse{}, scheduleerrors.ErrPublishConcurrentUpdate
	}

	if err := s.enqueuePublishBroadcast(ctx, tx, actor, req.Month, req.Year, employeeIDs); err != nil {
		return PeriodResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("publish schedule commit failed", zap.Error(err))
		return PeriodResponse{}, err
	}
	s.logger.Info("publish schedule success",
		zap.Int("month", req.Month),
		zap.Int("year", req.Year),
		zap.Int64("assignments", affected),
		zap.Int("employees", len(employeeIDs)),
	)

	assignments, err := s.repo.FindByPeriod(ctx, req.Month, req.Year)
	if err != nil {
		return PeriodResponse{}, err
	}
	return mapToPeriodResponse(req.Month, req.Year, assignments), nil
}

func (s *service) ListPeriod(ctx context.Context, month, year int) (PeriodResponse, error) {
	if !validPeriod(month, year) {
		return PeriodResponse{}, scheduleerrors.ErrInvalidPeriod
	}

	assignments, err := s.repo.FindByPeriod(ctx, month, year)
	if err != nil {
		return PeriodResponse{}, err
	}
	return mapToPeriodResponse(month, year, assignments), nil
}

func (s *service) enqueuePublishBroadcast(ctx context.Context, tx *sql.Tx, actor authz.Actor, month, year int, employeeIDs []string) error {
	event := events.SchedulePublishedEvent{
		EventType:   "schedule.published",
		Month:       month,
		Year:        year,
		Message:     fmt.Sprintf("Jadwal shift %02d/%d sudah terbit", month, year),
		EmployeeIDs: employeeIDs,
		PublishedBy: actor.EmployeeID,
		OccurredAt:  time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.New().String(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "schedule_period",
		AggregateID:   fmt.Sprintf("%d-%02d", year, month),
		EventType:     event.EventType,
		Topic:         events.SchedulePublishedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("enqueue publish broadcast failed",
			zap.Int("month", month),
			zap.Int("year", year),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

func mapToAssignmentResponse(a ShiftAssignment) AssignmentResponse {
	return AssignmentResponse{
		ID:          a.ID.String(),
		EmployeeID:  a.EmployeeID.String(),
		Date:        a.Date.Format("2006-01-02"),
		ShiftType:   a.ShiftType,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
		Color:       a.Color,
		IsPublished: a.IsPublished,
	}
}

func mapToPeriodResponse(month, year int, assignments []ShiftAssignment) PeriodResponse {
	resp := PeriodResponse{
		Month:       month,
		Year:        year,
		IsPublished: len(assignments) > 0,
		Assignments: make([]AssignmentResponse, len(assignments)),
	}
	for i, a := range assignments {
		resp.Assignments[i] = mapToAssignmentResponse(a)
		if !a.IsPublished {
			resp.IsPublished = false
		}
	}
	return resp
}
