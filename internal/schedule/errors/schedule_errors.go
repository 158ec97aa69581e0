package scheduleerrors

import (
	"net/http"

	"pawon-ops/internal/shared/apperror"
)

var (
	ErrInvalidPeriod = apperror.New(
		apperror.CodeInvalidInput,
		"month must be 1-12 and year must be reasonable",
		http.StatusBadRequest,
	)
	ErrNoEmployees = apperror.New(
		apperror.CodeInvalidInput,
		"employee_ids must not be empty",
		http.StatusBadRequest,
	)
	ErrInvalidShiftType = apperror.New(
		apperror.CodeInvalidInput,
		"shift type must be one of OFF, MORNING, MIDDLE",
		http.StatusBadRequest,
	)
	ErrManagerOnly = apperror.New(
		apperror.CodeForbidden,
		"only the restaurant manager may modify the schedule",
		http.StatusForbidden,
	)
	ErrScheduleAlreadyGenerated = apperror.New(
		apperror.CodeConflict,
		"schedule for this period already exists, refresh before retrying",
		http.StatusConflict,
	)
	ErrAssignmentNotFound = apperror.New(
		apperror.CodeNotFound,
		"shift assignment not found",
		http.StatusNotFound,
	)
	ErrScheduleNotFound = apperror.New(
		apperror.CodeNotFound,
		"no schedule exists for this period",
		http.StatusNotFound,
	)
	ErrScheduleAlreadyPublished = apperror.New(
		apperror.CodeInvalidState,
		"schedule for this period is already published",
		http.StatusConflict,
	)
	ErrAssignmentConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"shift assignment was modified concurrently, please refresh and retry",
		http.StatusConflict,
	)
	ErrPublishConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"schedule changed while publishing, please refresh and retry",
		http.StatusConflict,
	)
)
