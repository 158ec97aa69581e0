package leaveerrors

import (
	"net/http"

	"pawon-ops/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"start_date must be before or equal end_date",
		http.StatusBadRequest,
	)
	ErrReasonRequired = apperror.New(
		apperror.CodeInvalidInput,
		"reason is required",
		http.StatusBadRequest,
	)
	ErrSubmitNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"only the employee themself, the restaurant manager or HR may submit this leave request",
		http.StatusForbidden,
	)
	ErrLeaveOverlap = apperror.New(
		apperror.CodeConflict,
		"an active leave request already covers part of this period",
		http.StatusConflict,
	)
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveAlreadyFinal = apperror.New(
		apperror.CodeInvalidState,
		"leave request is already in a final state",
		http.StatusConflict,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"invalid leave status transition",
		http.StatusBadRequest,
	)
	ErrNotAuthorizedForState = apperror.New(
		apperror.CodeForbidden,
		"your role is not authorized to decide this leave request in its current state",
		http.StatusForbidden,
	)
	ErrLeaveConcurrentUpdate = apperror.New(
		apperror.CodeConflict,
		"leave request was modified by another approver, please refresh and retry",
		http.StatusConflict,
	)
)
