package autherrors

import (
	"net/http"

	"pawon-ops/internal/shared/apperror"
)

var (
	ErrInvalidCredentials = apperror.New(
		apperror.CodeUnauthorized,
		"email atau password salah",
		http.StatusUnauthorized,
	)

	ErrAccountInactive = apperror.New(
		apperror.CodeForbidden,
		"akun tidak aktif",
		http.StatusForbidden,
	)

	ErrInvalidToken = apperror.New(
		apperror.CodeUnauthorized,
		"token tidak valid",
		http.StatusUnauthorized,
	)

	ErrInvalidRefreshToken = apperror.New(
		apperror.CodeUnauthorized,
		"refresh token tidak valid",
		http.StatusUnauthorized,
	)

	ErrAccountNotFound = apperror.New(
		apperror.CodeNotFound,
		"akun tidak ditemukan",
		http.StatusNotFound,
	)

	ErrTokenGenerationFailed = apperror.New(
		apperror.CodeInternalError,
		"gagal membuat token",
		http.StatusInternalServerError,
	)
)
