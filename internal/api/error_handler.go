package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carehub/healthcare-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized {
			c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil && errors.Is(he.Internal, domain.ErrStorageUnavailable) {
			logFault(log, c, he.Internal)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid or expired token"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "not authenticated"
	case errors.Is(err, domain.ErrInactiveAccount):
		return http.StatusUnauthorized, "account is inactive"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrDuplicateEmail):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrProfileExists):
		return http.StatusConflict, "profile already exists"
	case errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrPatientNotFound),
		errors.Is(err, domain.ErrDoctorNotFound),
		errors.Is(err, domain.ErrConsultationNotFound),
		errors.Is(err, domain.ErrRecordNotFound):
		return http.StatusNotFound, notFoundMessage(err)
	case errors.Is(err, domain.ErrInvalidRole):
		return http.StatusBadRequest, "invalid role"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return http.StatusBadRequest, domain.ErrPasswordTooLong.Error()
	case errors.Is(err, domain.ErrPatientIDRequired):
		return http.StatusBadRequest, domain.ErrPatientIDRequired.Error()
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, domain.ErrStorageUnavailable):
		logFault(log, c, err)
		return http.StatusServiceUnavailable, "service unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// notFoundMessage returns the bare sentinel text so wrapping context stays internal.
func notFoundMessage(err error) string {
	for _, kind := range []error{
		domain.ErrProfileNotFound,
		domain.ErrAccountNotFound,
		domain.ErrPatientNotFound,
		domain.ErrDoctorNotFound,
		domain.ErrConsultationNotFound,
		domain.ErrRecordNotFound,
	} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "not found"
}

func logFault(log zerolog.Logger, c echo.Context, err error) {
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("storage unavailable")
}
