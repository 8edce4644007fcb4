package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/adminpanel/identity-api/internal/api/handler"
	"github.com/adminpanel/identity-api/internal/core/domain"
)

// errorStatus maps each sentinel kind to its HTTP status. Order matters only
// for errors that wrap more than one kind, which none do today.
var errorStatus = []struct {
	kind error
	code int
}{
	{domain.ErrBadRequest, http.StatusBadRequest},
	{domain.ErrIncorrectPassword, http.StatusBadRequest},
	{domain.ErrWeakPassword, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrInvalidToken, http.StatusUnauthorized},
	{domain.ErrAccountDeactivated, http.StatusForbidden},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrSelfDelete, http.StatusForbidden},
	{domain.ErrSelfDeactivate, http.StatusForbidden},
	{domain.ErrUserNotFound, http.StatusNotFound},
	{domain.ErrDuplicateEmail, http.StatusConflict},
	{domain.ErrDuplicateUsername, http.StatusConflict},
	{domain.ErrDuplicateKey, http.StatusConflict},
	{domain.ErrValidation, http.StatusUnprocessableEntity},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status and client message.
//   - Passes echo's own errors (404 route, 405, 401 from the gate) through.
//   - Logs anything else and answers 500 without leaking the cause.
//
// Every failure is rendered as {"success": false, "message": ..., "errors": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, handler.Response) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := he.Message
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Int("status", he.Code).Msg("http error")
		}
		return he.Code, handler.Response{Message: fmt.Sprintf("%v", msg)}
	}

	for _, m := range errorStatus {
		if !errors.Is(err, m.kind) {
			continue
		}
		resp := handler.Response{Message: err.Error()}
		var de *domain.Error
		if errors.As(err, &de) {
			resp.Message = de.Error()
			resp.Errors = de.Fields
		}
		return m.code, resp
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
		Msg("unhandled error")

	return http.StatusInternalServerError, handler.Response{Message: "Internal server error"}
}
