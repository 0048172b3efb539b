package fakebackend

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/titanic-qa/api-contract-tests/servicedef"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// These are the messages the real backend uses, which the test suite looks for.
const (
	detailAdminRequired     = "Admin access required"
	detailCabinConflict     = "Different social classes cannot share cabins on Titanic"
	detailUserExists        = "Username already registered"
	detailBadCredentials    = "Incorrect username or password"
	detailNotAuthenticated  = "Could not validate credentials"
	detailPassengerNotFound = "Passenger not found"
)

// newHTTPErrorHandler renders every error as {"detail": "..."}, mapping the store's errors to
// the status codes of the real backend.
func newHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, servicedef.ErrorResponse{Detail: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, errAdminRequired):
		return http.StatusForbidden, detailAdminRequired
	case errors.Is(err, errCabinConflict):
		return http.StatusUnauthorized, detailCabinConflict
	case errors.Is(err, errUserExists):
		return http.StatusBadRequest, detailUserExists
	case errors.Is(err, errInvalidCredentials):
		return http.StatusUnauthorized, detailBadCredentials
	case errors.Is(err, errNotAuthenticated):
		return http.StatusUnauthorized, detailNotAuthenticated
	case errors.Is(err, errPassengerNotFound):
		return http.StatusNotFound, detailPassengerNotFound
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
