package fakebackend

import (
	"errors"
	"net/http"

	"github.com/titanic-qa/api-contract-tests/fixtures"

	"github.com/labstack/echo/v4"
)

// echoValidator lets handlers call c.Validate with the same rules the fixtures are checked with.
type echoValidator struct{}

func (echoValidator) Validate(i interface{}) error {
	if err := fixtures.Validate(i); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	return nil
}

var errInvalidPayload = echo.NewHTTPError(http.StatusUnprocessableEntity, "invalid payload")

func bindAndValidate(c echo.Context, target interface{}) error {
	if err := c.Bind(target); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return errInvalidPayload
		}
		return err
	}
	return c.Validate(target)
}
