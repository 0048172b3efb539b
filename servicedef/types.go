// Package servicedef contains the JSON payloads exchanged with the Titanic backend.
package servicedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

const (
	PathHealth     = "/health"
	PathRegister   = "/api/auth/register"
	PathLogin      = "/api/auth/login"
	PathPassengers = "/api/passengers"
)

const (
	RoleAdmin   = "admin"
	RoleRegular = "regular"
)

// Actor is a backend user identity. Role is known to the harness only; the backend decides
// the role on its own when the actor registers.
type Actor struct {
	Username string `json:"username" yaml:"username" validate:"required"`
	Password string `json:"password" yaml:"password" validate:"required,min=8"`
	Email    string `json:"email,omitempty" yaml:"email" validate:"omitempty,email"`
	Role     string `json:"-" yaml:"role" validate:"required,oneof=admin regular"`
}

type LoginParams struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
}

// Passenger is the payload for creating a passenger. Age is optional because it is unknown for
// some of the historical records.
type Passenger struct {
	Name        string              `json:"name" yaml:"name" validate:"required"`
	PClass      int                 `json:"pclass" yaml:"pclass" validate:"required,oneof=1 2 3"`
	Sex         string              `json:"sex" yaml:"sex" validate:"required,oneof=male female"`
	Age         ldvalue.OptionalInt `json:"age" yaml:"-"`
	Fare        float64             `json:"fare" yaml:"fare" validate:"gte=0"`
	Embarked    string              `json:"embarked" yaml:"embarked"`
	Destination string              `json:"destination" yaml:"destination"`
	Cabin       string              `json:"cabin" yaml:"cabin"`
	Ticket      string              `json:"ticket" yaml:"ticket"`
}

// PassengerRecord is a passenger as returned by the backend.
type PassengerRecord struct {
	Passenger
	ID int `json:"id"`
}

// ErrorResponse is the body of every non-2xx response from the backend.
type ErrorResponse struct {
	Detail string `json:"detail"`
}
