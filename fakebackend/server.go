// Package fakebackend is an in-memory implementation of the Titanic backend API: gateway
// health, user registration and login, and passengers with role-based deletion and the
// cabin rule. It exists so that the test suite can be exercised without a real deployment.
package fakebackend

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/titanic-qa/api-contract-tests/servicedef"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

const (
	defaultSecret      = "titanic-fake-backend-secret"
	defaultTokenTTL    = time.Hour
	defaultAdminPrefix = "admin"
)

type Options struct {
	// JWTSecret signs the access tokens. A fixed default is used if empty.
	JWTSecret string
	TokenTTL  time.Duration

	// Users whose names start with AdminPrefix get the admin role when they register.
	AdminPrefix string

	Logger zerolog.Logger
}

type Server struct {
	echo     *echo.Echo
	store    *store
	secret   []byte
	tokenTTL time.Duration
	log      zerolog.Logger
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type userResponse struct {
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
}

func New(opts Options) *Server {
	if opts.JWTSecret == "" {
		opts.JWTSecret = defaultSecret
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = defaultTokenTTL
	}
	if opts.AdminPrefix == "" {
		opts.AdminPrefix = defaultAdminPrefix
	}

	s := &Server{
		echo:     echo.New(),
		store:    newStore(opts.AdminPrefix),
		secret:   []byte(opts.JWTSecret),
		tokenTTL: opts.TokenTTL,
		log:      opts.Logger,
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Validator = echoValidator{}
	e.HTTPErrorHandler = newHTTPErrorHandler(s.log)
	e.Use(echomiddleware.Recover())

	e.GET(servicedef.PathHealth, s.health)
	e.POST(servicedef.PathRegister, s.register)
	e.POST(servicedef.PathLogin, s.login)

	passengers := e.Group(servicedef.PathPassengers, s.requireToken)
	passengers.POST("", s.createPassenger)
	passengers.GET("/:id", s.getPassenger)
	passengers.DELETE("/:id", s.deletePassenger, requireRole(servicedef.RoleAdmin))

	return s
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.log.Info().Str("addr", addr).Msg("fake backend listening")
	if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// PassengerIDs returns the IDs of all stored passengers in ascending order.
func (s *Server) PassengerIDs() []int {
	return s.store.passengerIDs()
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"gateway":    "ok",
		"auth":       "ok",
		"passengers": "ok",
	})
}

func (s *Server) register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	u, err := s.store.addUser(req.Username, req.Password, req.Email)
	if err != nil {
		return err
	}
	s.log.Debug().Str("username", u.username).Str("role", u.role).Msg("registered user")
	return c.JSON(http.StatusCreated, userResponse{Username: u.username, Email: u.email, Role: u.role})
}

func (s *Server) login(c echo.Context) error {
	var req servicedef.LoginParams
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload
	}
	u, err := s.store.authenticate(req.Username, req.Password)
	if err != nil {
		return err
	}
	token, err := s.issueToken(u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, servicedef.LoginResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) createPassenger(c echo.Context) error {
	var p servicedef.Passenger
	if err := bindAndValidate(c, &p); err != nil {
		return err
	}
	rec, err := s.store.addPassenger(p)
	if err != nil {
		return err
	}
	s.log.Debug().Int("id", rec.ID).Str("cabin", rec.Cabin).Msg("created passenger")
	return c.JSON(http.StatusCreated, rec)
}

func (s *Server) getPassenger(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errPassengerNotFound
	}
	rec, err := s.store.getPassenger(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rec)
}

func (s *Server) deletePassenger(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return errPassengerNotFound
	}
	if err := s.store.deletePassenger(id); err != nil {
		return err
	}
	s.log.Debug().Int("id", id).Msg("deleted passenger")
	return c.NoContent(http.StatusNoContent)
}
