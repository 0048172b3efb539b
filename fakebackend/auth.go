package fakebackend

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const (
	contextKeyUsername = "username"
	contextKeyRole     = "role"
)

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (s *Server) issueToken(u user) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Role: u.role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// requireToken validates the bearer token and puts the caller's username and role into the
// request context.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			return errNotAuthenticated
		}

		claims := &tokenClaims{}
		tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return s.secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !tkn.Valid {
			return errNotAuthenticated
		}

		c.Set(contextKeyUsername, claims.Subject)
		c.Set(contextKeyRole, claims.Role)
		return next(c)
	}
}

func requireRole(role string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if r, _ := c.Get(contextKeyRole).(string); r != role {
				return errAdminRequired
			}
			return next(c)
		}
	}
}
