// Package fixtures provides the actors and passengers used by the test suite.
//
// Fixtures are defined in YAML. The built-in set is embedded in the binary; a different file
// can be supplied at run time, as long as it defines the same actor and passenger keys.
package fixtures

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/titanic-qa/api-contract-tests/servicedef"

	"github.com/go-playground/validator/v10"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
	"gopkg.in/yaml.v3"
)

const (
	AdminKey   = "admin"
	RegularKey = "regular"
	RoseKey    = "rose"
	JackKey    = "jack"
)

//go:embed default.yaml
var defaultFixtures []byte

type fileFormat struct {
	Actors     map[string]actorTemplate     `yaml:"actors"`
	Passengers map[string]passengerTemplate `yaml:"passengers"`
}

type actorTemplate struct {
	UsernamePrefix string `yaml:"username_prefix" validate:"required"`
	Password       string `yaml:"password"`
	Email          string `yaml:"email"`
	Role           string `yaml:"role"`
}

type passengerTemplate struct {
	servicedef.Passenger `yaml:",inline"`
	Age                  *int `yaml:"age"`
}

// Store holds the fixtures for one test run.
type Store struct {
	Suffix     string
	Admin      servicedef.Actor
	Regular    servicedef.Actor
	passengers map[string]servicedef.Passenger
}

// RunSuffix returns the suffix that makes actor names unique for a run started at the given time.
func RunSuffix(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 10)
}

// Load reads fixtures from a YAML file, or uses the built-in fixtures if path is empty.
func Load(path string, suffix string) (*Store, error) {
	data := defaultFixtures
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("could not read fixtures file: %w", err)
		}
		data = fileData
	}
	return Parse(data, suffix)
}

// Parse builds a Store from YAML fixture data.
func Parse(data []byte, suffix string) (*Store, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("malformed fixtures: %w", err)
	}

	s := &Store{Suffix: suffix, passengers: make(map[string]servicedef.Passenger)}
	var err error
	if s.Admin, err = f.actor(AdminKey, suffix); err != nil {
		return nil, err
	}
	if s.Regular, err = f.actor(RegularKey, suffix); err != nil {
		return nil, err
	}
	for key, tmpl := range f.Passengers {
		p := tmpl.Passenger
		if tmpl.Age != nil {
			p.Age = ldvalue.NewOptionalInt(*tmpl.Age)
		}
		if err := Validate(p); err != nil {
			return nil, fmt.Errorf("invalid passenger %q: %w", key, err)
		}
		s.passengers[key] = p
	}
	for _, key := range []string{RoseKey, JackKey} {
		if _, ok := s.passengers[key]; !ok {
			return nil, fmt.Errorf("fixtures must define passenger %q", key)
		}
	}
	return s, nil
}

func (f fileFormat) actor(key, suffix string) (servicedef.Actor, error) {
	tmpl, ok := f.Actors[key]
	if !ok {
		return servicedef.Actor{}, fmt.Errorf("fixtures must define actor %q", key)
	}
	if err := Validate(tmpl); err != nil {
		return servicedef.Actor{}, fmt.Errorf("invalid actor %q: %w", key, err)
	}
	a := servicedef.Actor{
		Username: tmpl.UsernamePrefix + suffix,
		Password: tmpl.Password,
		Email:    tmpl.Email,
		Role:     tmpl.Role,
	}
	if err := Validate(a); err != nil {
		return servicedef.Actor{}, fmt.Errorf("invalid actor %q: %w", key, err)
	}
	return a, nil
}

// Passenger returns a copy of the passenger fixture with the given key.
func (s *Store) Passenger(key string) (servicedef.Passenger, bool) {
	p, ok := s.passengers[key]
	return p, ok
}

// MustPassenger is like Passenger but panics for an unknown key. Parse guarantees that the
// keys used by the suite exist.
func (s *Store) MustPassenger(key string) servicedef.Passenger {
	p, ok := s.passengers[key]
	if !ok {
		panic(fmt.Sprintf("no passenger fixture %q", key))
	}
	return p
}

func (s *Store) PassengerKeys() []string {
	ret := make([]string, 0, len(s.passengers))
	for k := range s.passengers {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

var validate = validator.New()

// Validate checks the validation tags of a fixture struct, returning a readable error.
func Validate(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return err
}

func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
