package fakebackend

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"github.com/titanic-qa/api-contract-tests/servicedef"

	"golang.org/x/crypto/bcrypt"
)

var (
	errUserExists         = errors.New("user already exists")
	errInvalidCredentials = errors.New("invalid credentials")
	errPassengerNotFound  = errors.New("passenger not found")
	errCabinConflict      = errors.New("cabin is shared with a passenger of a different class")
	errNotAuthenticated   = errors.New("not authenticated")
	errAdminRequired      = errors.New("admin role required")
)

type user struct {
	username     string
	email        string
	passwordHash []byte
	role         string
}

// store is the in-memory state of the backend: users and passengers.
type store struct {
	users       map[string]user
	passengers  map[int]servicedef.PassengerRecord
	lastID      int
	adminPrefix string
	lock        sync.Mutex
}

func newStore(adminPrefix string) *store {
	return &store{
		users:       make(map[string]user),
		passengers:  make(map[int]servicedef.PassengerRecord),
		adminPrefix: adminPrefix,
	}
}

func (s *store) addUser(username, password, email string) (user, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return user{}, err
	}
	role := servicedef.RoleRegular
	if strings.HasPrefix(username, s.adminPrefix) {
		role = servicedef.RoleAdmin
	}
	u := user{username: username, email: email, passwordHash: hash, role: role}

	s.lock.Lock()
	defer s.lock.Unlock()
	if _, exists := s.users[username]; exists {
		return user{}, errUserExists
	}
	s.users[username] = u
	return u, nil
}

func (s *store) authenticate(username, password string) (user, error) {
	s.lock.Lock()
	u, ok := s.users[username]
	s.lock.Unlock()
	if !ok {
		return user{}, errInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(u.passwordHash, []byte(password)); err != nil {
		return user{}, errInvalidCredentials
	}
	return u, nil
}

// addPassenger stores a passenger unless another passenger of a different class is already
// in the same cabin.
func (s *store) addPassenger(p servicedef.Passenger) (servicedef.PassengerRecord, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if p.Cabin != "" {
		for _, existing := range s.passengers {
			if existing.Cabin == p.Cabin && existing.PClass != p.PClass {
				return servicedef.PassengerRecord{}, errCabinConflict
			}
		}
	}
	s.lastID++
	rec := servicedef.PassengerRecord{Passenger: p, ID: s.lastID}
	s.passengers[rec.ID] = rec
	return rec, nil
}

func (s *store) getPassenger(id int) (servicedef.PassengerRecord, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	rec, ok := s.passengers[id]
	if !ok {
		return servicedef.PassengerRecord{}, errPassengerNotFound
	}
	return rec, nil
}

func (s *store) deletePassenger(id int) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	if _, ok := s.passengers[id]; !ok {
		return errPassengerNotFound
	}
	delete(s.passengers, id)
	return nil
}

func (s *store) passengerIDs() []int {
	s.lock.Lock()
	defer s.lock.Unlock()
	ret := make([]int, 0, len(s.passengers))
	for id := range s.passengers {
		ret = append(ret, id)
	}
	sort.Ints(ret)
	return ret
}
