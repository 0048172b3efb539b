package apitests

import (
	"sync"

	"github.com/titanic-qa/api-contract-tests/fixtures"
)

// CleanupRegistry is the ordered list of passenger IDs created by the current case. Cases
// append to it; the CleanupCoordinator clears it when the case is over.
type CleanupRegistry struct {
	ids  []int
	lock sync.Mutex
}

func (r *CleanupRegistry) Register(id int) {
	r.lock.Lock()
	r.ids = append(r.ids, id)
	r.lock.Unlock()
}

// IDs returns a copy of the registered IDs in registration order.
func (r *CleanupRegistry) IDs() []int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]int(nil), r.ids...)
}

func (r *CleanupRegistry) Len() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.ids)
}

func (r *CleanupRegistry) Clear() {
	r.lock.Lock()
	r.ids = nil
	r.lock.Unlock()
}

// RunState is everything the suite remembers between cases during one run. It is created
// empty before setup and is never torn down; the actors it refers to are left on the backend.
type RunState struct {
	Fixtures     *fixtures.Store
	AdminToken   string
	RegularToken string
	Cleanup      CleanupRegistry
}

func NewRunState(store *fixtures.Store) *RunState {
	return &RunState{Fixtures: store}
}
