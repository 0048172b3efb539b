package framework

import "fmt"

// Phase is a stage in the lifecycle of a Suite run.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSetup
	PhaseCase
	PhaseTeardown
	PhaseDone
)

var phaseNames = map[Phase]string{
	PhaseIdle:     "idle",
	PhaseSetup:    "setup",
	PhaseCase:     "case",
	PhaseTeardown: "teardown",
	PhaseDone:     "done",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Setup happens once, then every case is followed by its teardown. A run with no
// cases goes straight from setup to done.
var phaseTransitions = map[Phase][]Phase{
	PhaseIdle:     {PhaseSetup},
	PhaseSetup:    {PhaseCase, PhaseDone},
	PhaseCase:     {PhaseTeardown},
	PhaseTeardown: {PhaseCase, PhaseDone},
}

// PhaseTransitionError is returned by PhaseMachine.Enter for a transition that the lifecycle
// does not allow.
type PhaseTransitionError struct {
	From Phase
	To   Phase
}

func (e PhaseTransitionError) Error() string {
	return fmt.Sprintf("invalid suite phase transition from %s to %s", e.From, e.To)
}

// PhaseMachine tracks the current Phase of a Suite and rejects out-of-order transitions.
// The zero value is ready to use and starts in PhaseIdle.
type PhaseMachine struct {
	current Phase
	history []Phase
}

func (m *PhaseMachine) Current() Phase {
	return m.current
}

// History returns every phase entered so far, in order.
func (m *PhaseMachine) History() []Phase {
	return append([]Phase(nil), m.history...)
}

func (m *PhaseMachine) Enter(next Phase) error {
	for _, allowed := range phaseTransitions[m.current] {
		if allowed == next {
			m.current = next
			m.history = append(m.history, next)
			return nil
		}
	}
	return PhaseTransitionError{From: m.current, To: next}
}
