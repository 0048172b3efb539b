package framework

// BeforeAllName is the test name under which a Suite reports its setup step.
const BeforeAllName = "before all"

type suiteCase struct {
	name   string
	action func(*Context)
}

// Suite runs a one-time setup step followed by an ordered list of cases, calling an
// after-each hook when every case finishes.
//
// The setup step is not subject to the test filter: cases that are selected always see
// the state it produces. The after-each hook runs even if the case failed or panicked, and
// its debug output is attributed to that case. A failing setup step does not prevent the
// cases from running.
type Suite struct {
	setup     func(*Context)
	afterEach func(*Context)
	cases     []suiteCase
	phases    PhaseMachine
}

func NewSuite() *Suite {
	return &Suite{}
}

func (s *Suite) BeforeAll(action func(*Context)) {
	s.setup = action
}

func (s *Suite) AfterEach(action func(*Context)) {
	s.afterEach = action
}

func (s *Suite) Case(name string, action func(*Context)) {
	s.cases = append(s.cases, suiteCase{name: name, action: action})
}

// Phases returns the lifecycle phases the suite has gone through.
func (s *Suite) Phases() []Phase {
	return s.phases.History()
}

// Run executes the suite as children of c. A Suite can only be run once; later calls
// return a PhaseTransitionError without running anything.
func (s *Suite) Run(c *Context) error {
	if err := s.phases.Enter(PhaseSetup); err != nil {
		return err
	}
	if s.setup != nil {
		c.runChild(c.id.Plus(BeforeAllName), s.setup)
	}
	for _, sc := range s.cases {
		sc := sc
		c.Run(sc.name, func(c1 *Context) {
			if err := s.phases.Enter(PhaseCase); err != nil {
				c1.Errorf("%s", err)
				return
			}
			defer s.teardown(c1)
			sc.action(c1)
		})
	}
	return s.phases.Enter(PhaseDone)
}

func (s *Suite) teardown(c *Context) {
	if err := s.phases.Enter(PhaseTeardown); err != nil {
		c.Errorf("%s", err)
		return
	}
	if s.afterEach != nil {
		s.afterEach(c)
	}
}
