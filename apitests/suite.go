package apitests

import (
	"github.com/titanic-qa/api-contract-tests/framework"
)

type SuiteOptions struct {
	Filter     framework.Filter
	TestLogger framework.TestLogger

	// DebugLogger, if set, receives every test's debug output as it happens.
	DebugLogger framework.Logger

	// WarningLogger receives cleanup warnings and suite lifecycle errors.
	WarningLogger framework.Logger

	VerifyCleanup bool
	OnCleanup     func(CleanupReport)
}

var allCases = []struct {
	name   string
	action func(*T)
}{
	{"[Gateway] health check returns OK", DoHealthCheckTest},
	{"[Auth] global actors have access tokens", DoActorTokenTest},
	{"[Passenger] RBAC: regular user cannot delete a passenger", DoRegularUserCannotDeleteTest},
	{"[Passenger] Jack and Rose cannot share a cabin", DoCabinClassConflictTest},
}

// RunTestSuite provisions the actors once, then runs every case in order against the backend,
// cleaning up the passengers created by each case before the next one starts.
func RunTestSuite(api PassengerAPI, state *RunState, opts SuiteOptions) framework.Results {
	warn := opts.WarningLogger
	if warn == nil {
		warn = framework.NullLogger()
	}
	env := &environment{
		api:   api,
		state: state,
		cleanup: NewCleanupCoordinator(api, CleanupOptions{
			Verify:        opts.VerifyCleanup,
			WarningLogger: warn,
			OnReport:      opts.OnCleanup,
		}),
	}

	return framework.Run(opts.Filter, opts.TestLogger, opts.DebugLogger, func(c *framework.Context) {
		s := framework.NewSuite()
		s.BeforeAll(env.wrap(ProvisionActors))
		s.AfterEach(env.wrap(func(t *T) {
			t.env.cleanup.Run(t.env.state, t.context.DebugLogger())
		}))
		for _, tc := range allCases {
			s.Case(tc.name, env.wrap(tc.action))
		}
		if err := s.Run(c); err != nil {
			warn.Printf("%s", err)
		}
	})
}
