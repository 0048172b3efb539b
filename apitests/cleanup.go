package apitests

import (
	"net/http"

	"github.com/titanic-qa/api-contract-tests/client"
	"github.com/titanic-qa/api-contract-tests/framework"
)

// PassengerRemover is the part of the API that the CleanupCoordinator uses.
type PassengerRemover interface {
	DeletePassenger(id int, token string, tolerateFailure bool) (*client.Response, error)
	GetPassenger(id int, token string, tolerateFailure bool) (*client.Response, error)
}

// CleanupReport describes what happened to each ID during one cleanup pass.
type CleanupReport struct {
	Attempted []int
	Deleted   []int
	Forbidden []int
	Failed    []int

	// Lingering is only populated when verification is enabled: IDs that were deleted
	// successfully but could still be read afterward.
	Lingering []int
}

type CleanupOptions struct {
	// Verify makes the coordinator read back every deleted passenger and report any that
	// did not return 404.
	Verify bool

	// WarningLogger receives a message for every ID that could not be deleted.
	WarningLogger framework.Logger

	// OnReport, if set, is called after every cleanup pass that had something to do.
	OnReport func(CleanupReport)
}

// CleanupCoordinator deletes the passengers that a case registered, using the admin token.
// Deletion failures are logged but never fail the case, and the registry is always empty
// when Run returns.
type CleanupCoordinator struct {
	api  PassengerRemover
	opts CleanupOptions
}

func NewCleanupCoordinator(api PassengerRemover, opts CleanupOptions) *CleanupCoordinator {
	if opts.WarningLogger == nil {
		opts.WarningLogger = framework.NullLogger()
	}
	return &CleanupCoordinator{api: api, opts: opts}
}

// Run deletes every passenger in state.Cleanup. Progress is written to debugLogger, which
// is normally the debug logger of the case that just finished.
func (cc *CleanupCoordinator) Run(state *RunState, debugLogger framework.Logger) CleanupReport {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	defer state.Cleanup.Clear()

	var report CleanupReport
	ids := state.Cleanup.IDs()
	if len(ids) == 0 {
		return report
	}

	debugLogger.Printf("CLEANUP: Deleting %d passenger(s) to restore DB state", len(ids))
	for _, id := range ids {
		report.Attempted = append(report.Attempted, id)
		resp, err := cc.api.DeletePassenger(id, state.AdminToken, true)
		switch {
		case err != nil:
			report.Failed = append(report.Failed, id)
			cc.warn(debugLogger, "WARNING: Failed to delete ID %d: %s", id, err)
		case resp.StatusCode == http.StatusForbidden:
			report.Forbidden = append(report.Forbidden, id)
			cc.warn(debugLogger, "WARNING: Failed to delete ID %d. Check admin rights.", id)
		case !resp.IsSuccess():
			report.Failed = append(report.Failed, id)
			cc.warn(debugLogger, "WARNING: Failed to delete ID %d: HTTP %d %s", id, resp.StatusCode, resp.Detail())
		default:
			report.Deleted = append(report.Deleted, id)
			if cc.opts.Verify && !cc.verifyGone(id, state.AdminToken, debugLogger) {
				report.Lingering = append(report.Lingering, id)
			}
		}
	}

	if cc.opts.OnReport != nil {
		cc.opts.OnReport(report)
	}
	return report
}

func (cc *CleanupCoordinator) verifyGone(id int, token string, debugLogger framework.Logger) bool {
	resp, err := cc.api.GetPassenger(id, token, true)
	if err != nil {
		cc.warn(debugLogger, "WARNING: Could not verify deletion of ID %d: %s", id, err)
		return false
	}
	if resp.StatusCode != http.StatusNotFound {
		cc.warn(debugLogger, "WARNING: Passenger %d still readable after deletion (HTTP %d)", id, resp.StatusCode)
		return false
	}
	return true
}

func (cc *CleanupCoordinator) warn(debugLogger framework.Logger, format string, args ...interface{}) {
	debugLogger.Printf(format, args...)
	cc.opts.WarningLogger.Printf(format, args...)
}
