package main

import (
	"regexp"
	"strings"
	"time"

	"github.com/titanic-qa/api-contract-tests/config"
	"github.com/titanic-qa/api-contract-tests/framework"

	"github.com/alessio/shellescape"
	"github.com/spf13/pflag"
)

const commandName = "titanic-api-tests"

// commandParams holds the command-line flags. Flags that are not given leave the
// corresponding environment setting in place.
type commandParams struct {
	baseURL       string
	resultsDir    string
	timeout       time.Duration
	logLevel      string
	fixturesFile  string
	verifyCleanup bool
	filters       framework.RegexFilters
	debug         bool
	debugAll      bool
}

func (p *commandParams) bind(fs *pflag.FlagSet) {
	fs.StringVar(&p.baseURL, "url", "", "base URL of the backend gateway (env TITANIC_BASE_URL)")
	fs.StringVar(&p.resultsDir, "results-dir", "", "directory for Allure results and metrics (env TITANIC_RESULTS_DIR)")
	fs.DurationVar(&p.timeout, "timeout", 0, "HTTP request timeout (env TITANIC_REQUEST_TIMEOUT)")
	fs.StringVar(&p.logLevel, "log-level", "", "trace, debug, info, warn or error (env TITANIC_LOG_LEVEL)")
	fs.StringVar(&p.fixturesFile, "fixtures", "", "YAML file to use instead of the built-in fixtures (env TITANIC_FIXTURES)")
	fs.BoolVar(&p.verifyCleanup, "verify-cleanup", false, "check that every deleted passenger is gone (env TITANIC_VERIFY_CLEANUP)")
	fs.Var(&p.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	fs.Var(&p.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	fs.BoolVar(&p.debug, "debug", false, "enable debug logging for failed tests")
	fs.BoolVar(&p.debugAll, "debug-all", false, "enable debug logging for all tests")
}

// apply copies the flags that were set on the command line into cfg.
func (p *commandParams) apply(fs *pflag.FlagSet, cfg *config.Config) {
	if fs.Changed("url") {
		cfg.BaseURL = p.baseURL
	}
	if fs.Changed("results-dir") {
		cfg.ResultsDir = p.resultsDir
	}
	if fs.Changed("timeout") {
		cfg.RequestTimeout = p.timeout
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = p.logLevel
	}
	if fs.Changed("fixtures") {
		cfg.FixturesFile = p.fixturesFile
	}
	if fs.Changed("verify-cleanup") {
		cfg.VerifyCleanup = p.verifyCleanup
	}
}

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand returns a command line that runs only the given tests again with the same
// settings. Settings that match their defaults are left out.
func rerunCommand(cfg *config.Config, ids []framework.TestID) string {
	defaults := config.Defaults()
	var b commandBuilder
	b.add(commandName, "--url", cfg.BaseURL)
	if cfg.ResultsDir != defaults.ResultsDir {
		b.add("--results-dir", cfg.ResultsDir)
	}
	if cfg.RequestTimeout != defaults.RequestTimeout {
		b.add("--timeout", cfg.RequestTimeout.String())
	}
	if cfg.LogLevel != defaults.LogLevel {
		b.add("--log-level", cfg.LogLevel)
	}
	if cfg.FixturesFile != defaults.FixturesFile {
		b.add("--fixtures", cfg.FixturesFile)
	}
	if cfg.VerifyCleanup != defaults.VerifyCleanup {
		b.add("--verify-cleanup")
	}
	for _, id := range ids {
		b.add("--run", "^"+regexp.QuoteMeta(id.String())+"$")
	}
	b.add("--debug")
	return b.String()
}
