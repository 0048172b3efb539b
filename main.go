package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/titanic-qa/api-contract-tests/apitests"
	"github.com/titanic-qa/api-contract-tests/client"
	"github.com/titanic-qa/api-contract-tests/config"
	"github.com/titanic-qa/api-contract-tests/fakebackend"
	"github.com/titanic-qa/api-contract-tests/fixtures"
	"github.com/titanic-qa/api-contract-tests/framework"
	"github.com/titanic-qa/api-contract-tests/logging"
	"github.com/titanic-qa/api-contract-tests/report"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	defaultFakeBackendPort = 8000
	shutdownTimeout        = time.Second * 5
)

var errTestsFailed = errors.New("some tests failed")

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if !errors.Is(err, errTestsFailed) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var params commandParams
	cmd := &cobra.Command{
		Use:           commandName,
		Short:         "Run the Titanic API integration tests against a running backend",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			params.apply(cmd.Flags(), cfg)
			return runTests(cfg, params, cmd.OutOrStdout())
		},
	}
	params.bind(cmd.Flags())
	cmd.AddCommand(newFakeBackendCommand())
	return cmd
}

func runTests(cfg *config.Config, params commandParams, out io.Writer) error {
	log := logging.New(logging.Options{Level: cfg.LogLevel, Pretty: true})

	store, err := fixtures.Load(cfg.FixturesFile, fixtures.RunSuffix(time.Now()))
	if err != nil {
		return err
	}
	allure, err := report.NewAllureWriter(cfg.ResultsDir)
	if err != nil {
		return err
	}
	metrics := report.NewMetrics()

	var runDebugLogger framework.Logger
	if params.debugAll {
		runDebugLogger = logging.PrintfLogger(log, zerolog.DebugLevel)
	}
	api := client.NewAPIClient(cfg.BaseURL, cfg.RequestTimeout, logging.PrintfLogger(log, zerolog.TraceLevel))

	log.Info().
		Str("url", api.BaseURL()).
		Str("results", cfg.ResultsDir).
		Str("suffix", store.Suffix).
		Msg("starting test run")

	fmt.Fprintln(out)
	framework.PrintFilterDescription(out, params.filters)
	fmt.Fprintln(out, "Running test suite")

	console := &ConsoleTestLogger{
		Out:                  out,
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}
	results := apitests.RunTestSuite(api, apitests.NewRunState(store), apitests.SuiteOptions{
		Filter:        params.filters.AsFilter,
		TestLogger:    framework.MultiTestLogger{console, allure, metrics},
		DebugLogger:   runDebugLogger,
		WarningLogger: logging.PrintfLogger(log, zerolog.WarnLevel),
		VerifyCleanup: cfg.VerifyCleanup,
		OnCleanup:     metrics.CleanupDone,
	})

	if err := allure.Err(); err != nil {
		log.Error().Err(err).Msg("could not write all test results")
	}
	if path, err := metrics.WriteTextfile(cfg.ResultsDir); err != nil {
		log.Error().Err(err).Msg("could not write metrics")
	} else {
		log.Debug().Str("path", path).Msg("wrote metrics")
	}

	fmt.Fprintln(out)
	PrintResults(out, results)
	if results.OK() {
		return nil
	}

	var rerun []framework.TestID
	for _, f := range results.Failures {
		if f.TestID.Name() != framework.BeforeAllName {
			rerun = append(rerun, f.TestID)
		}
	}
	if len(rerun) > 0 {
		fmt.Fprintf(out, "\nTo run the failed tests again:\n  %s\n", rerunCommand(cfg, rerun))
	}
	return errTestsFailed
}

func newFakeBackendCommand() *cobra.Command {
	var port int
	var logLevel string
	cmd := &cobra.Command{
		Use:   "fake-backend",
		Short: "Serve an in-memory implementation of the Titanic backend API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New(logging.Options{Level: logLevel, Pretty: true})
			server := fakebackend.New(fakebackend.Options{Logger: log})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.Start(":" + strconv.Itoa(port))
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().IntVar(&port, "port", defaultFakeBackendPort, "port to listen on")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "trace, debug, info, warn or error")
	return cmd
}
