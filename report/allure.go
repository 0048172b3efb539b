// Package report turns test events into files that outlive the run: Allure result files
// and a Prometheus textfile of run metrics.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/titanic-qa/api-contract-tests/framework"

	"github.com/google/uuid"
)

const (
	StatusPassed  = "passed"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"

	suiteLabel     = "Titanic API"
	frameworkLabel = "titanic-api-tests"
)

// AllureResult is the subset of the Allure result format that the harness writes.
type AllureResult struct {
	UUID          string        `json:"uuid"`
	HistoryID     string        `json:"historyId"`
	Name          string        `json:"name"`
	FullName      string        `json:"fullName"`
	Status        string        `json:"status"`
	StatusDetails StatusDetails `json:"statusDetails"`
	Stage         string        `json:"stage"`
	Start         int64         `json:"start"`
	Stop          int64         `json:"stop"`
	Labels        []Label       `json:"labels"`
}

type StatusDetails struct {
	Message string `json:"message,omitempty"`
	Trace   string `json:"trace,omitempty"`
}

type Label struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type pendingResult struct {
	start  time.Time
	errors []string
}

// AllureWriter is a framework.TestLogger that writes one <uuid>-result.json file per test
// into a directory. Errors writing files are collected and returned by Err, so that a
// reporting problem does not interrupt the test run.
type AllureWriter struct {
	dir     string
	pending map[string]*pendingResult
	written []string
	err     error
	now     func() time.Time
	lock    sync.Mutex
}

// NewAllureWriter creates dir if necessary.
func NewAllureWriter(dir string) (*AllureWriter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create results directory: %w", err)
	}
	return &AllureWriter{
		dir:     dir,
		pending: make(map[string]*pendingResult),
		now:     time.Now,
	}, nil
}

func (w *AllureWriter) TestStarted(id framework.TestID) {
	w.lock.Lock()
	w.pending[id.String()] = &pendingResult{start: w.now()}
	w.lock.Unlock()
}

func (w *AllureWriter) TestError(id framework.TestID, err error) {
	w.lock.Lock()
	if p := w.pending[id.String()]; p != nil {
		p.errors = append(p.errors, err.Error())
	}
	w.lock.Unlock()
}

func (w *AllureWriter) TestFinished(id framework.TestID, failed bool, debugOutput framework.CapturedOutput) {
	status := StatusPassed
	if failed {
		status = StatusFailed
	}
	var trace strings.Builder
	debugOutput.Dump(&trace, "")
	w.finish(id, status, "", trace.String())
}

func (w *AllureWriter) TestSkipped(id framework.TestID, reason string) {
	w.finish(id, StatusSkipped, reason, "")
}

func (w *AllureWriter) finish(id framework.TestID, status, message, trace string) {
	w.lock.Lock()
	defer w.lock.Unlock()

	key := id.String()
	stop := w.now()
	start := stop
	if p := w.pending[key]; p != nil {
		start = p.start
		if len(p.errors) > 0 {
			message = strings.Join(p.errors, "\n")
		}
		delete(w.pending, key)
	}

	result := AllureResult{
		UUID:          uuid.NewString(),
		HistoryID:     uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String(),
		Name:          id.Name(),
		FullName:      key,
		Status:        status,
		StatusDetails: StatusDetails{Message: message, Trace: trace},
		Stage:         "finished",
		Start:         start.UnixMilli(),
		Stop:          stop.UnixMilli(),
		Labels: []Label{
			{Name: "suite", Value: suiteLabel},
			{Name: "framework", Value: frameworkLabel},
		},
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		w.recordError(err)
		return
	}
	path := filepath.Join(w.dir, result.UUID+"-result.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		w.recordError(fmt.Errorf("could not write test result: %w", err))
		return
	}
	w.written = append(w.written, path)
}

func (w *AllureWriter) recordError(err error) {
	if w.err == nil {
		w.err = err
	}
}

// Written returns the paths of the files written so far.
func (w *AllureWriter) Written() []string {
	w.lock.Lock()
	defer w.lock.Unlock()
	return append([]string(nil), w.written...)
}

// Err returns the first error that occurred while writing results, if any.
func (w *AllureWriter) Err() error {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.err
}
