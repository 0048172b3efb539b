package framework

type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                        {}
func (n nullTestLogger) TestError(TestID, error)                   {}
func (n nullTestLogger) TestFinished(TestID, bool, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                {}

// MultiTestLogger sends every test event to each of the wrapped loggers in order.
type MultiTestLogger []TestLogger

func (m MultiTestLogger) TestStarted(id TestID) {
	for _, l := range m {
		l.TestStarted(id)
	}
}

func (m MultiTestLogger) TestError(id TestID, err error) {
	for _, l := range m {
		l.TestError(id, err)
	}
}

func (m MultiTestLogger) TestFinished(id TestID, failed bool, debugOutput CapturedOutput) {
	for _, l := range m {
		l.TestFinished(id, failed, debugOutput)
	}
}

func (m MultiTestLogger) TestSkipped(id TestID, reason string) {
	for _, l := range m {
		l.TestSkipped(id, reason)
	}
}
