package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"
)

// JUnitTestSuites is the root element
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr,omitempty"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	Timestamp  string           `xml:"timestamp,attr,omitempty"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite groups the statements of one run
type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Time      float64         `xml:"time,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase is one statement
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
}

// JUnitFormatter formats outcomes as JUnit XML
type JUnitFormatter struct {
	writer io.Writer
	suite  JUnitTestSuite
}

type JUnitOption func(*JUnitFormatter)

func NewJUnitFormatter(opts ...JUnitOption) *JUnitFormatter {
	f := &JUnitFormatter{
		writer: os.Stdout,
		suite: JUnitTestSuite{
			Name:      "reqline",
			TestCases: make([]JUnitTestCase, 0),
		},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JUnitWithWriter(w io.Writer) JUnitOption {
	return func(f *JUnitFormatter) {
		f.writer = w
	}
}

func (f *JUnitFormatter) FormatOutcome(o *Outcome) {
	tc := JUnitTestCase{
		Name:      o.Reqline,
		ClassName: "reqline",
	}

	if o.Failed() {
		message := o.Message()
		f.suite.Failures++
		tc.Failure = &JUnitFailure{
			Message: message,
			Type:    "RequestFailed",
			Content: message,
		}
	} else {
		tc.Time = float64(o.Envelope.Result.Response.Duration) / 1000
		f.suite.Time += tc.Time
	}

	f.suite.Tests++
	f.suite.TestCases = append(f.suite.TestCases, tc)
}

func (f *JUnitFormatter) FormatError(err error) {
	f.suite.Tests++
	f.suite.Errors++
	f.suite.TestCases = append(f.suite.TestCases, JUnitTestCase{
		Name:      "error",
		ClassName: "reqline",
		Error:     &JUnitError{Message: err.Error(), Type: "Error"},
	})
}

func (f *JUnitFormatter) FormatHeader(version string) {
	// No header needed for JUnit XML
}

// Flush writes the accumulated JUnit XML output
func (f *JUnitFormatter) Flush(totalDuration time.Duration) error {
	suites := JUnitTestSuites{
		Name:       "reqline",
		Tests:      f.suite.Tests,
		Failures:   f.suite.Failures,
		Errors:     f.suite.Errors,
		Time:       totalDuration.Seconds(),
		Timestamp:  time.Now().Format(time.RFC3339),
		TestSuites: []JUnitTestSuite{f.suite},
	}

	fmt.Fprintf(f.writer, "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}
	fmt.Fprintln(f.writer)
	return nil
}
