// Package logging builds the diagnostic logger used across vgrep.
package logging

import (
	"io"

	"github.com/bombsimon/logrusr/v3"
	"github.com/go-logr/logr"
	"github.com/sirupsen/logrus"
)

// New returns a logr.Logger writing logrus text lines to w. Verbosity 0
// keeps only errors and V(0) messages; each step enables one more V level.
func New(w io.Writer, verbosity int) logr.Logger {
	if verbosity < 0 {
		verbosity = 0
	}
	logrusLog := logrus.New()
	logrusLog.SetOutput(w)
	logrusLog.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrusLog.SetLevel(logrus.Level(int(logrus.InfoLevel) + verbosity))

	return logrusr.New(logrusLog).WithName("vgrep")
}
