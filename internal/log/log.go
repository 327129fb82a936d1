// Package log wraps logrus with per-subsystem fields. The simulator core
// never reaches for a global logger; callers pass in an *logrus.Entry (or
// nil, which falls back to a discard logger) so the core stays free of
// process-global mutable state.
package log

import (
	"io"

	"github.com/sirupsen/logrus"
)

var discard = func() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}()

// For returns a logger scoped to the named component. Pass the result of a
// previous For call as base to inherit its fields and output target; pass
// nil to get the package default (stderr, text formatter).
func For(component string, base *logrus.Entry) *logrus.Entry {
	if base == nil {
		base = logrus.NewEntry(logrus.StandardLogger())
	}
	return base.WithField("component", component)
}

// OrDiscard returns e if non-nil, otherwise a logger that writes nowhere.
// The simulator, which accepts an optional logger, uses this instead of
// checking for nil at every log call.
func OrDiscard(e *logrus.Entry) *logrus.Entry {
	if e == nil {
		return discard
	}
	return e
}
