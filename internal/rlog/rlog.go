// Package rlog wraps logrus with the structured fields the scheduler's
// phases narrate. It replaces the teacher's fmt.Println-per-step tracing
// (fiber/fiber.go logs every beginWork/completeWork/commit step as an
// interpolated string) with structured logrus fields, so a caller can
// filter or ship the trace instead of only reading it off stdout.
package rlog

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Logger wraps a logrus entry with the few methods the scheduler needs.
// Build one with New over any *logrus.Logger, so tests can pass a
// logrus.New() with a buffer-backed output to assert on emitted events.
type Logger struct {
	entry *logrus.Entry
}

// New wraps l, defaulting to logrus.StandardLogger() if l is nil.
func New(l *logrus.Logger) *Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &Logger{entry: logrus.NewEntry(l)}
}

// WithFiber returns a Logger whose subsequent entries are tagged with the
// given fiber's debug id.
func (r *Logger) WithFiber(id uuid.UUID) *Logger {
	return &Logger{entry: r.entry.WithField("fiber", id.String())}
}

// WithPhase returns a Logger tagged with the active scheduler phase
// (begin, complete, commit, dispatch, find-next, error-pipeline).
func (r *Logger) WithPhase(phase string) *Logger {
	return &Logger{entry: r.entry.WithField("phase", phase)}
}

// Debugf logs a step-by-step narration line, the structured-field
// equivalent of the teacher's fmt.Printf tracing.
func (r *Logger) Debugf(format string, args ...interface{}) {
	r.entry.Debugf(format, args...)
}

// Warnf logs a recoverable condition (e.g. an error trapped and routed to
// a boundary).
func (r *Logger) Warnf(format string, args ...interface{}) {
	r.entry.Warnf(format, args...)
}

// Errorf logs an uncaught error about to surface to the host.
func (r *Logger) Errorf(format string, args ...interface{}) {
	r.entry.Errorf(format, args...)
}
