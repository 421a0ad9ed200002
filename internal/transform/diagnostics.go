package transform

import (
	"fmt"

	"go.uber.org/zap"
)

// Diagnostic describes a recovered misuse of the stacks. Err is one of
// ErrStackUnderflow, ErrInvalidAdditiveTransform or ErrStaleDerivedState.
type Diagnostic struct {
	Err   error
	Stack string
	Op    string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s stack: %s: %v", d.Stack, d.Op, d.Err)
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Sink receives diagnostics from a StackSet.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(d Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// NopSink drops every diagnostic.
type NopSink struct{}

func (NopSink) Report(Diagnostic) {}

// LogSink writes each diagnostic as a warning and lets the frame continue.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Report(d Diagnostic) {
	s.log.Warn("matrix stack misuse",
		zap.String("stack", d.Stack),
		zap.String("op", d.Op),
		zap.Error(d.Err))
}

// PanicSink turns every diagnostic into a panic carrying the Diagnostic.
type PanicSink struct{}

func (PanicSink) Report(d Diagnostic) { panic(d) }
