// Package log wraps klog so that the rest of the codebase does not depend on
// the logging backend directly. Client facing packages obtain a Logger from
// here instead of importing klog.
package log

import (
	"k8s.io/klog"
)

// StderrLog is the Logger backed by klog, which writes to stderr.
var StderrLog Logger = kLogger{}

// Logger is the logging interface used across the codebase. It mirrors the
// subset of klog that is actually exercised.
type Logger interface {
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warning(args ...interface{})
	Warningf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
	// V returns a leveled logger; messages are emitted only when the
	// configured verbosity is at least level.
	V(level int32) Verbose
	// Is reports whether verbosity of level is enabled.
	Is(level int32) bool
}

// Verbose is a leveled logger returned by Logger.V.
type Verbose interface {
	Info(args ...interface{})
	Infof(format string, args ...interface{})
}

type kLogger struct{}

func (kLogger) Info(args ...interface{})                    { klog.Info(args...) }
func (kLogger) Infof(format string, args ...interface{})    { klog.Infof(format, args...) }
func (kLogger) Warning(args ...interface{})                 { klog.Warning(args...) }
func (kLogger) Warningf(format string, args ...interface{}) { klog.Warningf(format, args...) }
func (kLogger) Error(args ...interface{})                   { klog.Error(args...) }
func (kLogger) Errorf(format string, args ...interface{})   { klog.Errorf(format, args...) }
func (kLogger) Fatal(args ...interface{})                   { klog.Fatal(args...) }
func (kLogger) Fatalf(format string, args ...interface{})   { klog.Fatalf(format, args...) }

func (kLogger) V(level int32) Verbose {
	return klog.V(klog.Level(level))
}

func (kLogger) Is(level int32) bool {
	return bool(klog.V(klog.Level(level)))
}
