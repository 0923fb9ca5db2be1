// Package clilog is the thin glog wrapper used by the CLI drivers
// (cmd/casefilter-index, cmd/casefilter-search). The core packages
// (internal/casefilter, internal/codec, internal/bits, internal/wire) never
// import this package or glog directly — spec.md §7 requires the core stay
// silent; only the outer CLI layer logs.
package clilog

import "github.com/golang/glog"

// Infof logs an informational progress line.
func Infof(format string, args ...interface{}) {
	glog.Infof(format, args...)
}

// Errorf logs an error-level line without terminating the process; callers
// still propagate the error value for exit-status handling.
func Errorf(format string, args ...interface{}) {
	glog.Errorf(format, args...)
}

// Flush flushes buffered log entries; call before process exit.
func Flush() {
	glog.Flush()
}
