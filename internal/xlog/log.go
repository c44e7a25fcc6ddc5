// Package xlog is the matcher's stderr logger. No structured-logging
// library appears anywhere in the retrieval pack; the one CLI in it
// (n0madic-go-brain/cmd/brain-cli) logs with the standard library, so this
// wrapper does too.
package xlog

import (
	"log"
	"os"
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// Warnf logs a skip-and-continue condition (InvalidEvent, OutOfOrderTimestamp).
// Warnings are never suppressed by -silent; that flag only affects the
// per-match stdout stream.
func Warnf(format string, args ...interface{}) {
	std.Printf("warn: "+format, args...)
}

// Infof logs routine progress (batch boundaries, trace ids) for audit
// purposes. Like Warnf, never suppressed by -silent.
func Infof(format string, args ...interface{}) {
	std.Printf("info: "+format, args...)
}

// Fatalf logs a fatal condition and exits the process.
func Fatalf(format string, args ...interface{}) {
	std.Fatalf("fatal: "+format, args...)
}
