// Package xlog provides small leveled logging helpers used across the
// renderer's subsystems. It mirrors a prefix-tagged status line
// convention, minus any terminal-specific color/emoji palette, since
// render workers have no guaranteed terminal.
package xlog

import (
	"log"
	"os"
)

var std = log.New(os.Stderr, "", log.LstdFlags)

// Warnf logs a warning. Used by the scene façade when it drops a face-set
// whose material ID is undefined.
func Warnf(format string, args ...any) {
	std.Printf("WARN "+format, args...)
}

// Errorf logs a setup-time error before it is wrapped and returned to the
// caller.
func Errorf(format string, args ...any) {
	std.Printf("ERROR "+format, args...)
}

// Infof logs routine progress information (tile counts, build stats).
func Infof(format string, args ...any) {
	std.Printf("INFO "+format, args...)
}
