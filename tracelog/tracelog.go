/*
 * plugin-verifier - a binary-compatibility verifier for class-file plugins
 * Licensed under the Mozilla Public License 2.0 (MPL 2.0)
 */

// Package tracelog is the engine's single logging entry point: a thin
// wrapper over zerolog giving every caller the same three-level calling
// convention (Trace/Warn/Error), replacing the teacher's habit of
// logging ad hoc via fmt.Println/os.Stderr at scattered call sites --
// centralized here so log level and output format are controlled in one
// place instead of at every call site.
package tracelog

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.Mutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).With().Timestamp().Logger()
)

// Configure replaces the package logger's output and level. Called once
// from cmd/verifier's root command after flags are parsed.
func Configure(w io.Writer, level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = zerolog.New(w).With().Timestamp().Logger().Level(level)
}

// Trace logs a fine-grained diagnostic: per-class, per-instruction
// engine progress. Silent unless the verbose flag raised the level.
func Trace(msg string, fields map[string]any) {
	event(logger.Trace(), fields).Msg(msg)
}

// Warn logs a non-fatal anomaly: a suppressed problem, a short-circuited
// dependency resolution, a cache miss on a memoized read failure.
func Warn(msg string, fields map[string]any) {
	event(logger.Warn(), fields).Msg(msg)
}

// Error logs a fatal job condition: archive I/O failure, descriptor
// parse failure, an uncaught panic recovered at the job boundary.
func Error(msg string, err error, fields map[string]any) {
	event(logger.Error().Err(err), fields).Msg(msg)
}

func event(e *zerolog.Event, fields map[string]any) *zerolog.Event {
	for k, v := range fields {
		e = e.Interface(k, v)
	}
	return e
}
