// Package logging wires the engine's slog setup: a console + file
// fan-out with optional GELF shipping, a context handler injecting
// per-session attributes, and a zerolog adapter for collaborators that
// want the dispatcher's Logger interface.
package logging

import (
	"fmt"
	"path/filepath"
	"time"
)

// LogFilePath builds a log file path using OS-appropriate path
// separators.
func LogFilePath(logsDir, appName string, sessionStart time.Time) string {
	return filepath.Join(
		logsDir,
		fmt.Sprintf("%s.%s.log", appName, sessionStart.Format("20060102_150405")),
	)
}
