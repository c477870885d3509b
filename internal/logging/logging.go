// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultLevel is used when no level is configured.
const DefaultLevel = "warn"

// Setup builds a human-readable logger at the named level and installs it as
// log.Logger. Logs go to w, or to stderr when w is nil, so that stdout only
// carries command output. Unknown level names fall back to DefaultLevel.
func Setup(level string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}

	console := zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	logger := zerolog.New(console).With().Timestamp().Logger().Level(lvl)
	log.Logger = logger
	return logger
}
