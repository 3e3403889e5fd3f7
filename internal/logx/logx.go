// Package logx builds the logger injected into the converter. Callers own
// the configuration; nothing here mutates global logrus state.
package logx

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Config selects the sink, minimum severity, and colorization of a logger.
type Config struct {
	Out     io.Writer
	Level   log.Level
	NoColor bool
}

// New returns a logger configured per cfg. Colors are enabled when the sink
// is a terminal, unless NoColor is set.
func New(cfg Config) *log.Logger {
	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}
	logger := log.New()
	logger.SetOutput(out)
	logger.SetLevel(cfg.Level)
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
		ForceColors:   !cfg.NoColor && isTerminal(out),
		DisableColors: cfg.NoColor,
	})
	return logger
}

// ParseLevel maps a user-supplied level name to a logrus level, defaulting
// to debug on unrecognized input so nothing is hidden by a typo.
func ParseLevel(s string) (log.Level, bool) {
	if level, err := log.ParseLevel(s); err == nil {
		return level, true
	}
	return log.DebugLevel, false
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
