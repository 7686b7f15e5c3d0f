// Package logging bootstraps the process-wide zerolog logger used by
// the diagnostic CLI. The core protocol packages (op, acl, wire,
// stream) never import this package; stream.PacketStream accepts a
// small Logf-shaped interface instead. wire.Parser has no logging hook.
package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	EnvLogLevel     = "XENSTORE_LOG_LEVEL"
	EnvLogTimestamp = "XENSTORE_LOG_TIMESTAMP"
	EnvLogNoColor   = "XENSTORE_LOG_NOCOLOR"
)

// Profile selects the default level/timestamp combination Configure
// applies before environment overrides are read.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var (
	configureOnce sync.Once
	logger        zerolog.Logger
)

// ConfigureRuntime bootstraps the default runtime logger: info level,
// timestamps on, color on unless XENSTORE_LOG_NOCOLOR turns it off.
func ConfigureRuntime() zerolog.Logger {
	return Configure(ProfileRuntime)
}

// ConfigureTests bootstraps a quieter logger suited to test output:
// debug level, no timestamps (so golden-file-style test output stays
// stable across runs).
func ConfigureTests() zerolog.Logger {
	return Configure(ProfileTest)
}

// Configure builds the process-wide logger exactly once; subsequent
// calls (regardless of profile) return the logger built on first call.
func Configure(profile Profile) zerolog.Logger {
	configureOnce.Do(func() {
		level, timestamp := defaults(profile)
		level = applyLevelOverride(level)
		timestamp = applyBoolOverride(EnvLogTimestamp, timestamp)
		noColor := applyBoolOverride(EnvLogNoColor, false)

		w := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339, NoColor: noColor}
		b := zerolog.New(w).Level(level).With()
		if timestamp {
			b = b.Timestamp()
		}
		logger = b.Str("app", "xenstore-go").Logger()
	})
	return logger
}

func defaults(profile Profile) (zerolog.Level, bool) {
	if profile == ProfileTest {
		return zerolog.DebugLevel, false
	}
	return zerolog.InfoLevel, true
}

func applyLevelOverride(cur zerolog.Level) zerolog.Level {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel)))
	switch raw {
	case "":
		return cur
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled
	default:
		return cur
	}
}

func applyBoolOverride(env string, cur bool) bool {
	raw := strings.TrimSpace(os.Getenv(env))
	if raw == "" {
		return cur
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return cur
	}
	return v
}

// Adapter satisfies the Logf-shaped stream.Logger interface.
type Adapter struct {
	log zerolog.Logger
}

// NewAdapter wraps l for use as a stream.PacketStream logger.
func NewAdapter(l zerolog.Logger) Adapter {
	return Adapter{log: l}
}

func (a Adapter) Logf(format string, args ...any) {
	a.log.Debug().Msgf(format, args...)
}
