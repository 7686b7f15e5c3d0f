// Package xsconfig loads the protocol-level limits and timeouts a
// caller may want to tune, from an optional TOML file.
package xsconfig

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Limits bounds payload size, ACL override count, and the deadlines
// a stream.Channel should apply around a blocking read or write.
type Limits struct {
	MaxPayload      int           `toml:"max_payload"`
	MaxACLOverrides int           `toml:"max_acl_overrides"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
}

// DefaultLimits returns the protocol's own built-in maximums, with no
// read/write deadline.
func DefaultLimits() Limits {
	return Limits{
		MaxPayload:      4096,
		MaxACLOverrides: 64,
		ReadTimeout:     0,
		WriteTimeout:    0,
	}
}

// Load reads limits from a TOML file at path, overwriting only the
// fields it sets. An empty path returns DefaultLimits unchanged.
func Load(path string) (Limits, error) {
	cfg := DefaultLimits()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Limits{}, fmt.Errorf("xsconfig: load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Limits{}, fmt.Errorf("xsconfig: parse failed (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return Limits{}, err
	}
	return cfg, nil
}

// Validate rejects a non-positive payload bound or negative override
// bound.
func Validate(l Limits) error {
	if l.MaxPayload <= 0 {
		return fmt.Errorf("xsconfig: max_payload must be positive, got %d", l.MaxPayload)
	}
	if l.MaxACLOverrides < 0 {
		return fmt.Errorf("xsconfig: max_acl_overrides must not be negative, got %d", l.MaxACLOverrides)
	}
	return nil
}
