// Package testlog bootstraps the test-profile logger from the start
// of a test function.
package testlog

import (
	"testing"

	"github.com/openxen/xenstore-go/internal/logging"
)

// Start configures the test-profile logger and emits one debug-level
// line naming the calling test.
func Start(t *testing.T) {
	t.Helper()
	log := logging.ConfigureTests()
	log.Debug().Str("test", t.Name()).Msg("test started")
}
