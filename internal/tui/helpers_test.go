package tui

import (
	"testing"

	"zenflow/internal/api"
	"zenflow/internal/bus"
	"zenflow/internal/logging"
	"zenflow/internal/session"
)

// newTestDeps backs the views with a dead backend address so any command a
// test chooses to execute fails fast instead of hanging.
func newTestDeps(t *testing.T) deps {
	t.Helper()
	b := bus.New()
	t.Cleanup(b.Close)
	return deps{
		client: api.New("http://127.0.0.1:1", func() string { return "tok" }),
		store:  session.NewStore(t.TempDir()),
		bus:    b,
		log:    logging.Discard(),
	}
}
