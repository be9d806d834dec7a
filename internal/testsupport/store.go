package testsupport

import (
	"testing"

	"pcbooth/internal/ledger"
)

// MustOpenLedger opens a history database for tests and registers cleanup.
func MustOpenLedger(t testing.TB, path string) *ledger.Ledger {
	t.Helper()

	l, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		l.Close()
	})
	return l
}
