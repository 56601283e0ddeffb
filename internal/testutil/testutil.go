// Package testutil provides shared test helpers for setting up stores and
// services.
package testutil

import (
	"os"
	"testing"

	"github.com/starford/laguz/internal/service"
	"github.com/starford/laguz/internal/store"
)

// TestStore creates a temporary SQLite store that is automatically cleaned up.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	dbFile, err := os.CreateTemp("", "laguz-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	st, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

// TestService creates a service over a temporary store, without a broker.
func TestService(t *testing.T) *service.Service {
	t.Helper()
	return service.NewService(TestStore(t), nil, nil)
}
