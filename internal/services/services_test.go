package services

import (
	"testing"

	"github.com/xvierd/arc-cli/internal/adapters/storage"
	"github.com/xvierd/arc-cli/internal/ports"
)

func setupTestStorage(t *testing.T) (ports.Storage, func()) {
	store, err := storage.NewMemory()
	if err != nil {
		t.Fatalf("Failed to create test storage: %v", err)
	}
	return store, func() { store.Close() }
}
