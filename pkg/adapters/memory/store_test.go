package memory_test

import (
	"testing"

	"github.com/aretw0/listbot/pkg/adapters/memory"
	"github.com/aretw0/listbot/pkg/ports"
)

// Ensure Store implements SessionStore
var _ ports.SessionStore = (*memory.Store)(nil)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSessionStoreContract(t, store)
}
