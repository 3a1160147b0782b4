package service

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rememberthis/remember-server/internal/identity"
	"github.com/rememberthis/remember-server/internal/store/sqlite"
	"github.com/rememberthis/remember-server/internal/validation"
)

func setupTestServices(t *testing.T) (*IdentityService, *MemoryService, *sqlite.Store) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	testStore, err := sqlite.Open(dbPath, logger)
	require.NoError(t, err)
	t.Cleanup(func() { testStore.Close() })

	identitySvc := NewIdentityService(testStore, logger)
	memorySvc := NewMemoryService(testStore, identitySvc, validation.New(), logger)
	return identitySvc, memorySvc, testStore
}

func testIdentity(externalID string) *identity.Identity {
	return &identity.Identity{
		ExternalID: externalID,
		Email:      externalID + "@example.com",
		FirstName:  "Test",
		LastName:   "User",
	}
}

func testEventUser(externalID string) identity.EventUser {
	return identity.EventUser{
		ID:             externalID,
		EmailAddresses: []identity.EmailAddress{{EmailAddress: externalID + "@example.com"}},
		FirstName:      "Test",
		LastName:       "User",
	}
}
