package localcal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// NewTestStore creates an in-memory store that is cleaned up when the
// test finishes.
func NewTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := New(":memory:")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}
