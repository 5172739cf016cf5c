package localstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytnotebook/ytnotebook/internal/domain"
)

func openTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	s, err := Open(dir, nil)
	require.NoError(t, err)
	return s
}

func TestStore_SaveLoadClear(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	defer s.Close() //nolint:errcheck // Test cleanup

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	want := domain.Identity{UserID: "usr-1", UserName: "Ada"}
	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, s.Clear())
	_, err = s.Load()
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	assert.NoError(t, s.Clear(), "logout twice is fine")
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s := openTestStore(t, dir)
	require.NoError(t, s.Save(domain.Identity{UserID: "usr-1", UserName: "Ada"}))
	require.NoError(t, s.Save(domain.Identity{UserID: "usr-2", UserName: "Grace"}))
	require.NoError(t, s.Close())

	s = openTestStore(t, dir)
	defer s.Close() //nolint:errcheck // Test cleanup

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.Identity{UserID: "usr-2", UserName: "Grace"}, got)
}

func TestStore_SaveRejectsEmptyIdentity(t *testing.T) {
	s := openTestStore(t, t.TempDir())
	defer s.Close() //nolint:errcheck // Test cleanup

	assert.Error(t, s.Save(domain.Identity{UserName: "nobody"}))
}
