package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()

	_, err := s.Get("currentUser")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set("currentUser", "a@b.com"))
	v, err := s.Get("currentUser")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", v)

	require.NoError(t, s.Set("currentUser", "c@d.com"))
	v, err = s.Get("currentUser")
	require.NoError(t, err)
	assert.Equal(t, "c@d.com", v)

	require.NoError(t, s.Set("chatHistory_a@b.com", `[]`))
	require.NoError(t, s.Delete("currentUser"))
	_, err = s.Get("currentUser")
	assert.ErrorIs(t, err, ErrNotFound)

	v, err = s.Get("chatHistory_a@b.com")
	require.NoError(t, err)
	assert.Equal(t, `[]`, v)

	assert.NoError(t, s.Delete("never-written"))
}

func TestSQLiteStore(t *testing.T) {
	s, err := New(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)

	stats, err := s.GetStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.KeyCount)
	assert.Greater(t, stats.DBSizeBytes, int64(0))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("currentUser", "a@b.com"))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get("currentUser")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", v)
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadgerInMemory()
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestBadgerStore_OnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(BackendBadger, dir)
	require.NoError(t, err)
	require.NoError(t, s.Set("k", "v"))
	require.NoError(t, s.Close())

	s, err = Open(BackendBadger, dir)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", v)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open("postgres", t.TempDir())
	assert.Error(t, err)
}
