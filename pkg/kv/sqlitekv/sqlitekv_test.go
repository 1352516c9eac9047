package sqlitekv

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/runroster/pkg/kv"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.db")
	s, err := Open(path)
	require.NoError(t, err)
	return s, path
}

func TestStore_GetMissing(t *testing.T) {
	s, _ := openTestStore(t)
	defer s.Close()

	_, err := s.Get(context.Background(), "runningDays")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestStore_SetOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := openTestStore(t)
	defer s.Close()

	require.NoError(t, s.Set(ctx, "runningDays", []byte(`[1]`)))
	require.NoError(t, s.Set(ctx, "runningDays", []byte(`[2]`)))

	got, err := s.Get(ctx, "runningDays")
	require.NoError(t, err)
	assert.Equal(t, `[2]`, string(got))
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	s, path := openTestStore(t)
	require.NoError(t, s.Set(ctx, "k", []byte("v")))
	require.NoError(t, s.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
}
