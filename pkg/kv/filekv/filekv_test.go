package filekv

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/runroster/pkg/kv"
)

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Get(ctx, "runningDays")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "runningDays", []byte(`[{"date":"2024-01-01","runners":[]}]`)))
	got, err := s.Get(ctx, "runningDays")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"date":"2024-01-01","runners":[]}]`, string(got))

	require.NoError(t, s.Set(ctx, "runningDays", []byte(`[]`)))
	got, err = s.Get(ctx, "runningDays")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(got))
}

func TestStore_NoTempFileLeftBehind(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "k", []byte("v")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k.json", entries[0].Name())
}

func TestStore_KeyIsEscaped(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(context.Background(), "../escape", []byte("v")))

	_, err = os.Stat(filepath.Join(dir, "..%2Fescape.json"))
	assert.NoError(t, err)
}

func TestStore_Compressed(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir, WithCompression())
	require.NoError(t, err)
	defer s.Close()

	payload := bytes.Repeat([]byte(`{"date":"2024-01-01","runners":[]},`), 200)
	require.NoError(t, s.Set(ctx, "runningDays", payload))

	raw, err := os.ReadFile(filepath.Join(dir, "runningDays.json.zst"))
	require.NoError(t, err)
	assert.Less(t, len(raw), len(payload))

	got, err := s.Get(ctx, "runningDays")
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestStore_CorruptCompressedData(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, WithCompression())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "k.json.zst"), []byte("not zstd"), 0600))

	_, err = s.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, kv.ErrNotFound)
}

func TestNew_UnwritableDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0600))

	_, err := New(filepath.Join(file, "sub"))
	assert.Error(t, err)
}
