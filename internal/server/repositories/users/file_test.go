package users

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBlob_LoadMissing(t *testing.T) {
	b := NewFileBlob(filepath.Join(t.TempDir(), "users.json"))

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, ErrBlobNotExist)
}

func TestFileBlob_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "users.json")
	b := NewFileBlob(path)
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, []byte(`[{"id":"1"}]`)))

	data, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(data))
}

func TestFileBlob_SaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBlob(filepath.Join(dir, "users.json"))
	ctx := context.Background()

	require.NoError(t, b.Save(ctx, []byte(`[]`)))
	require.NoError(t, b.Save(ctx, []byte(`[{"id":"1"}]`)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "users.json", entries[0].Name())
}
