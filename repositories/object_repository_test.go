package repositories

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalObjectRepository_SaveAndOpen(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	repo, err := NewLocalObjectRepository(root)
	require.NoError(t, err)

	written, err := repo.SaveObject(ctx, "uploads/abc", strings.NewReader("image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(len("image-bytes")), written)

	file, err := repo.OpenObject(ctx, "uploads/abc")
	require.NoError(t, err)
	defer file.Content.Close()

	data, err := io.ReadAll(file.Content)
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(data))
	assert.Equal(t, "abc", file.Name)
	assert.Equal(t, int64(11), file.Size)

	entries, err := os.ReadDir(filepath.Join(root, "uploads"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files are removed")
}

func TestLocalObjectRepository_OpenMissing(t *testing.T) {
	repo, err := NewLocalObjectRepository(t.TempDir())
	require.NoError(t, err)

	_, err = repo.OpenObject(context.Background(), "uploads/missing")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	_, err = repo.OpenObject(context.Background(), "")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	_, err = repo.OpenObject(context.Background(), "uploads")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestLocalObjectRepository_PathsStayInsideRoot(t *testing.T) {
	ctx := context.Background()
	parent := t.TempDir()
	root := filepath.Join(parent, "objects")
	repo, err := NewLocalObjectRepository(root)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(parent, "secret.txt"), []byte("secret"), 0o600))

	_, err = repo.OpenObject(ctx, "../secret.txt")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	_, err = repo.SaveObject(ctx, "../../escape", strings.NewReader("x"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "escape"))
	assert.NoError(t, err, "cleaned path lands inside the root")

	_, err = repo.SaveObject(ctx, "uploads/.hidden", strings.NewReader("x"))
	assert.Error(t, err)
}
