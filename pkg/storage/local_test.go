package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/campusgrid/studentportal/pkg/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) FileStorage {
	t.Helper()

	fs, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return fs
}

func TestSave_GeneratesUniquePathPreservingExtension(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	rel1, err := fs.Save(ctx, strings.NewReader("first"), KindPhoto, "me.JPG")
	require.NoError(t, err)
	rel2, err := fs.Save(ctx, strings.NewReader("second"), KindPhoto, "me.JPG")
	require.NoError(t, err)

	assert.NotEqual(t, rel1, rel2)
	assert.True(t, strings.HasPrefix(rel1, "photos/"))
	assert.True(t, strings.HasSuffix(rel1, ".jpg"))

	abs, err := fs.Resolve(rel1)
	require.NoError(t, err)
	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "first", string(data))
}

func TestSave_DocumentKindUsesOwnSubdir(t *testing.T) {
	fs := newTestStorage(t)

	rel, err := fs.Save(context.Background(), strings.NewReader("doc"), KindDocument, "transcript.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "documents/"))
}

func TestResolve_RejectsTraversal(t *testing.T) {
	fs := newTestStorage(t)

	for _, relPath := range []string{
		"../outside.txt",
		"photos/../../outside.txt",
		"photos/../../../etc/passwd",
		"..",
	} {
		_, err := fs.Resolve(relPath)
		assert.ErrorIs(t, err, apperror.ErrForbidden, "path %q", relPath)
	}
}

func TestResolve_AllowsPathsInsideRoot(t *testing.T) {
	fs := newTestStorage(t)

	abs, err := fs.Resolve("photos/x.png")
	require.NoError(t, err)
	assert.Equal(t, "x.png", filepath.Base(abs))
}

func TestDelete(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	rel, err := fs.Save(ctx, strings.NewReader("x"), KindPhoto, "a.png")
	require.NoError(t, err)

	require.NoError(t, fs.Delete(ctx, rel))

	abs, err := fs.Resolve(rel)
	require.NoError(t, err)
	_, err = os.Stat(abs)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	assert.ErrorIs(t, fs.Delete(ctx, rel), apperror.ErrNotFound)
}

func TestList(t *testing.T) {
	fs := newTestStorage(t)
	ctx := context.Background()

	rel1, err := fs.Save(ctx, strings.NewReader("x"), KindPhoto, "a.png")
	require.NoError(t, err)
	rel2, err := fs.Save(ctx, strings.NewReader("y"), KindDocument, "b.pdf")
	require.NoError(t, err)

	files, err := fs.List(ctx)
	require.NoError(t, err)

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.RelPath)
	}
	assert.ElementsMatch(t, []string{rel1, rel2}, paths)
}
