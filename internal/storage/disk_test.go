package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDisk(t *testing.T) BlobStore {
	t.Helper()
	store, err := Connect(context.Background(), Config{
		DiskDir:     t.TempDir(),
		DiskURLBase: "/static/blobs",
	})
	require.NoError(t, err)
	return store
}

func TestDiskPutNeverOverwrites(t *testing.T) {
	store := setupDisk(t)
	ctx := context.Background()

	err := store.Put(ctx, "abc.pdf", strings.NewReader("first"), 5, "application/pdf")
	require.NoError(t, err)

	err = store.Put(ctx, "abc.pdf", strings.NewReader("second"), 6, "application/pdf")
	assert.ErrorIs(t, err, ErrKeyExists)
}

func TestDiskPublicURL(t *testing.T) {
	store := setupDisk(t)
	assert.Equal(t, "/static/blobs/abc.pdf", store.PublicURL("abc.pdf"))
}

func TestDiskListAndDelete(t *testing.T) {
	store := setupDisk(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "one.pdf", strings.NewReader("1"), 1, "application/pdf"))
	require.NoError(t, store.Put(ctx, "two.pdf", strings.NewReader("2"), 1, "application/pdf"))

	keys, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"one.pdf", "two.pdf"}, keys)

	require.NoError(t, store.Delete(ctx, "one.pdf"))
	// deleting a missing key is not an error
	require.NoError(t, store.Delete(ctx, "one.pdf"))

	keys, err = store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"two.pdf"}, keys)
}
