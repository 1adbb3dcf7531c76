package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "zyra/internal/errors"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	path, err := store.Upload(ctx, "datasets", "raw/sales.csv", []byte("a,b\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, "raw/sales.csv", path)

	exists, err := store.Exists(ctx, "datasets", "raw/sales.csv")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := store.Download(ctx, "datasets", "raw/sales.csv")
	require.NoError(t, err)
	assert.Equal(t, []byte("a,b\n1,2\n"), data)

	require.NoError(t, store.Delete(ctx, "datasets", "raw/sales.csv"))
	exists, err = store.Exists(ctx, "datasets", "raw/sales.csv")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStoreDownloadMissing(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "datasets", "nope.csv")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeNotFound, apperrors.GetCode(err))
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Download(context.Background(), "datasets", "../../etc/passwd")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidInput, apperrors.GetCode(err))
}
