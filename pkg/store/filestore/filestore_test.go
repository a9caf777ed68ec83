package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wdm0006/intakegate/pkg/store"
)

func TestPutGet(t *testing.T) {
	root := t.TempDir()
	s, err := New(root)
	require.NoError(t, err)
	ctx := context.Background()
	loc := store.Location{Bucket: "curated", Key: "processed_2024/01/cars.csv"}

	require.NoError(t, s.Put(ctx, loc, []byte("a\n1\n")))
	b, err := s.Get(ctx, loc)
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n", string(b))

	_, err = os.Stat(filepath.Join(root, "curated", "processed_2024", "01", "cars.csv"))
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Join(root, "curated", "processed_2024", "01"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")
}

func TestGetNotFound(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	_, err = s.Get(context.Background(), store.Location{Bucket: "raw", Key: "nope.csv"})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestInvalidLocations(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	for _, loc := range []store.Location{
		{Bucket: "", Key: "a.csv"},
		{Bucket: "raw", Key: ""},
		{Bucket: "raw", Key: "dir/"},
		{Bucket: "raw", Key: "../../etc/passwd"},
	} {
		_, err := s.Get(context.Background(), loc)
		assert.ErrorIs(t, err, store.ErrInvalidLocation, loc.String())
	}
}
