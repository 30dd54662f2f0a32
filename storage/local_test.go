//go:build unit

package storage

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeLocalClient(t *testing.T) (string, Provider) {
	tmpDir, err := os.MkdirTemp("", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

	c, err := NewLocalStorage(tmpDir)
	require.NoError(t, err)

	return tmpDir, c
}

func setBundle(t *testing.T, provider Provider, skillID int64, content string) {
	t.Helper()
	err := provider.SetBundle(skillID, "application/gzip", int64(len(content)), io.NopCloser(strings.NewReader(content)))
	require.NoError(t, err)
}

func TestLocal(t *testing.T) {
	t.Run("initialize", func(t *testing.T) {
		tmpDir, _ := makeLocalClient(t)
		stat, err := os.Stat(filepath.Join(tmpDir, "bundles"))
		require.NoError(t, err)
		assert.True(t, stat.IsDir())
	})

	t.Run("initialize under a regular file", func(t *testing.T) {
		tmpDir, err := os.MkdirTemp("", "")
		require.NoError(t, err)
		t.Cleanup(func() { _ = os.RemoveAll(tmpDir) })

		occupied := filepath.Join(tmpDir, "occupied")
		require.NoError(t, os.WriteFile(occupied, []byte("x"), 0644))

		// Stat on a path routed through a file fails with an error other
		// than not-exist; it must surface instead of being swallowed.
		_, err = NewLocalStorage(filepath.Join(occupied, "depot"))
		assert.Error(t, err)

		_, err = NewLocalStorage(occupied)
		assert.Error(t, err)
	})

	t.Run("set bundle", func(t *testing.T) {
		tmpDir, provider := makeLocalClient(t)
		setBundle(t, provider, 42, "bundle bytes")

		// Bundles shard by the low byte of the skill id, sidecar included.
		stat, err := os.Stat(filepath.Join(tmpDir, "bundles", "2a", "42.tar.gz"))
		require.NoError(t, err)
		assert.False(t, stat.IsDir())

		_, err = os.Stat(filepath.Join(tmpDir, "bundles", "2a", "42.tar.gz.meta"))
		require.NoError(t, err)
	})

	t.Run("read bundle", func(t *testing.T) {
		_, provider := makeLocalClient(t)
		setBundle(t, provider, 42, "bundle bytes")

		meta, stream, err := provider.GetBundle(42)
		require.NoError(t, err)
		defer func() { _ = stream.Close() }()

		assert.Equal(t, int64(len("bundle bytes")), meta.Size)
		assert.Equal(t, "application/gzip", meta.Mime)

		data, err := io.ReadAll(stream)
		require.NoError(t, err)
		assert.Equal(t, "bundle bytes", string(data))
	})

	t.Run("read bundle (not found)", func(t *testing.T) {
		_, provider := makeLocalClient(t)
		_, _, err := provider.GetBundle(42)
		require.Error(t, err)
		assert.IsType(t, ErrNotExist{}, err)
	})

	t.Run("bundle without sidecar is dropped", func(t *testing.T) {
		tmpDir, provider := makeLocalClient(t)
		setBundle(t, provider, 42, "bundle bytes")

		bundlePath := filepath.Join(tmpDir, "bundles", "2a", "42.tar.gz")
		require.NoError(t, os.Remove(bundlePath+".meta"))

		_, err := provider.BundleMeta(42)
		assert.IsType(t, ErrNotExist{}, err)

		_, err = os.Stat(bundlePath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("touch bundle", func(t *testing.T) {
		_, provider := makeLocalClient(t)
		setBundle(t, provider, 42, "bundle bytes")

		before, err := provider.BundleMeta(42)
		require.NoError(t, err)

		require.NoError(t, provider.TouchBundle(42))

		after, err := provider.BundleMeta(42)
		require.NoError(t, err)
		assert.False(t, after.AccessedAt.Before(before.AccessedAt))
		assert.Equal(t, before.CreatedAt, after.CreatedAt)
	})

	t.Run("touch bundle (not found)", func(t *testing.T) {
		_, provider := makeLocalClient(t)
		err := provider.TouchBundle(42)
		assert.IsType(t, ErrNotExist{}, err)
	})

	t.Run("delete bundle", func(t *testing.T) {
		_, provider := makeLocalClient(t)
		setBundle(t, provider, 42, "bundle bytes")

		require.NoError(t, provider.DeleteBundle(42))

		_, err := provider.BundleMeta(42)
		assert.IsType(t, ErrNotExist{}, err)
	})

	t.Run("delete bundle (not found)", func(t *testing.T) {
		_, provider := makeLocalClient(t)
		err := provider.DeleteBundle(42)
		assert.IsType(t, ErrNotExist{}, err)
	})

	t.Run("purge all", func(t *testing.T) {
		tmpDir, provider := makeLocalClient(t)
		setBundle(t, provider, 42, "bundle bytes")
		setBundle(t, provider, 298, "other bundle")

		require.NoError(t, provider.PurgeAll())

		_, err := provider.BundleMeta(42)
		assert.IsType(t, ErrNotExist{}, err)
		_, err = provider.BundleMeta(298)
		assert.IsType(t, ErrNotExist{}, err)

		stat, err := os.Stat(filepath.Join(tmpDir, "bundles"))
		require.NoError(t, err)
		assert.True(t, stat.IsDir())
	})

	t.Run("total size", func(t *testing.T) {
		_, provider := makeLocalClient(t)
		setBundle(t, provider, 42, "bundle bytes")
		setBundle(t, provider, 298, "other bundle")

		size, err := provider.TotalSize()
		require.NoError(t, err)
		assert.Equal(t, int64(len("bundle bytes")+len("other bundle")), size)
	})
}
