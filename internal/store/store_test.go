package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "search")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, m.Set(ctx, "search", "React"))
	require.NoError(t, m.Set(ctx, "search", "Redux"))

	v, ok, err := m.Get(ctx, "search")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Redux", v)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{"json", "sqlite", "memory"} {
		t.Run(driver, func(t *testing.T) {
			kv, closer, err := Open(driver, filepath.Join(dir, driver+".store"))
			require.NoError(t, err)
			t.Cleanup(func() { _ = closer.Close() })

			require.NoError(t, kv.Set(ctx, "search", driver))
			v, ok, err := kv.Get(ctx, "search")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, driver, v)
		})
	}

	_, _, err := Open("etcd", "")
	require.ErrorContains(t, err, "unknown driver")
}
