package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Get(ctx, "it-stock-items")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, "it-stock-items", []byte(`[{"id":"a"}]`)))
	got, err := store.Get(ctx, "it-stock-items")
	require.NoError(t, err)
	require.Equal(t, `[{"id":"a"}]`, string(got))

	require.NoError(t, store.Set(ctx, "it-stock-items", []byte(`[]`)))
	got, err = store.Get(ctx, "it-stock-items")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))

	require.NoError(t, store.Set(ctx, "it-stock-categories", []byte(`["Tools"]`)))
	got, err = store.Get(ctx, "it-stock-items")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(got))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemory()
	exerciseStore(t, store)

	value := []byte("abc")
	require.NoError(t, store.Set(context.Background(), "k", value))
	value[0] = 'x'
	got, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(got))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	store, err := OpenSQLite(path)
	require.NoError(t, err)
	exerciseStore(t, store)
	require.NoError(t, store.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })
	got, err := reopened.Get(context.Background(), "it-stock-categories")
	require.NoError(t, err)
	require.Equal(t, `["Tools"]`, string(got))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := OpenRedis(context.Background(), mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	exerciseStore(t, store)

	raw, err := mr.Get("it-stock-categories")
	require.NoError(t, err)
	require.Equal(t, `["Tools"]`, raw)
	require.Zero(t, mr.TTL("it-stock-categories"))
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("ITSTOCK_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("ITSTOCK_TEST_PG_DSN not set")
	}
	store, err := OpenPostgres(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	_, err = store.pool.Exec(context.Background(), `DELETE FROM kv_entries WHERE key LIKE 'it-stock-%'`)
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "etcd"})
	require.Error(t, err)

	store, err := Open(context.Background(), Config{Driver: DriverMemory})
	require.NoError(t, err)
	require.IsType(t, &Memory{}, store)
}
