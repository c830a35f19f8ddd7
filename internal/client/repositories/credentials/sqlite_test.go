package credentials

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:credstest?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS credentials (key TEXT PRIMARY KEY, value TEXT NOT NULL);`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM credentials`)
	require.NoError(t, err)
	return db
}

func TestGet_AbsentSlotReturnsEmpty(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "username")
	require.NoError(t, err)
	require.Equal(t, "", v)
}

func TestSetGet_RoundTrip(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "username", "alice"))
	v, err := r.Get(ctx, "username")
	require.NoError(t, err)
	require.Equal(t, "alice", v)
}

func TestSet_UpsertsExistingSlot(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", "old"))
	require.NoError(t, r.Set(ctx, "token", "new"))

	v, err := r.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "new", v)
}

func TestDeleteAndClear(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "username", "alice"))
	require.NoError(t, r.Set(ctx, "token", "tok"))

	require.NoError(t, r.Delete(ctx, "username"))
	v, err := r.Get(ctx, "username")
	require.NoError(t, err)
	require.Equal(t, "", v)

	require.NoError(t, r.Clear(ctx))
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM credentials`).Scan(&n))
	require.Equal(t, 0, n)
}
