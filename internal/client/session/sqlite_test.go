package session

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE session (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSQLiteTier_PutThenGet(t *testing.T) {
	tier := NewSQLiteTier(setupDB(t))
	ctx := context.Background()

	require.NoError(t, tier.Put(ctx, map[string][]byte{"k1": {0x01, 0x02}}))

	v, err := tier.Get(ctx, "k1")
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, v)
}

func TestSQLiteTier_GetAbsentReturnsNilNil(t *testing.T) {
	tier := NewSQLiteTier(setupDB(t))

	v, err := tier.Get(context.Background(), "absent")
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestSQLiteTier_PutUpsertsAllEntries(t *testing.T) {
	tier := NewSQLiteTier(setupDB(t))
	ctx := context.Background()

	require.NoError(t, tier.Put(ctx, map[string][]byte{
		keyToken: []byte("old-token"),
		keyUser:  []byte("old-user"),
	}))
	require.NoError(t, tier.Put(ctx, map[string][]byte{
		keyToken: []byte("new-token"),
		keyUser:  []byte("new-user"),
	}))

	v, err := tier.Get(ctx, keyToken)
	require.NoError(t, err)
	assert.Equal(t, []byte("new-token"), v)

	v, err = tier.Get(ctx, keyUser)
	require.NoError(t, err)
	assert.Equal(t, []byte("new-user"), v)
}

func TestSQLiteTier_ClearRemovesAll_AndIsIdempotent(t *testing.T) {
	tier := NewSQLiteTier(setupDB(t))
	ctx := context.Background()

	require.NoError(t, tier.Put(ctx, map[string][]byte{"a": {1}, "b": {2}}))
	require.NoError(t, tier.Clear(ctx))

	v, err := tier.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, v)

	require.NoError(t, tier.Clear(ctx))
}

func TestSQLiteTier_ErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	tier := NewSQLiteTier(db)
	ctx := context.Background()

	require.NoError(t, db.Close())

	_, err := tier.Get(ctx, "k")
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to get session[k]")

	err = tier.Put(ctx, map[string][]byte{"k": []byte("v")})
	require.Error(t, err)

	err = tier.Clear(ctx)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to clear session")
}

func TestInitDatabase_MigratesAndServesTier(t *testing.T) {
	ctx := context.Background()

	db, err := InitDatabase(ctx, t.TempDir()+"/session.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tier := NewSQLiteTier(db)
	require.NoError(t, tier.Put(ctx, map[string][]byte{keyToken: []byte("tok")}))

	v, err := tier.Get(ctx, keyToken)
	require.NoError(t, err)
	require.Equal(t, []byte("tok"), v)
}
