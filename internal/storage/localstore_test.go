package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "portal.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func TestStore_SetGetRoundtrip(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyAccessToken, "t1"))

	value, err := store.Get(KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "t1", value)

	// перезапись того же ключа
	require.NoError(t, store.Set(KeyAccessToken, "t2"))
	value, err = store.Get(KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "t2", value)
}

func TestStore_GetMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "fallback", store.GetOr("missing", "fallback"))
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyUser, `{"id":"1"}`))
	require.NoError(t, store.Delete(KeyUser))

	_, err := store.Get(KeyUser)
	assert.ErrorIs(t, err, ErrNotFound)

	// удаление отсутствующего ключа не ошибка
	assert.NoError(t, store.Delete(KeyUser))
}

func TestStore_ClearSession(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set(KeyAccessToken, "t1"))
	require.NoError(t, store.Set(KeyRefreshToken, "r1"))
	require.NoError(t, store.Set(KeyUser, `{"id":"1"}`))
	require.NoError(t, store.Set(KeyDebtConfig, `{"diasBloqueo":10}`))

	require.NoError(t, store.ClearSession())

	assert.Equal(t, "", store.AccessToken())
	assert.Equal(t, "", store.RefreshToken())
	_, err := store.Get(KeyUser)
	assert.ErrorIs(t, err, ErrNotFound)

	// конфигурация блокировки переживает logout
	assert.Equal(t, `{"diasBloqueo":10}`, store.GetOr(KeyDebtConfig, ""))
}
