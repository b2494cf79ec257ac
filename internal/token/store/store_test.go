package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// kv — общий контракт всех хранилищ.
type kv interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// runContract прогоняет одинаковые проверки для любого хранилища.
func runContract(t *testing.T, s kv) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	require.False(t, ok, "пустое хранилище")

	require.NoError(t, s.Set(ctx, "auth_token", "a.b.c"))
	require.NoError(t, s.Set(ctx, "token_expiry", "1700000000000"))

	v, ok, err := s.Get(ctx, "auth_token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "a.b.c", v)

	require.NoError(t, s.Set(ctx, "auth_token", "d.e.f"))
	v, _, err = s.Get(ctx, "auth_token")
	require.NoError(t, err)
	require.Equal(t, "d.e.f", v, "перезапись значения")

	require.NoError(t, s.Delete(ctx, "auth_token", "token_expiry"))
	_, ok, err = s.Get(ctx, "auth_token")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = s.Get(ctx, "token_expiry")
	require.NoError(t, err)
	require.False(t, ok)

	// Повторное удаление — не ошибка.
	require.NoError(t, s.Delete(ctx, "auth_token", "token_expiry"))

	require.ErrorIs(t, s.Set(ctx, "", "x"), ErrEmptyKey)
	_, _, err = s.Get(ctx, "")
	require.ErrorIs(t, err, ErrEmptyKey)
}

func TestMemory_Contract(t *testing.T) {
	t.Parallel()
	runContract(t, NewMemory())
}

func TestFile_Contract(t *testing.T) {
	t.Parallel()
	runContract(t, NewFile(filepath.Join(t.TempDir(), "nested", "session.json")))
}

func TestFile_PermissionsAndSharing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "session.json")
	a := NewFile(path)
	b := NewFile(path)

	require.NoError(t, a.Set(ctx, "auth_token", "x.y.z"))

	st, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), st.Mode().Perm())

	v, ok, err := b.Get(ctx, "auth_token")
	require.NoError(t, err)
	require.True(t, ok, "второй экземпляр видит запись первого")
	require.Equal(t, "x.y.z", v)

	require.NoError(t, b.Delete(ctx, "auth_token"))
	_, ok, err = a.Get(ctx, "auth_token")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFile_CorruptedFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, _, err := NewFile(path).Get(ctx, "auth_token")
	require.Error(t, err)
	require.Contains(t, err.Error(), "store.file.Get")
}

func TestFile_EmptyFile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, ok, err := NewFile(path).Get(ctx, "auth_token")
	require.NoError(t, err)
	require.False(t, ok)
}
