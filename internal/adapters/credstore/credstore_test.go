package credstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/99designs/keyring"
	"github.com/mikey/mail-semantic-search/internal/core"
	"github.com/nalgeon/be"
	"go.uber.org/zap"
)

// exerciseStore checks the behavior every CredentialStore shares
func exerciseStore(t *testing.T, store core.CredentialStore) {
	t.Helper()
	ctx := context.Background()

	_, err := store.Load(ctx, "token")
	be.Err(t, err, core.ErrCredentialNotFound)

	be.Err(t, store.Save(ctx, "token", []byte(`{"access_token":"a"}`)), nil)
	data, err := store.Load(ctx, "token")
	be.Err(t, err, nil)
	be.Equal(t, string(data), `{"access_token":"a"}`)

	be.Err(t, store.Save(ctx, "token", []byte(`{"access_token":"b"}`)), nil)
	data, err = store.Load(ctx, "token")
	be.Err(t, err, nil)
	be.Equal(t, string(data), `{"access_token":"b"}`)

	be.Err(t, store.Delete(ctx, "token"), nil)
	_, err = store.Load(ctx, "token")
	be.Err(t, err, core.ErrCredentialNotFound)

	// Deleting a missing key is not an error.
	be.Err(t, store.Delete(ctx, "token"), nil)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(zap.NewNop()))
}

func TestMemoryStore_CopiesData(t *testing.T) {
	store := NewMemoryStore(zap.NewNop())
	ctx := context.Background()

	data := []byte("secret")
	be.Err(t, store.Save(ctx, "k", data), nil)
	data[0] = 'X'

	got, err := store.Load(ctx, "k")
	be.Err(t, err, nil)
	be.Equal(t, string(got), "secret")
}

func TestFileStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	store, err := NewFileStore(dir, zap.NewNop())
	be.Err(t, err, nil)
	exerciseStore(t, store)
}

func TestFileStore_Permissions(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, zap.NewNop())
	be.Err(t, err, nil)

	be.Err(t, store.Save(context.Background(), "token", []byte("{}")), nil)
	info, err := os.Stat(filepath.Join(dir, "token.json"))
	be.Err(t, err, nil)
	be.Equal(t, info.Mode().Perm(), os.FileMode(0o600))
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	be.Err(t, err, nil)

	got, err := expandHome("~/creds")
	be.Err(t, err, nil)
	be.Equal(t, got, filepath.Join(home, "creds"))

	got, err = expandHome("relative/dir")
	be.Err(t, err, nil)
	be.Equal(t, got, "relative/dir")
}

func TestKeyringStore(t *testing.T) {
	exerciseStore(t, NewKeyringStoreFrom(keyring.NewArrayKeyring(nil), zap.NewNop()))
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "db", "credentials.db"), zap.NewNop())
	be.Err(t, err, nil)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})

	exerciseStore(t, store)
}

func TestSQLiteStore_Memory(t *testing.T) {
	store, err := NewSQLiteStore(":memory:", zap.NewNop())
	be.Err(t, err, nil)
	defer store.Close()

	exerciseStore(t, store)
}
