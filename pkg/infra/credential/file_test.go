package credential_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/cadport/pkg/domain/model"
	"github.com/m-mizutani/cadport/pkg/infra/credential"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store := credential.NewFile(filepath.Join(t.TempDir(), "missing.json"))

	session, err := store.Load(context.Background())
	gt.NoError(t, err)
	gt.True(t, session.IsEmpty())
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := credential.NewFile(filepath.Join(t.TempDir(), "nested", "session.json"))

	saved := &model.Session{
		Cookies: map[string]string{
			"JSESSIONID": "abc123",
			"portal_ts":  "1700000000",
		},
		Credentials: &model.Credentials{
			Email:    "engineer@example.com",
			Password: "s3cret",
		},
		Authenticated: true,
		CreatedAt:     time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC),
	}

	gt.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	gt.NoError(t, err)
	gt.Value(t, loaded).Equal(saved)
}

func TestFileStore_SaveRestrictsPermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	store := credential.NewFile(path)

	gt.NoError(t, store.Save(context.Background(), &model.Session{Authenticated: true}))

	info, err := os.Stat(path)
	gt.NoError(t, err)
	gt.Value(t, info.Mode().Perm()).Equal(os.FileMode(0o600))
}

func TestFileStore_CorruptFileLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	gt.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	session, err := credential.NewFile(path).Load(context.Background())
	gt.NoError(t, err)
	gt.True(t, session.IsEmpty())
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	store := credential.NewFile(path)

	gt.NoError(t, store.Save(ctx, &model.Session{Cookies: map[string]string{"a": "b"}}))
	gt.NoError(t, store.Clear(ctx))
	gt.NoError(t, store.Clear(ctx))

	_, err := os.Stat(path)
	gt.True(t, os.IsNotExist(err))

	session, err := store.Load(ctx)
	gt.NoError(t, err)
	gt.True(t, session.IsEmpty())
}

func TestFileStore_SaveNil(t *testing.T) {
	store := credential.NewFile(filepath.Join(t.TempDir(), "session.json"))
	gt.Error(t, store.Save(context.Background(), nil))
}
