package credential_test

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/cadport/pkg/domain/model"
	"github.com/m-mizutani/cadport/pkg/infra/credential"
)

func TestFirestoreStore_RoundTrip(t *testing.T) {
	// Runs against a real project or the emulator (FIRESTORE_EMULATOR_HOST)
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID is not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, projectID)
	gt.NoError(t, err)
	defer client.Close()

	store := credential.NewFirestore(client,
		credential.WithCollection("cadport_test_sessions"),
		credential.WithDocument(uuid.NewString()),
	)

	empty, err := store.Load(ctx)
	gt.NoError(t, err)
	gt.True(t, empty.IsEmpty())

	saved := &model.Session{
		Cookies:       map[string]string{"sid": "xyz"},
		Credentials:   &model.Credentials{Email: "a@example.com", Password: "p"},
		Authenticated: true,
		CreatedAt:     time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	gt.NoError(t, store.Save(ctx, saved))

	loaded, err := store.Load(ctx)
	gt.NoError(t, err)
	gt.Value(t, loaded.Cookies).Equal(saved.Cookies)
	gt.Value(t, loaded.Credentials).Equal(saved.Credentials)
	gt.True(t, loaded.CreatedAt.Equal(saved.CreatedAt))

	gt.NoError(t, store.Clear(ctx))
	gt.NoError(t, store.Clear(ctx))
}

func TestFirestoreStore_UndecodableDocumentLoadsEmpty(t *testing.T) {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID is not set")
	}

	ctx := context.Background()
	client, err := firestore.NewClient(ctx, projectID)
	gt.NoError(t, err)
	defer client.Close()

	collection := "cadport_test_sessions"
	docID := uuid.NewString()
	doc := client.Collection(collection).Doc(docID)
	_, err = doc.Set(ctx, map[string]any{
		"cookies":       42,
		"authenticated": "yes",
	})
	gt.NoError(t, err)
	defer func() { _, _ = doc.Delete(ctx) }()

	store := credential.NewFirestore(client,
		credential.WithCollection(collection),
		credential.WithDocument(docID),
	)

	loaded, err := store.Load(ctx)
	gt.NoError(t, err)
	gt.Value(t, loaded).NotNil()
	gt.True(t, loaded.IsEmpty())
}
