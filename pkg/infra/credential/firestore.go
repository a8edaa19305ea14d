package credential

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/domain/model"
)

const (
	defaultCollection = "cadport_sessions"
	defaultDocument   = "portal"
)

type firestoreStore struct {
	client     *firestore.Client
	collection string
	document   string
}

// FirestoreOption configures the Firestore-backed store
type FirestoreOption func(*firestoreStore)

// WithCollection overrides the collection holding the session document
func WithCollection(name string) FirestoreOption {
	return func(s *firestoreStore) {
		s.collection = name
	}
}

// WithDocument overrides the session document ID
func WithDocument(id string) FirestoreOption {
	return func(s *firestoreStore) {
		s.document = id
	}
}

// NewFirestore creates a CredentialStore backed by a single Firestore document
func NewFirestore(client *firestore.Client, opts ...FirestoreOption) interfaces.CredentialStore {
	s := &firestoreStore{
		client:     client,
		collection: defaultCollection,
		document:   defaultDocument,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *firestoreStore) doc() *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(s.document)
}

// Load reads the session document. A missing or undecodable document resolves to an empty session.
func (s *firestoreStore) Load(ctx context.Context) (*model.Session, error) {
	snap, err := s.doc().Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &model.Session{}, nil
		}
		return nil, goerr.Wrap(err, "failed to get session document",
			goerr.V("collection", s.collection),
			goerr.V("document", s.document),
		)
	}

	var session model.Session
	if err := snap.DataTo(&session); err != nil {
		ctxlog.From(ctx).Warn("Failed to decode session document",
			"collection", s.collection,
			"document", s.document,
			"error", err,
		)
		return &model.Session{}, nil
	}
	return &session, nil
}

func (s *firestoreStore) Save(ctx context.Context, session *model.Session) error {
	if session == nil {
		return goerr.New("session is nil")
	}
	if _, err := s.doc().Set(ctx, session); err != nil {
		return goerr.Wrap(err, "failed to set session document",
			goerr.V("collection", s.collection),
			goerr.V("document", s.document),
		)
	}
	return nil
}

// Clear deletes the session document. Deleting a missing document succeeds.
func (s *firestoreStore) Clear(ctx context.Context) error {
	if _, err := s.doc().Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete session document")
	}
	return nil
}
