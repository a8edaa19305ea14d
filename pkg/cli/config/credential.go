package config

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/cadport/pkg/domain/interfaces"
	"github.com/m-mizutani/cadport/pkg/infra/credential"
)

// Credential backends
const (
	CredentialBackendFile      = "file"
	CredentialBackendFirestore = "firestore"
)

// Credential holds session persistence settings
type Credential struct {
	Backend    string
	Path       string
	ProjectID  string
	DatabaseID string
	Collection string
	Document   string
}

// Flags returns CLI flags for credential store configuration
func (c *Credential) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "credential-backend",
			Usage:       "Session store backend (file, firestore)",
			Value:       CredentialBackendFile,
			Destination: &c.Backend,
			Sources:     cli.EnvVars("CADPORT_CREDENTIAL_BACKEND"),
		},
		&cli.StringFlag{
			Name:        "credential-path",
			Usage:       "Session file path for the file backend",
			Value:       credential.DefaultPath,
			Destination: &c.Path,
			Sources:     cli.EnvVars("CADPORT_CREDENTIAL_PATH"),
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Google Cloud project for the firestore backend",
			Destination: &c.ProjectID,
			Sources:     cli.EnvVars("CADPORT_FIRESTORE_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore database ID",
			Value:       firestore.DefaultDatabaseID,
			Destination: &c.DatabaseID,
			Sources:     cli.EnvVars("CADPORT_FIRESTORE_DATABASE_ID"),
		},
		&cli.StringFlag{
			Name:        "firestore-collection",
			Usage:       "Firestore collection holding the session document",
			Value:       "cadport_sessions",
			Destination: &c.Collection,
			Sources:     cli.EnvVars("CADPORT_FIRESTORE_COLLECTION"),
		},
		&cli.StringFlag{
			Name:        "firestore-document",
			Usage:       "Firestore session document ID",
			Value:       "portal",
			Destination: &c.Document,
			Sources:     cli.EnvVars("CADPORT_FIRESTORE_DOCUMENT"),
		},
	}
}

// Store creates the configured credential store. The returned function releases
// backend resources and is never nil.
func (c *Credential) Store(ctx context.Context) (interfaces.CredentialStore, func(), error) {
	switch c.Backend {
	case "", CredentialBackendFile:
		return credential.NewFile(c.Path), func() {}, nil

	case CredentialBackendFirestore:
		if c.ProjectID == "" {
			return nil, nil, goerr.New("firestore project ID is required for the firestore backend")
		}
		client, err := firestore.NewClientWithDatabase(ctx, c.ProjectID, c.DatabaseID)
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create firestore client",
				goerr.V("project_id", c.ProjectID),
				goerr.V("database_id", c.DatabaseID))
		}
		store := credential.NewFirestore(client,
			credential.WithCollection(c.Collection),
			credential.WithDocument(c.Document),
		)
		return store, func() { _ = client.Close() }, nil

	default:
		return nil, nil, goerr.New("unknown credential backend", goerr.V("backend", c.Backend))
	}
}
