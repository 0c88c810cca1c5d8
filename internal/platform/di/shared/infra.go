// internal/platform/di/shared/infra.go
package shared

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	appcfg "solstarter/internal/infra/config"
	"solstarter/internal/infra/database"
	firestoreinfra "solstarter/internal/infra/firestore"
)

// Needs selects which optional clients a command uses.
// Clients are only created when both the command needs them and config enables them.
type Needs struct {
	Upload      bool // metadata upload (GCS when METADATA_BUCKET is set)
	SecretStore bool // keygen: store new keypair in Secret Manager
}

// Infra owns the external clients of one process (Close-managed).
type Infra struct {
	Config appcfg.Config

	Firestore     *firestore.Client
	GCS           *storage.Client
	SecretManager *secretmanager.Client
	SQL           *sql.DB
}

// NewInfra initializes the clients enabled by cfg.
// Any client failure is fatal: optional features are turned off by config, not by errors.
func NewInfra(ctx context.Context, cfg appcfg.Config, needs Needs) (*Infra, error) {
	inf := &Infra{Config: cfg}

	// Credentials file (optional; mainly for local dev)
	var clientOpts []option.ClientOption
	if credFile := strings.TrimSpace(cfg.GCPCreds); credFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(credFile))
		log.Printf("[shared.infra] Using credentials file for GCP clients: %s", redactPath(credFile))
	}

	// 1) Secret Manager (keypair secret / keygen store)
	if cfg.UsesSecretKeypair() || (needs.SecretStore && cfg.KeygenSecretID != "") {
		sm, err := secretmanager.NewClient(ctx, clientOpts...)
		if err != nil {
			return nil, fmt.Errorf("shared.infra: secretmanager.NewClient: %w", err)
		}
		inf.SecretManager = sm
	}

	// 2) GCS (metadata bucket)
	if needs.Upload && cfg.MetadataBucket != "" {
		gcsClient, err := storage.NewClient(ctx, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: storage.NewClient: %w", err)
		}
		inf.GCS = gcsClient
		log.Printf("[shared.infra] GCS storage client initialized bucket=%s", cfg.MetadataBucket)
	}

	// 3) Receipt journal (one of Firestore / PostgreSQL)
	switch {
	case cfg.JournalFirestoreCollection != "":
		fsClient, err := firestoreinfra.NewClient(ctx, cfg.GCPProjectID, clientOpts...)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: %w", err)
		}
		inf.Firestore = fsClient
	case cfg.JournalDatabaseURL != "":
		db, err := database.Open(ctx, cfg.JournalDatabaseURL)
		if err != nil {
			_ = inf.Close()
			return nil, fmt.Errorf("shared.infra: %w", err)
		}
		inf.SQL = db
	}

	return inf, nil
}

func (i *Infra) Close() error {
	if i == nil {
		return nil
	}
	if i.Firestore != nil {
		_ = i.Firestore.Close()
	}
	if i.GCS != nil {
		_ = i.GCS.Close()
	}
	if i.SecretManager != nil {
		_ = i.SecretManager.Close()
	}
	if i.SQL != nil {
		_ = i.SQL.Close()
	}
	return nil
}

func redactPath(p string) string {
	// Do not log full path (keep only the last segment)
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = strings.ReplaceAll(p, "\\", "/")
	parts := strings.Split(p, "/")
	last := parts[len(parts)-1]
	if last == "" {
		return "***"
	}
	return "***/" + last
}
