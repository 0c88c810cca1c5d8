// internal/platform/di/container.go
package di

import (
	"context"
	"fmt"
	"log"
	"os"

	consoleout "solstarter/internal/adapters/out/console"
	dbout "solstarter/internal/adapters/out/db"
	fsout "solstarter/internal/adapters/out/firestore"
	gcsout "solstarter/internal/adapters/out/gcs"
	mailout "solstarter/internal/adapters/out/mail"
	uc "solstarter/internal/application/usecase"
	"solstarter/internal/domain/operation"
	"solstarter/internal/infra/arweave"
	appcfg "solstarter/internal/infra/config"
	solanainfra "solstarter/internal/infra/solana"
	shared "solstarter/internal/platform/di/shared"
)

// ========================================
// Container (1 コマンド分の依存)
// ========================================
type Container struct {
	Infra *shared.Infra

	Credentials uc.CredentialLoader
	Sessions    uc.SessionOpener
	Uploader    uc.MetadataUploader
	Journal     operation.JournalPort
	Reporters   []uc.OutcomeReporter

	// keygen 用（KEYGEN_SECRET_ID 設定時のみ）
	KeypairStore *solanainfra.SecretKeypairStore

	OperationUC *uc.OperationUsecase
}

// NewContainer wires every adapter enabled by cfg.
func NewContainer(ctx context.Context, cfg appcfg.Config, needs shared.Needs) (*Container, error) {
	infra, err := shared.NewInfra(ctx, cfg, needs)
	if err != nil {
		return nil, err
	}

	c := &Container{Infra: infra}

	// --- credential ---
	if cfg.UsesSecretKeypair() {
		c.Credentials = solanainfra.NewSecretKeypairLoader(infra.SecretManager, cfg.KeypairSecret)
	} else {
		c.Credentials = solanainfra.NewFileKeypairLoader(cfg.KeypairPath)
	}

	// --- chain session ---
	c.Sessions = &solanainfra.Opener{
		Endpoint:     cfg.RPCEndpoint,
		Commitment:   cfg.Commitment,
		PollInterval: cfg.ConfirmPollInterval,
	}

	// --- metadata uploader (GCS があれば優先) ---
	if needs.Upload {
		if infra.GCS != nil {
			c.Uploader = gcsout.NewMetadataUploaderGCS(infra.GCS, cfg.MetadataBucket)
		} else {
			c.Uploader = arweave.NewHTTPUploader(cfg.UploadGatewayURL, cfg.UploadGatewayAPIKey)
		}
	}

	// --- journal (optional) ---
	switch {
	case infra.Firestore != nil:
		c.Journal = fsout.NewReceiptJournalFS(infra.Firestore, cfg.JournalFirestoreCollection)
	case infra.SQL != nil:
		pg := dbout.NewReceiptJournalPG(infra.SQL)
		if err := pg.EnsureSchema(ctx); err != nil {
			_ = infra.Close()
			return nil, fmt.Errorf("di: receipt journal schema: %w", err)
		}
		c.Journal = pg
	}

	// --- reporters ---
	console := consoleout.NewReporter(os.Stdout)
	console.ExplorerURL = cfg.ExplorerTxURL
	c.Reporters = append(c.Reporters, console)

	if cfg.NotifyEnabled() {
		mailer := mailout.NewOutcomeMailer(mailout.NewSendGridClient(cfg.SendGridAPIKey), cfg.SendGridFrom, cfg.NotifyTo)
		mailer.ExplorerURL = cfg.ExplorerTxURL
		c.Reporters = append(c.Reporters, mailer)
	}

	// --- keygen secret store ---
	if needs.SecretStore && infra.SecretManager != nil && cfg.KeygenSecretID != "" {
		c.KeypairStore = solanainfra.NewSecretKeypairStore(infra.SecretManager, cfg.GCPProjectID)
	}

	c.OperationUC = uc.NewOperationUsecase(
		c.Credentials,
		c.Sessions,
		c.Uploader,
		c.Reporters,
		c.Journal,
		cfg.OperationTimeout,
	)

	log.Printf("[di] container ready rpc=%s commitment=%s journal=%t notify=%t upload=%t",
		cfg.RPCEndpoint, cfg.Commitment, c.Journal != nil, cfg.NotifyEnabled(), c.Uploader != nil)
	return c, nil
}

// Close releases the infra clients.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	return c.Infra.Close()
}
