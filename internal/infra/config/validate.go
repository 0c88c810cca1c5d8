// internal/infra/config/validate.go
package config

import (
	"fmt"
	"strings"
	"time"
)

var validCommitments = map[string]struct{}{
	"processed": {},
	"confirmed": {},
	"finalized": {},
}

// Validate performs hard validation once at startup.
// Optional features (journal, notification, GCS) stay disabled when their settings are empty.
func (c Config) Validate() error {
	if err := validateHTTPURL("SOLANA_RPC_URL", c.RPCEndpoint, true); err != nil {
		return err
	}
	if _, ok := validCommitments[c.Commitment]; !ok {
		return fmt.Errorf("config: SOLANA_COMMITMENT must be processed, confirmed or finalized (got %q)", c.Commitment)
	}
	if !c.UsesSecretKeypair() && strings.TrimSpace(c.KeypairPath) == "" {
		return fmt.Errorf("config: SOLANA_KEYPAIR_PATH is empty")
	}
	if c.UsesSecretKeypair() && !strings.HasPrefix(c.KeypairSecret, "projects/") {
		return fmt.Errorf("config: SOLANA_KEYPAIR_SECRET must be a secret version path projects/<p>/secrets/<s>/versions/<v> (got %q)", c.KeypairSecret)
	}

	if c.MetadataBucket == "" {
		if err := validateHTTPURL("UPLOAD_GATEWAY_URL", c.UploadGatewayURL, true); err != nil {
			return err
		}
	} else if strings.ContainsAny(c.MetadataBucket, " \t\r\n/") {
		return fmt.Errorf("config: METADATA_BUCKET is not a bucket name (got %q)", c.MetadataBucket)
	}

	if c.OperationTimeout <= 0 {
		return fmt.Errorf("config: OPERATION_TIMEOUT must be positive (got %s)", c.OperationTimeout)
	}
	if c.ConfirmPollInterval <= 0 || c.ConfirmPollInterval > c.OperationTimeout {
		return fmt.Errorf("config: CONFIRM_POLL_INTERVAL must be in (0, %s] (got %s)", c.OperationTimeout, c.ConfirmPollInterval)
	}
	if c.ConfirmPollInterval < 10*time.Millisecond {
		return fmt.Errorf("config: CONFIRM_POLL_INTERVAL is too small (got %s)", c.ConfirmPollInterval)
	}

	if c.JournalDatabaseURL != "" && c.JournalFirestoreCollection != "" {
		return fmt.Errorf("config: set only one of JOURNAL_DATABASE_URL and JOURNAL_FIRESTORE_COLLECTION")
	}
	if c.JournalFirestoreCollection != "" && c.GCPProjectID == "" {
		return fmt.Errorf("config: JOURNAL_FIRESTORE_COLLECTION requires GCP_PROJECT_ID")
	}
	if c.KeygenSecretID != "" && c.GCPProjectID == "" {
		return fmt.Errorf("config: KEYGEN_SECRET_ID requires GCP_PROJECT_ID")
	}
	if c.SendGridAPIKey != "" && c.NotifyTo != "" && c.SendGridFrom == "" {
		return fmt.Errorf("config: SENDGRID_FROM is required when notifications are enabled")
	}

	return nil
}

func validateHTTPURL(name, u string, required bool) error {
	u = strings.TrimSpace(u)
	if u == "" {
		if required {
			return fmt.Errorf("config: %s is empty", name)
		}
		return nil
	}
	if !(strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")) {
		return fmt.Errorf("config: %s must start with http:// or https:// (got %q)", name, u)
	}
	return nil
}
