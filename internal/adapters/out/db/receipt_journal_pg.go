// internal/adapters/out/db/receipt_journal_pg.go
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/lib/pq"

	"solstarter/internal/domain/operation"
)

var (
	ErrJournalNotConfigured = errors.New("receipt_journal_pg: not configured")
	ErrReceiptExists        = errors.New("receipt_journal_pg: receipt already exists")
)

// Execer は *sql.DB と *sql.Tx の共通部分です。
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReceiptJournalPG appends receipts to operation_receipts.
type ReceiptJournalPG struct {
	DB Execer
}

var _ operation.JournalPort = (*ReceiptJournalPG)(nil)

func NewReceiptJournalPG(db Execer) *ReceiptJournalPG {
	return &ReceiptJournalPG{DB: db}
}

const receiptSchema = `
CREATE TABLE IF NOT EXISTS operation_receipts (
  id          TEXT PRIMARY KEY,
  kind        TEXT NOT NULL,
  signer      TEXT NOT NULL DEFAULT '',
  status      TEXT NOT NULL,
  identifier  TEXT NOT NULL DEFAULT '',
  signature   TEXT NOT NULL DEFAULT '',
  error_kind  TEXT NOT NULL DEFAULT '',
  error_msg   TEXT NOT NULL DEFAULT '',
  started_at  TIMESTAMPTZ NOT NULL,
  finished_at TIMESTAMPTZ NOT NULL
)`

// EnsureSchema creates the receipts table when missing.
func (r *ReceiptJournalPG) EnsureSchema(ctx context.Context) error {
	if r == nil || r.DB == nil {
		return ErrJournalNotConfigured
	}
	if _, err := r.DB.ExecContext(ctx, receiptSchema); err != nil {
		return fmt.Errorf("receipt_journal_pg: ensure schema: %w", err)
	}
	return nil
}

func (r *ReceiptJournalPG) Record(ctx context.Context, rec operation.Receipt) error {
	if r == nil || r.DB == nil {
		return ErrJournalNotConfigured
	}

	const q = `
INSERT INTO operation_receipts (
  id, kind, signer, status, identifier, signature, error_kind, error_msg, started_at, finished_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`

	_, err := r.DB.ExecContext(ctx, q,
		strings.TrimSpace(rec.ID),
		string(rec.Kind),
		rec.Signer,
		string(rec.Status),
		rec.Identifier,
		rec.Signature,
		string(rec.ErrorKind),
		rec.ErrorMsg,
		rec.StartedAt.UTC(),
		rec.FinishedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrReceiptExists, rec.ID)
		}
		return fmt.Errorf("receipt_journal_pg: insert %s: %w", rec.ID, err)
	}

	log.Printf("[receipt_journal_pg] recorded id=%s kind=%s status=%s", rec.ID, rec.Kind, rec.Status)
	return nil
}

// isUniqueViolation は PostgreSQL 一意制約違反（duplicate key）を検知します。
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
