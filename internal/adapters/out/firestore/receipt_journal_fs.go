// internal/adapters/out/firestore/receipt_journal_fs.go
package firestore

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"solstarter/internal/domain/operation"
)

// ============================================================
// ReceiptJournalFS
// - implements operation.JournalPort
// - receipts/{id} に 1 件ずつ Create（上書きしない）
// ============================================================

var (
	ErrJournalNotConfigured = errors.New("receipt_journal_fs: not configured")
	ErrReceiptIDEmpty       = errors.New("receipt_journal_fs: receipt id is empty")
	ErrReceiptExists        = errors.New("receipt_journal_fs: receipt already exists")
)

const defaultReceiptsCollection = "operation_receipts"

type ReceiptJournalFS struct {
	Client     *firestore.Client
	Collection string
}

var _ operation.JournalPort = (*ReceiptJournalFS)(nil)

func NewReceiptJournalFS(client *firestore.Client, collection string) *ReceiptJournalFS {
	return &ReceiptJournalFS{Client: client, Collection: strings.TrimSpace(collection)}
}

func (r *ReceiptJournalFS) col() *firestore.CollectionRef {
	c := strings.TrimSpace(r.Collection)
	if c == "" {
		c = defaultReceiptsCollection
	}
	return r.Client.Collection(c)
}

func (r *ReceiptJournalFS) Record(ctx context.Context, rec operation.Receipt) error {
	if r == nil || r.Client == nil {
		return ErrJournalNotConfigured
	}
	id := strings.TrimSpace(rec.ID)
	if id == "" {
		return ErrReceiptIDEmpty
	}

	if _, err := r.col().Doc(id).Create(ctx, receiptDoc(rec)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("%w: %s", ErrReceiptExists, id)
		}
		return fmt.Errorf("receipt_journal_fs: create %s: %w", id, err)
	}

	log.Printf("[receipt_journal_fs] recorded id=%s kind=%s status=%s", id, rec.Kind, rec.Status)
	return nil
}

// receiptDoc は Firestore に保存するフィールド。空文字は保存しない。
func receiptDoc(rec operation.Receipt) map[string]any {
	m := map[string]any{
		"kind":       string(rec.Kind),
		"signer":     rec.Signer,
		"status":     string(rec.Status),
		"startedAt":  rec.StartedAt,
		"finishedAt": rec.FinishedAt,
		"durationMs": rec.Duration().Milliseconds(),
	}
	if rec.Identifier != "" {
		m["identifier"] = rec.Identifier
	}
	if rec.Signature != "" {
		m["signature"] = rec.Signature
	}
	if rec.ErrorKind != "" {
		m["errorKind"] = string(rec.ErrorKind)
	}
	if rec.ErrorMsg != "" {
		m["errorMsg"] = rec.ErrorMsg
	}
	return m
}
