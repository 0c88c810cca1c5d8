package firestore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"solstarter/internal/domain/operation"
)

func TestReceiptDoc(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ok := operation.NewReceipt("r1", operation.KindTransfer, "Signer1", operation.Result{
		Kind: operation.KindTransfer, Signature: "sig1",
	}, nil, start, start.Add(1500*time.Millisecond))

	doc := receiptDoc(ok)
	assert.Equal(t, "spl_transfer", doc["kind"])
	assert.Equal(t, "succeeded", doc["status"])
	assert.Equal(t, "sig1", doc["identifier"])
	assert.Equal(t, int64(1500), doc["durationMs"])
	assert.NotContains(t, doc, "errorKind")

	failed := operation.NewReceipt("r2", operation.KindCreateMint, "Signer1", operation.Result{},
		operation.NewError(operation.KindCreateMint, operation.ErrorKindSession, errors.New("refused")), start, start)
	doc = receiptDoc(failed)
	assert.Equal(t, "failed", doc["status"])
	assert.Equal(t, "session", doc["errorKind"])
	assert.NotContains(t, doc, "identifier")
}

func TestReceiptJournalFSNotConfigured(t *testing.T) {
	var j *ReceiptJournalFS
	assert.ErrorIs(t, j.Record(context.Background(), operation.Receipt{ID: "x"}), ErrJournalNotConfigured)
}
