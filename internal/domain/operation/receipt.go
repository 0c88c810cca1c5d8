// internal/domain/operation/receipt.go
package operation

import (
	"context"
	"strings"
	"time"
)

/*
責任と機能:
- 1 回の送信の結果（成功/失敗・エラー種別・署名/URI）を記録するためのエンティティ。
- 再送や冪等性のためではなく、監査用の追記のみ。記録の失敗は結果に影響させない。
*/

type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

type Receipt struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Signer     string    `json:"signer"`
	Status     Status    `json:"status"`
	Identifier string    `json:"identifier,omitempty"`
	Signature  string    `json:"signature,omitempty"`
	ErrorKind  ErrorKind `json:"errorKind,omitempty"`
	ErrorMsg   string    `json:"errorMsg,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// NewReceipt builds the receipt for one finished submission.
func NewReceipt(id string, kind Kind, signer string, res Result, err error, startedAt, finishedAt time.Time) Receipt {
	r := Receipt{
		ID:         strings.TrimSpace(id),
		Kind:       kind,
		Signer:     strings.TrimSpace(signer),
		StartedAt:  startedAt.UTC(),
		FinishedAt: finishedAt.UTC(),
	}
	if err != nil {
		r.Status = StatusFailed
		r.ErrorKind = KindOf(err)
		r.ErrorMsg = err.Error()
		return r
	}
	r.Status = StatusSucceeded
	r.Identifier = res.Identifier()
	r.Signature = res.Signature
	return r
}

// Duration is the wall time between start and finish.
func (r Receipt) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// JournalPort persists receipts. Implementations append only.
type JournalPort interface {
	Record(ctx context.Context, r Receipt) error
}
