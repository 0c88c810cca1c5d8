// internal/adapters/out/mail/outcome_mailer.go
package mail

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	usecase "solstarter/internal/application/usecase"
	"solstarter/internal/domain/operation"
)

const sendTimeout = 15 * time.Second

// OutcomeMailer はオペレーション結果をメールで通知する OutcomeReporter です。
// 送信失敗は WARN ログのみ（結果は変えない）。
type OutcomeMailer struct {
	client EmailClient
	from   string
	to     string

	// ExplorerURL builds an explorer link for a signature (optional).
	ExplorerURL func(sig string) string
}

var _ usecase.OutcomeReporter = (*OutcomeMailer)(nil)

func NewOutcomeMailer(client EmailClient, from, to string) *OutcomeMailer {
	return &OutcomeMailer{
		client: client,
		from:   strings.TrimSpace(from),
		to:     strings.TrimSpace(to),
	}
}

func (m *OutcomeMailer) Report(ctx context.Context, op operation.Kind, res operation.Result, err error) {
	if m == nil || m.client == nil {
		return
	}
	subject, body := m.compose(op, res, err)

	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
	defer cancel()

	if serr := m.client.Send(sctx, m.from, m.to, subject, body); serr != nil {
		log.Printf("[mail] WARN outcome mail failed op=%s err=%v", op, serr)
	}
}

func (m *OutcomeMailer) compose(op operation.Kind, res operation.Result, err error) (string, string) {
	if err != nil {
		subject := fmt.Sprintf("[solstarter] %s failed (%s)", op, operation.KindOf(err))
		body := fmt.Sprintf("operation: %s\nerror kind: %s\nerror: %v\n", op, operation.KindOf(err), err)
		return subject, body
	}

	var b strings.Builder
	fmt.Fprintf(&b, "operation: %s\n", op)
	fmt.Fprintf(&b, "signer: %s\n", res.Signer)
	fmt.Fprintf(&b, "result: %s\n", res.Identifier())
	if res.Signature != "" {
		fmt.Fprintf(&b, "signature: %s\n", res.Signature)
		if m.ExplorerURL != nil {
			fmt.Fprintf(&b, "explorer: %s\n", m.ExplorerURL(res.Signature))
		}
	}
	return fmt.Sprintf("[solstarter] %s succeeded", op), b.String()
}
