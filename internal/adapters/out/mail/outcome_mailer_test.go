package mail

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solstarter/internal/domain/operation"
)

type sent struct{ from, to, subject, body string }

type fakeEmail struct {
	got []sent
	err error
}

func (f *fakeEmail) Send(ctx context.Context, from, to, subject, body string) error {
	f.got = append(f.got, sent{from, to, subject, body})
	return f.err
}

func TestOutcomeMailerSuccess(t *testing.T) {
	c := &fakeEmail{}
	m := NewOutcomeMailer(c, "ops@example.com", " me@example.com ")
	m.ExplorerURL = func(sig string) string { return "https://explorer.solana.com/tx/" + sig }

	m.Report(context.Background(), operation.KindTransfer, operation.Result{
		Kind: operation.KindTransfer, Signer: "Payer", Signature: "5sig",
	}, nil)

	require.Len(t, c.got, 1)
	assert.Equal(t, "me@example.com", c.got[0].to)
	assert.Equal(t, "[solstarter] spl_transfer succeeded", c.got[0].subject)
	assert.Contains(t, c.got[0].body, "result: 5sig")
	assert.Contains(t, c.got[0].body, "explorer: https://explorer.solana.com/tx/5sig")
}

func TestOutcomeMailerFailureIsBestEffort(t *testing.T) {
	c := &fakeEmail{err: errors.New("sendgrid down")}
	m := NewOutcomeMailer(c, "ops@example.com", "me@example.com")

	err := operation.NewError(operation.KindCreateMint, operation.ErrorKindSession, errors.New("refused"))
	m.Report(context.Background(), operation.KindCreateMint, operation.Result{}, err)

	require.Len(t, c.got, 1)
	assert.Equal(t, "[solstarter] create_mint failed (session)", c.got[0].subject)
}

func TestSendGridClientRejectsMissingFields(t *testing.T) {
	assert.ErrorIs(t, NewSendGridClient("").Send(context.Background(), "a", "b", "s", "b"), ErrSendGridAPIKeyEmpty)
	assert.ErrorIs(t, NewSendGridClient("k").Send(context.Background(), "", "b", "s", "b"), ErrFromEmpty)
	assert.ErrorIs(t, NewSendGridClient("k").Send(context.Background(), "a", "", "s", "b"), ErrToEmpty)
}
