// internal/infra/solana/session.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"

	usecase "solstarter/internal/application/usecase"
	"solstarter/internal/domain/operation"
)

var (
	ErrSessionNotConfigured = errors.New("solana session: not configured")
	ErrTransactionFailed    = errors.New("solana session: transaction failed on chain")
	ErrSourceATAAbsent      = errors.New("solana session: source token account not found")
)

// ChainRPC は blocto client のうち送信経路で使うメソッドだけを切り出したもの。
// *client.Client がそのまま満たします（テストでは fake を差し込む）。
type ChainRPC interface {
	GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error)
	GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error)
	GetAccountInfo(ctx context.Context, base58Addr string) (client.AccountInfo, error)
	GetBalance(ctx context.Context, base58Addr string) (uint64, error)
	RequestAirdrop(ctx context.Context, base58Addr string, lamports uint64) (string, error)
	SendTransactionWithConfig(ctx context.Context, tx types.Transaction, cfg client.SendTransactionConfig) (string, error)
}

var _ ChainRPC = (*client.Client)(nil)

// Opener opens a Session against one RPC endpoint.
type Opener struct {
	Endpoint     string
	Commitment   string
	PollInterval time.Duration
}

var _ usecase.SessionOpener = (*Opener)(nil)

// Open builds the clients and checks getHealth. An unreachable or unhealthy node is a session error.
func (o *Opener) Open(ctx context.Context) (usecase.ChainSession, error) {
	if o == nil || strings.TrimSpace(o.Endpoint) == "" {
		return nil, sessionErr(ErrSessionNotConfigured)
	}

	c := client.NewClient(o.Endpoint)
	if err := checkHealth(ctx, &c.RpcClient); err != nil {
		log.Printf("[solana.session] WARN health check failed endpoint=%s err=%v", o.Endpoint, err)
		return nil, sessionErr(fmt.Errorf("solana session: getHealth %s: %w", o.Endpoint, err))
	}

	s := NewSession(c, &c.RpcClient, NewJSONRPCClient(o.Endpoint), o.Commitment, o.PollInterval)
	log.Printf("[solana.session] opened endpoint=%s commitment=%s", o.Endpoint, s.commitment)
	return s, nil
}

// Session は 1 回の実行中に使う RPC 接続と送信設定です。
type Session struct {
	rpc        ChainRPC
	status     StatusRPC
	tokens     TokenAccountsRPC
	commitment rpc.Commitment
	poll       time.Duration
}

// NewSession wires already-constructed clients. Empty commitment means confirmed.
func NewSession(chain ChainRPC, status StatusRPC, tokens TokenAccountsRPC, commitment string, poll time.Duration) *Session {
	c := rpc.Commitment(strings.ToLower(strings.TrimSpace(commitment)))
	if c == "" {
		c = rpc.CommitmentConfirmed
	}
	if poll <= 0 {
		poll = 500 * time.Millisecond
	}
	return &Session{
		rpc:        chain,
		status:     status,
		tokens:     tokens,
		commitment: c,
		poll:       poll,
	}
}

// Close releases nothing today; the HTTP clients are shared per process.
func (s *Session) Close() error { return nil }

func (s *Session) ready() error {
	if s == nil || s.rpc == nil || s.status == nil {
		return sessionErr(ErrSessionNotConfigured)
	}
	return nil
}

// send signs instructions with signers (signers[0] is the fee payer), submits once and
// waits until the signature reaches the session commitment.
func (s *Session) send(ctx context.Context, ins []types.Instruction, signers ...types.Account) (string, error) {
	if len(signers) == 0 {
		return "", signingErr(errors.New("solana session: no signer"))
	}
	feePayer := signers[0]

	latest, err := s.rpc.GetLatestBlockhash(ctx)
	if err != nil {
		return "", submissionErr(fmt.Errorf("solana session: GetLatestBlockhash: %w", err))
	}

	tx, err := types.NewTransaction(types.NewTransactionParam{
		Message: types.NewMessage(types.NewMessageParam{
			FeePayer:        feePayer.PublicKey,
			RecentBlockhash: latest.Blockhash,
			Instructions:    ins,
		}),
		Signers: signers,
	})
	if err != nil {
		return "", signingErr(fmt.Errorf("solana session: NewTransaction: %w", err))
	}

	sig, err := s.rpc.SendTransactionWithConfig(ctx, tx, client.SendTransactionConfig{
		PreflightCommitment: s.commitment,
	})
	if err != nil {
		return "", submissionErr(fmt.Errorf("solana session: SendTransaction: %w", err))
	}
	log.Printf("[solana.session] submitted tx=%s payer=%s instructions=%d", maskShort(sig), maskShort(feePayer.PublicKey.ToBase58()), len(ins))

	if err := s.waitForCommitment(ctx, sig); err != nil {
		return "", err
	}
	return sig, nil
}

// waitForCommitment polls getSignatureStatuses until sig reaches the session commitment.
// Ends with the context: the caller's deadline bounds the wait.
func (s *Session) waitForCommitment(ctx context.Context, sig string) error {
	want := commitmentRank(s.commitment)

	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()

	for {
		st, err := signatureStatus(ctx, s.status, sig)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return timeoutErr(sig, ctxErr)
			}
			return submissionErr(fmt.Errorf("solana session: getSignatureStatuses %s: %w", sig, err))
		}

		if st != nil {
			if statusFailed(st) {
				return submissionErr(fmt.Errorf("%w: tx=%s err=%v", ErrTransactionFailed, sig, st.Err))
			}
			if statusRank(st) >= want {
				log.Printf("[solana.session] tx=%s reached %s slot=%d", maskShort(sig), s.commitment, st.Slot)
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return timeoutErr(sig, ctx.Err())
		case <-ticker.C:
		}
	}
}

func commitmentRank(c rpc.Commitment) int {
	switch c {
	case rpc.CommitmentProcessed:
		return 1
	case rpc.CommitmentFinalized:
		return 3
	default:
		return 2
	}
}

// accountExists: blocto returns an empty AccountInfo for a missing account.
func (s *Session) accountExists(ctx context.Context, address string) (bool, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return false, nil
	}

	info, err := s.rpc.GetAccountInfo(ctx, addr)
	if err == nil {
		return info.Lamports > 0, nil
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "not found") ||
		strings.Contains(msg, "could not find account") ||
		strings.Contains(msg, "account does not exist") {
		return false, nil
	}
	return false, err
}

func sessionErr(err error) error {
	return &operation.Error{Kind: operation.ErrorKindSession, Err: err}
}

func signingErr(err error) error {
	return &operation.Error{Kind: operation.ErrorKindSigning, Err: err}
}

func submissionErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &operation.Error{Kind: operation.ErrorKindTimeout, Err: err}
	}
	return &operation.Error{Kind: operation.ErrorKindSubmission, Err: err}
}

func validationErr(err error) error {
	return &operation.Error{Kind: operation.ErrorKindValidation, Err: err}
}

func timeoutErr(sig string, err error) error {
	return &operation.Error{
		Kind: operation.ErrorKindTimeout,
		Err:  fmt.Errorf("solana session: waiting for tx=%s: %w", sig, err),
	}
}

func maskShort(s string) string {
	t := strings.TrimSpace(s)
	if t == "" {
		return ""
	}
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}
