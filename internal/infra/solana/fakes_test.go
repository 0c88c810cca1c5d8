package solana

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/blocto/solana-go-sdk/types"
	"github.com/stretchr/testify/require"

	"solstarter/internal/domain/wallet"
)

type fakeChain struct {
	mu        sync.Mutex
	blockhash string
	rent      uint64
	accounts  map[string]client.AccountInfo
	balance   uint64

	sendErr    error
	airdropSig string

	sent    []types.Transaction
	sendCfg []client.SendTransactionConfig
	reads   int
}

func newFakeChain() *fakeChain {
	return &fakeChain{
		blockhash:  types.NewAccount().PublicKey.ToBase58(),
		rent:       1461600,
		accounts:   map[string]client.AccountInfo{},
		airdropSig: "airdropSig111",
	}
}

func (f *fakeChain) GetLatestBlockhash(ctx context.Context) (rpc.GetLatestBlockhashValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return rpc.GetLatestBlockhashValue{Blockhash: f.blockhash, LatestValidBlockHeight: 100}, nil
}

func (f *fakeChain) GetMinimumBalanceForRentExemption(ctx context.Context, dataLen uint64) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.rent, nil
}

func (f *fakeChain) GetAccountInfo(ctx context.Context, addr string) (client.AccountInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.accounts[addr], nil
}

func (f *fakeChain) GetBalance(ctx context.Context, addr string) (uint64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.balance, nil
}

func (f *fakeChain) RequestAirdrop(ctx context.Context, addr string, lamports uint64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return f.airdropSig, nil
}

func (f *fakeChain) SendTransactionWithConfig(ctx context.Context, tx types.Transaction, cfg client.SendTransactionConfig) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, tx)
	f.sendCfg = append(f.sendCfg, cfg)
	if f.sendErr != nil {
		return "", f.sendErr
	}
	return "sig" + string(rune('A'+len(f.sent)-1)), nil
}

func (f *fakeChain) sentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// fakeStatus answers getSignatureStatuses from a script, repeating the last entry.
type fakeStatus struct {
	mu        sync.Mutex
	script    []*rpc.SignatureStatus
	statusErr error
	polls     int
	health    rpc.JsonRpcResponse[string]
	healthErr error

	tokenAccounts string // raw jsonParsed result
	lastOwner     string
	lastCommit    string
}

func commitmentPtr(c rpc.Commitment) *rpc.Commitment { return &c }

func withStatus(c rpc.Commitment) *rpc.SignatureStatus {
	return &rpc.SignatureStatus{Slot: 10, ConfirmationStatus: commitmentPtr(c)}
}

func confirmed() *rpc.SignatureStatus { return withStatus(rpc.CommitmentConfirmed) }

func (f *fakeStatus) GetHealth(ctx context.Context) (rpc.JsonRpcResponse[string], error) {
	if f.healthErr != nil {
		return rpc.JsonRpcResponse[string]{}, f.healthErr
	}
	if f.health.Result == "" && f.health.Error == nil {
		return rpc.JsonRpcResponse[string]{Result: "ok"}, nil
	}
	return f.health, nil
}

func (f *fakeStatus) GetSignatureStatusesWithConfig(ctx context.Context, sigs []string, cfg rpc.GetSignatureStatusesConfig) (rpc.JsonRpcResponse[rpc.ValueWithContext[rpc.SignatureStatuses]], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	var resp rpc.JsonRpcResponse[rpc.ValueWithContext[rpc.SignatureStatuses]]
	if f.statusErr != nil {
		return resp, f.statusErr
	}
	if len(f.script) == 0 {
		resp.Result.Value = rpc.SignatureStatuses{nil}
		return resp, nil
	}
	i := f.polls - 1
	if i >= len(f.script) {
		i = len(f.script) - 1
	}
	resp.Result.Value = rpc.SignatureStatuses{f.script[i]}
	return resp, nil
}

func (f *fakeStatus) GetTokenAccountsByOwner(ctx context.Context, owner, programID, commitment string) (GetTokenAccountsByOwnerResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOwner = owner
	f.lastCommit = commitment
	var out GetTokenAccountsByOwnerResult
	if f.tokenAccounts == "" {
		return out, nil
	}
	err := json.Unmarshal([]byte(f.tokenAccounts), &out)
	return out, err
}

func newTestSession(t *testing.T) (*Session, *fakeChain, *fakeStatus, wallet.Keypair) {
	t.Helper()
	chain := newFakeChain()
	st := &fakeStatus{script: []*rpc.SignatureStatus{confirmed()}}
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	return NewSession(chain, st, st, "confirmed", time.Millisecond), chain, st, kp
}
