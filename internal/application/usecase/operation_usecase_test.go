package usecase

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solstarter/internal/domain/operation"
	"solstarter/internal/domain/wallet"
)

// ------------------------------------------------------------
// fakes
// ------------------------------------------------------------

type fakeLoader struct {
	kp    wallet.Keypair
	err   error
	calls int

	hang        bool // blocks until ctx is done, like a stalled Secret Manager call
	hadDeadline bool
}

func (f *fakeLoader) Load(ctx context.Context) (wallet.Keypair, error) {
	f.calls++
	_, f.hadDeadline = ctx.Deadline()
	if f.hang {
		<-ctx.Done()
		return wallet.Keypair{}, ctx.Err()
	}
	return f.kp, f.err
}

type fakeOpener struct {
	sess  *fakeSession
	err   error
	calls int
}

func (f *fakeOpener) Open(ctx context.Context) (ChainSession, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.sess, nil
}

type fakeSession struct {
	mu       sync.Mutex
	submits  int
	payers   []string
	mintSeq  int
	err      error
	closed   bool
	balances []operation.TokenBalance
	owner    string
}

func (f *fakeSession) record(kp wallet.Keypair) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	f.payers = append(f.payers, kp.PublicKey)
}

func (f *fakeSession) CreateMint(ctx context.Context, kp wallet.Keypair, req operation.CreateMintRequest) (operation.Result, error) {
	f.record(kp)
	if f.err != nil {
		return operation.Result{}, f.err
	}
	f.mintSeq++
	return operation.Result{Kind: operation.KindCreateMint, Signature: "sig", Address: "Mint" + string(rune('0'+f.mintSeq))}, nil
}

func (f *fakeSession) MintTo(ctx context.Context, kp wallet.Keypair, req operation.MintToRequest) (operation.Result, error) {
	f.record(kp)
	return operation.Result{Signature: "mintToSig"}, f.err
}

func (f *fakeSession) Transfer(ctx context.Context, kp wallet.Keypair, req operation.TransferRequest) (operation.Result, error) {
	f.record(kp)
	if f.err != nil {
		return operation.Result{}, f.err
	}
	return operation.Result{Signature: "transferSig"}, nil
}

func (f *fakeSession) MintNFT(ctx context.Context, kp wallet.Keypair, req operation.NFTMintRequest) (operation.Result, error) {
	f.record(kp)
	return operation.Result{Signature: "nftSig", Address: "NftMint", URI: req.URI}, f.err
}

func (f *fakeSession) Airdrop(ctx context.Context, kp wallet.Keypair, req operation.AirdropRequest) (operation.Result, error) {
	f.record(kp)
	return operation.Result{Signature: "airdropSig"}, f.err
}

func (f *fakeSession) TransferSOL(ctx context.Context, kp wallet.Keypair, req operation.SOLTransferRequest) (operation.Result, error) {
	f.record(kp)
	return operation.Result{Signature: "solSig"}, f.err
}

func (f *fakeSession) TokenBalances(ctx context.Context, owner string) ([]operation.TokenBalance, error) {
	f.owner = owner
	return f.balances, f.err
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

type fakeUploader struct {
	uri   string
	err   error
	calls int
	body  []byte
}

func (f *fakeUploader) UploadJSON(ctx context.Context, data []byte) (string, error) {
	f.calls++
	f.body = data
	return f.uri, f.err
}

type reported struct {
	op  operation.Kind
	res operation.Result
	err error
}

type fakeReporter struct{ got []reported }

func (f *fakeReporter) Report(ctx context.Context, op operation.Kind, res operation.Result, err error) {
	f.got = append(f.got, reported{op, res, err})
}

type fakeJournal struct {
	receipts []operation.Receipt
	err      error
}

func (f *fakeJournal) Record(ctx context.Context, r operation.Receipt) error {
	f.receipts = append(f.receipts, r)
	return f.err
}

type harness struct {
	loader   *fakeLoader
	opener   *fakeOpener
	session  *fakeSession
	uploader *fakeUploader
	reporter *fakeReporter
	journal  *fakeJournal
	uc       *OperationUsecase
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	kp, err := wallet.NewKeypair(priv)
	require.NoError(t, err)

	h := &harness{
		loader:   &fakeLoader{kp: kp},
		session:  &fakeSession{},
		uploader: &fakeUploader{uri: "https://gateway.irys.xyz/AbCdEf"},
		reporter: &fakeReporter{},
		journal:  &fakeJournal{},
	}
	h.opener = &fakeOpener{sess: h.session}
	h.uc = NewOperationUsecase(h.loader, h.opener, h.uploader, []OutcomeReporter{h.reporter}, h.journal, time.Second)
	h.uc.newID = func() string { return "receipt-1" }
	return h
}

func newAddress(t *testing.T) string {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	kp, err := wallet.NewKeypair(priv)
	require.NoError(t, err)
	return kp.PublicKey
}

// ------------------------------------------------------------
// tests
// ------------------------------------------------------------

func TestCreateMintSubmitsExactlyOnce(t *testing.T) {
	h := newHarness(t)

	res, err := h.uc.CreateMint(context.Background(), operation.CreateMintRequest{Decimals: 6})
	require.NoError(t, err)

	assert.Equal(t, 1, h.session.submits)
	assert.Equal(t, "Mint1", res.Identifier())
	assert.Equal(t, h.loader.kp.PublicKey, res.Signer)
	assert.Equal(t, []string{h.loader.kp.PublicKey}, h.session.payers)
	assert.True(t, h.session.closed)

	require.Len(t, h.reporter.got, 1)
	assert.NoError(t, h.reporter.got[0].err)
	assert.Equal(t, operation.KindCreateMint, h.reporter.got[0].op)

	require.Len(t, h.journal.receipts, 1)
	r := h.journal.receipts[0]
	assert.Equal(t, "receipt-1", r.ID)
	assert.Equal(t, operation.StatusSucceeded, r.Status)
	assert.Equal(t, "Mint1", r.Identifier)
}

func TestCreateMintTwiceYieldsTwoMints(t *testing.T) {
	h := newHarness(t)

	a, err := h.uc.CreateMint(context.Background(), operation.CreateMintRequest{Decimals: 6})
	require.NoError(t, err)
	b, err := h.uc.CreateMint(context.Background(), operation.CreateMintRequest{Decimals: 6})
	require.NoError(t, err)
	assert.NotEqual(t, a.Address, b.Address)
}

func TestCredentialFailureNeverTouchesNetwork(t *testing.T) {
	h := newHarness(t)
	h.loader.err = errors.New("open wallet.json: no such file or directory")

	_, err := h.uc.Transfer(context.Background(), operation.TransferRequest{
		Mint: newAddress(t), Recipient: newAddress(t), Amount: 100000,
	})
	require.Error(t, err)
	assert.Equal(t, operation.ErrorKindCredential, operation.KindOf(err))
	assert.Equal(t, 3, operation.ExitCode(err))
	assert.Zero(t, h.opener.calls)
	assert.Zero(t, h.session.submits)

	require.Len(t, h.reporter.got, 1)
	assert.Error(t, h.reporter.got[0].err)
	require.Len(t, h.journal.receipts, 1)
	assert.Equal(t, operation.StatusFailed, h.journal.receipts[0].Status)
	assert.Equal(t, operation.ErrorKindCredential, h.journal.receipts[0].ErrorKind)
}

func TestSessionFailureNeverSubmits(t *testing.T) {
	h := newHarness(t)
	h.opener.err = errors.New("dial tcp: connection refused")

	_, err := h.uc.CreateMint(context.Background(), operation.CreateMintRequest{Decimals: 6})
	require.Error(t, err)
	assert.Equal(t, operation.ErrorKindSession, operation.KindOf(err))
	assert.Equal(t, 1, h.opener.calls)
	assert.Zero(t, h.session.submits)
}

func TestTransferValidationFailsBeforeNetwork(t *testing.T) {
	tests := []struct {
		name string
		req  operation.TransferRequest
	}{
		{"zero amount", operation.TransferRequest{Mint: "55QFHhwQ5zNSdj2JabBHPYyweYT97WWacPgDLQx24oxB", Recipient: "CaHfSLGKiGhV7Yy1HEiPHS4iaXYdcZhnUXFPaw2fUZKN", Amount: 0}},
		{"malformed recipient", operation.TransferRequest{Mint: "55QFHhwQ5zNSdj2JabBHPYyweYT97WWacPgDLQx24oxB", Recipient: "not-a-wallet", Amount: 1}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.uc.Transfer(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, operation.ErrorKindValidation, operation.KindOf(err))
			assert.Zero(t, h.opener.calls)
			assert.Zero(t, h.session.submits)
		})
	}
}

func TestSubmissionErrorIsClassified(t *testing.T) {
	h := newHarness(t)
	h.session.err = errors.New("Transaction simulation failed")

	res, err := h.uc.Transfer(context.Background(), operation.TransferRequest{
		Mint: newAddress(t), Recipient: newAddress(t), Amount: 100000,
	})
	require.Error(t, err)
	assert.Equal(t, operation.Result{}, res)
	assert.Equal(t, operation.ErrorKindSubmission, operation.KindOf(err))
	assert.Equal(t, 1, h.session.submits)

	var opErr *operation.Error
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, operation.KindTransfer, opErr.Op)
}

func TestTypedSessionErrorKeepsKind(t *testing.T) {
	h := newHarness(t)
	h.session.err = &operation.Error{Kind: operation.ErrorKindTimeout, Err: context.DeadlineExceeded}

	_, err := h.uc.CreateMint(context.Background(), operation.CreateMintRequest{Decimals: 6})
	assert.Equal(t, operation.ErrorKindTimeout, operation.KindOf(err))
	assert.Equal(t, 9, operation.ExitCode(err))
}

func TestUploadMetadataReturnsUploaderURI(t *testing.T) {
	h := newHarness(t)

	res, err := h.uc.UploadMetadata(context.Background(), operation.MetadataRecord{
		Name:        "Tyrex Lads",
		Symbol:      "TRX",
		Description: "Rugged NFT for you",
		Image:       "https://gateway.irys.xyz/3kcAFzrTWNyFJtsXwnf5JSoXKTUrJTWU81cVkLCq4oQB",
	})
	require.NoError(t, err)

	assert.Equal(t, "https://gateway.irys.xyz/AbCdEf", res.Identifier())
	assert.Equal(t, 1, h.uploader.calls)
	assert.Contains(t, string(h.uploader.body), `"name":"Tyrex Lads"`)
	assert.Zero(t, h.opener.calls)
}

func TestUploadMetadataSendsFileBytesUnchanged(t *testing.T) {
	h := newHarness(t)
	doc := `{"name":"Lad","symbol":"LAD","seller_fee_basis_points":500,` +
		`"animation_url":"https://a/b.mp4","collection":{"name":"Lads","family":"L"},` +
		`"attributes":[{"trait_type":"level","value":5}],` +
		`"properties":{"files":[],"creators":[{"address":"x","share":100}]}}`

	rec, err := operation.ParseMetadataRecord([]byte(doc))
	require.NoError(t, err)

	_, err = h.uc.UploadMetadata(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, doc, string(h.uploader.body))
}

func TestUploadMetadataFailures(t *testing.T) {
	h := newHarness(t)

	_, err := h.uc.UploadMetadata(context.Background(), operation.MetadataRecord{Symbol: "TRX"})
	assert.Equal(t, operation.ErrorKindValidation, operation.KindOf(err))
	assert.Zero(t, h.uploader.calls)

	h.uploader.err = errors.New("gateway: 503")
	_, err = h.uc.UploadMetadata(context.Background(), operation.MetadataRecord{Name: "n", Symbol: "s"})
	assert.Equal(t, operation.ErrorKindUpload, operation.KindOf(err))
	assert.Equal(t, 1, h.uploader.calls)
}

func TestJournalFailureDoesNotChangeOutcome(t *testing.T) {
	h := newHarness(t)
	h.journal.err = errors.New("firestore unavailable")

	res, err := h.uc.Airdrop(context.Background(), operation.AirdropRequest{Lamports: 2_000_000_000})
	require.NoError(t, err)
	assert.Equal(t, "airdropSig", res.Identifier())
	assert.Len(t, h.journal.receipts, 1)
}

func TestNilJournalAndReporters(t *testing.T) {
	h := newHarness(t)
	uc := NewOperationUsecase(h.loader, h.opener, nil, nil, nil, 0)

	res, err := uc.TransferSOL(context.Background(), operation.SOLTransferRequest{Recipient: newAddress(t), Lamports: 10})
	require.NoError(t, err)
	assert.Equal(t, operation.KindTransferSOL, res.Kind)

	_, err = uc.UploadMetadata(context.Background(), operation.MetadataRecord{Name: "n", Symbol: "s"})
	assert.Equal(t, operation.ErrorKindConfig, operation.KindOf(err))
}

func TestTokenBalancesDefaultsToSigner(t *testing.T) {
	h := newHarness(t)
	h.session.balances = []operation.TokenBalance{{Account: "A", Mint: "M", Amount: "1"}}

	got, err := h.uc.TokenBalances(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, h.loader.kp.PublicKey, h.session.owner)
	assert.Empty(t, h.journal.receipts)

	_, err = h.uc.TokenBalances(context.Background(), "bad")
	assert.Equal(t, operation.ErrorKindValidation, operation.KindOf(err))
}

func TestCredentialLoadRunsUnderDeadline(t *testing.T) {
	h := newHarness(t)

	_, err := h.uc.CreateMint(context.Background(), operation.CreateMintRequest{Decimals: 6})
	require.NoError(t, err)
	assert.True(t, h.loader.hadDeadline)
}

func TestStalledCredentialLoadTimesOut(t *testing.T) {
	h := newHarness(t)
	h.loader.hang = true
	h.uc.timeout = 20 * time.Millisecond

	_, err := h.uc.CreateMint(context.Background(), operation.CreateMintRequest{Decimals: 6})
	require.Error(t, err)
	assert.Equal(t, operation.ErrorKindTimeout, operation.KindOf(err))
	assert.Equal(t, 0, h.opener.calls)
	assert.Equal(t, 0, h.session.submits)

	_, err = h.uc.TokenBalances(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, operation.ErrorKindTimeout, operation.KindOf(err))
}
