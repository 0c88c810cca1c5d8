// internal/application/usecase/operation_usecase.go
package usecase

/*
責任と機能:
- 1 プロセス = 1 オペレーション。読み込んだ鍵で 1 度だけ送信し、結果か失敗のどちらかを返す。
- 手順は共通: credential 読込 → payload 検証 → session open（chain 操作のみ）→ 送信 → 報告 → journal。
- 失敗はすべて operation.Error（Kind 付き）に分類して返す。リトライ・補償はしない。
- journal / 通知の失敗は WARN ログのみで、結果を変えない。
*/

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"solstarter/internal/domain/operation"
	"solstarter/internal/domain/wallet"
)

var ErrOperationNotConfigured = errors.New("operation_uc: not configured")

const journalTimeout = 10 * time.Second

type OperationUsecase struct {
	credentials CredentialLoader
	sessions    SessionOpener
	uploader    MetadataUploader

	reporters []OutcomeReporter
	journal   operation.JournalPort

	timeout time.Duration

	now   func() time.Time
	newID func() string
}

// NewOperationUsecase builds the usecase. uploader/journal may be nil when the command
// does not need them; timeout bounds credential load, session open and submission.
func NewOperationUsecase(
	credentials CredentialLoader,
	sessions SessionOpener,
	uploader MetadataUploader,
	reporters []OutcomeReporter,
	journal operation.JournalPort,
	timeout time.Duration,
) *OperationUsecase {
	return &OperationUsecase{
		credentials: credentials,
		sessions:    sessions,
		uploader:    uploader,
		reporters:   reporters,
		journal:     journal,
		timeout:     timeout,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// CreateMint creates a new fungible mint; the result identifier is the mint address.
func (u *OperationUsecase) CreateMint(ctx context.Context, req operation.CreateMintRequest) (operation.Result, error) {
	return u.submitChain(ctx, operation.KindCreateMint, req.Validate,
		func(ctx context.Context, s ChainSession, kp wallet.Keypair) (operation.Result, error) {
			return s.CreateMint(ctx, kp, req)
		})
}

func (u *OperationUsecase) MintTo(ctx context.Context, req operation.MintToRequest) (operation.Result, error) {
	return u.submitChain(ctx, operation.KindMintTo, req.Validate,
		func(ctx context.Context, s ChainSession, kp wallet.Keypair) (operation.Result, error) {
			return s.MintTo(ctx, kp, req)
		})
}

// Transfer sends SPL tokens from the signer's ATA to the recipient's ATA (created if missing).
func (u *OperationUsecase) Transfer(ctx context.Context, req operation.TransferRequest) (operation.Result, error) {
	return u.submitChain(ctx, operation.KindTransfer, req.Validate,
		func(ctx context.Context, s ChainSession, kp wallet.Keypair) (operation.Result, error) {
			return s.Transfer(ctx, kp, req)
		})
}

func (u *OperationUsecase) MintNFT(ctx context.Context, req operation.NFTMintRequest) (operation.Result, error) {
	return u.submitChain(ctx, operation.KindMintNFT, req.Validate,
		func(ctx context.Context, s ChainSession, kp wallet.Keypair) (operation.Result, error) {
			return s.MintNFT(ctx, kp, req)
		})
}

func (u *OperationUsecase) Airdrop(ctx context.Context, req operation.AirdropRequest) (operation.Result, error) {
	return u.submitChain(ctx, operation.KindAirdrop, req.Validate,
		func(ctx context.Context, s ChainSession, kp wallet.Keypair) (operation.Result, error) {
			return s.Airdrop(ctx, kp, req)
		})
}

func (u *OperationUsecase) TransferSOL(ctx context.Context, req operation.SOLTransferRequest) (operation.Result, error) {
	return u.submitChain(ctx, operation.KindTransferSOL, req.Validate,
		func(ctx context.Context, s ChainSession, kp wallet.Keypair) (operation.Result, error) {
			return s.TransferSOL(ctx, kp, req)
		})
}

// UploadMetadata uploads rec and returns the uploader's URI unchanged as the identifier.
func (u *OperationUsecase) UploadMetadata(ctx context.Context, rec operation.MetadataRecord) (operation.Result, error) {
	op := operation.KindUploadMetadata
	var body []byte

	validate := func() error {
		if err := rec.Validate(); err != nil {
			return err
		}
		b, err := rec.Encode()
		if err != nil {
			return err
		}
		body = b
		return nil
	}

	return u.submit(ctx, op, validate, func(ctx context.Context, kp wallet.Keypair) (operation.Result, error) {
		if u.uploader == nil {
			return operation.Result{}, operation.NewError(op, operation.ErrorKindConfig, ErrOperationNotConfigured)
		}
		uri, err := u.uploader.UploadJSON(ctx, body)
		if err != nil {
			return operation.Result{}, operation.NewError(op, operation.ErrorKindUpload, err)
		}
		return operation.Result{URI: uri}, nil
	})
}

// TokenBalances lists the SPL token accounts of owner (empty: the signer). Read-only, never journaled.
func (u *OperationUsecase) TokenBalances(ctx context.Context, owner string) ([]operation.TokenBalance, error) {
	op := operation.KindTokenBalances
	if u == nil || u.sessions == nil {
		return nil, operation.NewError(op, operation.ErrorKindConfig, ErrOperationNotConfigured)
	}

	ctx, cancel := u.withDeadline(ctx)
	defer cancel()

	addr := strings.TrimSpace(owner)
	if addr == "" {
		if u.credentials == nil {
			return nil, operation.NewError(op, operation.ErrorKindConfig, ErrOperationNotConfigured)
		}
		kp, err := u.credentials.Load(ctx)
		if err != nil {
			return nil, operation.NewError(op, operation.ErrorKindCredential, err)
		}
		addr = kp.PublicKey
	}
	if err := wallet.ValidateAddress(addr); err != nil {
		return nil, operation.NewError(op, operation.ErrorKindValidation, err)
	}

	sess, err := u.sessions.Open(ctx)
	if err != nil {
		return nil, operation.NewError(op, operation.ErrorKindSession, err)
	}
	defer closeSession(sess)

	out, err := sess.TokenBalances(ctx, addr)
	if err != nil {
		return nil, operation.NewError(op, operation.ErrorKindSubmission, err)
	}
	return out, nil
}

// ============================================================
// submit
// ============================================================

type chainFunc func(ctx context.Context, s ChainSession, kp wallet.Keypair) (operation.Result, error)

func (u *OperationUsecase) submitChain(ctx context.Context, op operation.Kind, validate func() error, fn chainFunc) (operation.Result, error) {
	return u.submit(ctx, op, validate, func(ctx context.Context, kp wallet.Keypair) (operation.Result, error) {
		if u.sessions == nil {
			return operation.Result{}, operation.NewError(op, operation.ErrorKindConfig, ErrOperationNotConfigured)
		}
		sess, err := u.sessions.Open(ctx)
		if err != nil {
			return operation.Result{}, operation.NewError(op, operation.ErrorKindSession, err)
		}
		defer closeSession(sess)

		res, err := fn(ctx, sess, kp)
		if err != nil {
			return operation.Result{}, operation.NewError(op, operation.ErrorKindSubmission, err)
		}
		return res, nil
	})
}

// submit does, all under the operation deadline:
// 1) load credential (Secret Manager when configured)
// 2) validate payload (no network)
// 3) session open + exactly one submission
// 4) report + journal (best-effort, outside the deadline)
func (u *OperationUsecase) submit(
	ctx context.Context,
	op operation.Kind,
	validate func() error,
	run func(ctx context.Context, kp wallet.Keypair) (operation.Result, error),
) (res operation.Result, err error) {
	start := u.clock()
	var signer string

	defer func() {
		if err != nil {
			res = operation.Result{}
		}
		u.finish(ctx, op, signer, res, err, start)
	}()

	if u == nil || u.credentials == nil {
		return operation.Result{}, operation.NewError(op, operation.ErrorKindConfig, ErrOperationNotConfigured)
	}

	runCtx, cancel := u.withDeadline(ctx)
	defer cancel()

	// 1) credential
	kp, err := u.credentials.Load(runCtx)
	if err != nil {
		return operation.Result{}, operation.NewError(op, operation.ErrorKindCredential, err)
	}
	signer = kp.PublicKey

	// 2) payload
	if validate != nil {
		if err := validate(); err != nil {
			return operation.Result{}, operation.NewError(op, operation.ErrorKindValidation, err)
		}
	}

	// 3) submit once
	log.Printf("[operation_uc] submit op=%s signer=%s", op, signer)
	res, err = run(runCtx, kp)
	if err != nil {
		return operation.Result{}, operation.NewError(op, operation.ErrorKindSubmission, err)
	}

	res.Kind = op
	if res.Signer == "" {
		res.Signer = signer
	}
	return res, nil
}

func (u *OperationUsecase) finish(ctx context.Context, op operation.Kind, signer string, res operation.Result, err error, start time.Time) {
	if u == nil {
		return
	}
	end := u.clock()

	if err != nil {
		log.Printf("[operation_uc] failed op=%s kind=%s elapsed=%s err=%v", op, operation.KindOf(err), end.Sub(start), err)
	} else {
		log.Printf("[operation_uc] done op=%s id=%s elapsed=%s", op, res.Identifier(), end.Sub(start))
	}

	for _, r := range u.reporters {
		if r != nil {
			r.Report(ctx, op, res, err)
		}
	}

	if u.journal == nil {
		return
	}
	// 実行 ctx が期限切れでも receipt は残す
	jctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	rec := operation.NewReceipt(u.newID(), op, signer, res, err, start, end)
	if jerr := u.journal.Record(jctx, rec); jerr != nil {
		log.Printf("[operation_uc] WARN journal record failed id=%s op=%s err=%v", rec.ID, op, jerr)
	}
}

func (u *OperationUsecase) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if u.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, u.timeout)
}

func (u *OperationUsecase) clock() time.Time {
	if u == nil || u.now == nil {
		return time.Now()
	}
	return u.now()
}

func closeSession(s ChainSession) {
	if s == nil {
		return
	}
	if err := s.Close(); err != nil {
		log.Printf("[operation_uc] WARN session close: %v", err)
	}
}
