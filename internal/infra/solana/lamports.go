// internal/infra/solana/lamports.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/types"

	"solstarter/internal/domain/operation"
	"solstarter/internal/domain/wallet"
)

// Airdrop requests devnet/testnet lamports for payer's own address.
func (s *Session) Airdrop(ctx context.Context, payer wallet.Keypair, req operation.AirdropRequest) (operation.Result, error) {
	if err := s.ready(); err != nil {
		return operation.Result{}, err
	}
	if err := req.Validate(); err != nil {
		return operation.Result{}, validationErr(err)
	}
	if payer.IsZero() {
		return operation.Result{}, credentialErr(fmt.Errorf("solana session: payer keypair is empty"))
	}

	sig, err := s.rpc.RequestAirdrop(ctx, payer.PublicKey, req.Lamports)
	if err != nil {
		return operation.Result{}, submissionErr(fmt.Errorf("solana session: RequestAirdrop: %w", err))
	}
	log.Printf("[solana.lamports] airdrop requested to=%s lamports=%d tx=%s", maskShort(payer.PublicKey), req.Lamports, maskShort(sig))

	if err := s.waitForCommitment(ctx, sig); err != nil {
		return operation.Result{}, err
	}
	return operation.Result{
		Kind:      operation.KindAirdrop,
		Signer:    payer.PublicKey,
		Signature: sig,
		Address:   payer.PublicKey,
	}, nil
}

// 1 署名分の基本手数料（priority fee なし）
const lamportsPerSignature uint64 = 5000

var ErrInsufficientBalance = errors.New("solana session: balance does not cover the fee")

// TransferSOL moves native lamports from payer to req.Recipient.
// req.Drain のときは残高 - 手数料を送り、wallet を空にします。
func (s *Session) TransferSOL(ctx context.Context, payer wallet.Keypair, req operation.SOLTransferRequest) (operation.Result, error) {
	if err := s.ready(); err != nil {
		return operation.Result{}, err
	}
	if err := req.Validate(); err != nil {
		return operation.Result{}, validationErr(err)
	}
	from, err := toAccount(payer)
	if err != nil {
		return operation.Result{}, err
	}

	amount := req.Lamports
	if req.Drain {
		bal, err := s.Balance(ctx, payer.PublicKey)
		if err != nil {
			return operation.Result{}, err
		}
		if bal <= lamportsPerSignature {
			return operation.Result{}, validationErr(fmt.Errorf("%w: balance=%d fee=%d", ErrInsufficientBalance, bal, lamportsPerSignature))
		}
		amount = bal - lamportsPerSignature
	}

	to := common.PublicKeyFromString(strings.TrimSpace(req.Recipient))
	ins := []types.Instruction{
		system.Transfer(system.TransferParam{
			From:   from.PublicKey,
			To:     to,
			Amount: amount,
		}),
	}

	sig, err := s.send(ctx, ins, from)
	if err != nil {
		return operation.Result{}, err
	}

	log.Printf("[solana.lamports] transferred lamports=%d drain=%t to=%s tx=%s", amount, req.Drain, maskShort(req.Recipient), maskShort(sig))
	return operation.Result{
		Kind:      operation.KindTransferSOL,
		Signer:    payer.PublicKey,
		Signature: sig,
	}, nil
}

// Balance returns the lamport balance of address.
func (s *Session) Balance(ctx context.Context, address string) (uint64, error) {
	if err := s.ready(); err != nil {
		return 0, err
	}
	if err := wallet.ValidateAddress(address); err != nil {
		return 0, validationErr(err)
	}
	bal, err := s.rpc.GetBalance(ctx, strings.TrimSpace(address))
	if err != nil {
		return 0, submissionErr(fmt.Errorf("solana session: GetBalance: %w", err))
	}
	return bal, nil
}
