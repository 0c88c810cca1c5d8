// internal/infra/solana/transfer.go
package solana

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	"solstarter/internal/domain/operation"
	"solstarter/internal/domain/wallet"
)

// Transfer does:
// - derive ATA(payer, mint) / ATA(recipient, mint)
// - source ATA must exist
// - create recipient ATA if missing (funder = payer), same transaction
// - SPL token transfer signed by payer
func (s *Session) Transfer(ctx context.Context, payer wallet.Keypair, req operation.TransferRequest) (operation.Result, error) {
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

	mint := common.PublicKeyFromString(strings.TrimSpace(req.Mint))
	toOwner := common.PublicKeyFromString(strings.TrimSpace(req.Recipient))

	fromATA, _, err := common.FindAssociatedTokenAddress(from.PublicKey, mint)
	if err != nil {
		return operation.Result{}, signingErr(fmt.Errorf("solana session: derive from ATA: %w", err))
	}
	toATA, _, err := common.FindAssociatedTokenAddress(toOwner, mint)
	if err != nil {
		return operation.Result{}, signingErr(fmt.Errorf("solana session: derive to ATA: %w", err))
	}

	log.Printf("[solana.transfer] start mint=%s amount=%d from=%s to=%s",
		maskShort(req.Mint), req.Amount, maskShort(from.PublicKey.ToBase58()), maskShort(req.Recipient))

	fromExists, err := s.accountExists(ctx, fromATA.ToBase58())
	if err != nil {
		return operation.Result{}, submissionErr(fmt.Errorf("solana session: check from ATA: %w", err))
	}
	if !fromExists {
		return operation.Result{}, validationErr(fmt.Errorf("%w: owner=%s mint=%s", ErrSourceATAAbsent, from.PublicKey.ToBase58(), req.Mint))
	}

	toExists, err := s.accountExists(ctx, toATA.ToBase58())
	if err != nil {
		return operation.Result{}, submissionErr(fmt.Errorf("solana session: check to ATA: %w", err))
	}

	ins := make([]types.Instruction, 0, 2)
	if !toExists {
		ins = append(ins, associated_token_account.CreateAssociatedTokenAccount(
			associated_token_account.CreateAssociatedTokenAccountParam{
				Funder:                 from.PublicKey,
				Owner:                  toOwner,
				Mint:                   mint,
				AssociatedTokenAccount: toATA,
			},
		))
		log.Printf("[solana.transfer] will create ATA owner=%s ata=%s", maskShort(req.Recipient), maskShort(toATA.ToBase58()))
	}
	ins = append(ins, token.Transfer(token.TransferParam{
		From:   fromATA,
		To:     toATA,
		Auth:   from.PublicKey,
		Amount: req.Amount,
	}))

	sig, err := s.send(ctx, ins, from)
	if err != nil {
		return operation.Result{}, err
	}

	log.Printf("[solana.transfer] done tx=%s fromATA=%s toATA=%s createdATA=%t",
		maskShort(sig), maskShort(fromATA.ToBase58()), maskShort(toATA.ToBase58()), !toExists)
	return operation.Result{
		Kind:      operation.KindTransfer,
		Signer:    payer.PublicKey,
		Signature: sig,
		Address:   toATA.ToBase58(),
	}, nil
}
