// internal/infra/solana/mint.go
package solana

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	"solstarter/internal/domain/operation"
	"solstarter/internal/domain/wallet"
)

// CreateMint creates a fresh fungible mint in one transaction (CreateAccount + InitializeMint).
// mint authority = payer。freeze authority は指定時のみ。
func (s *Session) CreateMint(ctx context.Context, payer wallet.Keypair, req operation.CreateMintRequest) (operation.Result, error) {
	if err := s.ready(); err != nil {
		return operation.Result{}, err
	}
	if err := req.Validate(); err != nil {
		return operation.Result{}, validationErr(err)
	}
	feePayer, err := toAccount(payer)
	if err != nil {
		return operation.Result{}, err
	}

	var freeze *common.PublicKey
	if fa := strings.TrimSpace(req.FreezeAuthority); fa != "" {
		pk := common.PublicKeyFromString(fa)
		freeze = &pk
	}

	rent, err := s.rpc.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return operation.Result{}, submissionErr(fmt.Errorf("solana session: GetMinimumBalanceForRentExemption: %w", err))
	}

	// 実行ごとに新しい mint keypair（2 回実行すれば 2 つの mint）
	mint := types.NewAccount()

	ins := []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     feePayer.PublicKey,
			New:      mint.PublicKey,
			Owner:    common.TokenProgramID,
			Lamports: rent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   req.Decimals,
			Mint:       mint.PublicKey,
			MintAuth:   feePayer.PublicKey,
			FreezeAuth: freeze,
		}),
	}

	sig, err := s.send(ctx, ins, feePayer, mint)
	if err != nil {
		return operation.Result{}, err
	}

	log.Printf("[solana.mint] created mint=%s decimals=%d tx=%s", mint.PublicKey.ToBase58(), req.Decimals, maskShort(sig))
	return operation.Result{
		Kind:      operation.KindCreateMint,
		Signer:    payer.PublicKey,
		Signature: sig,
		Address:   mint.PublicKey.ToBase58(),
	}, nil
}

// MintTo mints req.Amount base units into the owner's ATA, creating the ATA in the same
// transaction when it does not exist yet. Empty owner means the payer.
func (s *Session) MintTo(ctx context.Context, payer wallet.Keypair, req operation.MintToRequest) (operation.Result, error) {
	if err := s.ready(); err != nil {
		return operation.Result{}, err
	}
	if err := req.Validate(); err != nil {
		return operation.Result{}, validationErr(err)
	}
	auth, err := toAccount(payer)
	if err != nil {
		return operation.Result{}, err
	}

	mint := common.PublicKeyFromString(strings.TrimSpace(req.Mint))
	owner := auth.PublicKey
	if o := strings.TrimSpace(req.Owner); o != "" {
		owner = common.PublicKeyFromString(o)
	}

	ata, _, err := common.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return operation.Result{}, signingErr(fmt.Errorf("solana session: derive ATA: %w", err))
	}

	exists, err := s.accountExists(ctx, ata.ToBase58())
	if err != nil {
		return operation.Result{}, submissionErr(fmt.Errorf("solana session: check ATA: %w", err))
	}

	ins := make([]types.Instruction, 0, 2)
	if !exists {
		ins = append(ins, associated_token_account.CreateAssociatedTokenAccount(
			associated_token_account.CreateAssociatedTokenAccountParam{
				Funder:                 auth.PublicKey,
				Owner:                  owner,
				Mint:                   mint,
				AssociatedTokenAccount: ata,
			},
		))
	}
	ins = append(ins, token.MintTo(token.MintToParam{
		Mint:   mint,
		To:     ata,
		Auth:   auth.PublicKey,
		Amount: req.Amount,
	}))

	sig, err := s.send(ctx, ins, auth)
	if err != nil {
		return operation.Result{}, err
	}

	log.Printf("[solana.mint] minted mint=%s ata=%s amount=%d createdATA=%t tx=%s",
		maskShort(mint.ToBase58()), maskShort(ata.ToBase58()), req.Amount, !exists, maskShort(sig))
	return operation.Result{
		Kind:      operation.KindMintTo,
		Signer:    payer.PublicKey,
		Signature: sig,
		Address:   ata.ToBase58(),
	}, nil
}
