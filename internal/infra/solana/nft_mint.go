// internal/infra/solana/nft_mint.go
package solana

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/blocto/solana-go-sdk/common"
	"github.com/blocto/solana-go-sdk/program/associated_token_account"
	"github.com/blocto/solana-go-sdk/program/metaplex/token_metadata"
	"github.com/blocto/solana-go-sdk/program/system"
	"github.com/blocto/solana-go-sdk/program/token"
	"github.com/blocto/solana-go-sdk/types"

	"solstarter/internal/domain/operation"
	"solstarter/internal/domain/wallet"
)

// MintNFT mints a single-supply NFT whose Metaplex metadata points at req.URI.
// 戻り値の Address は mint アドレス。
func (s *Session) MintNFT(ctx context.Context, payer wallet.Keypair, req operation.NFTMintRequest) (operation.Result, error) {
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

	owner := feePayer.PublicKey
	if o := strings.TrimSpace(req.Owner); o != "" {
		owner = common.PublicKeyFromString(o)
	}
	mint := types.NewAccount()

	ata, _, err := common.FindAssociatedTokenAddress(owner, mint.PublicKey)
	if err != nil {
		return operation.Result{}, signingErr(fmt.Errorf("solana session: FindAssociatedTokenAddress: %w", err))
	}

	// Metadata / MasterEdition PDA
	metadataPubkey, err := token_metadata.GetTokenMetaPubkey(mint.PublicKey)
	if err != nil {
		return operation.Result{}, signingErr(fmt.Errorf("solana session: GetTokenMetaPubkey: %w", err))
	}
	masterEditionPubkey, err := token_metadata.GetMasterEdition(mint.PublicKey)
	if err != nil {
		return operation.Result{}, signingErr(fmt.Errorf("solana session: GetMasterEdition: %w", err))
	}

	mintRent, err := s.rpc.GetMinimumBalanceForRentExemption(ctx, token.MintAccountSize)
	if err != nil {
		return operation.Result{}, submissionErr(fmt.Errorf("solana session: GetMinimumBalanceForRentExemption: %w", err))
	}

	// 1 NFT = supply 1
	maxSupply := uint64(0)

	ins := []types.Instruction{
		system.CreateAccount(system.CreateAccountParam{
			From:     feePayer.PublicKey,
			New:      mint.PublicKey,
			Owner:    common.TokenProgramID,
			Lamports: mintRent,
			Space:    token.MintAccountSize,
		}),
		token.InitializeMint(token.InitializeMintParam{
			Decimals:   0,
			Mint:       mint.PublicKey,
			MintAuth:   feePayer.PublicKey,
			FreezeAuth: &feePayer.PublicKey,
		}),
		token_metadata.CreateMetadataAccountV3(
			token_metadata.CreateMetadataAccountV3Param{
				Metadata:                metadataPubkey,
				Mint:                    mint.PublicKey,
				MintAuthority:           feePayer.PublicKey,
				UpdateAuthority:         feePayer.PublicKey,
				Payer:                   feePayer.PublicKey,
				UpdateAuthorityIsSigner: true,
				IsMutable:               true,
				Data: token_metadata.DataV2{
					Name:                 req.Name,
					Symbol:               req.Symbol,
					Uri:                  req.URI,
					SellerFeeBasisPoints: req.SellerFeeBasisPoints,
					Creators: &[]token_metadata.Creator{
						{
							Address:  feePayer.PublicKey,
							Verified: true,
							Share:    100,
						},
					},
				},
			},
		),
		associated_token_account.CreateAssociatedTokenAccount(
			associated_token_account.CreateAssociatedTokenAccountParam{
				Funder:                 feePayer.PublicKey,
				Owner:                  owner,
				Mint:                   mint.PublicKey,
				AssociatedTokenAccount: ata,
			},
		),
		token.MintTo(token.MintToParam{
			Mint:   mint.PublicKey,
			To:     ata,
			Auth:   feePayer.PublicKey,
			Amount: 1,
		}),
		// MaxSupply=0: 追加 edition の印刷不可
		token_metadata.CreateMasterEditionV3(
			token_metadata.CreateMasterEditionParam{
				Edition:         masterEditionPubkey,
				Mint:            mint.PublicKey,
				UpdateAuthority: feePayer.PublicKey,
				MintAuthority:   feePayer.PublicKey,
				Metadata:        metadataPubkey,
				Payer:           feePayer.PublicKey,
				MaxSupply:       &maxSupply,
			},
		),
	}

	sig, err := s.send(ctx, ins, feePayer, mint)
	if err != nil {
		return operation.Result{}, err
	}

	log.Printf("[solana.nft] minted mint=%s owner=%s uri=%s tx=%s",
		mint.PublicKey.ToBase58(), maskShort(owner.ToBase58()), req.URI, maskShort(sig))
	return operation.Result{
		Kind:      operation.KindMintNFT,
		Signer:    payer.PublicKey,
		Signature: sig,
		Address:   mint.PublicKey.ToBase58(),
		URI:       req.URI,
	}, nil
}
