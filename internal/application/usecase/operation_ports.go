// internal/application/usecase/operation_ports.go
package usecase

import (
	"context"

	"solstarter/internal/domain/operation"
	"solstarter/internal/domain/wallet"
)

// ============================================================
// Ports
// ============================================================

// CredentialLoader loads the signing keypair. Implementations must not touch the chain.
type CredentialLoader interface {
	Load(ctx context.Context) (wallet.Keypair, error)
}

// SessionOpener opens a ChainSession (infra/solana.Opener).
type SessionOpener interface {
	Open(ctx context.Context) (ChainSession, error)
}

// ChainSession submits signed operations. Each method submits at most one transaction.
type ChainSession interface {
	CreateMint(ctx context.Context, payer wallet.Keypair, req operation.CreateMintRequest) (operation.Result, error)
	MintTo(ctx context.Context, payer wallet.Keypair, req operation.MintToRequest) (operation.Result, error)
	Transfer(ctx context.Context, payer wallet.Keypair, req operation.TransferRequest) (operation.Result, error)
	MintNFT(ctx context.Context, payer wallet.Keypair, req operation.NFTMintRequest) (operation.Result, error)
	Airdrop(ctx context.Context, payer wallet.Keypair, req operation.AirdropRequest) (operation.Result, error)
	TransferSOL(ctx context.Context, payer wallet.Keypair, req operation.SOLTransferRequest) (operation.Result, error)
	TokenBalances(ctx context.Context, owner string) ([]operation.TokenBalance, error)
	Close() error
}

// MetadataUploader stores a metadata JSON document and returns its public URI.
// Arweave(Irys) / GCS どちらの実装でも同じ契約。
type MetadataUploader interface {
	UploadJSON(ctx context.Context, data []byte) (string, error)
}

// OutcomeReporter is told about every finished operation, success or failure.
// On failure res is the zero Result.
type OutcomeReporter interface {
	Report(ctx context.Context, op operation.Kind, res operation.Result, err error)
}
