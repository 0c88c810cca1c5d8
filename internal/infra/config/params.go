// internal/infra/config/params.go
package config

import (
	"solstarter/internal/domain/operation"
)

// 各コマンドのリクエスト値を Config から組み立てます（検証は usecase 側）。

func (c Config) CreateMintRequest() operation.CreateMintRequest {
	return operation.CreateMintRequest{
		Decimals:        c.Params.MintDecimals,
		FreezeAuthority: c.Params.FreezeAuthority,
	}
}

func (c Config) MintToRequest() operation.MintToRequest {
	return operation.MintToRequest{
		Mint:   c.Params.SPLMintAddress,
		Owner:  c.Params.MintToOwner,
		Amount: c.Params.MintToAmount,
	}
}

func (c Config) TransferRequest() operation.TransferRequest {
	return operation.TransferRequest{
		Mint:      c.Params.SPLMintAddress,
		Recipient: c.Params.SPLRecipient,
		Amount:    c.Params.SPLAmount,
	}
}

func (c Config) NFTMintRequest() operation.NFTMintRequest {
	return operation.NFTMintRequest{
		Name:                 c.Params.NFTName,
		Symbol:               c.Params.NFTSymbol,
		URI:                  c.Params.NFTMetadataURI,
		SellerFeeBasisPoints: c.Params.NFTSellerFeeBps,
	}
}

func (c Config) AirdropRequest() operation.AirdropRequest {
	return operation.AirdropRequest{Lamports: c.Params.AirdropLamports}
}

func (c Config) SOLTransferRequest() operation.SOLTransferRequest {
	return operation.SOLTransferRequest{
		Recipient: c.Params.SOLRecipient,
		Lamports:  c.Params.SOLLamports,
		Drain:     c.Params.SOLDrain,
	}
}
