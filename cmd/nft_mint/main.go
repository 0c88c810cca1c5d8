// cmd/nft_mint/main.go
package main

import (
	"context"

	appcfg "solstarter/internal/infra/config"
	"solstarter/internal/platform/cli"
	"solstarter/internal/platform/di"
	shared "solstarter/internal/platform/di/shared"
)

// NFT_METADATA_URI（nft_metadata の出力）を指す supply 1 の NFT を発行
func main() {
	cli.Run("nft_mint", shared.Needs{}, func(ctx context.Context, cfg appcfg.Config, c *di.Container) error {
		_, err := c.OperationUC.MintNFT(ctx, cfg.NFTMintRequest())
		return err
	})
}
