// cmd/airdrop/main.go
package main

import (
	"context"

	appcfg "solstarter/internal/infra/config"
	"solstarter/internal/platform/cli"
	"solstarter/internal/platform/di"
	shared "solstarter/internal/platform/di/shared"
)

// devnet/testnet のみ。AIRDROP_LAMPORTS（既定 2 SOL）を wallet に。
func main() {
	cli.Run("airdrop", shared.Needs{}, func(ctx context.Context, cfg appcfg.Config, c *di.Container) error {
		_, err := c.OperationUC.Airdrop(ctx, cfg.AirdropRequest())
		return err
	})
}
