// cmd/spl_mint/main.go
package main

import (
	"context"

	appcfg "solstarter/internal/infra/config"
	"solstarter/internal/platform/cli"
	"solstarter/internal/platform/di"
	shared "solstarter/internal/platform/di/shared"
)

// SPL_MINT_ADDRESS の token を MINT_TO_OWNER（空なら自分）の ATA に MINT_TO_AMOUNT だけ発行
func main() {
	cli.Run("spl_mint", shared.Needs{}, func(ctx context.Context, cfg appcfg.Config, c *di.Container) error {
		_, err := c.OperationUC.MintTo(ctx, cfg.MintToRequest())
		return err
	})
}
