// cmd/spl_init/main.go
package main

import (
	"context"

	appcfg "solstarter/internal/infra/config"
	"solstarter/internal/platform/cli"
	"solstarter/internal/platform/di"
	shared "solstarter/internal/platform/di/shared"
)

// 新しい SPL mint を作成（mint authority = 読み込んだ wallet、decimals = MINT_DECIMALS）
func main() {
	cli.Run("spl_init", shared.Needs{}, func(ctx context.Context, cfg appcfg.Config, c *di.Container) error {
		_, err := c.OperationUC.CreateMint(ctx, cfg.CreateMintRequest())
		return err
	})
}
