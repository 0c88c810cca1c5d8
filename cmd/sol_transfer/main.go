// cmd/sol_transfer/main.go
package main

import (
	"context"

	appcfg "solstarter/internal/infra/config"
	"solstarter/internal/platform/cli"
	"solstarter/internal/platform/di"
	shared "solstarter/internal/platform/di/shared"
)

func main() {
	cli.Run("sol_transfer", shared.Needs{}, func(ctx context.Context, cfg appcfg.Config, c *di.Container) error {
		_, err := c.OperationUC.TransferSOL(ctx, cfg.SOLTransferRequest())
		return err
	})
}
