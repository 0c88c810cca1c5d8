// cmd/spl_balances/main.go
package main

import (
	"context"
	"os"

	consoleout "solstarter/internal/adapters/out/console"
	appcfg "solstarter/internal/infra/config"
	"solstarter/internal/platform/cli"
	"solstarter/internal/platform/di"
	shared "solstarter/internal/platform/di/shared"
)

// BALANCES_OWNER（空なら wallet 自身）の token account 一覧を表示
func main() {
	cli.Run("spl_balances", shared.Needs{}, func(ctx context.Context, cfg appcfg.Config, c *di.Container) error {
		owner := cfg.Params.BalancesOwner
		balances, err := c.OperationUC.TokenBalances(ctx, owner)
		if err != nil {
			consoleout.PrintFailure(os.Stdout, err)
			return err
		}
		if owner == "" {
			owner = "wallet"
		}
		consoleout.PrintBalances(os.Stdout, owner, balances)
		return nil
	})
}
