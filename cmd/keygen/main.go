// cmd/keygen/main.go
//
// 開発用の Solana wallet を生成する小さなツールです。
//   - KEYGEN_SECRET_ID 未設定: KEYGEN_OUT（既定 dev-wallet.json）に Solana CLI 互換 JSON を保存（上書きしない）
//   - KEYGEN_SECRET_ID 設定時: Secret Manager に保存（既存 version があれば再利用）
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	consoleout "solstarter/internal/adapters/out/console"
	"solstarter/internal/domain/operation"
	"solstarter/internal/domain/wallet"
	appcfg "solstarter/internal/infra/config"
	solanainfra "solstarter/internal/infra/solana"
	"solstarter/internal/platform/cli"
	"solstarter/internal/platform/di"
	shared "solstarter/internal/platform/di/shared"
)

const opKeygen operation.Kind = "keygen"

var ErrKeypairFileExists = errors.New("keygen: output file already exists")

func main() {
	cli.Run("keygen", shared.Needs{SecretStore: true}, func(ctx context.Context, cfg appcfg.Config, c *di.Container) error {
		err := run(ctx, cfg, c)
		if err != nil {
			consoleout.PrintFailure(os.Stdout, err)
		}
		return err
	})
}

// run は KEYGEN_SECRET_ID があれば Secret Manager、なければファイルに保存します。
func run(ctx context.Context, cfg appcfg.Config, c *di.Container) error {
	if c.KeypairStore != nil {
		stored, err := c.KeypairStore.Ensure(ctx, cfg.KeygenSecretID)
		if err != nil {
			return operation.NewError(opKeygen, operation.ErrorKindCredential, err)
		}
		printStored(os.Stdout, stored)
		return nil
	}

	kp, err := solanainfra.GenerateKeypair()
	if err != nil {
		return operation.NewError(opKeygen, operation.ErrorKindCredential, err)
	}
	if err := writeKeypairFile(cfg.KeygenOut, kp); err != nil {
		return err
	}
	printGenerated(os.Stdout, kp, cfg.KeygenOut)
	return nil
}

// writeKeypairFile は 0600 で新規作成のみ行います。
func writeKeypairFile(path string, kp wallet.Keypair) error {
	data, err := solanainfra.EncodeKeypairJSON(kp)
	if err != nil {
		return operation.NewError(opKeygen, operation.ErrorKindCredential, err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return operation.NewError(opKeygen, operation.ErrorKindValidation, fmt.Errorf("%w: %s", ErrKeypairFileExists, path))
		}
		return operation.NewError(opKeygen, operation.ErrorKindCredential, fmt.Errorf("keygen: create %s: %w", path, err))
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return operation.NewError(opKeygen, operation.ErrorKindCredential, fmt.Errorf("keygen: write %s: %w", path, err))
	}
	if err := f.Close(); err != nil {
		return operation.NewError(opKeygen, operation.ErrorKindCredential, fmt.Errorf("keygen: close %s: %w", path, err))
	}
	return nil
}

func printGenerated(out io.Writer, kp wallet.Keypair, path string) {
	fmt.Fprintf(out, "You've generated a new Solana wallet: %s\n", kp.PublicKey)
	fmt.Fprintf(out, "Secret key file (Solana CLI JSON): %s\n", path)
	fmt.Fprintln(out, "この JSON ファイルは Git にコミットしないでください。")
}

func printStored(out io.Writer, stored solanainfra.StoredKeypair) {
	if stored.Created {
		fmt.Fprintf(out, "You've generated a new Solana wallet: %s\n", stored.Keypair.PublicKey)
	} else {
		fmt.Fprintf(out, "Existing Solana wallet: %s\n", stored.Keypair.PublicKey)
	}
	fmt.Fprintf(out, "Secret version: %s\n", stored.VersionName)
}
