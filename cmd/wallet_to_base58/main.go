// cmd/wallet_to_base58/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"solstarter/internal/domain/operation"
	solanainfra "solstarter/internal/infra/solana"
	"solstarter/internal/platform/cli"
)

const opWalletToBase58 operation.Kind = "wallet_to_base58"

// stdin の Solana CLI JSON 配列を base58 秘密鍵に変換
func main() {
	cli.RunLocal("wallet_to_base58", func(ctx context.Context) error {
		fmt.Fprintln(os.Stderr, "Input your wallet file content as a JSON array:")
		return convert(os.Stdin, os.Stdout)
	})
}

func convert(in io.Reader, out io.Writer) error {
	data, err := io.ReadAll(in)
	if err != nil {
		return operation.NewError(opWalletToBase58, operation.ErrorKindValidation, fmt.Errorf("wallet_to_base58: read stdin: %w", err))
	}
	kp, err := solanainfra.KeypairFromJSON(data)
	if err != nil {
		return operation.NewError(opWalletToBase58, operation.ErrorKindValidation, err)
	}
	fmt.Fprintf(out, "Your private key is:\n%s\n", solanainfra.EncodeKeypairBase58(kp))
	return nil
}
