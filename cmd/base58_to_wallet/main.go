// cmd/base58_to_wallet/main.go
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"solstarter/internal/domain/operation"
	solanainfra "solstarter/internal/infra/solana"
	"solstarter/internal/platform/cli"
)

const opBase58ToWallet operation.Kind = "base58_to_wallet"

// stdin の base58 秘密鍵（Phantom の export 形式）を Solana CLI の JSON 配列に変換
func main() {
	cli.RunLocal("base58_to_wallet", func(ctx context.Context) error {
		fmt.Fprintln(os.Stderr, "Input your private key as base58:")
		return convert(os.Stdin, os.Stdout)
	})
}

func convert(in io.Reader, out io.Writer) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return operation.NewError(opBase58ToWallet, operation.ErrorKindValidation, fmt.Errorf("base58_to_wallet: read stdin: %w", err))
	}
	kp, err := solanainfra.KeypairFromBase58(strings.TrimSpace(line))
	if err != nil {
		return operation.NewError(opBase58ToWallet, operation.ErrorKindValidation, err)
	}
	data, err := solanainfra.EncodeKeypairJSON(kp)
	if err != nil {
		return operation.NewError(opBase58ToWallet, operation.ErrorKindValidation, err)
	}
	fmt.Fprintf(out, "Your wallet file is:\n%s\n", data)
	return nil
}
