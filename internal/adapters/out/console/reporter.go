// internal/adapters/out/console/reporter.go
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	usecase "solstarter/internal/application/usecase"
	"solstarter/internal/domain/operation"
)

// Reporter prints the human-readable outcome lines to stdout.
type Reporter struct {
	out io.Writer

	// ExplorerURL builds an explorer link for a signature (optional).
	ExplorerURL func(sig string) string
}

var _ usecase.OutcomeReporter = (*Reporter)(nil)

func NewReporter(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out}
}

func (r *Reporter) Report(_ context.Context, op operation.Kind, res operation.Result, err error) {
	if err != nil {
		PrintFailure(r.out, err)
		return
	}

	switch op {
	case operation.KindCreateMint:
		fmt.Fprintf(r.out, "successfully created a mint %s\n", res.Address)
	case operation.KindMintNFT:
		fmt.Fprintf(r.out, "successfully minted NFT %s\n", res.Address)
	case operation.KindUploadMetadata:
		fmt.Fprintf(r.out, "Your metadata URI: %s\n", res.URI)
		return
	}

	if res.Signature == "" {
		return
	}
	fmt.Fprintf(r.out, "Your TX: %s\n", res.Signature)
	if r.ExplorerURL != nil {
		fmt.Fprintf(r.out, "%s\n", r.ExplorerURL(res.Signature))
	}
}

// PrintFailure prints the generic failure line.
func PrintFailure(out io.Writer, err error) {
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "Oops, something went wrong: %v\n", err)
}

// PrintBalances prints one line per token account.
func PrintBalances(out io.Writer, owner string, balances []operation.TokenBalance) {
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "token accounts of %s: %d\n", owner, len(balances))
	for _, b := range balances {
		fmt.Fprintf(out, "%s mint=%s amount=%s decimals=%d\n", b.Account, b.Mint, b.Amount, b.Decimals)
	}
}
