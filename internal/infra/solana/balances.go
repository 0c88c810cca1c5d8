// internal/infra/solana/balances.go
package solana

import (
	"context"
	"fmt"
	"strings"

	"solstarter/internal/domain/operation"
	"solstarter/internal/domain/wallet"
)

// TokenBalances lists the SPL token accounts owned by owner.
//
// Behavior notes:
//   - getTokenAccountsByOwner with programId=Tokenkeg... and encoding=jsonParsed
//   - zero-balance accounts are kept (a freshly created ATA is still worth showing)
//   - order is the RPC order
func (s *Session) TokenBalances(ctx context.Context, owner string) ([]operation.TokenBalance, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}
	if s.tokens == nil {
		return nil, sessionErr(ErrSessionNotConfigured)
	}
	addr := strings.TrimSpace(owner)
	if err := wallet.ValidateAddress(addr); err != nil {
		return nil, validationErr(fmt.Errorf("owner: %w", err))
	}

	res, err := s.tokens.GetTokenAccountsByOwner(ctx, addr, TokenProgramID, string(s.commitment))
	if err != nil {
		return nil, submissionErr(fmt.Errorf("solana session: getTokenAccountsByOwner: %w", err))
	}

	out := make([]operation.TokenBalance, 0, len(res.Value))
	for _, v := range res.Value {
		info := v.Account.Data.Parsed.Info
		mint := strings.TrimSpace(info.Mint)
		if mint == "" {
			continue
		}
		amt := strings.TrimSpace(info.TokenAmount.Amount)
		if amt == "" {
			amt = "0"
		}
		out = append(out, operation.TokenBalance{
			Account:  v.Pubkey,
			Mint:     mint,
			Amount:   amt,
			Decimals: info.TokenAmount.Decimals,
		})
	}
	return out, nil
}
