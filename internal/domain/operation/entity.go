// internal/domain/operation/entity.go
package operation

import (
	"errors"
	"fmt"
	"strings"

	"solstarter/internal/domain/wallet"
)

/*
責任と機能:
- 1 回の実行で 1 度だけ送信される「署名付きオペレーション」の種類とリクエスト値を定義する。
- リクエストは生成後に変更しない（値として受け渡す）。
- Validate はネットワーク呼び出し前に行う形式チェックのみを担う。
*/

type Kind string

const (
	KindCreateMint     Kind = "create_mint"
	KindMintTo         Kind = "mint_to"
	KindTransfer       Kind = "spl_transfer"
	KindUploadMetadata Kind = "upload_metadata"
	KindMintNFT        Kind = "mint_nft"
	KindAirdrop        Kind = "airdrop"
	KindTransferSOL    Kind = "sol_transfer"
	KindTokenBalances  Kind = "token_balances"
)

// MaxDecimals is the largest decimals value the SPL token program accepts for UI amounts.
const MaxDecimals = 9

var (
	ErrZeroAmount      = errors.New("operation: amount must be greater than zero")
	ErrInvalidDecimals = errors.New("operation: invalid decimals")
	ErrEmptyName       = errors.New("operation: name is empty")
	ErrEmptySymbol     = errors.New("operation: symbol is empty")
	ErrEmptyURI        = errors.New("operation: uri is empty")
	ErrInvalidFeeBps   = errors.New("operation: seller fee basis points out of range")
	ErrDrainWithAmount = errors.New("operation: drain and an explicit amount are exclusive")
)

// CreateMintRequest は fungible token の mint 作成。mint authority は常に署名者。
type CreateMintRequest struct {
	Decimals        uint8
	FreezeAuthority string // 空なら freeze authority なし
}

func (r CreateMintRequest) Validate() error {
	if r.Decimals > MaxDecimals {
		return fmt.Errorf("%w: %d (max %d)", ErrInvalidDecimals, r.Decimals, MaxDecimals)
	}
	if fa := strings.TrimSpace(r.FreezeAuthority); fa != "" {
		if err := wallet.ValidateAddress(fa); err != nil {
			return fmt.Errorf("freezeAuthority: %w", err)
		}
	}
	return nil
}

// MintToRequest mints Amount base units of Mint into Owner's associated token account.
// Empty Owner means the signer.
type MintToRequest struct {
	Mint   string
	Owner  string
	Amount uint64
}

func (r MintToRequest) Validate() error {
	if err := wallet.ValidateAddress(r.Mint); err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	if o := strings.TrimSpace(r.Owner); o != "" {
		if err := wallet.ValidateAddress(o); err != nil {
			return fmt.Errorf("owner: %w", err)
		}
	}
	if r.Amount == 0 {
		return ErrZeroAmount
	}
	return nil
}

// TransferRequest は署名者の ATA から Recipient の ATA への SPL 転送。
type TransferRequest struct {
	Mint      string
	Recipient string
	Amount    uint64
}

func (r TransferRequest) Validate() error {
	if err := wallet.ValidateAddress(r.Mint); err != nil {
		return fmt.Errorf("mint: %w", err)
	}
	if err := wallet.ValidateAddress(r.Recipient); err != nil {
		return fmt.Errorf("recipient: %w", err)
	}
	if r.Amount == 0 {
		return ErrZeroAmount
	}
	return nil
}

// NFTMintRequest mints a single-supply NFT whose on-chain metadata points at URI.
type NFTMintRequest struct {
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16 // 500 = 5%
	Owner                string // 空なら署名者
}

func (r NFTMintRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(r.Symbol) == "" {
		return ErrEmptySymbol
	}
	if strings.TrimSpace(r.URI) == "" {
		return ErrEmptyURI
	}
	if r.SellerFeeBasisPoints > 10000 {
		return fmt.Errorf("%w: %d", ErrInvalidFeeBps, r.SellerFeeBasisPoints)
	}
	if o := strings.TrimSpace(r.Owner); o != "" {
		if err := wallet.ValidateAddress(o); err != nil {
			return fmt.Errorf("owner: %w", err)
		}
	}
	return nil
}

type AirdropRequest struct {
	Lamports uint64
}

func (r AirdropRequest) Validate() error {
	if r.Lamports == 0 {
		return ErrZeroAmount
	}
	return nil
}

// SOLTransferRequest moves native lamports from the signer to Recipient.
// Drain は残高から手数料を引いた全額を送る（Lamports は 0 のまま）。
type SOLTransferRequest struct {
	Recipient string
	Lamports  uint64
	Drain     bool
}

func (r SOLTransferRequest) Validate() error {
	if err := wallet.ValidateAddress(r.Recipient); err != nil {
		return fmt.Errorf("recipient: %w", err)
	}
	if r.Drain {
		if r.Lamports != 0 {
			return ErrDrainWithAmount
		}
		return nil
	}
	if r.Lamports == 0 {
		return ErrZeroAmount
	}
	return nil
}

// Result is the success value of one submission.
type Result struct {
	Kind      Kind
	Signer    string
	Signature string // on-chain tx signature (空: upload)
	Address   string // mint / token account など生成されたアドレス
	URI       string // upload の結果
}

// Identifier returns the value printed on success:
// the mint address for mint creation, the URI for uploads, otherwise the signature.
func (r Result) Identifier() string {
	switch r.Kind {
	case KindCreateMint, KindMintNFT:
		if r.Address != "" {
			return r.Address
		}
	case KindUploadMetadata:
		return r.URI
	}
	return r.Signature
}

// TokenBalance is one SPL token account owned by a wallet.
type TokenBalance struct {
	Account  string
	Mint     string
	Amount   string // base units, string integer
	Decimals int
}
