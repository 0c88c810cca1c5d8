// internal/infra/solana/keypair.go
package solana

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"

	"solstarter/internal/domain/operation"
	"solstarter/internal/domain/wallet"
)

var (
	ErrKeypairFileNotFound = errors.New("solana keypair: file not found")
	ErrKeypairMalformed    = errors.New("solana keypair: malformed")
)

// FileKeypairLoader は solana-keygen 形式（[u8;64] の JSON 配列）のファイルから署名者を読み込みます。
type FileKeypairLoader struct {
	Path string
}

func NewFileKeypairLoader(path string) *FileKeypairLoader {
	return &FileKeypairLoader{Path: strings.TrimSpace(path)}
}

// Load reads and decodes the keypair file. Any failure is a credential error.
func (l *FileKeypairLoader) Load(ctx context.Context) (wallet.Keypair, error) {
	if err := ctx.Err(); err != nil {
		return wallet.Keypair{}, err
	}
	if l == nil || l.Path == "" {
		return wallet.Keypair{}, credentialErr(fmt.Errorf("%w: path is empty", ErrKeypairFileNotFound))
	}

	data, err := os.ReadFile(l.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return wallet.Keypair{}, credentialErr(fmt.Errorf("%w: %s", ErrKeypairFileNotFound, l.Path))
		}
		return wallet.Keypair{}, credentialErr(fmt.Errorf("solana keypair: read %s: %w", l.Path, err))
	}

	kp, err := KeypairFromJSON(data)
	if err != nil {
		return wallet.Keypair{}, credentialErr(err)
	}

	log.Printf("[solana.keypair] loaded keypair file=%s pubkey=%s", l.Path, kp.PublicKey)
	return kp, nil
}

// DecodeKeypairJSON は keypair JSON から 64 バイトの鍵配列を復元します。
// - 正: [u8;64]
// - 互換: 値域チェック付きの [int,...]
func DecodeKeypairJSON(data []byte) ([]byte, error) {
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return nil, fmt.Errorf("%w: not a json int array: %v", ErrKeypairMalformed, err)
	}
	if len(ints) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrKeypairMalformed, ed25519.PrivateKeySize, len(ints))
	}

	b := make([]byte, len(ints))
	for i, v := range ints {
		if v < 0 || v > 255 {
			return nil, fmt.Errorf("%w: byte out of range at %d: %d", ErrKeypairMalformed, i, v)
		}
		b[i] = byte(v)
	}
	return b, nil
}

// KeypairFromJSON decodes a Solana CLI keypair file body.
func KeypairFromJSON(data []byte) (wallet.Keypair, error) {
	raw, err := DecodeKeypairJSON(data)
	if err != nil {
		return wallet.Keypair{}, err
	}
	kp, err := wallet.NewKeypair(raw)
	if err != nil {
		return wallet.Keypair{}, fmt.Errorf("%w: %v", ErrKeypairMalformed, err)
	}
	return kp, nil
}

// EncodeKeypairJSON は Solana CLI 互換の [int,...] 形式で秘密鍵を出力します。
func EncodeKeypairJSON(kp wallet.Keypair) ([]byte, error) {
	ints := make([]int, len(kp.PrivateKey))
	for i, v := range kp.PrivateKey {
		ints[i] = int(v)
	}
	return json.Marshal(ints)
}

// KeypairFromBase58 decodes a base58 secret key (Phantom export format).
func KeypairFromBase58(s string) (wallet.Keypair, error) {
	raw, err := base58.Decode(strings.TrimSpace(s))
	if err != nil {
		return wallet.Keypair{}, fmt.Errorf("%w: invalid base58: %v", ErrKeypairMalformed, err)
	}
	kp, err := wallet.NewKeypair(raw)
	if err != nil {
		return wallet.Keypair{}, fmt.Errorf("%w: %v", ErrKeypairMalformed, err)
	}
	return kp, nil
}

// EncodeKeypairBase58 returns the base58 form of the 64-byte secret key.
func EncodeKeypairBase58(kp wallet.Keypair) string {
	return base58.Encode(kp.PrivateKey)
}

// GenerateKeypair creates a fresh Solana keypair.
func GenerateKeypair() (wallet.Keypair, error) {
	acc := types.NewAccount()
	return wallet.NewKeypair(acc.PrivateKey)
}

// toAccount converts the loaded credential into the SDK signer.
func toAccount(kp wallet.Keypair) (types.Account, error) {
	if kp.IsZero() {
		return types.Account{}, credentialErr(errors.New("solana: signer keypair is empty"))
	}
	acc, err := types.AccountFromBytes(kp.PrivateKey)
	if err != nil {
		return types.Account{}, credentialErr(fmt.Errorf("solana: AccountFromBytes: %w", err))
	}
	if acc.PublicKey.ToBase58() != kp.PublicKey {
		return types.Account{}, credentialErr(wallet.ErrKeyMismatch)
	}
	return acc, nil
}

func credentialErr(err error) error {
	return &operation.Error{Kind: operation.ErrorKindCredential, Err: err}
}
