// internal/domain/wallet/entity.go
package wallet

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mr-tron/base58"
)

// Domain errors
var (
	ErrInvalidAddress    = errors.New("wallet: invalid address")
	ErrInvalidPrivateKey = errors.New("wallet: invalid private key")
	ErrKeyMismatch       = errors.New("wallet: public key does not match private key")
)

// Solana の base58 アドレス形式（文字種と長さの事前チェック）。
var base58Re = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// Keypair は 1 回の実行の間だけプロセスが保持する署名用の鍵ペアです。
// PrivateKey は Solana CLI と同じ 64 バイト（seed 32 + public key 32）。
type Keypair struct {
	PublicKey  string
	PrivateKey ed25519.PrivateKey
}

// NewKeypair は 64 バイトの秘密鍵から Keypair を復元します。
// 末尾 32 バイトの公開鍵が seed から導出したものと一致しない場合はエラーです。
func NewKeypair(priv []byte) (Keypair, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return Keypair{}, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidPrivateKey, ed25519.PrivateKeySize, len(priv))
	}

	derived := ed25519.NewKeyFromSeed(priv[:ed25519.SeedSize])
	embedded := priv[ed25519.SeedSize:]
	if !bytes.Equal(derived[ed25519.SeedSize:], embedded) {
		return Keypair{}, ErrKeyMismatch
	}

	key := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	copy(key, priv)

	return Keypair{
		PublicKey:  base58.Encode(embedded),
		PrivateKey: key,
	}, nil
}

// IsZero reports whether the keypair was never loaded.
func (k Keypair) IsZero() bool {
	return len(k.PrivateKey) == 0 && k.PublicKey == ""
}

// Bytes returns a copy of the 64-byte secret key.
func (k Keypair) Bytes() []byte {
	out := make([]byte, len(k.PrivateKey))
	copy(out, k.PrivateKey)
	return out
}

// ValidateAddress checks that s is a base58 string decoding to a 32-byte public key.
func ValidateAddress(s string) error {
	addr := strings.TrimSpace(s)
	if addr == "" {
		return fmt.Errorf("%w: empty", ErrInvalidAddress)
	}
	if !base58Re.MatchString(addr) {
		return fmt.Errorf("%w: %q is not base58", ErrInvalidAddress, addr)
	}
	raw, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(raw) != ed25519.PublicKeySize {
		return fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidAddress, ed25519.PublicKeySize, len(raw))
	}
	return nil
}
