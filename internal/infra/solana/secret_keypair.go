// internal/infra/solana/secret_keypair.go
package solana

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	secretspb "cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"solstarter/internal/domain/wallet"
)

var (
	ErrKeypairSecretNotConfigured = errors.New("solana keypair secret: not configured")
	ErrKeypairSecretNotFound      = errors.New("solana keypair secret: secret not found")
	ErrKeypairSecretAccessDenied  = errors.New("solana keypair secret: access denied")
)

// SecretAccessor is the subset of the Secret Manager client used here.
type SecretAccessor interface {
	AccessSecretVersion(ctx context.Context, req *secretspb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretspb.AccessSecretVersionResponse, error)
}

var _ SecretAccessor = (*secretmanager.Client)(nil)

// SecretKeypairLoader は Secret Manager に保存された keypair JSON（[int,...]）から署名者を復元します。
//
// Name には
//
//	"projects/<PROJECT_ID>/secrets/<SECRET_ID>/versions/latest"
//
// のような Secret Version のフルパスを設定してください。
type SecretKeypairLoader struct {
	Client SecretAccessor
	Name   string
}

func NewSecretKeypairLoader(client SecretAccessor, name string) *SecretKeypairLoader {
	return &SecretKeypairLoader{Client: client, Name: strings.TrimSpace(name)}
}

func (l *SecretKeypairLoader) Load(ctx context.Context) (wallet.Keypair, error) {
	if l == nil || l.Client == nil || l.Name == "" {
		return wallet.Keypair{}, credentialErr(ErrKeypairSecretNotConfigured)
	}

	res, err := l.Client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{Name: l.Name})
	if err != nil {
		switch status.Code(err) {
		case codes.NotFound:
			return wallet.Keypair{}, credentialErr(fmt.Errorf("%w: %s", ErrKeypairSecretNotFound, l.Name))
		case codes.PermissionDenied, codes.Unauthenticated:
			return wallet.Keypair{}, credentialErr(fmt.Errorf("%w: %v", ErrKeypairSecretAccessDenied, err))
		case codes.DeadlineExceeded, codes.Canceled:
			return wallet.Keypair{}, fmt.Errorf("solana keypair secret: %w", context.DeadlineExceeded)
		}
		return wallet.Keypair{}, credentialErr(fmt.Errorf("solana keypair secret: AccessSecretVersion: %w", err))
	}
	if res == nil || res.Payload == nil || len(res.Payload.Data) == 0 {
		return wallet.Keypair{}, credentialErr(fmt.Errorf("%w: empty payload", ErrKeypairSecretNotFound))
	}

	kp, err := KeypairFromJSON(res.Payload.Data)
	if err != nil {
		return wallet.Keypair{}, credentialErr(err)
	}

	// 公開鍵のみログに出す
	log.Printf("[solana.keypair] loaded keypair from Secret Manager: secret=%s pubkey=%s", l.Name, kp.PublicKey)
	return kp, nil
}
