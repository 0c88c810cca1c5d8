// internal/infra/solana/secret_keypair_store.go
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

var ErrKeypairStoreNotConfigured = errors.New("solana keypair store: not configured")

// SecretStoreClient is the subset of the Secret Manager client used to persist keypairs.
type SecretStoreClient interface {
	SecretAccessor
	GetSecret(ctx context.Context, req *secretspb.GetSecretRequest, opts ...gax.CallOption) (*secretspb.Secret, error)
	CreateSecret(ctx context.Context, req *secretspb.CreateSecretRequest, opts ...gax.CallOption) (*secretspb.Secret, error)
	AddSecretVersion(ctx context.Context, req *secretspb.AddSecretVersionRequest, opts ...gax.CallOption) (*secretspb.SecretVersion, error)
}

var _ SecretStoreClient = (*secretmanager.Client)(nil)

// SecretKeypairStore は keygen で作った鍵を Secret Manager に保存します。
// - 秘密鍵の実体は Secret Manager、表に出すのは公開鍵と version 名のみ
// - すでに latest が存在する場合は再生成しない（冪等）
type SecretKeypairStore struct {
	Client    SecretStoreClient
	ProjectID string
}

func NewSecretKeypairStore(client SecretStoreClient, projectID string) *SecretKeypairStore {
	return &SecretKeypairStore{Client: client, ProjectID: strings.TrimSpace(projectID)}
}

// StoredKeypair is the outcome of Ensure.
type StoredKeypair struct {
	Keypair     wallet.Keypair
	VersionName string // "projects/<p>/secrets/<s>/versions/<v>"
	Created     bool
}

// Ensure returns the keypair stored under secretID, generating and storing a new one
// only when the secret has no accessible version yet.
func (s *SecretKeypairStore) Ensure(ctx context.Context, secretID string) (StoredKeypair, error) {
	sid := strings.TrimSpace(secretID)
	if s == nil || s.Client == nil || s.ProjectID == "" || sid == "" {
		return StoredKeypair{}, credentialErr(ErrKeypairStoreNotConfigured)
	}

	parent := fmt.Sprintf("projects/%s", s.ProjectID)
	secretName := fmt.Sprintf("%s/secrets/%s", parent, sid)
	latestVersionName := secretName + "/versions/latest"

	// 0) 既存の鍵があればそれを返す
	res, aerr := s.Client.AccessSecretVersion(ctx, &secretspb.AccessSecretVersionRequest{Name: latestVersionName})
	if aerr == nil {
		kp, err := KeypairFromJSON(res.GetPayload().GetData())
		if err != nil {
			return StoredKeypair{}, credentialErr(fmt.Errorf("solana keypair store: existing secret %s: %w", sid, err))
		}
		log.Printf("[solana.keypair] reuse stored keypair secret=%s pubkey=%s", sid, kp.PublicKey)
		return StoredKeypair{Keypair: kp, VersionName: res.GetName()}, nil
	}
	if status.Code(aerr) != codes.NotFound {
		return StoredKeypair{}, credentialErr(fmt.Errorf("solana keypair store: AccessSecretVersion latest: %w", aerr))
	}

	// 1) Secret がなければ作成
	if _, err := s.Client.GetSecret(ctx, &secretspb.GetSecretRequest{Name: secretName}); err != nil {
		if status.Code(err) != codes.NotFound {
			return StoredKeypair{}, credentialErr(fmt.Errorf("solana keypair store: GetSecret %s: %w", sid, err))
		}
		if _, cerr := s.Client.CreateSecret(ctx, &secretspb.CreateSecretRequest{
			Parent:   parent,
			SecretId: sid,
			Secret: &secretspb.Secret{
				Replication: &secretspb.Replication{
					Replication: &secretspb.Replication_Automatic_{
						Automatic: &secretspb.Replication_Automatic{},
					},
				},
			},
		}); cerr != nil {
			return StoredKeypair{}, credentialErr(fmt.Errorf("solana keypair store: CreateSecret %s: %w", sid, cerr))
		}
	}

	// 2) 新規鍵ペア → version 追加
	kp, err := GenerateKeypair()
	if err != nil {
		return StoredKeypair{}, credentialErr(fmt.Errorf("solana keypair store: generate: %w", err))
	}
	payload, err := EncodeKeypairJSON(kp)
	if err != nil {
		return StoredKeypair{}, credentialErr(fmt.Errorf("solana keypair store: encode: %w", err))
	}

	addRes, err := s.Client.AddSecretVersion(ctx, &secretspb.AddSecretVersionRequest{
		Parent:  secretName,
		Payload: &secretspb.SecretPayload{Data: payload},
	})
	if err != nil {
		return StoredKeypair{}, credentialErr(fmt.Errorf("solana keypair store: AddSecretVersion: %w", err))
	}

	log.Printf("[solana.keypair] stored new keypair secret=%s pubkey=%s version=%s", sid, kp.PublicKey, addRes.GetName())
	return StoredKeypair{Keypair: kp, VersionName: addRes.GetName(), Created: true}, nil
}
