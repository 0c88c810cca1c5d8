// internal/adapters/out/gcs/metadata_uploader_gcs.go
package gcs

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	gcscommon "solstarter/internal/adapters/out/gcs/common"
	usecase "solstarter/internal/application/usecase"
)

// metadata JSON の object prefix。object 名は内容の sha256 で決まる（同じ JSON は同じ URL）。
const metadataPrefix = "metadata/"

var (
	ErrMetadataBucketEmpty = errors.New("metadata_uploader_gcs: bucket is empty")
	ErrMetadataBodyEmpty   = errors.New("metadata_uploader_gcs: metadata json is empty")
)

// ObjectPutter writes one object. *storageObjects (GCS) is the production implementation.
type ObjectPutter interface {
	PutIfAbsent(ctx context.Context, bucket, object, contentType string, data []byte) (created bool, err error)
}

// MetadataUploaderGCS stores metadata JSON in a public GCS bucket.
type MetadataUploaderGCS struct {
	Objects ObjectPutter
	Bucket  string
}

var _ usecase.MetadataUploader = (*MetadataUploaderGCS)(nil)

func NewMetadataUploaderGCS(client *storage.Client, bucket string) *MetadataUploaderGCS {
	return &MetadataUploaderGCS{
		Objects: &storageObjects{Client: client},
		Bucket:  strings.TrimSpace(bucket),
	}
}

// UploadJSON writes data to metadata/<sha256>.json and returns its public URL.
func (u *MetadataUploaderGCS) UploadJSON(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrMetadataBodyEmpty
	}
	if u == nil || u.Objects == nil {
		return "", errors.New("metadata_uploader_gcs: nil storage client")
	}
	bucket := strings.TrimSpace(u.Bucket)
	if bucket == "" {
		return "", ErrMetadataBucketEmpty
	}

	object := MetadataObjectPath(data)
	created, err := u.Objects.PutIfAbsent(ctx, bucket, object, "application/json", data)
	if err != nil {
		return "", fmt.Errorf("metadata_uploader_gcs: put gs://%s/%s: %w", bucket, object, err)
	}

	uri := gcscommon.ObjectURL{Bucket: bucket, Object: object}.String()
	log.Printf("[gcs] metadata uploaded uri=%s created=%t", uri, created)
	return uri, nil
}

// MetadataObjectPath returns the content-addressed object name for data.
func MetadataObjectPath(data []byte) string {
	sum := sha256.Sum256(data)
	return metadataPrefix + hex.EncodeToString(sum[:]) + ".json"
}

type storageObjects struct {
	Client *storage.Client
}

// PutIfAbsent: 既に存在する場合は 412 になるので created=false で成功扱い。
func (s *storageObjects) PutIfAbsent(ctx context.Context, bucket, object, contentType string, data []byte) (bool, error) {
	if s == nil || s.Client == nil {
		return false, errors.New("metadata_uploader_gcs: nil storage client")
	}

	oh := s.Client.Bucket(bucket).Object(object).If(storage.Conditions{DoesNotExist: true})
	w := oh.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return false, err
	}
	if err := w.Close(); err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
