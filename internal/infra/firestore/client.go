// internal/infra/firestore/client.go
package firestoreinfra

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

// NewClient は Firestore クライアントを初期化します。
// opts が空の場合は ADC (Application Default Credentials) を使用します。
func NewClient(ctx context.Context, projectID string, opts ...option.ClientOption) (*firestore.Client, error) {
	projectID = strings.TrimSpace(projectID)
	if projectID == "" {
		return nil, errors.New("firestoreinfra: projectID is empty")
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestoreinfra: firestore.NewClient (project=%s): %w", projectID, err)
	}

	log.Printf("[firestore] client initialized project=%s", projectID)
	return client, nil
}
