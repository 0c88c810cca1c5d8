// internal/infra/arweave/uploader.go
package arweave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	usecase "solstarter/internal/application/usecase"
)

// DefaultGatewayURL は Irys の公開 gateway。レスポンスが id のみの場合に URI を組み立てる。
const DefaultGatewayURL = "https://gateway.irys.xyz"

var (
	ErrEmptyBody      = errors.New("arweave: metadata json is empty")
	ErrNotConfigured  = errors.New("arweave: upload endpoint not configured")
	ErrEmptyUploadURI = errors.New("arweave: upload response has empty uri")
)

// HTTPUploader は Irys uploader などの HTTP API に JSON を POST する実装です。
//
//	POST {baseURL}/upload/json  ->  {"uri": "..."} または {"id": "..."}
type HTTPUploader struct {
	client     *http.Client
	baseURL    string // 例: "https://devnet.irys.xyz"
	apiKey     string // Bearer（任意）
	gatewayURL string
}

var _ usecase.MetadataUploader = (*HTTPUploader)(nil)

// NewHTTPUploader は Arweave/Irys 用の HTTP uploader を生成します。
func NewHTTPUploader(baseURL, apiKey string) *HTTPUploader {
	return &HTTPUploader{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		gatewayURL: DefaultGatewayURL,
	}
}

// WithHTTPClient swaps the HTTP client (tests, custom transport).
func (u *HTTPUploader) WithHTTPClient(c *http.Client) *HTTPUploader {
	if c != nil {
		u.client = c
	}
	return u
}

// UploadJSON uploads metadataJSON and returns the URI reported by the gateway, unchanged.
func (u *HTTPUploader) UploadJSON(ctx context.Context, metadataJSON []byte) (string, error) {
	if len(metadataJSON) == 0 {
		return "", ErrEmptyBody
	}
	if u == nil || u.baseURL == "" {
		return "", ErrNotConfigured
	}

	log.Printf("[arweave] UploadJSON start baseURL=%s len=%d", u.baseURL, len(metadataJSON))

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		u.baseURL+"/upload/json",
		bytes.NewReader(metadataJSON),
	)
	if err != nil {
		return "", fmt.Errorf("arweave: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		log.Printf("[arweave] http request FAILED err=%v", err)
		return "", fmt.Errorf("arweave: upload metadata: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[arweave] upload metadata FAILED status=%d body=%s", resp.StatusCode, string(bodyBytes))
		return "", fmt.Errorf("arweave: upload metadata failed: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var res struct {
		URI string `json:"uri"` // 例: "https://gateway.irys.xyz/xxxx"
		ID  string `json:"id"`
	}
	if err := json.Unmarshal(bodyBytes, &res); err != nil {
		log.Printf("[arweave] decode upload response FAILED err=%v body=%s", err, string(bodyBytes))
		return "", fmt.Errorf("arweave: decode upload response: %w", err)
	}

	uri := strings.TrimSpace(res.URI)
	if uri == "" && strings.TrimSpace(res.ID) != "" {
		uri = u.gatewayURL + "/" + strings.TrimSpace(res.ID)
	}
	if uri == "" {
		return "", ErrEmptyUploadURI
	}

	log.Printf("[arweave] UploadJSON OK uri=%s", uri)
	return uri, nil
}
