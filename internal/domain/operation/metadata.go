// internal/domain/operation/metadata.go
package operation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MetadataRecord は Metaplex token-metadata の off-chain JSON 標準に沿った NFT メタデータです。
// https://docs.metaplex.com/programs/token-metadata/changelog/v1.0#json-structure
type MetadataRecord struct {
	Name        string              `json:"name"`
	Symbol      string              `json:"symbol"`
	Description string              `json:"description,omitempty"`
	Image       string              `json:"image,omitempty"`
	ExternalURL string              `json:"external_url,omitempty"`
	Attributes  []MetadataAttribute `json:"attributes"`
	Properties  MetadataProperties  `json:"properties"`
	Creators    []MetadataCreator   `json:"creators"`

	// raw はファイル由来の元 JSON。設定時は Encode がそのまま返す。
	raw []byte
}

type MetadataAttribute struct {
	TraitType string `json:"trait_type"`
	Value     any    `json:"value"` // string / number どちらも可
}

type MetadataProperties struct {
	Files    []MetadataFile `json:"files"`
	Category string         `json:"category,omitempty"`
}

type MetadataFile struct {
	Type string `json:"type"`
	URI  string `json:"uri"`
}

type MetadataCreator struct {
	Address string `json:"address"`
	Share   int    `json:"share"`
}

// ParseMetadataRecord checks that data is a JSON object with a name and a symbol and keeps
// the bytes as they are: Encode returns data unchanged, so fields not modeled here survive.
// The typed fields are a best-effort view for logging.
func ParseMetadataRecord(data []byte) (MetadataRecord, error) {
	if !json.Valid(data) {
		return MetadataRecord{}, fmt.Errorf("operation: metadata is not valid json")
	}

	var head struct {
		Name   string `json:"name"`
		Symbol string `json:"symbol"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return MetadataRecord{}, fmt.Errorf("operation: decode metadata json: %w", err)
	}

	var rec MetadataRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		rec = MetadataRecord{}
	}
	rec.Name, rec.Symbol = head.Name, head.Symbol
	rec.raw = append([]byte(nil), data...)

	if err := rec.Validate(); err != nil {
		return MetadataRecord{}, err
	}
	return rec, nil
}

func (m MetadataRecord) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(m.Symbol) == "" {
		return ErrEmptySymbol
	}
	if m.raw != nil {
		return nil
	}
	total := 0
	for _, c := range m.Creators {
		total += c.Share
	}
	if len(m.Creators) > 0 && total != 100 {
		return fmt.Errorf("operation: creator shares must sum to 100 (got %d)", total)
	}
	return nil
}

// Encode は uploader に渡す JSON を返します。nil スライスは [] として出力します。
func (m MetadataRecord) Encode() ([]byte, error) {
	if m.raw != nil {
		return append([]byte(nil), m.raw...), nil
	}
	if m.Attributes == nil {
		m.Attributes = []MetadataAttribute{}
	}
	if m.Properties.Files == nil {
		m.Properties.Files = []MetadataFile{}
	}
	if m.Creators == nil {
		m.Creators = []MetadataCreator{}
	}
	return json.Marshal(m)
}
