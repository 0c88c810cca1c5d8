package operation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solstarter/internal/domain/wallet"
)

const (
	testMint      = "55QFHhwQ5zNSdj2JabBHPYyweYT97WWacPgDLQx24oxB"
	testRecipient = "CaHfSLGKiGhV7Yy1HEiPHS4iaXYdcZhnUXFPaw2fUZKN"
)

func TestTransferRequestValidate(t *testing.T) {
	ok := TransferRequest{Mint: testMint, Recipient: testRecipient, Amount: 100000}
	require.NoError(t, ok.Validate())

	zero := ok
	zero.Amount = 0
	assert.ErrorIs(t, zero.Validate(), ErrZeroAmount)

	badTo := ok
	badTo.Recipient = "definitely-not-base58!"
	assert.ErrorIs(t, badTo.Validate(), wallet.ErrInvalidAddress)

	badMint := ok
	badMint.Mint = ""
	assert.ErrorIs(t, badMint.Validate(), wallet.ErrInvalidAddress)
}

func TestSOLTransferRequestValidate(t *testing.T) {
	assert.NoError(t, SOLTransferRequest{Recipient: testRecipient, Lamports: 1}.Validate())
	assert.NoError(t, SOLTransferRequest{Recipient: testRecipient, Drain: true}.Validate())
	assert.ErrorIs(t, SOLTransferRequest{Recipient: testRecipient}.Validate(), ErrZeroAmount)
	assert.ErrorIs(t, SOLTransferRequest{Recipient: testRecipient, Lamports: 5, Drain: true}.Validate(), ErrDrainWithAmount)
}

func TestCreateMintRequestValidate(t *testing.T) {
	assert.NoError(t, CreateMintRequest{Decimals: 6}.Validate())
	assert.ErrorIs(t, CreateMintRequest{Decimals: 10}.Validate(), ErrInvalidDecimals)
	assert.ErrorIs(t, CreateMintRequest{Decimals: 0, FreezeAuthority: "xyz"}.Validate(), wallet.ErrInvalidAddress)
}

func TestNFTMintRequestValidate(t *testing.T) {
	req := NFTMintRequest{Name: "Tyrex Lads", Symbol: "TRX", URI: "https://gateway.irys.xyz/abc", SellerFeeBasisPoints: 500}
	require.NoError(t, req.Validate())

	req.SellerFeeBasisPoints = 10001
	assert.ErrorIs(t, req.Validate(), ErrInvalidFeeBps)

	req.SellerFeeBasisPoints = 0
	req.URI = " "
	assert.ErrorIs(t, req.Validate(), ErrEmptyURI)
}

func TestResultIdentifier(t *testing.T) {
	assert.Equal(t, "mintAddr", Result{Kind: KindCreateMint, Address: "mintAddr", Signature: "sig"}.Identifier())
	assert.Equal(t, "https://x/y", Result{Kind: KindUploadMetadata, URI: "https://x/y"}.Identifier())
	assert.Equal(t, "sig", Result{Kind: KindTransfer, Signature: "sig"}.Identifier())
}

func TestMetadataRecordEncode(t *testing.T) {
	rec := MetadataRecord{Name: "Tyrex Lads", Symbol: "TRX"}
	data, err := rec.Encode()
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []any{}, raw["attributes"])
	assert.Equal(t, []any{}, raw["creators"])
	assert.Equal(t, map[string]any{"files": []any{}}, raw["properties"])
	assert.NotContains(t, raw, "description")
}

func TestParseMetadataRecord(t *testing.T) {
	rec, err := ParseMetadataRecord([]byte(`{
		"name": "Tyrex Lads",
		"symbol": "TRX",
		"image": "https://gateway.irys.xyz/img",
		"attributes": [{"trait_type": "fun", "value": "high"}],
		"properties": {"files": [{"type": "image/png", "uri": "image"}]},
		"creators": []
	}`))
	require.NoError(t, err)
	assert.Equal(t, "fun", rec.Attributes[0].TraitType)
	assert.Equal(t, "image/png", rec.Properties.Files[0].Type)

	_, err = ParseMetadataRecord([]byte(`{"name": "x",`))
	assert.Error(t, err)

	_, err = ParseMetadataRecord([]byte(`["name", "symbol"]`))
	assert.Error(t, err)

	_, err = ParseMetadataRecord([]byte(`{"symbol": "X"}`))
	assert.ErrorIs(t, err, ErrEmptyName)

	built := MetadataRecord{Name: "x", Symbol: "X", Creators: []MetadataCreator{{Address: "a", Share: 50}}}
	assert.Error(t, built.Validate())
}

func TestErrorKinds(t *testing.T) {
	base := errors.New("boom")

	err := NewError(KindTransfer, ErrorKindSubmission, base)
	assert.Equal(t, ErrorKindSubmission, KindOf(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, 7, ExitCode(err))
	assert.Contains(t, err.Error(), "spl_transfer")

	// deadline always classifies as timeout
	err = NewError(KindTransfer, ErrorKindSubmission, fmt.Errorf("send: %w", context.DeadlineExceeded))
	assert.Equal(t, ErrorKindTimeout, KindOf(err))

	// an already-typed error keeps its kind
	inner := &Error{Kind: ErrorKindCredential, Err: base}
	err = NewError(KindCreateMint, ErrorKindSession, inner)
	assert.Equal(t, ErrorKindCredential, KindOf(err))
	var typed *Error
	require.ErrorAs(t, err, &typed)
	assert.Equal(t, KindCreateMint, typed.Op)

	assert.Nil(t, NewError(KindCreateMint, ErrorKindSession, nil))
	assert.Equal(t, 0, ExitCode(nil))
	assert.Equal(t, ErrorKindUnknown, KindOf(base))
	assert.Equal(t, 1, ExitCode(base))
}

func TestNewReceipt(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	end := start.Add(2 * time.Second)

	ok := NewReceipt("id-1", KindCreateMint, "signer", Result{Kind: KindCreateMint, Address: "mint", Signature: "sig"}, nil, start, end)
	assert.Equal(t, StatusSucceeded, ok.Status)
	assert.Equal(t, "mint", ok.Identifier)
	assert.Equal(t, "sig", ok.Signature)
	assert.Equal(t, 2*time.Second, ok.Duration())

	failed := NewReceipt("id-2", KindTransfer, "signer", Result{}, NewError(KindTransfer, ErrorKindValidation, ErrZeroAmount), start, end)
	assert.Equal(t, StatusFailed, failed.Status)
	assert.Equal(t, ErrorKindValidation, failed.ErrorKind)
	assert.Empty(t, failed.Identifier)
	assert.Contains(t, failed.ErrorMsg, "amount")
}

const fullMetaplexDoc = `{
  "name": "Tyrex Lads #7",
  "symbol": "TRX",
  "description": "Rugged NFT for you",
  "seller_fee_basis_points": 500,
  "image": "https://gateway.irys.xyz/img",
  "animation_url": "https://gateway.irys.xyz/anim.mp4",
  "external_url": "https://example.com/7",
  "attributes": [{"trait_type": "fun", "value": "high"}, {"trait_type": "level", "value": 5}],
  "collection": {"name": "Tyrex Lads", "family": "Lads"},
  "properties": {
    "files": [{"type": "image/png", "uri": "image"}],
    "category": "image",
    "creators": [{"address": "CaHfSLGKiGhV7Yy1HEiPHS4iaXYdcZhnUXFPaw2fUZKN", "share": 40}]
  },
  "creators": []
}`

func TestParseMetadataRecordKeepsDocumentBytes(t *testing.T) {
	rec, err := ParseMetadataRecord([]byte(fullMetaplexDoc))
	require.NoError(t, err)
	assert.Equal(t, "Tyrex Lads #7", rec.Name)
	assert.Equal(t, float64(5), rec.Attributes[1].Value)

	data, err := rec.Encode()
	require.NoError(t, err)
	assert.Equal(t, fullMetaplexDoc, string(data))
}
