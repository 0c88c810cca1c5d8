package solana

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solstarter/internal/domain/operation"
)

func writeKeypairFile(t *testing.T, body []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, os.WriteFile(p, body, 0o600))
	return p
}

func TestFileKeypairLoaderRoundTrip(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)
	body, err := EncodeKeypairJSON(kp)
	require.NoError(t, err)

	got, err := NewFileKeypairLoader(writeKeypairFile(t, body)).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, got.PublicKey)
	assert.Equal(t, kp.Bytes(), got.Bytes())
}

func TestFileKeypairLoaderFailures(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
		want error
	}{
		{"missing", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.json") }, ErrKeypairFileNotFound},
		{"not json", func(t *testing.T) string { return writeKeypairFile(t, []byte("hello")) }, ErrKeypairMalformed},
		{"short", func(t *testing.T) string { return writeKeypairFile(t, []byte("[1,2,3]")) }, ErrKeypairMalformed},
		{"out of range", func(t *testing.T) string {
			b := []byte("[256")
			for i := 1; i < 64; i++ {
				b = append(b, []byte(",1")...)
			}
			return writeKeypairFile(t, append(b, ']'))
		}, ErrKeypairMalformed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFileKeypairLoader(tc.path(t)).Load(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, operation.ErrorKindCredential, operation.KindOf(err))
		})
	}
}

func TestBase58RoundTrip(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	got, err := KeypairFromBase58(EncodeKeypairBase58(kp))
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, got.PublicKey)

	_, err = KeypairFromBase58("0OIl")
	assert.ErrorIs(t, err, ErrKeypairMalformed)
}

func TestToAccountMatchesLoadedKey(t *testing.T) {
	kp, err := GenerateKeypair()
	require.NoError(t, err)

	acc, err := toAccount(kp)
	require.NoError(t, err)
	assert.Equal(t, kp.PublicKey, acc.PublicKey.ToBase58())
}
