package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeText(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		force   string
		want    string
		wantEnc string
	}{
		{"plain utf-8", []byte("Zürich"), "", "Zürich", EncodingUTF8},
		{"utf-8 bom", []byte("\xef\xbb\xbfParis"), "", "Paris", EncodingUTF8},
		{"latin-1 fallback", []byte("S\xe3o Paulo"), "", "São Paulo", EncodingWin1252},
		{"windows-1252 quote", []byte("Cote d\x92Ivoire"), "", "Cote d’Ivoire", EncodingWin1252},
		{"utf-16le bom", []byte{0xFF, 0xFE, 'O', 0, 'K', 0}, "", "OK", EncodingUTF16},
		{"forced latin1", []byte("M\xe9xico"), "latin1", "México", "windows-1252"},
		{"forced utf-8 strips bom", []byte("\xef\xbb\xbfRio"), "utf-8", "Rio", "utf-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := DecodeText(tt.data, tt.force)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantEnc, enc)
		})
	}
}

func TestDecodeText_UnknownEncoding(t *testing.T) {
	_, _, err := DecodeText([]byte("x"), "klingon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown encoding")
}
