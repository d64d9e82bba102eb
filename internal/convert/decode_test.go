package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInput(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		want     string
		encoding string
	}{
		{"plain utf-8", []byte("Assunto;Data\nReunião;1/1/2024\n"), "Assunto;Data\nReunião;1/1/2024\n", EncodingUTF8},
		{"utf-8 with bom", []byte("\xef\xbb\xbfAssunto"), "Assunto", EncodingUTF8},
		{"windows-1252", []byte("Reuni\xe3o \x80"), "Reunião €", EncodingWindows1252},
		{"empty", nil, "", EncodingUTF8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, enc, err := decodeInput(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.encoding, enc)
		})
	}
}
