package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/invoicer/internal/encoding"
)

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "Client;Description\nCafé Müller;Rénovation\n"
	r, err := encoding.NewUTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestNewUTF8Reader_Latin1(t *testing.T) {
	// Windows-1252 encoded "Café;Müller\n": é = 0xE9, ü = 0xFC.
	latin1Bytes := []byte{
		'C', 'a', 'f', 0xE9, ';',
		'M', 0xFC, 'l', 'l', 'e', 'r', '\n',
	}

	r, err := encoding.NewUTF8Reader(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Café;Müller\n", string(got))
}

func TestNewUTF8Reader_UTF8BOM(t *testing.T) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	input := append(bom, []byte("Client;Description\n")...)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Client;Description\n", string(got))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input, err := enc.Bytes([]byte("Café\n"))
	require.NoError(t, err)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "Café\n", string(got))
}

func TestSniff_Charset(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"utf8", []byte("Client,Rate\nJane,150\n"), "UTF-8"},
		{"utf8 bom", []byte("\ufeffClient,Rate\n"), "UTF-8"},
		{"utf16le bom", []byte{0xFF, 0xFE, 'A', 0}, "UTF-16LE"},
		{"utf16be bom", []byte{0xFE, 0xFF, 0, 'A'}, "UTF-16BE"},
		{"empty", nil, "UTF-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, charset, err := encoding.Sniff(bytes.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, charset)
		})
	}
}

func TestSniff_LargeInput(t *testing.T) {
	input := bytes.Repeat([]byte("Jane;Design;150\n"), 1000)

	r, _, err := encoding.Sniff(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}
