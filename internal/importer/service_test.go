package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/importer"
)

func TestService_Import(t *testing.T) {
	svc := importer.NewService()

	forms, err := svc.Import(importer.FormatCSV, strings.NewReader("Client;Rate\nJane;10\n"))
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "Jane", forms[0].ClientName)

	forms, err = svc.Import(importer.FormatJSON, strings.NewReader(`{"clientName":"Bob"}`))
	require.NoError(t, err)
	require.Len(t, forms, 1)
	assert.Equal(t, "Bob", forms[0].ClientName)

	_, err = svc.Import("xlsx", strings.NewReader(""))
	assert.ErrorIs(t, err, importer.ErrUnknownFormat)
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    importer.Format
		wantErr bool
	}{
		{path: "batch.json", want: importer.FormatJSON},
		{path: "/tmp/January.CSV", want: importer.FormatCSV},
		{path: "export.txt", want: importer.FormatCSV},
		{path: "invoices.xlsx", wantErr: true},
	}

	for _, tt := range tests {
		got, err := importer.FormatFromPath(tt.path)
		if tt.wantErr {
			assert.ErrorIs(t, err, importer.ErrUnknownFormat)
			continue
		}

		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
