package jsonfile_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/importer/jsonfile"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []invoice.Form
		wantErr bool
	}{
		{
			name:  "SingleObject",
			input: `  {"clientName": "Jane", "quantity": 3, "rate": "150"}`,
			want:  []invoice.Form{{ClientName: "Jane", Quantity: "3", Rate: "150"}},
		},
		{
			name:  "Array",
			input: "\ufeff[{\"clientName\": \"Jane\"}, {\"clientName\": \"Bob\", \"watermark\": true}]",
			want:  []invoice.Form{{ClientName: "Jane"}, {ClientName: "Bob", Watermark: true}},
		},
		{
			name:  "Empty",
			input: " \n ",
			want:  nil,
		},
		{
			name:    "Scalar",
			input:   `"invoice"`,
			wantErr: true,
		},
		{
			name:    "Broken",
			input:   `[{"clientName": }]`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := jsonfile.NewParser().Parse(strings.NewReader(tt.input))

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
