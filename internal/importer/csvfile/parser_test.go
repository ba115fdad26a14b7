package csvfile_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
)

func TestParser_Semicolon(t *testing.T) {
	csv := `Invoices to send - January 2024
Exported;12-01-2024

Business;Invoice No.;Client;Date;Description;Qty;Rate;VAT;Notes;Draft
Acme Studio;INV-001;Jane Doe;10-01-2024;Website redesign;3;1.234,50;23;Pay by transfer;yes
;;;;;;;;;
Acme Studio;INV-002;Bob Builder;2024-01-11;Logo;1;150;0;;
`

	forms, err := csvfile.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, forms, 2)

	assert.Equal(t, invoice.Form{
		BusinessName:       "Acme Studio",
		InvoiceNumber:      "INV-001",
		ClientName:         "Jane Doe",
		InvoiceDate:        "2024-01-10",
		DueDate:            "2024-02-09",
		ServiceDescription: "Website redesign",
		Quantity:           "3",
		Rate:               "1.234,50",
		TaxRate:            "23",
		AdditionalNotes:    "Pay by transfer",
		Watermark:          true,
	}, forms[0])

	assert.Equal(t, "Bob Builder", forms[1].ClientName)
	assert.Equal(t, "2024-02-10", forms[1].DueDate)
	assert.False(t, forms[1].Watermark)

	in, err := forms[0].Input()
	require.NoError(t, err)
	assert.Equal(t, 1234.5, in.Rate)
}

func TestParser_Comma(t *testing.T) {
	csv := "clientName,serviceDescription,quantity,rate,taxRate,invoiceDate,dueDate,currency\n" +
		"\"Doe, Jane\",Consulting,2,99.5,8,2024-03-01,2024-03-15,€\n"

	forms, err := csvfile.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, forms, 1)

	assert.Equal(t, "Doe, Jane", forms[0].ClientName)
	assert.Equal(t, invoice.Raw("99.5"), forms[0].Rate)
	assert.Equal(t, "2024-03-15", forms[0].DueDate)
	assert.Equal(t, "€", forms[0].Currency)
}

func TestParser_Windows1252(t *testing.T) {
	utf8CSV := "Client;Description;Rate\nCafé Müller;Rénovation;100\n"

	encoded, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	forms, err := csvfile.NewParser().Parse(bytes.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, forms, 1)

	assert.Equal(t, "Café Müller", forms[0].ClientName)
	assert.Equal(t, "Rénovation", forms[0].ServiceDescription)
}

func TestParser_UnparseableDateIsKept(t *testing.T) {
	csv := "Client;Date;Due\nJane;next tuesday;soon\n"

	forms, err := csvfile.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, forms, 1)

	assert.Equal(t, "next tuesday", forms[0].InvoiceDate)
	assert.Equal(t, "soon", forms[0].DueDate)
}

func TestParser_NoHeader(t *testing.T) {
	_, err := csvfile.NewParser().Parse(strings.NewReader("a;b;c\n1;2;3\n"))
	assert.ErrorIs(t, err, csvfile.ErrNoHeader)
}

func TestParser_Empty(t *testing.T) {
	forms, err := csvfile.NewParser().Parse(strings.NewReader("  \n"))
	require.NoError(t, err)
	assert.Empty(t, forms)
}

func TestParser_HeaderOnly(t *testing.T) {
	forms, err := csvfile.NewParser().Parse(strings.NewReader("Client;Rate\n"))
	require.NoError(t, err)
	assert.Empty(t, forms)
}
