package invoice

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logo"
)

// maxFormMemory leaves room for the text fields on top of the largest accepted logo.
const maxFormMemory = logo.MaxSize + 1<<20

// maxBodySize also fits a logo sent base64-encoded inside a JSON body.
const maxBodySize = 2 * logo.MaxSize

var errLogo = errors.New("logo upload failed")

// decodeForm reads an invoice from a JSON body or from a multipart form with an optional
// "logo" file part.
func decodeForm(r *http.Request) (invoice.Form, *logo.Image, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return decodeMultipart(r)
	}

	var f invoice.Form
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		return f, nil, fmt.Errorf("invalid request body: %w", err)
	}

	return f, nil, nil
}

func decodeMultipart(r *http.Request) (invoice.Form, *logo.Image, error) {
	var f invoice.Form

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return f, nil, fmt.Errorf("failed to parse form: %w", err)
	}

	f = invoice.Form{
		BusinessName:       r.FormValue(string(invoice.FieldBusinessName)),
		Currency:           r.FormValue(string(invoice.FieldCurrency)),
		InvoiceNumber:      r.FormValue(string(invoice.FieldInvoiceNumber)),
		ClientName:         r.FormValue(string(invoice.FieldClientName)),
		InvoiceDate:        r.FormValue(string(invoice.FieldInvoiceDate)),
		DueDate:            r.FormValue(string(invoice.FieldDueDate)),
		ServiceDescription: r.FormValue(string(invoice.FieldServiceDescription)),
		Quantity:           invoice.Raw(r.FormValue(string(invoice.FieldQuantity))),
		Rate:               invoice.Raw(r.FormValue(string(invoice.FieldRate))),
		TaxRate:            invoice.Raw(r.FormValue(string(invoice.FieldTaxRate))),
		AdditionalNotes:    r.FormValue(string(invoice.FieldAdditionalNotes)),
		LogoDataURL:        r.FormValue("logoDataUrl"),
	}
	f.Watermark, _ = strconv.ParseBool(r.FormValue(string(invoice.FieldWatermark)))

	file, header, err := r.FormFile(string(invoice.FieldLogo))
	if errors.Is(err, http.ErrMissingFile) {
		return f, nil, nil
	}

	if err != nil {
		return f, nil, fmt.Errorf("%w: %w", errLogo, err)
	}
	defer file.Close()

	upload := logo.Begin(header.Filename, header.Header.Get("Content-Type"), header.Size)
	if err := upload.Resolve(file); err != nil {
		return f, nil, fmt.Errorf("%w: %w", errLogo, err)
	}

	return f, upload.Image(), nil
}

// readInput decodes and parses the request. A logo file part wins over logoDataUrl.
func readInput(r *http.Request) (invoice.Input, error) {
	f, img, err := decodeForm(r)
	if err != nil {
		return invoice.Input{}, err
	}

	if img != nil {
		f.LogoDataURL = ""
	}

	in, err := f.Input()
	if err != nil {
		return in, fmt.Errorf("%w: %w", errLogo, err)
	}

	if img != nil {
		in.Logo = img
	}

	return in, nil
}
