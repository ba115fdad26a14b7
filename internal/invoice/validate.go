package invoice

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/MrJamesThe3rd/invoicer/internal/logo"
)

// Field names a form field, as it appears on the wire.
type Field string

const (
	FieldBusinessName       Field = "businessName"
	FieldCurrency           Field = "currency"
	FieldInvoiceNumber      Field = "invoiceNumber"
	FieldClientName         Field = "clientName"
	FieldInvoiceDate        Field = "invoiceDate"
	FieldDueDate            Field = "dueDate"
	FieldServiceDescription Field = "serviceDescription"
	FieldQuantity           Field = "quantity"
	FieldRate               Field = "rate"
	FieldTaxRate            Field = "taxRate"
	FieldAdditionalNotes    Field = "additionalNotes"
	FieldWatermark          Field = "watermark"
	FieldLogo               Field = "logo"
)

// Reason is why a field failed validation.
type Reason string

const (
	ReasonRequired         Reason = "required"
	ReasonNotANumber       Reason = "not_a_number"
	ReasonBelowMinimum     Reason = "below_minimum"
	ReasonDueBeforeInvoice Reason = "due_before_invoice"
	ReasonLogoType         Reason = "logo_type"
	ReasonLogoTooLarge     Reason = "logo_too_large"
	ReasonInvalid          Reason = "invalid"
)

func (r Reason) Message() string {
	switch r {
	case ReasonRequired:
		return "This field is required"
	case ReasonNotANumber:
		return "Please enter a valid number"
	case ReasonBelowMinimum:
		return "Value must not be negative"
	case ReasonDueBeforeInvoice:
		return "Due date must be after invoice date"
	case ReasonLogoType:
		return "Please upload a valid image file"
	case ReasonLogoTooLarge:
		return "Image size should be less than 2MB"
	}

	return "Invalid value"
}

// GenericPrompt is shown when any field fails.
const GenericPrompt = "Please fill in all required fields correctly"

// Errors maps each failing field to its reason. An empty map means the form is valid.
type Errors map[Field]Reason

func (e Errors) OK() bool {
	return len(e) == 0
}

// Fields returns the failing fields in a stable order.
func (e Errors) Fields() []Field {
	fields := make([]Field, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}

	slices.Sort(fields)

	return fields
}

// ValidationError carries the field failures out of operations that refuse invalid input.
type ValidationError struct {
	Errors Errors
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors.Fields() {
		parts = append(parts, string(f)+": "+string(e.Errors[f]))
	}

	return "invalid invoice (" + strings.Join(parts, ", ") + ")"
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})

	return v
}

var tagReasons = map[string]Reason{
	"notblank": ReasonRequired,
	"required": ReasonRequired,
	"finite":   ReasonNotANumber,
	"min":      ReasonBelowMinimum,
	"gtefield": ReasonDueBeforeInvoice,
}

// Validate checks every field and reports all failures; it never stops at the first one.
func Validate(in Input) Errors {
	errs := Errors{}

	if err := validate.Struct(in); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			errs[Field("form")] = ReasonInvalid
			return errs
		}

		for _, fe := range fieldErrs {
			reason, ok := tagReasons[fe.Tag()]
			if !ok {
				reason = ReasonInvalid
			}

			errs[Field(fe.Field())] = reason
		}
	}

	if in.Logo != nil {
		if err := logo.Check(in.Logo.MIME, in.Logo.Size()); err != nil {
			errs[FieldLogo] = ReasonLogoType
			if errors.Is(err, logo.ErrTooLarge) {
				errs[FieldLogo] = ReasonLogoTooLarge
			}
		}
	}

	return errs
}

// ValidateField reports the failure of a single field, or "" when it passes. Cross-field rules
// such as the due date see the rest of the input.
func ValidateField(in Input, f Field) Reason {
	return Validate(in)[f]
}
