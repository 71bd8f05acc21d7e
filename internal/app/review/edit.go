package review

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/caterbazar/caterbazar-console/internal/app/model"
	apperrors "github.com/caterbazar/caterbazar-console/internal/errors"
	"github.com/go-playground/validator/v10"
)

// RegistrationEdit is the set of registration fields an admin may correct.
// Edits are allowed whatever the registration's status.
type RegistrationEdit struct {
	BrandName      string               `json:"brandName" validate:"required"`
	BusinessEmail  string               `json:"businessEmail" validate:"required"`
	BusinessMobile string               `json:"businessMobile" validate:"required"`
	Location       string               `json:"location" validate:"required"`
	VendorCategory model.VendorCategory `json:"vendorCategory" validate:"required,vendor_category"`
	ReferID        string               `json:"referId"`
}

// EditPayload is the request body for the update endpoint.
type EditPayload struct {
	BrandName      string               `json:"brandName"`
	BusinessEmail  string               `json:"businessEmail"`
	BusinessMobile string               `json:"businessMobile"`
	Location       string               `json:"location"`
	VendorCategory model.VendorCategory `json:"vendorCategory"`
	ReferID        string               `json:"referId"`
}

// FromRegistration prefills an edit with the registration's current values.
func FromRegistration(r model.BusinessRegistration) RegistrationEdit {
	return RegistrationEdit{
		BrandName:      r.BrandName,
		BusinessEmail:  r.BusinessEmail,
		BusinessMobile: r.BusinessMobile,
		Location:       r.Location,
		VendorCategory: r.VendorCategory,
		ReferID:        r.ReferID,
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func editValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		// Registration happens once, before any concurrent use.
		_ = validate.RegisterValidation("vendor_category", func(fl validator.FieldLevel) bool {
			return model.VendorCategory(fl.Field().String()).IsValid()
		})
	})
	return validate
}

// ValidateEdit trims the edit, checks the required fields and the category catalog,
// and returns the payload to send. The first failing field is reported.
func ValidateEdit(edit RegistrationEdit) (*EditPayload, error) {
	trimmed := RegistrationEdit{
		BrandName:      strings.TrimSpace(edit.BrandName),
		BusinessEmail:  strings.TrimSpace(edit.BusinessEmail),
		BusinessMobile: strings.TrimSpace(edit.BusinessMobile),
		Location:       strings.TrimSpace(edit.Location),
		VendorCategory: model.VendorCategory(strings.TrimSpace(string(edit.VendorCategory))),
		ReferID:        strings.TrimSpace(edit.ReferID),
	}

	if err := editValidator().Struct(trimmed); err != nil {
		var fieldErrs validator.ValidationErrors
		if stderrors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return nil, toValidationError(fieldErrs[0])
		}
		return nil, fmt.Errorf("validate registration edit: %w", err)
	}

	return &EditPayload{
		BrandName:      trimmed.BrandName,
		BusinessEmail:  trimmed.BusinessEmail,
		BusinessMobile: trimmed.BusinessMobile,
		Location:       trimmed.Location,
		VendorCategory: trimmed.VendorCategory,
		ReferID:        trimmed.ReferID,
	}, nil
}

var editFieldLabels = map[string]string{
	"brandName":      "Brand name",
	"businessEmail":  "Business email",
	"businessMobile": "Business mobile",
	"location":       "Location",
	"vendorCategory": "Vendor category",
}

func toValidationError(fe validator.FieldError) *apperrors.ValidationError {
	label := editFieldLabels[fe.Field()]
	if label == "" {
		label = fe.Field()
	}
	if fe.Tag() == "vendor_category" {
		return apperrors.NewValidation(fe.Field(), apperrors.ValidationInvalidValue,
			fmt.Sprintf("%s %q is not a known category.", label, fe.Value()))
	}
	return apperrors.NewValidation(fe.Field(), apperrors.ValidationRequired, label+" is required.")
}
