package validator

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "dentalave/pkg/errors"
	"dentalave/pkg/model"
)

// dateLayouts are tried in order when parsing the submitted date. The form
// sends RFC 3339, but bare date and local datetime strings are accepted too.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

type BookingValidator struct {
	validate *validator.Validate
}

func NewBookingValidator() *BookingValidator {
	return &BookingValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// ValidateRequest checks the submission and returns the parsed booking
// date. All failures map to a single validation error carrying per-field
// details so the client sees every problem at once.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) (time.Time, error) {
	if err := v.validate.Struct(req); err != nil {
		details := make(map[string]any)
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				details[fieldName(fe)] = messageFor(fe)
			}
		}
		return time.Time{}, apperrors.Validation("Missing required fields", details)
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return time.Time{}, apperrors.Validation("Invalid booking date", map[string]any{
			"date": "must be an RFC 3339 timestamp or a YYYY-MM-DD date",
		})
	}

	return date, nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %q", s)
}

func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.StructField()
	}
	// Struct fields are exported; the wire names are lowerCamel.
	return strings.ToLower(name[:1]) + name[1:]
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
