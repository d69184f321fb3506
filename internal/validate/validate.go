package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/dmoreira/rentdesk/internal/errors"
	"github.com/dmoreira/rentdesk/internal/models"
)

// Validator wraps go-playground/validator with the tax-id and date rules the
// forms need.
type Validator struct {
	v *validator.Validate
}

// New builds a Validator with the custom rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterValidation("taxid", validTaxID)
	v.RegisterValidation("dateymd", validDateYMD)
	return &Validator{v: v}
}

// Struct validates a tagged struct and maps failures to a validation error.
func (val *Validator) Struct(s interface{}) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.Wrap(apperrors.ErrValidation, "validation failed", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return apperrors.New(apperrors.ErrValidation, strings.Join(msgs, "; "))
}

// Var validates a single value against a rule expression.
func (val *Validator) Var(field interface{}, tag string) error {
	if err := val.v.Var(field, tag); err != nil {
		return apperrors.Wrap(apperrors.ErrValidation, "validation failed", err)
	}
	return nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "taxid":
		return fmt.Sprintf("%s is not a valid CUIT or DNI", fe.Field())
	case "dateymd":
		return fmt.Sprintf("%s must be a YYYY-MM-DD date", fe.Field())
	case "email":
		return fmt.Sprintf("%s is not a valid email", fe.Field())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

var (
	digitsOnly = regexp.MustCompile(`[^0-9]`)
	// Weights for the CUIT check digit, applied to the first ten digits.
	cuitWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}
)

// validTaxID accepts either an 11-digit CUIT with a valid check digit or a
// 7-8 digit DNI. Separators (dashes, dots, spaces) are ignored.
func validTaxID(fl validator.FieldLevel) bool {
	return ValidTaxID(fl.Field().String())
}

// NormalizeTaxID strips separators so equal tax ids compare equal no matter
// how the user typed them.
func NormalizeTaxID(s string) string {
	return digitsOnly.ReplaceAllString(s, "")
}

// ValidTaxID reports whether s is a structurally valid CUIT or DNI.
func ValidTaxID(s string) bool {
	digits := NormalizeTaxID(s)
	switch len(digits) {
	case 7, 8:
		return true // DNI
	case 11:
		return cuitCheckDigit(digits) == int(digits[10]-'0')
	default:
		return false
	}
}

// cuitCheckDigit computes the mod-11 check digit over the first ten digits.
func cuitCheckDigit(digits string) int {
	sum := 0
	for i, w := range cuitWeights {
		sum += int(digits[i]-'0') * w
	}
	check := 11 - sum%11
	switch check {
	case 11:
		return 0
	case 10:
		return 9
	default:
		return check
	}
}

func validDateYMD(fl validator.FieldLevel) bool {
	return ValidDateYMD(fl.Field().String())
}

// ValidDateYMD reports whether s parses as a YYYY-MM-DD calendar date.
func ValidDateYMD(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}
