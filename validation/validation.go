package validation

import (
	"errors"
	"regexp"
	"strings"

	"cfp/apperrors"

	"github.com/go-playground/validator/v10"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	return v
}

// Struct validates s and turns failures into a VALIDATION_FAILED error with
// one readable clause per field.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation(err.Error())
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())
		param := fe.Param()

		switch fe.Tag() {
		case "required", "required_unless":
			msgs = append(msgs, field+" is required")
		case "min":
			msgs = append(msgs, field+" must be at least "+param)
		case "max":
			msgs = append(msgs, field+" must be at most "+param)
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+param)
		case "slug":
			msgs = append(msgs, field+" must contain only lowercase letters, digits and dashes")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return apperrors.Validation(strings.Join(msgs, ", "))
}
