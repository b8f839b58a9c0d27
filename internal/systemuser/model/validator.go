package model

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once

	orgNoPattern = regexp.MustCompile(`^[0-9]{9}$`)
)

func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("orgno", func(fl validator.FieldLevel) bool {
			return orgNoPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// FormatValidationError converts validator errors to ErrorDetail
func FormatValidationError(err error) *ErrorDetail {
	if err == nil {
		return nil
	}

	// only the first failing field is reported
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		e := validationErrors[0]
		return &ErrorDetail{
			Code:    "bad_request",
			Message: "Field validation for '" + e.Field() + "' failed on the '" + e.Tag() + "' tag",
		}
	}

	return &ErrorDetail{
		Code:    "bad_request",
		Message: err.Error(),
	}
}
