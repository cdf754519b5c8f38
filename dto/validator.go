package dto

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("flat_metrics", validateFlatMetrics)
}

func GetValidator() *validator.Validate {
	return validate
}

// validateFlatMetrics accepts a map whose values are all numbers or booleans.
func validateFlatMetrics(fl validator.FieldLevel) bool {
	metrics, ok := fl.Field().Interface().(map[string]interface{})
	if !ok {
		return false
	}
	for _, v := range metrics {
		switch v.(type) {
		case bool, float64, float32, int, int64, int32, json.Number:
		default:
			return false
		}
	}
	return true
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors"`
}

func FormatValidationErrors(err error) []ValidationError {
	var errors []ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			var message string

			switch fieldError.Tag() {
			case "required":
				message = fieldError.Field() + " is required"
			case "min":
				message = fieldError.Field() + " must be at least " + fieldError.Param()
			case "max":
				message = fieldError.Field() + " must be at most " + fieldError.Param()
			case "ltefield":
				message = fieldError.Field() + " must not exceed " + fieldError.Param()
			case "oneof":
				message = fieldError.Field() + " must be one of: " + fieldError.Param()
			case "flat_metrics":
				message = fieldError.Field() + " must only contain numeric or boolean values"
			default:
				message = fieldError.Field() + " is invalid"
			}

			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Message: message,
			})
		}
	}

	return errors
}

type Validator interface {
	Validate() error
}

func CreateValidationErrorResponse(err error) ValidationErrorResponse {
	return ValidationErrorResponse{
		Code:    400,
		Message: "Validation failed",
		Errors:  FormatValidationErrors(err),
	}
}
