package util

import (
	"errors"
	"fmt"
	"log"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type ApiError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func msgForTag(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%v is required", field)
	case "min":
		return fmt.Sprintf("%v must be at least %v characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%v must be at most %v characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%v must be one of: %v", field, fe.Param())
	case "strNotEmpty":
		return fmt.Sprintf("%v must not be empty or contain only whitespace characters", field)
	}

	log.Printf("Unknown tag: %v with error: %v", fe.Tag(), fe.Error())
	return fe.Error()
}

// GenerateErrorMessages extracts validation errors and returns them as an
// array of ApiError, one per failed field. Non-validator errors become a
// single entry, attributed to fieldName when one is given.
func GenerateErrorMessages(err error, fieldName ...string) []ApiError {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		out := make([]ApiError, len(ve))
		for i, fe := range ve {
			out[i] = ApiError{fe.Field(), msgForTag(fe)}
		}
		return out
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return []ApiError{
			{
				Field:   "Unknown",
				Message: "Record not found",
			},
		}
	}

	field := "Unknown"
	if len(fieldName) > 0 && fieldName[0] != "" {
		field = fieldName[0]
	}

	return []ApiError{
		{
			Field:   field,
			Message: err.Error(),
		},
	}
}

// check if string is empty, after trimming spaces
// Usage: `binding:"strNotEmpty"`
func StrNotEmpty(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}

	return len(strings.TrimSpace(field.String())) > 0
}
