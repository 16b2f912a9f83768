package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ventureflow/backend/internal/interfaces/http/dto"
)

// SetupValidator makes binding errors report JSON (or form) field names
func SetupValidator() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})
	}
}

// ValidationDetails converts validator errors into response details. Nested
// fields keep their dotted path below the top-level struct.
func ValidationDetails(err error) []dto.ValidationDetail {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}
	details := make([]dto.ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, dto.ValidationDetail{
			Field:   fieldPath(e),
			Message: getValidationMessage(e),
		})
	}
	return details
}

func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// HandleValidationError writes a 422 validation response
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity,
		dto.NewValidationErrorResponse("Request validation failed", GetRequestID(c), ValidationDetails(err)))
}

// fieldMessages phrase a failed tag; %s is the tag parameter
var fieldMessages = map[string]string{
	"required": "This field is required",
	"email":    "Invalid email format",
	"len":      "Must be exactly %s characters",
	"uuid":     "Invalid UUID format",
	"oneof":    "Must be one of: %s",
	"datetime": "Must match the format %s",
	"gte":      "Must be greater than or equal to %s",
	"lte":      "Must be less than or equal to %s",
	"gt":       "Must be greater than %s",
	"url":      "Invalid URL format",
	"dive":     "Invalid list item",
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "min", "max":
		bound := "least"
		if e.Tag() == "max" {
			bound = "most"
		}
		msg := "Must be at " + bound + " " + e.Param()
		if e.Kind() == reflect.String {
			msg += " characters"
		}
		return msg
	}
	format, ok := fieldMessages[e.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.Contains(format, "%s") {
		return fmt.Sprintf(format, e.Param())
	}
	return format
}
