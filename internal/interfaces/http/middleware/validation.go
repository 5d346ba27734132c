package middleware

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/retailcore/engine/internal/interfaces/http/dto"
)

// SetupValidator rewires gin's binding validator to report field names from
// json tags, so error details match the payload the client actually sent.
// Call once at startup before any request binding happens.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// HandleValidationError writes a 400 with one detail entry per failed field.
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, FormatValidationErrors(err, requestIDFrom(c)))
}

// FormatValidationErrors flattens validator.ValidationErrors into the shared
// error envelope. Non-validator errors produce an envelope with no details.
func FormatValidationErrors(err error, requestID string) dto.Response {
	var details []dto.ValidationDetail
	if fieldErrors, ok := err.(validator.ValidationErrors); ok {
		details = make([]dto.ValidationDetail, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			details = append(details, dto.ValidationDetail{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
	}
	return dto.NewValidationErrorResponse("Request validation failed", requestID, details)
}

func requestIDFrom(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(RequestIDKey)
}

// validationMessages covers the binding tags the request DTOs use.
var validationMessages = map[string]string{
	"required": "This field is required",
	"oneof":    "Must be one of: %s",
	"gte":      "Must be at least %s",
	"lte":      "Must be at most %s",
	"gt":       "Must be greater than %s",
	"lt":       "Must be less than %s",
	"numeric":  "Must be numeric",
}

func fieldMessage(fe validator.FieldError) string {
	msg, ok := validationMessages[fe.Tag()]
	if !ok {
		return "Invalid value"
	}
	if strings.Contains(msg, "%s") {
		return fmt.Sprintf(msg, fe.Param())
	}
	return msg
}
