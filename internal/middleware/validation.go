package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/oguzk/campdir/internal/app/models/dto"
)

// HandleBindingError turns a gin binding failure into a 400 response
// with readable field messages.
func HandleBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(bindingErrorMessage(err)))
}

func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, formatValidationError(e))
	}
	return strings.Join(messages, "; ")
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "url":
		return e.Field() + " must be a valid URL"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	default:
		return e.Field() + " failed validation rule " + e.Tag()
	}
}
