package web

import (
	"errors"

	"github.com/go-petr/pet-bank-payments/pkg/errorspkg"
	"github.com/go-playground/validator/v10"
)

// ErrInvalidRequest indicates a request that failed binding or validation.
var ErrInvalidRequest = errorspkg.New("INVALID_REQUEST", "invalid request")

// GetErrorMsg returns the human readable reason of a failed validation tag.
func GetErrorMsg(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return " is required"
	case "min":
		return " must be at least " + fe.Param()
	case "max":
		return " must be at most " + fe.Param()
	case "oneof":
		return " must be one of: " + fe.Param()
	case "uuid":
		return " must be a valid uuid"
	case "currency":
		return " is not supported"
	case "paymenttype":
		return " is not a supported payment type"
	}

	return " is invalid"
}

// ValidationError turns a binding error into a response naming the first invalid field.
func ValidationError(err error) Response {
	msg := ErrInvalidRequest.Message

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		msg = ve[0].Field() + GetErrorMsg(ve[0])
	}

	return Response{Error: &JSONError{Code: ErrInvalidRequest.Code, Message: msg}}
}
