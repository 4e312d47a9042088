// Package web defines common components for a web application.
package web

import "github.com/go-petr/pet-bank-payments/pkg/errorspkg"

// JSONError provides type for explicit json encoded error response.
type JSONError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error wraps a given err into json friendly struct.
//
// Errors without a stable code are reported as internal so no raw details leak to clients.
func Error(err error) Response {
	appErr := errorspkg.Public(err)

	return Response{Error: &JSONError{Code: appErr.Code, Message: appErr.Message}}
}

// Response holds the common response type for all APIs.
type Response struct {
	Data  any        `json:"data,omitempty"`
	Error *JSONError `json:"error,omitempty"`
}
