package errors

import "net/http"

const ErrorTypeInvalidCredentials ErrorType = "invalid_credentials"

// NewInvalidCredentialsError is returned for any failed staff login. The
// message is identical for unknown e-mail and wrong password.
func NewInvalidCredentialsError() *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidCredentials,
		Message: "Invalid email or password",
		Code:    http.StatusUnauthorized,
	}
}
