package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRecordNotFound     = errors.New("record not found")
	ErrPurchaseNotFound   = errors.New("purchase not found")
	ErrNilUser            = errors.New("user is nil")
	ErrNilPurchase        = errors.New("purchase is nil")
	ErrInvalidStatus      = errors.New("invalid payment status")
	ErrAccessDenied       = errors.New("access denied by policy")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInternal           = errors.New("internal error")
)

// AppError carries the fields of the boundary error envelope. Services
// return sentinel errors; handlers wrap them into an AppError right before
// writing the response.
type AppError struct {
	StatusCode int         `json:"statusCode"`
	ErrorCode  string      `json:"errorCode"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

func NewValidation(message string, details interface{}) *AppError {
	return &AppError{StatusCode: 400, ErrorCode: "VALIDATION_ERROR", Message: message, Details: details}
}

func NewNotFound(resourceType string, id interface{}) *AppError {
	return &AppError{
		StatusCode: 404,
		ErrorCode:  "RESOURCE_NOT_FOUND",
		Message:    fmt.Sprintf("%s with identifier %v not found", resourceType, id),
	}
}

func NewAuthentication(message string) *AppError {
	return &AppError{StatusCode: 401, ErrorCode: "AUTHENTICATION_FAILED", Message: message}
}

func NewForbidden() *AppError {
	return &AppError{StatusCode: 403, ErrorCode: "ACCESS_DENIED", Message: "access denied by policy"}
}

func NewService(message string, details interface{}) *AppError {
	return &AppError{StatusCode: 503, ErrorCode: "SERVICE_ERROR", Message: message, Details: details}
}

type envelope struct {
	StatusCode int         `json:"statusCode"`
	ErrorCode  string      `json:"errorCode"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details"`
	Timestamp  string      `json:"timestamp"`
	Path       string      `json:"path"`
}

// WriteHTTP renders err as the uniform error envelope. Sentinel errors
// from lower layers are mapped to their HTTP equivalents; anything
// unrecognized becomes a 500.
func WriteHTTP(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		switch {
		case errors.Is(err, ErrRecordNotFound), errors.Is(err, ErrPurchaseNotFound), errors.Is(err, ErrUserNotFound):
			appErr = &AppError{StatusCode: 404, ErrorCode: "RESOURCE_NOT_FOUND", Message: err.Error()}
		case errors.Is(err, ErrInvalidCredentials):
			appErr = NewAuthentication("invalid credentials")
		case errors.Is(err, ErrAccessDenied):
			appErr = NewForbidden()
		case errors.Is(err, ErrEmailExists), errors.Is(err, ErrInvalidInput):
			appErr = NewValidation(err.Error(), nil)
		default:
			appErr = &AppError{StatusCode: 500, ErrorCode: "INTERNAL_ERROR", Message: err.Error()}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode)
	json.NewEncoder(w).Encode(envelope{
		StatusCode: appErr.StatusCode,
		ErrorCode:  appErr.ErrorCode,
		Message:    appErr.Message,
		Details:    appErr.Details,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       r.URL.Path,
	})
}
