package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	id "tourmint/pkg/domain"
	dErrors "tourmint/pkg/domain-errors"
	"tourmint/pkg/requestcontext"
)

// KindCoder is implemented by registry error kinds that carry a stable numeric code.
type KindCoder interface {
	error
	ErrorCode() int
	KindName() string
}

// ErrorResponse is the JSON body for every failed request.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"error_description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
	Kind        string `json:"error_kind,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError centralizes domain error translation to HTTP responses.
// When the chain carries a registry error kind, its numeric code is included.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if !errors.As(err, &domainErr) {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: DomainCodeToHTTPCode(dErrors.CodeInternal),
		})
		return
	}

	response := ErrorResponse{
		Error:       DomainCodeToHTTPCode(domainErr.Code),
		Description: domainErr.Message,
	}
	var kind KindCoder
	if errors.As(err, &kind) {
		response.ErrorCode = kind.ErrorCode()
		response.Kind = kind.KindName()
	}
	WriteJSON(w, DomainCodeToHTTPStatus(domainErr.Code), response)
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodePaymentRequired:
		return http.StatusPaymentRequired
	case dErrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	case dErrors.CodeTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// DomainCodeToHTTPCode translates domain error codes to the JSON "error" string.
func DomainCodeToHTTPCode(code dErrors.Code) string {
	switch code {
	case dErrors.CodeNotFound:
		return "not_found"
	case dErrors.CodeBadRequest, dErrors.CodeInvalidInput:
		return "bad_request"
	case dErrors.CodeValidation, dErrors.CodeInvariantViolation:
		return "validation_error"
	case dErrors.CodeConflict:
		return "conflict"
	case dErrors.CodeUnauthorized:
		return "unauthorized"
	case dErrors.CodeForbidden:
		return "forbidden"
	case dErrors.CodePaymentRequired:
		return "payment_required"
	case dErrors.CodeUnavailable:
		return "unavailable"
	case dErrors.CodeTimeout:
		return "timeout"
	case dErrors.CodeTooLarge:
		return "request_too_large"
	default:
		return "internal_error"
	}
}

// RequireCaller extracts the authenticated caller from context.
// A missing caller behind the caller middleware is a wiring bug, reported as internal.
func RequireCaller(ctx context.Context, logger *slog.Logger) (id.Identity, error) {
	caller := requestcontext.Caller(ctx)
	if caller.IsNil() {
		if logger != nil {
			logger.ErrorContext(ctx, "caller missing from context despite caller middleware",
				"request_id", requestcontext.RequestID(ctx))
		}
		return "", dErrors.New(dErrors.CodeInternal, "authentication context error")
	}
	return caller, nil
}
