package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Reason codes shared by every handler. Domain errors define their own in
// the transport layer.
const (
	CodeBadRequest       = "bad_request"
	CodeValidationFailed = "validation_failed"
	CodeUnauthorized     = "unauthorized"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeConflict         = "conflict"
	CodeRateLimited      = "rate_limited"
	CodeInternal         = "internal_error"
	CodeUnavailable      = "unavailable"
)

var codeByStatus = map[int]string{
	http.StatusBadRequest:          CodeBadRequest,
	http.StatusUnauthorized:        CodeUnauthorized,
	http.StatusForbidden:           CodeForbidden,
	http.StatusNotFound:            CodeNotFound,
	http.StatusConflict:            CodeConflict,
	http.StatusTooManyRequests:     CodeRateLimited,
	http.StatusInternalServerError: CodeInternal,
	http.StatusServiceUnavailable:  CodeUnavailable,
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable reason code next to the human message.
// Clients branch on Code; Message may change wording.
type ErrorDetail struct {
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// RespondWithError writes an error with the generic code for statusCode
func RespondWithError(w http.ResponseWriter, statusCode int, message string) {
	RespondWithErrorCode(w, statusCode, codeForStatus(statusCode), message)
}

// RespondWithErrorCode writes an error with an explicit reason code such as
// "empty_cart" or "insufficient_stock"
func RespondWithErrorCode(w http.ResponseWriter, statusCode int, code, message string) {
	writeError(w, statusCode, ErrorDetail{Code: code, Message: message})
}

// RespondWithValidationErrors reports the failed request fields
func RespondWithValidationErrors(w http.ResponseWriter, errors []ValidationError) {
	writeError(w, http.StatusBadRequest, ErrorDetail{
		Code:    CodeValidationFailed,
		Message: "validation failed",
		Details: map[string]interface{}{"validation_errors": errors},
	})
}

func writeError(w http.ResponseWriter, statusCode int, detail ErrorDetail) {
	detail.Timestamp = time.Now().UTC().Format(time.RFC3339)
	RespondWithJSON(w, statusCode, ErrorResponse{Error: detail})
}

func codeForStatus(statusCode int) string {
	if code, ok := codeByStatus[statusCode]; ok {
		return code
	}
	if statusCode >= http.StatusInternalServerError {
		return CodeInternal
	}
	return CodeBadRequest
}

// ErrorHandlingMiddleware turns a panicking handler into a logged 500. The
// panic value never reaches the client.
func ErrorHandlingMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("Panic recovered",
						zap.Any("error", err),
						zap.String("request_id", middleware.GetReqID(r.Context())),
						zap.String("path", r.URL.Path),
						zap.String("method", r.Method),
						zap.Stack("stack"),
					)

					RespondWithError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// RespondWithJSON sends a JSON response
func RespondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
