package acl

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/inspirehub/internal/adapters/clients"
	"github.com/jsamuelsen/inspirehub/internal/domain"
)

// maxErrorBody caps how much of an error body is read for diagnostics.
const maxErrorBody = 64 << 10

// ErrorResponse is the Google API error envelope:
//
//	{"error": {"code": 429, "message": "...", "status": "RESOURCE_EXHAUSTED"}}
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the body of an ErrorResponse.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// ParseErrorResponse decodes an error envelope. It returns nil when the
// body is empty, not JSON, or carries no message or status.
func ParseErrorResponse(body io.Reader) *ErrorResponse {
	if body == nil {
		return nil
	}

	var resp ErrorResponse
	if err := json.NewDecoder(io.LimitReader(body, maxErrorBody)).Decode(&resp); err != nil {
		return nil
	}

	if resp.Error.Message == "" && resp.Error.Status == "" {
		return nil
	}

	return &resp
}

// MapHTTPError translates a failed exchange into domain.ErrUnavailable.
// clientErr takes precedence; otherwise resp must carry a non-2xx status
// and its body is parsed for the downstream's own explanation. A 2xx
// response with no client error maps to nil.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation string) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, operation)
	}

	if resp == nil {
		return domain.NewUnavailableError(serviceName, operation+": no response received")
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	reason := fmt.Sprintf("%s: %s", operation, defaultMessageForStatus(resp.StatusCode))

	if er := ParseErrorResponse(resp.Body); er != nil {
		reason = fmt.Sprintf("%s: %d %s", operation, resp.StatusCode, describe(er.Error))
	}

	return domain.NewUnavailableError(serviceName, reason)
}

func mapClientError(err error, serviceName, operation string) error {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return domain.NewUnavailableError(serviceName, operation+": circuit breaker open")
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return domain.NewUnavailableError(serviceName, operation+": max retries exceeded")
	default:
		return domain.NewUnavailableError(serviceName, fmt.Sprintf("%s failed: %v", operation, err))
	}
}

func describe(d ErrorDetail) string {
	switch {
	case d.Status != "" && d.Message != "":
		return d.Status + ": " + d.Message
	case d.Message != "":
		return d.Message
	default:
		return d.Status
	}
}

func defaultMessageForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid request"
	case http.StatusUnauthorized, http.StatusForbidden:
		return "credentials rejected"
	case http.StatusNotFound:
		return "model not found"
	case http.StatusTooManyRequests:
		return "rate limit exceeded"
	case http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return fmt.Sprintf("unexpected status %d", status)
	}
}
