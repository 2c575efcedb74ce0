package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/sozercan/rizziq/internal/apperrors"
)

// Reason classifies why a completion call failed.
type Reason string

const (
	ReasonAuthentication Reason = "authentication"
	ReasonQuota          Reason = "quota"
	ReasonBadRequest     Reason = "bad_request"
	ReasonForbidden      Reason = "forbidden"
	ReasonServer         Reason = "server_error"
	ReasonUnavailable    Reason = "unavailable"
	ReasonUnknown        Reason = "unknown"
)

// UpstreamError is a failed completion call. Message never contains the API key.
type UpstreamError struct {
	Provider   string
	Reason     Reason
	StatusCode int
	Code       string
	Type       string
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s %s (status %d, code %q): %s", e.Provider, e.Reason, e.StatusCode, e.Code, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// CallerMessage is the fixed message shown to the caller for this failure.
func (e *UpstreamError) CallerMessage() string {
	switch e.Reason {
	case ReasonAuthentication:
		return "401 Unauthorized"
	case ReasonQuota:
		return "429 Quota Exceeded"
	case ReasonBadRequest:
		return "400 Bad Request: " + e.Message
	case ReasonForbidden:
		return "403 Forbidden"
	case ReasonServer:
		return "500 " + e.Provider + " server error"
	case ReasonUnavailable:
		return "503 " + e.Provider + " service unavailable"
	default:
		if e.Message != "" {
			return e.Message
		}
		return e.Provider + " request failed."
	}
}

// ReasonForStatus maps an upstream HTTP status code to a Reason.
func ReasonForStatus(status int) Reason {
	switch status {
	case http.StatusUnauthorized:
		return ReasonAuthentication
	case http.StatusTooManyRequests:
		return ReasonQuota
	case http.StatusBadRequest:
		return ReasonBadRequest
	case http.StatusForbidden:
		return ReasonForbidden
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout, 529:
		return ReasonUnavailable
	}
	if status >= 500 && status <= 599 {
		return ReasonServer
	}
	return ReasonUnknown
}

// reasonForCode maps provider error codes that identify a failure on their own.
func reasonForCode(code string) Reason {
	switch code {
	case "invalid_api_key", "authentication_error":
		return ReasonAuthentication
	case "rate_limit_exceeded", "insufficient_quota", "rate_limit_error":
		return ReasonQuota
	case "permission_error":
		return ReasonForbidden
	case "overloaded_error":
		return ReasonUnavailable
	case "api_error":
		return ReasonServer
	}
	return ReasonUnknown
}

// transportReason classifies failures that never produced an HTTP response.
func transportReason(err error) Reason {
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ReasonUnavailable
	}
	return ReasonUnknown
}

// classify fills in Reason from the status, then the code, then the transport error.
func (e *UpstreamError) classify() *UpstreamError {
	if e.Reason != "" && e.Reason != ReasonUnknown {
		return e
	}
	e.Reason = ReasonForStatus(e.StatusCode)
	if e.Reason == ReasonUnknown {
		e.Reason = reasonForCode(e.Code)
	}
	if e.Reason == ReasonUnknown {
		e.Reason = reasonForCode(e.Type)
	}
	if e.Reason == ReasonUnknown && e.StatusCode == 0 && e.Err != nil {
		e.Reason = transportReason(e.Err)
	}
	return e
}

// redact removes secret from s.
func redact(s, secret string) string {
	if secret == "" {
		return s
	}
	return strings.ReplaceAll(s, secret, "[redacted]")
}

func missingCredential(envVar string) error {
	return apperrors.New(apperrors.KindConfiguration, "llm.CheckCredentials", envVar+" is not configured.")
}
