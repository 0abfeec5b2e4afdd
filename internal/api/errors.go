package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Kind classifies an API failure for the callers' recovery policy.
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthenticated
	KindForbidden
	KindValidation
	KindConflict
	KindNotFound
	KindNetworkFailure
	KindServerError
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindNetworkFailure:
		return "network failure"
	case KindServerError:
		return "server error"
	default:
		return "unknown"
	}
}

// Error is a classified API failure. Message is suitable for direct display.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("request failed (%d)", e.Status)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// KindOf extracts the failure kind from any error in the chain.
// Non-API errors report KindUnknown.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

func networkError(op string, cause error) *Error {
	return &Error{
		Kind:    KindNetworkFailure,
		Message: fmt.Sprintf("%s: network failure", op),
		cause:   cause,
	}
}

func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthenticated
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServerError
	default:
		return KindUnknown
	}
}

// errorFromResponse classifies a non-2xx response. The server reports
// failures as {"detail": "..."} or {"detail": [{"msg": "..."}, ...]};
// field errors are joined into a single message.
func errorFromResponse(resp *http.Response) *Error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &Error{
		Kind:    kindForStatus(resp.StatusCode),
		Status:  resp.StatusCode,
		Message: messageFromBody(body, resp.StatusCode),
	}
}

func messageFromBody(body []byte, status int) string {
	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if msg := detailMessage(payload.Detail); msg != "" {
			return msg
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	return fmt.Sprintf("request failed (%d)", status)
}

func detailMessage(detail json.RawMessage) string {
	if len(detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(detail, &text); err == nil {
		return strings.TrimSpace(text)
	}
	var fields []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(detail, &fields); err == nil {
		msgs := make([]string, 0, len(fields))
		for _, f := range fields {
			if f.Msg != "" {
				msgs = append(msgs, f.Msg)
			}
		}
		return strings.Join(msgs, ", ")
	}
	return ""
}
