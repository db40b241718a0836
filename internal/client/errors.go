package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"schoolapi/internal/validation"
)

// Messages shown for each failure category.
const (
	MsgServerDown    = "Server is not running. Please start the server and try again."
	MsgUnauthorized  = "Unauthorized access. Please login again."
	MsgNotFound      = "API endpoint not found. Please check server configuration."
	MsgServerError   = "Server error. Please try again later."
	MsgTimeout       = "Request timeout. Please try again."
	MsgFetchFailed   = "Failed to fetch schools"
	msgAddFailedWrap = "Failed to add school: %v"
)

// APIError is a non-2xx response. Message is the server's "error" text, if any.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// SubmitErrorMessage maps a submission failure to the text shown to the user.
func SubmitErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg, ok := categorize(err); ok {
		return msg
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fmt.Sprintf(msgAddFailedWrap, err)
}

// FetchErrorMessage maps a listing failure to the banner text.
func FetchErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return MsgFetchFailed
}

func categorize(err error) (string, bool) {
	if validation.IsValidationError(err) {
		return err.Error(), true
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return MsgServerDown, true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return MsgTimeout, true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return MsgTimeout, true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusUnauthorized:
			return MsgUnauthorized, true
		case apiErr.StatusCode == http.StatusNotFound:
			return MsgNotFound, true
		case apiErr.StatusCode >= http.StatusInternalServerError:
			return MsgServerError, true
		}
	}
	return "", false
}
