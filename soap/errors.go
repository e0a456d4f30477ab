package soap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrMalformedResponse marks a response body that is not a decodable SOAP envelope.
var ErrMalformedResponse = errors.New("malformed soap response")

// Fault is a SOAP 1.1 fault returned by the remote service.
type Fault struct {
	Code       string      `xml:"faultcode"`
	String     string      `xml:"faultstring"`
	Actor      string      `xml:"faultactor"`
	Detail     faultDetail `xml:"detail"`
	StatusCode int         `xml:"-"`
}

type faultDetail struct {
	Raw string `xml:",innerxml"`
}

func (f *Fault) Error() string {
	return fmt.Sprintf("soap fault (status %d) %s: %s", f.StatusCode, f.Code, strings.TrimSpace(f.String))
}

// HTTPError is a non-2xx response whose body carried no SOAP fault.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("soap request failed with status %d: %s", e.StatusCode, e.Body)
}

// IsAuthFailure reports whether the remote side rejected the credentials.
func IsAuthFailure(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden
	}
	var fault *Fault
	if errors.As(err, &fault) {
		text := strings.ToLower(fault.Code + " " + fault.String)
		return strings.Contains(text, "failedauthentication") ||
			strings.Contains(text, "invalidsecurity") ||
			strings.Contains(text, "authenticat")
	}
	return false
}

// IsRetryable reports whether the failure looks transient. Faults are never
// retryable: the service understood and refused the request.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var fault *Fault
	if errors.As(err, &fault) {
		return false
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= 500
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
