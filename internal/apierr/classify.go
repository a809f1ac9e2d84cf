package apierr

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
)

// Classify maps any raw failure to exactly one classified error. The mapping
// is total and deterministic: it depends only on the failure itself and the
// connectivity reading taken at classification time. Already-classified
// errors pass through unchanged.
func Classify(err error, online bool) *Error {
	if err == nil {
		return nil
	}

	if ce, ok := From(err); ok {
		return ce
	}

	var se *StatusError
	if errors.As(err, &se) {
		return classifyStatus(se, err)
	}

	if isTimeout(err) {
		return Wrap(KindTimeout, "request timed out", err)
	}

	if isTransportFailure(err) {
		if !online {
			return Wrap(KindOffline, "no network connection", err)
		}
		return Wrap(KindNetwork, "network request failed", err)
	}

	e := Wrap(KindUnknown, "unexpected error", err)
	e.Details = err.Error()
	return e
}

func classifyStatus(se *StatusError, cause error) *Error {
	kind, message := statusKind(se.StatusCode)
	e := Wrap(kind, message, cause)
	e.StatusCode = se.StatusCode
	e.Details = se.Body
	e.URL = se.URL
	return e
}

func statusKind(status int) (Kind, string) {
	switch {
	case status == http.StatusUnauthorized:
		return KindAuthentication, "authentication required"
	case status == http.StatusForbidden:
		return KindAuthorization, "access denied"
	case status == http.StatusNotFound:
		return KindNotFound, "resource not found"
	case status == http.StatusUnprocessableEntity:
		return KindValidation, "request validation failed"
	case status == http.StatusTooManyRequests:
		return KindRateLimited, "rate limited by server"
	case status == http.StatusRequestTimeout:
		return KindTimeout, "request timed out"
	case status >= http.StatusInternalServerError:
		return KindServer, "server error"
	default:
		return KindUnknown, "unexpected response status"
	}
}

// isTimeout detects deadline expiry and aborted in-flight calls. Aborts only
// happen via timeout in this pipeline, so both map to the timeout kind.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.Canceled)
}

// isTransportFailure reports whether err is a network-level failure where the
// request never produced a response. These are the only failures whose kind
// depends on the connectivity reading.
func isTransportFailure(err error) bool {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}
