package result

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"net/url"
	"syscall"
)

// ErrorCategory groups dead links by why they failed.
type ErrorCategory string

const (
	CategoryInvalidURL        ErrorCategory = "invalid_url"
	CategoryTimeout           ErrorCategory = "timeout"
	CategoryDNSFailure        ErrorCategory = "dns_failure"
	CategoryConnectionRefused ErrorCategory = "connection_refused"
	CategoryTLS               ErrorCategory = "tls"
	Category4xx               ErrorCategory = "4xx"
	Category5xx               ErrorCategory = "5xx"
	CategoryRedirectLoop      ErrorCategory = "redirect_loop"
	CategoryUnavailable       ErrorCategory = "unavailable"
	CategoryUnknown           ErrorCategory = "unknown"
)

// ErrRedirectLoop is returned by redirect policies that give up on a chain.
var ErrRedirectLoop = errors.New("too many redirects")

// ClassifyError maps a failed check to a category. A non-zero statusCode
// wins over err.
func ClassifyError(err error, statusCode int) ErrorCategory {
	switch {
	case statusCode >= 500:
		return Category5xx
	case statusCode >= 400:
		return Category4xx
	case err == nil:
		return CategoryUnknown
	case errors.Is(err, ErrRedirectLoop):
		return CategoryRedirectLoop
	case errors.Is(err, context.DeadlineExceeded):
		return CategoryTimeout
	case errors.Is(err, syscall.ECONNREFUSED):
		return CategoryConnectionRefused
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CategoryDNSFailure
	}
	if isTLSError(err) {
		return CategoryTLS
	}

	// net/http wraps dial and deadline errors in *url.Error.
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CategoryTimeout
	}
	return CategoryUnknown
}

func isTLSError(err error) bool {
	var (
		unknownAuthority x509.UnknownAuthorityError
		hostname         x509.HostnameError
		invalid          x509.CertificateInvalidError
		verify           *tls.CertificateVerificationError
		record           tls.RecordHeaderError
	)
	return errors.As(err, &unknownAuthority) ||
		errors.As(err, &hostname) ||
		errors.As(err, &invalid) ||
		errors.As(err, &verify) ||
		errors.As(err, &record)
}

// Label is the heading used for the category in summaries.
func (c ErrorCategory) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return "Other Errors"
}

var categoryLabels = map[ErrorCategory]string{
	CategoryInvalidURL:        "Invalid URLs",
	CategoryTimeout:           "Timeouts",
	CategoryDNSFailure:        "DNS Failures",
	CategoryConnectionRefused: "Connection Refused",
	CategoryTLS:               "TLS Errors",
	Category4xx:               "Client Errors (4xx)",
	Category5xx:               "Server Errors (5xx)",
	CategoryRedirectLoop:      "Redirect Loops",
	CategoryUnavailable:       "Unavailable Videos",
}

// urlError strips the method and URL prefix net/http puts on transport
// errors.
func urlError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) && ue.Err != nil {
		return ue.Err
	}
	return err
}

// Describe returns the failure message recorded for a transport error.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if msg := urlError(err).Error(); msg != "" {
		return msg
	}
	return "Connection failed"
}
