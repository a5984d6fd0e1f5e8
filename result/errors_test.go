package result

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyError(t *testing.T) {
	refused := &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}

	tests := []struct {
		name   string
		err    error
		status int
		want   ErrorCategory
	}{
		{"404", nil, 404, Category4xx},
		{"429", nil, 429, Category4xx},
		{"503", nil, 503, Category5xx},
		{"status wins over error", context.DeadlineExceeded, 500, Category5xx},
		{"nothing", nil, 0, CategoryUnknown},
		{"redirect loop", &url.Error{Op: "Get", URL: "https://a.test", Err: ErrRedirectLoop}, 0, CategoryRedirectLoop},
		{"deadline", fmt.Errorf("head: %w", context.DeadlineExceeded), 0, CategoryTimeout},
		{"net timeout", &url.Error{Op: "Get", URL: "https://a.test", Err: timeoutErr{}}, 0, CategoryTimeout},
		{"dns", &url.Error{Op: "Head", URL: "https://a.test", Err: &net.DNSError{Err: "no such host", Name: "a.test", IsNotFound: true}}, 0, CategoryDNSFailure},
		{"refused", &url.Error{Op: "Head", URL: "https://a.test", Err: refused}, 0, CategoryConnectionRefused},
		{"tls", &url.Error{Op: "Head", URL: "https://a.test", Err: x509.UnknownAuthorityError{}}, 0, CategoryTLS},
		{"plain", errors.New("boom"), 0, CategoryUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err, tt.status))
		})
	}
}

func TestErrorCategory_Label(t *testing.T) {
	assert.Equal(t, "Client Errors (4xx)", Category4xx.Label())
	assert.Equal(t, "Unavailable Videos", CategoryUnavailable.Label())
	assert.Equal(t, "TLS Errors", CategoryTLS.Label())
	assert.Equal(t, "Other Errors", CategoryUnknown.Label())
	assert.Equal(t, "Other Errors", ErrorCategory("mystery").Label())
}

func TestDescribe(t *testing.T) {
	assert.Empty(t, Describe(nil))
	assert.Equal(t, "too many redirects",
		Describe(&url.Error{Op: "Get", URL: "https://a.test", Err: ErrRedirectLoop}))
	assert.Equal(t, "boom", Describe(errors.New("boom")))
	assert.Equal(t, "Connection failed", Describe(errors.New("")))
}
