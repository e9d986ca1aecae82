package arachnid

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/proxy"
)

const (
	// JSONType is JSON content type.
	JSONType = "application/json"
	// MaxRedirects is the maximum number of redirects to follow.
	MaxRedirects = 10
)

var defaultHTTPClient = &http.Client{CheckRedirect: checkRedirect}

// DefaultHTTPClient returns the client used by drivers created without one.
func DefaultHTTPClient() *http.Client {
	return defaultHTTPClient
}

// http.Client doesn't copy request headers on redirect, and WebDriver servers
// require the Accept header.
func checkRedirect(req *http.Request, via []*http.Request) error {
	if len(via) > MaxRedirects {
		return fmt.Errorf("too many redirects (%d)", len(via))
	}
	req.Header.Add("Accept", JSONType)
	return nil
}

type transportConfig struct {
	timeout    time.Duration
	socks5Addr string
}

// TransportOption configures the client returned by NewHTTPClient.
type TransportOption func(*transportConfig) error

// Timeout bounds each request, including reading the response body. Zero
// means no timeout.
func Timeout(d time.Duration) TransportOption {
	return func(c *transportConfig) error {
		if d < 0 {
			return fmt.Errorf("negative timeout %v", d)
		}
		c.timeout = d
		return nil
	}
}

// SOCKS5Proxy routes every connection to the WebDriver server through the
// SOCKS5 proxy listening at addr (host:port).
func SOCKS5Proxy(addr string) TransportOption {
	return func(c *transportConfig) error {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			return fmt.Errorf("invalid SOCKS5 proxy address %q: %v", addr, err)
		}
		c.socks5Addr = addr
		return nil
	}
}

// NewHTTPClient returns a client suitable for a Driver. The client keeps
// connections alive between calls and follows redirects the same way the
// default client does.
func NewHTTPClient(opts ...TransportOption) (*http.Client, error) {
	var c transportConfig
	for _, opt := range opts {
		if err := opt(&c); err != nil {
			return nil, err
		}
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	if c.socks5Addr != "" {
		dialer, err := proxy.SOCKS5("tcp", c.socks5Addr, nil, proxy.Direct)
		if err != nil {
			return nil, err
		}
		t.Proxy = nil
		if cd, ok := dialer.(proxy.ContextDialer); ok {
			t.DialContext = cd.DialContext
		} else {
			t.DialContext = func(_ context.Context, network, addr string) (net.Conn, error) {
				return dialer.Dial(network, addr)
			}
		}
	}

	return &http.Client{
		Transport:     t,
		Timeout:       c.timeout,
		CheckRedirect: checkRedirect,
	}, nil
}
