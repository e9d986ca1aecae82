package arachnid

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	socks5 "github.com/armon/go-socks5"

	"github.com/tmickel/arachnid/internal/webdrivertest"
)

func TestSOCKS5Proxy(t *testing.T) {
	s := webdrivertest.NewServer()
	defer s.Close()
	s.HandleSession("abc", "elem-1", "")

	var dials int32
	conf := &socks5.Config{
		Dial: func(ctx context.Context, network, addr string) (net.Conn, error) {
			atomic.AddInt32(&dials, 1)
			var d net.Dialer
			return d.DialContext(ctx, network, addr)
		},
	}
	proxy, err := socks5.New(conf)
	if err != nil {
		t.Fatalf("socks5.New() returned error: %v", err)
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() returned error: %v", err)
	}
	defer l.Close()
	go proxy.Serve(l)

	client, err := NewHTTPClient(SOCKS5Proxy(l.Addr().String()))
	if err != nil {
		t.Fatalf("NewHTTPClient() returned error: %v", err)
	}
	host, port := s.HostPort()
	d := NewDriver(Server{Host: host, Port: port}, client)
	if err := WithSession(d, func(d *Driver) error {
		return d.Get("http://example.com")
	}); err != nil {
		t.Fatalf("WithSession() through the proxy returned error: %v", err)
	}
	if atomic.LoadInt32(&dials) == 0 {
		t.Error("no connection went through the SOCKS5 proxy")
	}
	if n := len(s.Requests()); n != 3 {
		t.Errorf("server received %d requests, want 3", n)
	}
}

func TestTimeout(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Write([]byte(`{"value":{"ready":true,"message":""}}`))
	}))
	defer slow.Close()

	client, err := NewHTTPClient(Timeout(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("NewHTTPClient() returned error: %v", err)
	}
	host, port, err := net.SplitHostPort(slow.Listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	d := NewDriver(Server{Host: host, Port: port}, client)
	if _, err := d.Status(); !IsKind(err, KindTransport) {
		t.Errorf("d.Status() against a slow server returned %v, want a %v error", err, KindTransport)
	}
}

func TestTransportOptionErrors(t *testing.T) {
	tests := []struct {
		desc string
		opt  TransportOption
	}{
		{"negative timeout", Timeout(-time.Second)},
		{"proxy without port", SOCKS5Proxy("localhost")},
	}
	for _, test := range tests {
		if _, err := NewHTTPClient(test.opt); err == nil {
			t.Errorf("%s: NewHTTPClient() returned nil error", test.desc)
		}
	}
}
