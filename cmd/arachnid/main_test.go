package main

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tmickel/arachnid"
	"github.com/tmickel/arachnid/internal/webdrivertest"
)

func writeConfig(t *testing.T, s *webdrivertest.Server) string {
	t.Helper()
	dir, err := ioutil.TempDir("", "arachnid-main")
	if err != nil {
		t.Fatal(err)
	}
	host, port := s.HostPort()
	data := fmt.Sprintf(`{"gecko_driver_host": %q, "gecko_driver_port": %q, "gecko_driver_capabilities": {"alwaysMatch": {}}}`, host, port)
	path := filepath.Join(dir, "config.json")
	if err := ioutil.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRun(t *testing.T) {
	s := webdrivertest.NewServer()
	defer s.Close()
	s.HandleSession("abc", "elem-1", "Recurse Center")

	path := writeConfig(t, s)
	defer os.RemoveAll(filepath.Dir(path))

	var out bytes.Buffer
	opts := options{
		configPath: path,
		url:        "https://recurse.com",
		using:      "tag name",
		value:      "html",
	}
	if err := run(opts, &out); err != nil {
		t.Fatalf("run() returned error: %v", err)
	}
	if got, want := out.String(), "Recurse Center\n"; got != want {
		t.Errorf("run() printed %q, want %q", got, want)
	}

	var got []string
	for _, r := range s.Requests() {
		got = append(got, r.Method+" "+r.Path)
	}
	want := []string{
		"POST /session",
		"POST /session/abc/url",
		"POST /session/abc/element",
		"GET /session/abc/element/elem-1/text",
		"DELETE /session/abc",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("requests returned diff (-want/+got):\n%s", diff)
	}
	if got, want := s.Requests()[0].Body, `{"capabilities":{"alwaysMatch": {}}}`; got != want {
		t.Errorf("new session body = %q, want %q", got, want)
	}
}

func TestRunDeletesSessionOnFailure(t *testing.T) {
	s := webdrivertest.NewServer()
	defer s.Close()
	s.HandleSession("abc", "elem-1", "")
	s.Handle("POST", "/session/abc/element", http.StatusOK, `{"value":{}}`)

	path := writeConfig(t, s)
	defer os.RemoveAll(filepath.Dir(path))

	var out bytes.Buffer
	opts := options{
		configPath: path,
		url:        "https://recurse.com",
		using:      "css selector",
		value:      "#missing",
	}
	err := run(opts, &out)
	if !arachnid.IsKind(err, arachnid.KindNoSuchElement) {
		t.Errorf("run() returned %v, want a %v error", err, arachnid.KindNoSuchElement)
	}
	if out.Len() != 0 {
		t.Errorf("run() printed %q, want nothing", out.String())
	}
	reqs := s.Requests()
	if last := reqs[len(reqs)-1]; last.Method != "DELETE" || last.Path != "/session/abc" {
		t.Errorf("last request = %s %s, want DELETE /session/abc", last.Method, last.Path)
	}
}

func TestRunRejectsBadInput(t *testing.T) {
	tests := []struct {
		desc string
		opts options
	}{
		{
			desc: "relative URL",
			opts: options{configPath: "unused.json", url: "/about", using: "tag name", value: "html"},
		},
		{
			desc: "unknown locator",
			opts: options{configPath: "unused.json", url: "https://recurse.com", using: "id", value: "x"},
		},
		{
			desc: "missing config",
			opts: options{configPath: "does-not-exist.json", url: "https://recurse.com", using: "tag name", value: "html"},
		},
	}
	for _, test := range tests {
		if err := run(test.opts, ioutil.Discard); err == nil {
			t.Errorf("%s: run() returned nil error", test.desc)
		}
	}
}
