// Package webdrivertest provides an in-process fake WebDriver server for
// exercising package arachnid and the commands built on it.
package webdrivertest

import (
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
)

// ElementKey is the key W3C servers use for element references.
const ElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Request is a request received by the fake server.
type Request struct {
	Method, Path string
	Body         string
	Accept       string
	ContentType  string
}

// Response is a scripted reply.
type Response struct {
	Status int
	Body   string
}

// Server is a fake WebDriver server. Replies are scripted per method and path;
// anything unscripted gets a W3C "unknown command" error with status 404.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]Response
	requests []Request
}

// NewServer starts a fake server with no scripted replies. Callers must Close
// it.
func NewServer() *Server {
	s := &Server{routes: make(map[string]Response)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	return s
}

// Handle scripts the reply to method and path.
func (s *Server) Handle(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = Response{Status: status, Body: body}
}

// HandleSession scripts a well-behaved server holding one session with one
// element: status, session creation and deletion, navigation, lookup of any
// element and its text.
func (s *Server) HandleSession(sessionID, elementID, text string) {
	prefix := "/session/" + sessionID
	s.Handle("GET", "/status", http.StatusOK, `{"value":{"ready":true,"message":"ready"}}`)
	s.Handle("POST", "/session", http.StatusOK, fmt.Sprintf(
		`{"value":{"sessionId":%q,"capabilities":{"browserName":"firefox","browserVersion":"68.0.1"}}}`, sessionID))
	s.Handle("DELETE", prefix, http.StatusOK, `{"value":null}`)
	s.Handle("POST", prefix+"/url", http.StatusOK, `{"value":null}`)
	s.Handle("POST", prefix+"/element", http.StatusOK, fmt.Sprintf(`{"value":{%q:%q}}`, ElementKey, elementID))
	s.Handle("GET", prefix+"/element/"+elementID+"/text", http.StatusOK, fmt.Sprintf(`{"value":%q}`, text))
}

// Requests returns the requests received so far, in order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// HostPort returns the host and port the server listens on.
func (s *Server) HostPort() (host, port string) {
	host, port, err := net.SplitHostPort(s.Listener.Addr().String())
	if err != nil {
		panic(err)
	}
	return host, port
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:      r.Method,
		Path:        r.URL.Path,
		Body:        string(body),
		Accept:      r.Header.Get("Accept"),
		ContentType: r.Header.Get("Content-Type"),
	})
	resp, ok := s.routes[r.Method+" "+r.URL.Path]
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprintf(w, `{"value":{"error":"unknown command","message":"%s %s did not match a known command","stacktrace":""}}`, r.Method, r.URL.Path)
		return
	}
	w.WriteHeader(resp.Status)
	fmt.Fprint(w, resp.Body)
}
