// Remote WebDriver client implementation.
// See https://www.w3.org/TR/webdriver for the protocol.

package arachnid

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/blang/semver"
	"github.com/golang/glog"
	"github.com/mailru/easyjson"
)

// Driver holds the state needed to address one WebDriver server and at most
// one session on it. A Driver is not safe for concurrent use.
type Driver struct {
	client       *http.Client
	host, port   string
	capabilities Capabilities

	id             string
	browserName    string
	browserVersion semver.Version
}

// NewDriver returns a Driver for the server s without starting a session. If
// client is nil, DefaultHTTPClient is used. The same client is reused for
// every request.
func NewDriver(s Server, client *http.Client) *Driver {
	if client == nil {
		client = defaultHTTPClient
	}
	return &Driver{
		client:       client,
		host:         s.Host,
		port:         s.Port,
		capabilities: append(Capabilities(nil), s.Capabilities...),
	}
}

func (d *Driver) serverURL(path string) string {
	return "http://" + d.host + ":" + d.port + path
}

func (d *Driver) sessionURL(id, path string) string {
	return "http://" + d.host + ":" + d.port + "/session/" + id + path
}

// SessionID returns the current session ID, or "" if no session is active.
func (d *Driver) SessionID() string {
	return d.id
}

// BrowserName returns the browser name reported when the session was created.
func (d *Driver) BrowserName() string {
	return d.browserName
}

// BrowserVersion returns the browser version reported when the session was
// created. It is the zero version if the server did not report a parsable
// one.
func (d *Driver) BrowserVersion() semver.Version {
	return d.browserVersion
}

func newRequest(method, url string, data []byte) (*http.Request, error) {
	request, err := http.NewRequest(method, url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	request.Header.Add("Accept", JSONType)
	if data != nil {
		request.Header.Add("Content-Type", JSONType+"; charset=utf-8")
	}
	return request, nil
}

// execute performs one request and returns the body of a successful reply.
func (d *Driver) execute(op, method, url string, data []byte) ([]byte, error) {
	debugLog("-> %s %s\n%s", method, url, data)
	request, err := newRequest(method, url, data)
	if err != nil {
		return nil, newError(op, KindTransport, err)
	}

	response, err := d.client.Do(request)
	if err != nil {
		return nil, newError(op, KindTransport, err)
	}
	defer response.Body.Close()

	buf, err := ioutil.ReadAll(response.Body)
	if err != nil {
		return nil, newError(op, KindTransport, err)
	}
	if debugFlag {
		// Pretty print the JSON response.
		var prettyBuf bytes.Buffer
		if err := json.Indent(&prettyBuf, buf, "", "    "); err == nil {
			debugLog("<- %s [%s]\n%s", response.Status, response.Header.Get("Content-Type"), prettyBuf.Bytes())
		} else {
			debugLog("<- %s [%s]\n%s", response.Status, response.Header.Get("Content-Type"), buf)
		}
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		e := newError(op, KindStatus, nil)
		e.HTTPCode = response.StatusCode
		reply := new(errorReply)
		if err := unmarshal(buf, reply); err == nil {
			e.Err = reply.code()
			e.Message = reply.message
			e.Stacktrace = reply.stacktrace
			e.LegacyCode = reply.status
		}
		return nil, e
	}
	return buf, nil
}

func (d *Driver) marshal(op string, v easyjson.Marshaler) ([]byte, error) {
	data, err := easyjson.Marshal(v)
	if err != nil {
		return nil, newError(op, KindUsage, err)
	}
	return data, nil
}

func (d *Driver) decode(op string, data []byte, v easyjson.Unmarshaler) error {
	if err := unmarshal(data, v); err != nil {
		return newError(op, KindDecode, err)
	}
	return nil
}

// requireSession returns the active session id, or a KindNoSession error.
func (d *Driver) requireSession(op string) (string, error) {
	if d.id == "" {
		return "", newError(op, KindNoSession, nil)
	}
	return d.id, nil
}

// Status returns the readiness of the server. It does not need a session.
func (d *Driver) Status() (*Status, error) {
	const op = "status"
	response, err := d.execute(op, "GET", d.serverURL("/status"), nil)
	if err != nil {
		return nil, err
	}
	reply := new(statusReply)
	if err := d.decode(op, response, reply); err != nil {
		return nil, err
	}
	return &reply.status, nil
}

// NewSession starts a new session with the driver's capabilities and returns
// its ID. The session ID is stored only once the reply has been fully decoded.
func (d *Driver) NewSession() (string, error) {
	const op = "new session"
	if d.id != "" {
		return "", newError(op, KindSessionActive, fmt.Errorf("session %s", d.id))
	}
	data, err := d.marshal(op, newSessionRequest{capabilities: d.capabilities})
	if err != nil {
		return "", err
	}

	response, err := d.execute(op, "POST", d.serverURL("/session"), data)
	if err != nil {
		return "", err
	}

	reply := new(newSessionReply)
	if err := d.decode(op, response, reply); err != nil {
		return "", err
	}

	d.id = reply.sessionID
	d.browserName = reply.browserName
	d.browserVersion = semver.Version{}
	if reply.browserVersion != "" {
		v, err := semver.ParseTolerant(reply.browserVersion)
		if err != nil {
			glog.Warningf("Unable to parse browser version %q: %v", reply.browserVersion, err)
		} else {
			d.browserVersion = v
		}
	}
	return d.id, nil
}

// Quit deletes the current session. After it returns successfully the Driver
// has no session and a new one may be started.
func (d *Driver) Quit() error {
	const op = "delete session"
	id, err := d.requireSession(op)
	if err != nil {
		return err
	}
	if _, err := d.execute(op, "DELETE", d.sessionURL(id, ""), nil); err != nil {
		return err
	}
	d.id = ""
	return nil
}

// Get navigates the session to url, which must be absolute.
func (d *Driver) Get(url string) error {
	const op = "navigate"
	id, err := d.requireSession(op)
	if err != nil {
		return err
	}
	data, err := d.marshal(op, navigateRequest{url: url})
	if err != nil {
		return err
	}
	_, err = d.execute(op, "POST", d.sessionURL(id, "/url"), data)
	return err
}

// FindElement returns the first element matching value under the given
// strategy. If nothing matches, the error is of KindNoSuchElement, whether the
// server signalled it with an empty reference or with a "no such element"
// error status.
func (d *Driver) FindElement(by FindMethod, value string) (ElementID, error) {
	const op = "find element"
	id, err := d.requireSession(op)
	if err != nil {
		return "", err
	}
	if !by.Valid() {
		return "", newError(op, KindUsage, fmt.Errorf("unknown locator strategy %v", by))
	}
	data, err := d.marshal(op, findRequest{using: by.String(), value: value})
	if err != nil {
		return "", err
	}

	response, err := d.execute(op, "POST", d.sessionURL(id, "/element"), data)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Err == "no such element" {
			e.Kind = KindNoSuchElement
		}
		return "", err
	}

	reply := new(elementReply)
	if err := d.decode(op, response, reply); err != nil {
		return "", err
	}
	switch len(reply.ids) {
	case 0:
		return "", newError(op, KindNoSuchElement, fmt.Errorf("%s %q", by, value))
	case 1:
		return reply.ids[0], nil
	}
	return "", newError(op, KindDecode, fmt.Errorf("element reference has %d entries, want 1", len(reply.ids)))
}

// ElementText returns the visible text of the element, exactly as the server
// reports it.
func (d *Driver) ElementText(elem ElementID) (string, error) {
	const op = "element text"
	id, err := d.requireSession(op)
	if err != nil {
		return "", err
	}
	response, err := d.execute(op, "GET", d.sessionURL(id, "/element/"+string(elem)+"/text"), nil)
	if err != nil {
		return "", err
	}
	reply := new(stringReply)
	if err := d.decode(op, response, reply); err != nil {
		return "", err
	}
	return reply.value, nil
}

// WithSession starts a session on d, calls fn, and then deletes the session
// whatever fn returned, including when fn panics. Deletion is attempted on
// every path once a session exists; its error is joined with fn's.
func WithSession(d *Driver, fn func(*Driver) error) (err error) {
	if _, err := d.NewSession(); err != nil {
		return err
	}
	defer func() {
		if d.id == "" {
			// fn quit the session itself.
			return
		}
		if qerr := d.Quit(); qerr != nil {
			glog.Warningf("Unable to delete session: %v", qerr)
			err = errors.Join(err, qerr)
		}
	}()
	return fn(d)
}
