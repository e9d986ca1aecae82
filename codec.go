package arachnid

import (
	"errors"
	"fmt"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// Request bodies.

type newSessionRequest struct {
	capabilities Capabilities
}

func (r newSessionRequest) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"capabilities":`)
	if len(r.capabilities) == 0 {
		w.RawString("{}")
	} else {
		w.Raw(r.capabilities, nil)
	}
	w.RawByte('}')
}

type navigateRequest struct {
	url string
}

func (r navigateRequest) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"url":`)
	w.String(r.url)
	w.RawByte('}')
}

type findRequest struct {
	using, value string
}

func (r findRequest) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"using":`)
	w.String(r.using)
	w.RawString(`,"value":`)
	w.String(r.value)
	w.RawByte('}')
}

// Response bodies. Every W3C reply wraps its payload in a top-level "value"
// member; each reply type decodes only that member and skips the rest.

var errNoValue = errors.New(`reply has no "value" member`)

// decodeValue walks the top-level object in data and hands the lexer to fn
// when it is positioned on the "value" member.
func decodeValue(l *jlexer.Lexer, fn func(*jlexer.Lexer)) {
	seen := false
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeString()
		l.WantColon()
		if key == "value" {
			seen = true
			fn(l)
		} else {
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
	if l.Ok() && !seen {
		l.AddError(errNoValue)
	}
}

type newSessionReply struct {
	sessionID      string
	browserName    string
	browserVersion string
}

func (r *newSessionReply) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeValue(l, func(l *jlexer.Lexer) {
		l.Delim('{')
		for !l.IsDelim('}') {
			key := l.UnsafeString()
			l.WantColon()
			switch {
			case l.IsNull():
				l.Skip()
			case key == "sessionId":
				r.sessionID = l.String()
			case key == "capabilities":
				r.decodeCapabilities(l)
			default:
				l.SkipRecursive()
			}
			l.WantComma()
		}
		l.Delim('}')
	})
	if l.Ok() && r.sessionID == "" {
		l.AddError(errors.New("reply has no session id"))
	}
}

func (r *newSessionReply) decodeCapabilities(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeString()
		l.WantColon()
		switch {
		case l.IsNull():
			l.Skip()
		case key == "browserName":
			r.browserName = l.String()
		case key == "browserVersion":
			r.browserVersion = l.String()
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

// elementReply holds every entry of the element reference object. The key of
// the entry is server-defined and is deliberately not interpreted.
type elementReply struct {
	ids []ElementID
}

func (r *elementReply) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeValue(l, func(l *jlexer.Lexer) {
		if l.IsNull() {
			l.AddError(errors.New("element reference is null"))
			return
		}
		l.Delim('{')
		for !l.IsDelim('}') {
			l.UnsafeString()
			l.WantColon()
			r.ids = append(r.ids, ElementID(l.String()))
			l.WantComma()
		}
		l.Delim('}')
	})
}

type stringReply struct {
	value string
}

func (r *stringReply) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeValue(l, func(l *jlexer.Lexer) {
		if l.IsNull() {
			l.AddError(errors.New("nil return value"))
			return
		}
		r.value = l.String()
	})
}

type statusReply struct {
	status Status
}

func (r *statusReply) UnmarshalEasyJSON(l *jlexer.Lexer) {
	decodeValue(l, func(l *jlexer.Lexer) {
		l.Delim('{')
		for !l.IsDelim('}') {
			key := l.UnsafeString()
			l.WantColon()
			switch {
			case l.IsNull():
				l.Skip()
			case key == "ready":
				r.status.Ready = l.Bool()
			case key == "message":
				r.status.Message = l.String()
			default:
				l.SkipRecursive()
			}
			l.WantComma()
		}
		l.Delim('}')
	})
}

// errorReply is the body of a failed command. W3C servers send
// {"value": {"error", "message", "stacktrace"}}; legacy servers add a numeric
// "status" and may put only a message in "value".
type errorReply struct {
	status     int
	err        string
	message    string
	stacktrace string
}

func (r *errorReply) UnmarshalEasyJSON(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeString()
		l.WantColon()
		switch {
		case l.IsNull():
			l.Skip()
		case key == "status":
			r.status = l.Int()
		case key == "value":
			r.decodeValue(l)
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

func (r *errorReply) decodeValue(l *jlexer.Lexer) {
	if !l.IsDelim('{') {
		l.SkipRecursive()
		return
	}
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeString()
		l.WantColon()
		switch {
		case l.IsNull():
			l.Skip()
		case key == "error":
			r.err = l.String()
		case key == "message":
			r.message = l.String()
		case key == "stacktrace":
			r.stacktrace = l.String()
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

// code returns the W3C error code, falling back to the legacy status table.
func (r *errorReply) code() string {
	if r.err != "" {
		return r.err
	}
	if r.status == 0 {
		return ""
	}
	if msg, ok := remoteErrors[r.status]; ok {
		return msg
	}
	return fmt.Sprintf("unknown error - %d", r.status)
}

func unmarshal(data []byte, v easyjson.Unmarshaler) error {
	l := jlexer.Lexer{Data: data}
	v.UnmarshalEasyJSON(&l)
	l.Consumed()
	return l.Error()
}
