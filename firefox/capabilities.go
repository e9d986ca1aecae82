// Package firefox provides Firefox-specific types for WebDriver.
package firefox

import (
	"fmt"
	"sort"

	"github.com/mailru/easyjson"
	"github.com/mailru/easyjson/jwriter"

	"github.com/tmickel/arachnid"
	"github.com/tmickel/arachnid/log"
)

// CapabilitiesKey is the name of the Firefox-specific key in the WebDriver
// capabilities object.
const CapabilitiesKey = "moz:firefoxOptions"

// Capabilities provides Firefox-specific options to WebDriver.
type Capabilities struct {
	// Binary is the absolute path of the Firefox binary, e.g. /usr/bin/firefox
	// or /Applications/Firefox.app/Contents/MacOS/firefox, to select which
	// custom browser binary to use. If left undefined, geckodriver will attempt
	// to deduce the default location of Firefox on the current system.
	Binary string
	// Args are the command line arguments to pass to the Firefox binary. These
	// must include the leading -- where required e.g. ["--devtools"].
	Args []string
	// Log specifies the verbosity of Gecko. Empty means the default.
	Log log.Level
	// Map of preference name to preference value, which can be a string, a
	// boolean or an integer.
	Prefs map[string]interface{}
}

// DefaultPrefs returns preferences that keep page loads light and quiet: no
// Referer header, no images and no DOM storage.
func DefaultPrefs() map[string]interface{} {
	return map[string]interface{}{
		"network.http.sendRefererHeader": 0,
		"permissions.default.image":      2,
		"dom.storage.enabled":            false,
	}
}

// MarshalEasyJSON writes the moz:firefoxOptions object. Prefs are written in
// key order.
func (c Capabilities) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	first := true
	field := func(name string) {
		if !first {
			w.RawByte(',')
		}
		first = false
		w.String(name)
		w.RawByte(':')
	}
	if c.Binary != "" {
		field("binary")
		w.String(c.Binary)
	}
	if len(c.Args) > 0 {
		field("args")
		w.RawByte('[')
		for i, a := range c.Args {
			if i > 0 {
				w.RawByte(',')
			}
			w.String(a)
		}
		w.RawByte(']')
	}
	if c.Log != "" {
		field("log")
		w.RawString(`{"level":`)
		w.String(string(c.Log))
		w.RawByte('}')
	}
	if len(c.Prefs) > 0 {
		field("prefs")
		keys := make([]string, 0, len(c.Prefs))
		for k := range c.Prefs {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		w.RawByte('{')
		for i, k := range keys {
			if i > 0 {
				w.RawByte(',')
			}
			w.String(k)
			w.RawByte(':')
			writePref(w, k, c.Prefs[k])
		}
		w.RawByte('}')
	}
	w.RawByte('}')
}

func writePref(w *jwriter.Writer, name string, v interface{}) {
	switch v := v.(type) {
	case string:
		w.String(v)
	case bool:
		w.Bool(v)
	case int:
		w.Int(v)
	case int64:
		w.Int64(v)
	default:
		if w.Error == nil {
			w.Error = fmt.Errorf("preference %q has unsupported type %T", name, v)
		}
		w.RawString("null")
	}
}

// W3C returns the capabilities payload for a new session that requires these
// Firefox options:
//
//	{"alwaysMatch": {"moz:firefoxOptions": {...}}}
func (c Capabilities) W3C() (arachnid.Capabilities, error) {
	if c.Log != "" && !c.Log.Valid() {
		return nil, fmt.Errorf("invalid log level %q", c.Log)
	}
	opts, err := easyjson.Marshal(c)
	if err != nil {
		return nil, err
	}
	w := jwriter.Writer{}
	w.RawString(`{"alwaysMatch":{`)
	w.String(CapabilitiesKey)
	w.RawByte(':')
	w.Raw(opts, nil)
	w.RawString("}}")
	data, err := w.BuildBytes()
	if err != nil {
		return nil, err
	}
	return arachnid.Capabilities(data), nil
}
