// Package log provides logging-related configuration types and constants for
// geckodriver and Firefox.
package log

// Level is the verbosity of geckodriver and of the Gecko engine. It is passed
// to geckodriver as --log and to Firefox through the "log" entry of its
// capabilities.
type Level string

// The valid log levels, from least to most verbose.
const (
	Fatal  Level = "fatal"
	Error  Level = "error"
	Warn   Level = "warn"
	Info   Level = "info"
	Config Level = "config"
	Debug  Level = "debug"
	Trace  Level = "trace"
)

// Levels returns every valid level, from least to most verbose.
func Levels() []Level {
	return []Level{Fatal, Error, Warn, Info, Config, Debug, Trace}
}

// Valid reports whether l is one of the defined levels.
func (l Level) Valid() bool {
	for _, v := range Levels() {
		if l == v {
			return true
		}
	}
	return false
}
