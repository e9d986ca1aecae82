// Package config loads the JSON file describing which WebDriver server to
// drive and with which capabilities.
package config

import (
	"errors"
	"fmt"
	"io/ioutil"

	"github.com/mailru/easyjson/jlexer"

	"github.com/tmickel/arachnid"
)

// DefaultPath is the file read when no other is given.
const DefaultPath = "config.json"

// Config is the content of the configuration file:
//
//	{
//	  "gecko_driver_host": "localhost",
//	  "gecko_driver_port": "4444",
//	  "gecko_driver_capabilities": {"alwaysMatch": {...}}
//	}
type Config struct {
	Host string
	Port string
	// Capabilities is kept as raw JSON of any type; it is never interpreted.
	Capabilities arachnid.Capabilities
}

// Server returns the server description used to construct a Driver.
func (c *Config) Server() arachnid.Server {
	return arachnid.Server{
		Host:         c.Host,
		Port:         c.Port,
		Capabilities: c.Capabilities,
	}
}

// UnmarshalEasyJSON implements easyjson.Unmarshaler.
func (c *Config) UnmarshalEasyJSON(l *jlexer.Lexer) {
	l.Delim('{')
	for !l.IsDelim('}') {
		key := l.UnsafeString()
		l.WantColon()
		switch {
		case l.IsNull():
			l.Skip()
		case key == "gecko_driver_host":
			c.Host = l.String()
		case key == "gecko_driver_port":
			c.Port = l.String()
		case key == "gecko_driver_capabilities":
			c.Capabilities = append(arachnid.Capabilities(nil), l.Raw()...)
		default:
			l.SkipRecursive()
		}
		l.WantComma()
	}
	l.Delim('}')
}

// Parse decodes a configuration from data.
func Parse(data []byte) (*Config, error) {
	c := new(Config)
	l := jlexer.Lexer{Data: data}
	c.UnmarshalEasyJSON(&l)
	l.Consumed()
	if err := l.Error(); err != nil {
		return nil, err
	}
	if c.Host == "" {
		return nil, errors.New("gecko_driver_host is not set")
	}
	if c.Port == "" {
		return nil, errors.New("gecko_driver_port is not set")
	}
	if len(c.Capabilities) == 0 {
		c.Capabilities = arachnid.Capabilities("{}")
	}
	return c, nil
}

// Load reads and decodes the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	return c, nil
}
