// Binary arachnid opens a page in a WebDriver-controlled browser and prints
// the text of one element on it.
//
// The WebDriver server is read from a JSON configuration file (see package
// internal/config). If -geckodriver is set, geckodriver is started on the
// configured port first and stopped on exit.
package main

import (
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"

	"github.com/tmickel/arachnid"
	"github.com/tmickel/arachnid/internal/config"
	"github.com/tmickel/arachnid/log"
)

var (
	configPath      = flag.String("config", config.DefaultPath, "The path to the JSON configuration file.")
	geckoDriverPath = flag.String("geckodriver", "", "The path to the geckodriver binary. If empty, a WebDriver server must already be listening on the configured host and port.")
	geckoDriverLog  = flag.String("geckodriver_log", string(log.Debug), "The log level passed to geckodriver.")
	targetURL       = flag.String("url", "https://recurse.com", "The absolute URL to open.")
	using           = flag.String("using", "tag name", `The locator strategy: "css selector", "link text", "partial link text", "tag name" or "xpath".`)
	value           = flag.String("value", "html", "The locator value.")
	socks5Proxy     = flag.String("socks5_proxy", "", "If set, reach the WebDriver server through the SOCKS5 proxy at this host:port.")
	timeout         = flag.Duration("timeout", 0, "If positive, the limit for each WebDriver request.")
	debug           = flag.Bool("debug", false, "If true, log every WebDriver request and response.")
)

type options struct {
	configPath      string
	geckoDriverPath string
	geckoDriverLog  log.Level
	url             string
	using           string
	value           string
	socks5Proxy     string
	timeout         time.Duration
}

func main() {
	flag.Parse()
	defer glog.Flush()

	arachnid.SetDebug(*debug)
	opts := options{
		configPath:      *configPath,
		geckoDriverPath: *geckoDriverPath,
		geckoDriverLog:  log.Level(*geckoDriverLog),
		url:             *targetURL,
		using:           *using,
		value:           *value,
		socks5Proxy:     *socks5Proxy,
		timeout:         *timeout,
	}
	if err := run(opts, os.Stdout); err != nil {
		glog.Flush()
		glog.Exit(err)
	}
}

// checkURL requires u to be absolute with a host, as WebDriver servers reject
// anything else.
func checkURL(u string) error {
	parsed, err := url.Parse(u)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %v", u, err)
	}
	if !parsed.IsAbs() || parsed.Host == "" {
		return fmt.Errorf("URL %q is not absolute", u)
	}
	return nil
}

func run(opts options, w io.Writer) error {
	if err := checkURL(opts.url); err != nil {
		return err
	}
	by, err := arachnid.ParseFindMethod(opts.using)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	var transportOpts []arachnid.TransportOption
	if opts.timeout > 0 {
		transportOpts = append(transportOpts, arachnid.Timeout(opts.timeout))
	}
	if opts.socks5Proxy != "" {
		transportOpts = append(transportOpts, arachnid.SOCKS5Proxy(opts.socks5Proxy))
	}
	client, err := arachnid.NewHTTPClient(transportOpts...)
	if err != nil {
		return err
	}

	if opts.geckoDriverPath != "" {
		port, err := strconv.Atoi(cfg.Port)
		if err != nil {
			return fmt.Errorf("invalid gecko_driver_port %q: %v", cfg.Port, err)
		}
		serviceOpts := []arachnid.ServiceOption{arachnid.Output(os.Stderr), arachnid.Host(cfg.Host)}
		if opts.geckoDriverLog != "" {
			serviceOpts = append(serviceOpts, arachnid.LogLevel(opts.geckoDriverLog))
		}
		service, err := arachnid.NewGeckoDriverService(opts.geckoDriverPath, port, serviceOpts...)
		if err != nil {
			return fmt.Errorf("error starting geckodriver: %v", err)
		}
		defer func() {
			if err := service.Stop(); err != nil {
				glog.Warningf("Error stopping geckodriver: %v", err)
			}
		}()
	}

	d := arachnid.NewDriver(cfg.Server(), client)
	return arachnid.WithSession(d, func(d *arachnid.Driver) error {
		glog.Infof("Session %s started (%s %v)", d.SessionID(), d.BrowserName(), d.BrowserVersion())
		if err := d.Get(opts.url); err != nil {
			return err
		}
		elem, err := d.FindElement(by, opts.value)
		if err != nil {
			return err
		}
		text, err := d.ElementText(elem)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, text)
		return err
	})
}
