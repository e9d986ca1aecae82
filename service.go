package arachnid

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/golang/glog"

	"github.com/tmickel/arachnid/log"
)

// newExecCommand is replaced in tests.
var newExecCommand = exec.Command

const (
	defaultStartTimeout = 30 * time.Second
	statusPollInterval  = 100 * time.Millisecond
)

// ServiceOption configures a Service instance.
type ServiceOption func(*Service) error

// Output specifies that the WebDriver service should log to the provided
// writer.
func Output(w io.Writer) ServiceOption {
	return func(s *Service) error {
		s.output = w
		return nil
	}
}

// LogLevel sets the verbosity of geckodriver's own log, passed as --log.
func LogLevel(level log.Level) ServiceOption {
	return func(s *Service) error {
		if !level.Valid() {
			return fmt.Errorf("invalid geckodriver log level %q", level)
		}
		s.logLevel = level
		return nil
	}
}

// Host sets the address geckodriver binds to. The default is localhost.
func Host(host string) ServiceOption {
	return func(s *Service) error {
		if host == "" {
			return fmt.Errorf("empty service host")
		}
		s.host = host
		return nil
	}
}

// StartTimeout bounds how long to wait for the service to report ready.
func StartTimeout(d time.Duration) ServiceOption {
	return func(s *Service) error {
		if d <= 0 {
			return fmt.Errorf("start timeout must be positive, got %v", d)
		}
		s.startTimeout = d
		return nil
	}
}

// Service controls a locally-running geckodriver subprocess.
type Service struct {
	port         int
	host         string
	logLevel     log.Level
	startTimeout time.Duration
	cmd          *exec.Cmd

	output io.Writer
}

// NewGeckoDriverService starts a GeckoDriver instance in the background and
// waits for it to report ready.
func NewGeckoDriverService(path string, port int, opts ...ServiceOption) (*Service, error) {
	s := &Service{
		port:         port,
		host:         "localhost",
		startTimeout: defaultStartTimeout,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	args := []string{"--port", strconv.Itoa(port)}
	if s.host != "localhost" {
		args = append(args, "--host", s.host)
	}
	if s.logLevel != "" {
		args = append(args, "--log", string(s.logLevel))
	}
	cmd := newExecCommand(path, args...)
	cmd.Stderr = s.output
	cmd.Stdout = s.output
	cmd.Env = append(os.Environ(), cmd.Env...)
	s.cmd = cmd

	if err := s.start(); err != nil {
		return nil, err
	}
	return s, nil
}

// Server returns the Server address of the running service with the given
// session capabilities.
func (s *Service) Server(caps Capabilities) Server {
	return Server{Host: s.host, Port: strconv.Itoa(s.port), Capabilities: caps}
}

func (s *Service) start() error {
	if err := s.cmd.Start(); err != nil {
		return err
	}
	glog.Infof("Started %s (pid %d)", s.cmd.Path, s.cmd.Process.Pid)

	client := &http.Client{Timeout: time.Second}
	d := NewDriver(s.Server(nil), client)
	deadline := time.Now().Add(s.startTimeout)
	for time.Now().Before(deadline) {
		status, err := d.Status()
		if err == nil && status.Ready {
			return nil
		}
		if err == nil {
			glog.V(1).Infof("Service on port %d not ready: %s", s.port, status.Message)
		}
		time.Sleep(statusPollInterval)
	}
	s.kill()
	return fmt.Errorf("server did not respond on port %d", s.port)
}

func (s *Service) kill() {
	if err := s.cmd.Process.Kill(); err != nil {
		glog.Warningf("Unable to kill %s: %v", s.cmd.Path, err)
	}
	s.cmd.Wait()
}

// Stop shuts down the WebDriver service.
func (s *Service) Stop() error {
	if err := s.cmd.Process.Kill(); err != nil {
		return err
	}
	if err := s.cmd.Wait(); err != nil && err.Error() != "signal: killed" {
		return err
	}
	return nil
}
