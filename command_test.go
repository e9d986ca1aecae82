package arachnid

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"testing"
)

// fakeExecCommand is a replacement for `exec.Command` that we can control
// using the TestHelperProcess function.
//
// For more information, see:
// * https://npf.io/2015/06/testing-exec-command/
// * https://golang.org/src/os/exec/exec_test.go
func fakeExecCommand(command string, args ...string) *exec.Cmd {
	// Use `go test` to run the `TestHelperProcess` test with our arguments.
	cs := []string{"-test.run=TestHelperProcess", "--", command}
	cs = append(cs, args...)
	cmd := exec.Command(os.Args[0], cs...)
	cmd.Env = []string{"GO_WANT_HELPER_PROCESS=1"}
	return cmd
}

func TestHelperProcess(t *testing.T) {
	// If this function (which masquerades as a test) is run on its own, then
	// just return quietly.
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	args := os.Args
	for len(args) > 0 {
		if args[0] == "--" {
			args = args[1:]
			break
		}
		args = args[1:]
	}
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "No command\n")
		os.Exit(2)
	}

	cmd, args := args[0], args[1:]
	switch cmd {
	case "echo":
		fmt.Printf("%s\n", strings.Join(args, " "))
		os.Exit(0)
	case "geckodriver", "geckodriver-not-ready":
		serveStatus(args, cmd == "geckodriver")
	}

	fmt.Fprintf(os.Stderr, "%s: command not found\n", cmd)
	os.Exit(127)
}

// serveStatus answers /status on the address given by --host and --port until
// the process is killed.
func serveStatus(args []string, ready bool) {
	host, port := "localhost", ""
	for i := 0; i+1 < len(args); i++ {
		switch args[i] {
		case "--host":
			host = args[i+1]
		case "--port":
			port = args[i+1]
		}
	}
	l, err := net.Listen("tcp", net.JoinHostPort(host, port))
	if err != nil {
		fmt.Fprintf(os.Stderr, "listen: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Listening on", l.Addr())
	err = http.Serve(l, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/status" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", JSONType)
		fmt.Fprintf(w, `{"value":{"ready":%t,"message":""}}`, ready)
	}))
	fmt.Fprintf(os.Stderr, "serve: %v\n", err)
	os.Exit(1)
}

func TestFakeExecCommand(t *testing.T) {
	cmd := fakeExecCommand("echo", "hello", "world")
	outputBytes, err := cmd.Output()
	if err != nil {
		t.Fatalf("Could not get output: %s", err.Error())
	}
	outputString := string(outputBytes)
	if outputString != "hello world\n" {
		t.Fatalf("outputString = %s, want = %s", outputString, "hello world\n")
	}
}
