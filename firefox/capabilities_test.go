package firefox

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tmickel/arachnid/log"
)

func TestW3C(t *testing.T) {
	tests := []struct {
		desc string
		in   Capabilities
		want string
	}{
		{
			desc: "empty",
			in:   Capabilities{},
			want: `{"alwaysMatch":{"moz:firefoxOptions":{}}}`,
		},
		{
			desc: "headless with default prefs",
			in: Capabilities{
				Args:  []string{"-headless"},
				Prefs: DefaultPrefs(),
			},
			want: `{"alwaysMatch":{"moz:firefoxOptions":{"args":["-headless"],"prefs":{"dom.storage.enabled":false,"network.http.sendRefererHeader":0,"permissions.default.image":2}}}}`,
		},
		{
			desc: "binary and log",
			in: Capabilities{
				Binary: "/usr/bin/firefox",
				Log:    log.Trace,
			},
			want: `{"alwaysMatch":{"moz:firefoxOptions":{"binary":"/usr/bin/firefox","log":{"level":"trace"}}}}`,
		},
	}

	for _, test := range tests {
		got, err := test.in.W3C()
		if err != nil {
			t.Errorf("%s: W3C() returned error: %v", test.desc, err)
			continue
		}
		if diff := cmp.Diff(test.want, string(got)); diff != "" {
			t.Errorf("%s: W3C() returned diff (-want/+got):\n%s", test.desc, diff)
		}
	}
}

func TestW3CErrors(t *testing.T) {
	tests := []struct {
		desc string
		in   Capabilities
	}{
		{
			desc: "unsupported preference type",
			in:   Capabilities{Prefs: map[string]interface{}{"a": 1.5}},
		},
		{
			desc: "invalid log level",
			in:   Capabilities{Log: "loud"},
		},
	}

	for _, test := range tests {
		if _, err := test.in.W3C(); err == nil {
			t.Errorf("%s: W3C() returned nil error", test.desc)
		}
	}
}
