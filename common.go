package arachnid

import (
	"fmt"

	"github.com/golang/glog"
)

var debugFlag = false

// SetDebug enables tracing of every request and response exchanged with the
// WebDriver server. Traces are written to the glog INFO log.
func SetDebug(debug bool) {
	debugFlag = debug
}

func debugLog(format string, args ...interface{}) {
	if !debugFlag {
		return
	}
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}
