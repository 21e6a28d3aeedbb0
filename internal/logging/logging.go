// Package logging provides the shared logrus logger used across the
// service binaries.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. It is usable immediately with
// defaults; Bootstrap applies the configured format and level at
// startup.
var Log = logrus.New()

// Bootstrap initializes the process logger. Level defaults to info;
// set verbose for debug output during local development.
func Bootstrap(verbose bool) {
	Log.SetOutput(os.Stdout)
	Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		Log.SetLevel(logrus.DebugLevel)
	} else {
		Log.SetLevel(logrus.InfoLevel)
	}
}
