package examforge

import "log"

// Global verbose flag
var verboseMode bool

// SetVerbose toggles debug logging for the whole package.
func SetVerbose(verbose bool) {
	verboseMode = verbose
}

// debugf logs only when verbose mode is enabled.
func debugf(format string, v ...interface{}) {
	if verboseMode {
		log.Printf(format, v...)
	}
}
