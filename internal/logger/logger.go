package logger

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Define colorized printing functions for different log levels using fatih/color.
// These are package-level variables holding functions that behave like fmt.Printf,
// but with text colored appropriately for the log level.
//
// Info writes to the writer it is given so a command can keep its result on one stream.
// Note, Warn and Error go to standard error through color.Error,
// which stays colorable on Windows consoles.

// Info prints an informational message in green to w.
// Green marks the success line a command ends with.
var Info = func(w io.Writer, format string, a ...any) {
	infoColor.Fprintf(w, format, a...)
}

// Note logs a "note:" prefixed message in green on standard error.
// Notes explain a decision the tool made on the user's behalf.
var Note = func(format string, a ...any) {
	noteColor.Fprint(color.Error, "note")
	fmt.Fprintf(color.Error, ": "+format, a...)
}

// Warn logs warning messages in bright magenta color on standard error.
var Warn = func(format string, a ...any) {
	warnColor.Fprintf(color.Error, format, a...)
}

// Error logs an "error:" prefixed message on standard error with the prefix in red.
var Error = func(format string, a ...any) {
	errorColor.Fprint(color.Error, "error")
	fmt.Fprintf(color.Error, ": "+format, a...)
}

// Highlight renders a value (a path, a flag, a tool name) in green for embedding in messages.
var Highlight = color.New(color.FgGreen).SprintFunc()

// Debug logs debug messages in cyan color if enabled, otherwise is a no-op.
// This is a function variable that is assigned dynamically during Init based on debug flag.
var Debug = func(format string, a ...any) {}

var (
	infoColor  = color.New(color.FgGreen)
	noteColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgHiMagenta)
	errorColor = color.New(color.FgRed)
)

// Init initializes the logger package, specifically enabling or disabling debug logging.
// When enabled, Debug prints cyan messages to standard error.
// When disabled, Debug is a no-op function that silently ignores debug logs.
func Init(enableDebug bool) {
	if enableDebug {
		debugColor := color.New(color.FgCyan)
		Debug = func(format string, a ...any) {
			debugColor.Fprintf(color.Error, format, a...)
		}
	} else {
		Debug = func(format string, a ...any) {}
	}
}
