package logger

import (
	"github.com/fatih/color" // Colored console output
)

// Colorized printf-style loggers, one per level, built with fatih/color.
// Each behaves like fmt.Printf and writes to color.Output (stdout),
// with colors dropped automatically when stdout is not a terminal.

// Info logs progress messages in green.
var Info = color.New(color.FgGreen).PrintfFunc()

// Step logs the sub-steps of a package install (" + Download", " + Extract") in plain white.
var Step = color.New(color.FgWhite).PrintfFunc()

// Warn logs non-fatal problems in bright magenta.
var Warn = color.New(color.FgHiMagenta).PrintfFunc()

// Error logs fatal problems in red.
var Error = color.New(color.FgRed).PrintfFunc()

// Debug logs debug messages in cyan once enabled through Init.
// Until then it is a no-op, so packages can log before the CLI has parsed its flags.
var Debug = func(format string, a ...any) {}

// Init enables or disables debug logging.
// Parameters:
// - enableDebug: when true Debug prints in cyan; when false it silently drops messages.
// It is called from the root command's PersistentPreRun once --debug has been parsed.
func Init(enableDebug bool) {
	if enableDebug {
		// Print cyan-colored debug messages.
		Debug = color.New(color.FgCyan).PrintfFunc()
	} else {
		// No-op so disabled debug logging costs nothing.
		Debug = func(format string, a ...any) {}
	}
}
