package core

// DebugMode controls whether misuse diagnostics include stack traces and
// whether the default error element shows the failure message.
var DebugMode = false

// SetDebugMode enables or disables debug mode for the runtime.
func SetDebugMode(debug bool) {
	DebugMode = debug
}
