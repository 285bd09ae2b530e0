package main

import "fmt"

// Exit codes. Policy violations (weak algorithm, malformed hex,
// unknown format or pattern) exit 2 so scripts can tell configuration
// mistakes from genuine digest failures, which exit 1.
const (
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries an exit code through cobra's error return. An
// empty msg means the command already printed its diagnostics.
type exitError struct {
	code int
	msg  string
}

// Error returns the message.
func (e *exitError) Error() string {
	return e.msg
}

// exitWithCode builds an exitError with a formatted message.
func exitWithCode(code int, format string, args ...interface{}) error {
	return &exitError{code: code, msg: fmt.Sprintf(format, args...)}
}

// exitSilent builds an exitError with no message, for commands that
// already reported their result.
func exitSilent(code int) error {
	return &exitError{code: code}
}
