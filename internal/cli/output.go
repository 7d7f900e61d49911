package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes, translated into process status by main.
const (
	ExitSuccess      = 0 // analysis ran and every expectation held
	ExitFailure      = 1 // analysis ran but scenario expectations failed
	ExitCommandError = 2 // the command could not run (bad file, unknown access)
)

// ExitError carries the exit code a command chose alongside the message
// main prints on stderr.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError with no underlying cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code and context to an underlying error.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode maps an error to the process exit code. Errors that never
// chose a code, such as flag parse failures, map to ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter renders command results as text for humans or as a JSON
// envelope for tooling. Results go to Writer; diagnostics such as analysis
// traces go to ErrWriter so they never interleave with the JSON stream.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
	RunID     string
}

// CLIResponse is the JSON envelope every command emits in json format.
// RunID ties the response to the invocation that produced it. A failed
// check suite sets Data and Error together; all other commands set one.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
	RunID  string      `json:"run_id,omitempty"`
}

// CLIError describes a failed invocation inside the JSON envelope. Code is
// one of the ErrCode constants.
type CLIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// emit stamps the run ID onto resp and writes it as one JSON line.
func (f *OutputFormatter) emit(resp CLIResponse) error {
	resp.RunID = f.RunID
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Success renders data. Text format prints the value directly; commands
// with richer text output print it themselves and skip the formatter.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return f.emit(CLIResponse{Status: "ok", Data: data})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error renders a coded failure. The JSON envelope always carries the
// details; text format shows them only under --verbose.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return f.emit(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// VerboseLog prints one diagnostic line when --verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the diagnostic writer, falling back to Writer when
// no separate one was configured.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
