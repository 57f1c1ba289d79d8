package surrogate

import "fmt"

// FitError is the single typed failure of the backend adapter. It packages
// the causal error, the backend's diagnostic log captured during the
// attempt, and a stack trace — everything the caller needs to report the
// crash without recovering from it here.
type FitError struct {
	Cause      error
	BackendLog string
	Stack      []byte
}

func (e *FitError) Error() string {
	return fmt.Sprintf("surrogate fit failed: %v", e.Cause)
}

func (e *FitError) Unwrap() error { return e.Cause }

// Report renders the full diagnostic payload embedded in a fallback
// response's metadata.
func (e *FitError) Report() string {
	logs := e.BackendLog
	if logs == "" {
		logs = "No logs."
	}
	return fmt.Sprintf("ERROR: %v\n\nTRACE:\n%s\n\nINTERNAL LOGS:\n%s", e.Cause, e.Stack, logs)
}
