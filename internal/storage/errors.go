package storage

import "fmt"

// WriteReason is a structured reason code carried by every storage failure,
// so callers classify over a closed set instead of inspecting messages.
type WriteReason string

const (
	ReasonConfig   WriteReason = "config"   // credentials, bucket, or policy problems
	ReasonUpload   WriteReason = "upload"   // transient transfer failures
	ReasonEncoding WriteReason = "encoding" // batch could not be serialized
)

// WriteError is the tagged failure type returned by Writer.Write.
type WriteError struct {
	Reason WriteReason
	Err    error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Reason, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
