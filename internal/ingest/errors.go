// Package ingest turns uploaded bank-statement exports into canonical
// transactions: file parsing, column detection, amount sign convention
// resolution, row normalization and file-level deduplication.
package ingest

import (
	"fmt"
	"strings"
)

// ErrorCode identifies a file-level ingest failure. File-level failures
// reject the whole file; nothing is inserted.
type ErrorCode string

const (
	ErrUnreadableFile ErrorCode = "UNREADABLE_FILE"
	ErrEmptyFile      ErrorCode = "EMPTY_FILE"
	ErrMissingColumns ErrorCode = "MISSING_COLUMNS"
	ErrDuplicateFile  ErrorCode = "DUPLICATE_FILE"
)

// IngestError is a structured error for file-level ingest failures.
type IngestError struct {
	Code    ErrorCode
	Message string
	Missing []string // populated for MISSING_COLUMNS: the unresolved roles
	Cause   error
}

func (e *IngestError) Error() string {
	msg := e.Message
	if len(e.Missing) > 0 {
		msg = fmt.Sprintf("%s (missing: %s)", msg, strings.Join(e.Missing, ", "))
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

func (e *IngestError) Unwrap() error {
	return e.Cause
}
