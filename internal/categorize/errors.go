// Package categorize assigns spending categories to normalized transactions
// through a rule-then-AI decision pipeline with confidence-gated routing.
package categorize

import "fmt"

// ErrorCode represents specific categorization error types.
type ErrorCode string

const (
	ErrGeminiUnavailable ErrorCode = "GEMINI_UNAVAILABLE"
	ErrGeminiRateLimited ErrorCode = "GEMINI_RATE_LIMITED"
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrNoCategories      ErrorCode = "NO_CATEGORIES"
)

// CategorizeError is a structured error for categorization failures.
type CategorizeError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

func (e *CategorizeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *CategorizeError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *CategorizeError) IsRetryable() bool {
	return e.Retryable
}
