package optimizing

import "fmt"

// ResponseFormatError represents a critic response that could not be parsed
// into a score and suggestions.
type ResponseFormatError struct {
	Message string
	Cause   error
}

func (e *ResponseFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("response format error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("response format error: %s", e.Message)
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Cause
}
