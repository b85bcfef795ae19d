package checking

import "fmt"

// ResponseFormatError indicates the model's review reply did not follow the
// required verdict format.
type ResponseFormatError struct {
	Message string
	Cause   error
}

func (e *ResponseFormatError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ResponseFormatError) Unwrap() error {
	return e.Cause
}
