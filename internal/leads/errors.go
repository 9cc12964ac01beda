package leads

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable wraps connectivity failures from the backing
// store. The intake path treats it as non-fatal; query and purge paths
// surface it as a server error.
var ErrStorageUnavailable = errors.New("lead store unavailable")

// ValidationError reports a missing or invalid submission field. It is
// always returned to the caller and never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
