package outcome

import (
	"errors"
	"fmt"
)

// ServerError is returned by backend adapters when the server answered with a non-2xx
// status. Code is the opaque outcome code from the body, empty when none was present.
type ServerError struct {
	Status int
	Code   string
}

func (e *ServerError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server responded with status %d", e.Status)
	}
	return fmt.Sprintf("server responded with status %d (code %s)", e.Status, e.Code)
}

// FromError classifies any error produced by a backend call. Server errors are translated
// by their code; everything else (transport failures, undecodable bodies, nil) becomes the
// fallback outcome.
func FromError(err error) Outcome {
	var se *ServerError
	if errors.As(err, &se) {
		return Translate(se.Code)
	}
	return Fallback()
}
