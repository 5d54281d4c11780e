package errors

import (
	"context"
	goerrors "errors"
	"net"
	"reflect"
	"strings"

	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/ports"
)

// Classify returns a normalized error class suitable for tagging metrics and logs.
// Errors the gate knows about get stable names; anything else is named after the
// innermost concrete type in snake_case-ish form.
func Classify(err error) string {
	if err == nil {
		return ""
	}

	var se *outcome.ServerError
	var netErr net.Error
	switch {
	case goerrors.As(err, &se):
		return "server_error"
	case goerrors.Is(err, ports.ErrMalformedIdentity):
		return "malformed_identity"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "unknown"
	}

	name := strings.ToLower(strings.ReplaceAll(t.String(), "*", ""))
	name = strings.ReplaceAll(name, ".", "_")
	if name == "" {
		return "unknown"
	}
	return name
}
