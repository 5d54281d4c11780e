package ports

import "errors"

// ErrMalformedIdentity is returned when the identity endpoint answers 2xx with a body
// that does not carry a usable identity.
var ErrMalformedIdentity = errors.New("malformed identity payload")
