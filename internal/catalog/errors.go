package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrTransport matches any failure to obtain a response from the catalog.
	ErrTransport = errors.New("catalog transport failure")
	// ErrDecode matches any failure to decode a catalog payload.
	ErrDecode = errors.New("catalog decode failure")
)

// TransportError wraps a connectivity or protocol error returned by the HTTP client.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("fetch catalog %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// DecodeError reports a malformed or schema-mismatched payload.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode catalog: %s: %v", e.Reason, e.Err)
	}
	return "decode catalog: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrDecode }
