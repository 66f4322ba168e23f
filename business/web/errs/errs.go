// Package errs provides the error types the node handlers use to report
// expected failures, such as a rejected transaction or a mining race, with
// an HTTP status.
package errs

import "errors"

// Response is the body written back to the client when a node request fails.
type Response struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// Trusted marks an error as safe to show the client, along with the status
// the node should respond with.
type Trusted struct {
	Err    error
	Status int
}

// NewTrusted marks the error as expected. Anything a handler returns without
// this wrapping is reported to the client as an internal error.
func NewTrusted(err error, status int) error {
	return &Trusted{err, status}
}

// Error returns the message of the wrapped error, which is both logged and
// sent to the client.
func (te *Trusted) Error() string {
	return te.Err.Error()
}

// Unwrap gives errors.Is access to the ledger and state errors underneath.
func (te *Trusted) Unwrap() error {
	return te.Err
}

// IsTrusted reports whether a Trusted error exists in the chain.
func IsTrusted(err error) bool {
	var te *Trusted
	return errors.As(err, &te)
}

// GetTrusted returns the first Trusted error in the chain, or nil.
func GetTrusted(err error) *Trusted {
	var te *Trusted
	if !errors.As(err, &te) {
		return nil
	}
	return te
}
