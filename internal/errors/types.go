package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the closed set of failures the console surfaces. Only the three types in
// this file implement it; callers switch over them exhaustively:
//
//	switch e := errors.Classify(err).(type) {
//	case *errors.ValidationError:
//	case *errors.TransportError:
//	case *errors.BusinessRuleError:
//	}
type Error interface {
	error
	appError()
}

// ValidationError is a local guard failure. It never reaches the network.
type ValidationError struct {
	Field   string // offending field, json name
	Code    string // codes.go
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (*ValidationError) appError() {}

// TransportError covers network failures, authorization failures and 5xx responses.
type TransportError struct {
	Status         int    // upstream status, 0 when no response was received
	Code           string // codes.go
	Message        string // server message when available
	SessionExpired bool   // 401 on a non-exempt endpoint
	Err            error  // underlying cause
}

func (e *TransportError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = GenericMessage
	}
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("upstream unavailable: %s: %v", msg, e.Err)
		}
		return "upstream unavailable: " + msg
	}
	return fmt.Sprintf("upstream status %d: %s", e.Status, msg)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (*TransportError) appError() {}

// BusinessRuleError is a 4xx rejection carrying the server's own message,
// e.g. reviewing a registration that has left pending.
type BusinessRuleError struct {
	Status  int
	Code    string
	Message string
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("upstream rejected request (%d): %s", e.Status, e.Message)
}

func (*BusinessRuleError) appError() {}

// NewValidation builds a ValidationError.
func NewValidation(field, code, message string) *ValidationError {
	return &ValidationError{Field: field, Code: code, Message: message}
}

// As extracts the taxonomy member wrapped anywhere in err's chain.
func As(err error) (Error, bool) {
	var v *ValidationError
	if stderrors.As(err, &v) {
		return v, true
	}
	var b *BusinessRuleError
	if stderrors.As(err, &b) {
		return b, true
	}
	var t *TransportError
	if stderrors.As(err, &t) {
		return t, true
	}
	return nil, false
}

// IsSessionExpired reports whether err is a session-expired transport failure.
func IsSessionExpired(err error) bool {
	var t *TransportError
	return stderrors.As(err, &t) && t.SessionExpired
}
