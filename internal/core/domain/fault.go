package domain

import "errors"

// FaultKind classifies every failure the gateway can hand to a caller.
// The presentation layer maps each kind to one user-facing message.
type FaultKind string

const (
	// ServiceUnavailable means the remote service could not be reached at
	// the transport level. Triggers fallback where fallback is defined.
	ServiceUnavailable FaultKind = "SERVICE_UNAVAILABLE"

	// RemoteRejected means the remote service was reachable but answered
	// with a non-2xx status (bad credentials, validation failure, ...).
	RemoteRejected FaultKind = "REMOTE_REJECTED"

	// ProtocolMismatch means the remote service answered 2xx but the
	// payload was missing required fields. Never coerced to success.
	ProtocolMismatch FaultKind = "PROTOCOL_MISMATCH"

	// InvalidInput means local validation rejected the request before any
	// remote call was made.
	InvalidInput FaultKind = "INVALID_INPUT"

	// SessionExpired and SessionMissing are redirect-class: the caller
	// should re-authenticate, not retry.
	SessionExpired FaultKind = "SESSION_EXPIRED"
	SessionMissing FaultKind = "SESSION_MISSING"
)

// Fault is a classified gateway failure.
type Fault struct {
	Kind    FaultKind
	Message string
}

func (f *Fault) Error() string {
	if f.Message == "" {
		return string(f.Kind)
	}
	return f.Message
}

// NewFault builds a classified failure.
func NewFault(kind FaultKind, message string) *Fault {
	return &Fault{Kind: kind, Message: message}
}

// KindOf extracts the classification from an error. Unclassified errors
// report as ServiceUnavailable so nothing escapes the taxonomy.
func KindOf(err error) FaultKind {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind
	}
	return ServiceUnavailable
}
