package transport

import "fmt"

// TransportError covers connectivity failures, timeouts, non-success HTTP
// statuses and malformed response bodies. It is always surfaced to the
// immediate caller.
type TransportError struct {
	Server string
	Op     string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error on %s during %s: %v", e.Server, e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// HandshakeError is a failed initialize exchange: either a delivered
// protocol-level error or an unreachable peer. The owning connection
// transitions to StateFailed.
type HandshakeError struct {
	Server  string
	Code    int
	Message string
	Err     error
}

func (e *HandshakeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("handshake with %s failed: %v", e.Server, e.Err)
	}
	return fmt.Sprintf("handshake with %s rejected (code %d): %s", e.Server, e.Code, e.Message)
}

func (e *HandshakeError) Unwrap() error {
	return e.Err
}

// NotInitializedError marks a method invoked on a connection that is not
// Ready. Callers above the client check state first, so hitting this is a
// contract violation.
type NotInitializedError struct {
	Server string
	State  State
}

func (e *NotInitializedError) Error() string {
	return fmt.Sprintf("server %s is not initialized (state %s)", e.Server, e.State)
}
