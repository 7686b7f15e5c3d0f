package wire

import (
	"strconv"

	"github.com/openxen/xenstore-go/acl"
	"github.com/openxen/xenstore-go/op"
)

// String projects p's data as a single string, for reply types that
// carry exactly one string payload (Read, GetDomainPath).
func String(p Packet) (string, bool) {
	switch p.Ty() {
	case op.Read, op.GetDomainPath:
		return string(p.Data()), true
	default:
		return "", false
	}
}

// List splits p's data on NUL, dropping a trailing empty segment.
func List(p Packet) ([]string, bool) {
	parts := splitNulTerminated(p.DataRaw())
	out := make([]string, len(parts))
	for i, part := range parts {
		out[i] = string(part)
	}
	return out, true
}

// ACL parses p's data as an ACL value.
func ACL(p Packet) (acl.ACL, bool) {
	a, err := acl.Parse(p.DataRaw())
	if err != nil {
		return acl.ACL{}, false
	}
	return a, true
}

// Int projects p's data as a decimal integer.
func Int(p Packet) (int, bool) {
	n, err := strconv.Atoi(string(p.Data()))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Int32 projects p's data as a decimal int32.
func Int32(p Packet) (int32, bool) {
	n, err := strconv.ParseInt(string(p.Data()), 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(n), true
}

// Unit succeeds iff the payload decodes as an empty ack of the form
// "OK\0" or an empty payload; it fails on an Error payload.
func Unit(p Packet) (struct{}, bool) {
	if p.Ty() == op.Error {
		return struct{}{}, false
	}
	d := p.Data()
	if len(d) == 0 || string(d) == "OK" {
		return struct{}{}, true
	}
	return struct{}{}, false
}

// Ok succeeds iff p is not an Error reply.
func Ok(p Packet) (struct{}, bool) {
	if p.Ty() == op.Error {
		return struct{}{}, false
	}
	return struct{}{}, true
}

// Unmarshaller projects a response packet's payload into a typed
// value T, returning ok=false for any payload that does not decode
// into the expected shape.
type Unmarshaller[T any] func(Packet) (T, bool)

// Response verifies that received correlates with sent (matching rid
// and tid), maps an Error-typed reply to the appropriate ServerError,
// and otherwise invokes unmarshal against received.
func Response[T any](debugHint string, sent, received Packet, unmarshal Unmarshaller[T]) (T, error) {
	var zero T
	if received.Rid() != sent.Rid() || received.Tid() != sent.Tid() {
		return zero, CorrelationError{DebugHint: debugHint}
	}
	if received.Ty() == op.Error {
		name := string(received.Data())
		return zero, ClassifyServerError(name)
	}
	v, ok := unmarshal(received)
	if !ok {
		return zero, CorrelationError{DebugHint: debugHint}
	}
	return v, nil
}
