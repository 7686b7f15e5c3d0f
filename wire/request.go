package wire

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/openxen/xenstore-go/acl"
	"github.com/openxen/xenstore-go/op"
)

// RequestPayload is the receiver-side dual of the Request
// constructors: a tagged variant describing what a decoded request
// packet asked for, produced by Parse.
type RequestPayload struct {
	Op op.Op

	Path  string // Directory, Read, GetPerms, Mkdir, Rm, Write, Watch, Unwatch, SetPerms
	Value []byte // Write

	Token Token // Watch, Unwatch

	ACL acl.ACL // SetPerms

	Commit bool // TransactionEnd

	Domid       uint32 // Introduce, Release, Resume, GetDomainPath, IsIntroduced, Restrict, SetTarget
	Mfn         uint64 // Introduce
	Port        uint32 // Introduce
	TargetDomid uint32 // SetTarget

	DebugCmds []string // Debug
}

func validateField(s string) error {
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return ErrEmbeddedNUL
	}
	return nil
}

func buildPayload(parts ...[]byte) []byte {
	var buf bytes.Buffer
	for _, p := range parts {
		buf.Write(p)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func finish(tid, rid uint32, o op.Op, payload []byte) (Packet, error) {
	if len(payload) > MaxPayload {
		return Packet{}, fmt.Errorf("%w: %d bytes", ErrDataTooLarge, len(payload))
	}
	return NewPacket(tid, rid, o, payload), nil
}

// path-only request builder shared by Directory, Read, GetPerms, Mkdir, Rm.
func pathRequest(o op.Op, tid uint32, path string) (Packet, error) {
	if path == "" {
		return Packet{}, ErrEmptyPath
	}
	if err := validateField(path); err != nil {
		return Packet{}, err
	}
	payload := buildPayload([]byte(path))
	return finish(tid, NextRequestID(), o, payload)
}

func NewDirectory(tid uint32, path string) (Packet, error) { return pathRequest(op.Directory, tid, path) }
func NewRead(tid uint32, path string) (Packet, error)      { return pathRequest(op.Read, tid, path) }
func NewGetPerms(tid uint32, path string) (Packet, error)  { return pathRequest(op.GetPerms, tid, path) }
func NewMkdir(tid uint32, path string) (Packet, error)     { return pathRequest(op.Mkdir, tid, path) }
func NewRm(tid uint32, path string) (Packet, error)        { return pathRequest(op.Rm, tid, path) }

// NewWrite builds a Write request. The payload is "path\0value", with
// no trailing NUL after value.
func NewWrite(tid uint32, path string, value []byte) (Packet, error) {
	if path == "" {
		return Packet{}, ErrEmptyPath
	}
	if err := validateField(path); err != nil {
		return Packet{}, err
	}
	var buf bytes.Buffer
	buf.WriteString(path)
	buf.WriteByte(0)
	buf.Write(value)
	return finish(tid, NextRequestID(), op.Write, buf.Bytes())
}

// NewSetPerms builds a SetPerms request: "path\0<acl wire form>".
func NewSetPerms(tid uint32, path string, a acl.ACL) (Packet, error) {
	if path == "" {
		return Packet{}, ErrEmptyPath
	}
	if err := validateField(path); err != nil {
		return Packet{}, err
	}
	var buf bytes.Buffer
	buf.WriteString(path)
	buf.WriteByte(0)
	buf.WriteString(a.String())
	return finish(tid, NextRequestID(), op.SetPerms, buf.Bytes())
}

// NewWatch builds a Watch request: "path\0token\0", tid always 0.
func NewWatch(path string, token Token) (Packet, error) { return watchRequest(op.Watch, path, token) }

// NewUnwatch builds an Unwatch request: "path\0token\0", tid always 0.
func NewUnwatch(path string, token Token) (Packet, error) { return watchRequest(op.Unwatch, path, token) }

func watchRequest(o op.Op, path string, token Token) (Packet, error) {
	if path == "" {
		return Packet{}, ErrEmptyPath
	}
	if err := validateField(path); err != nil {
		return Packet{}, err
	}
	if err := validateField(string(token)); err != nil {
		return Packet{}, err
	}
	payload := buildPayload([]byte(path), []byte(token))
	return finish(0, NextRequestID(), o, payload)
}

// NewTransactionStart builds a TransactionStart request: empty
// payload, tid always 0.
func NewTransactionStart() (Packet, error) {
	return finish(0, NextRequestID(), op.TransactionStart, nil)
}

// NewTransactionEnd builds a TransactionEnd request: payload "T\0" if
// commit, else "F\0".
func NewTransactionEnd(tid uint32, commit bool) (Packet, error) {
	flag := "F"
	if commit {
		flag = "T"
	}
	payload := buildPayload([]byte(flag))
	return finish(tid, NextRequestID(), op.TransactionEnd, payload)
}

// NewIntroduce builds an Introduce request: "domid\0mfn\0port\0",
// tid always 0.
func NewIntroduce(domid uint32, mfn uint64, port uint32) (Packet, error) {
	payload := buildPayload(
		[]byte(strconv.FormatUint(uint64(domid), 10)),
		[]byte(strconv.FormatUint(mfn, 10)),
		[]byte(strconv.FormatUint(uint64(port), 10)),
	)
	return finish(0, NextRequestID(), op.Introduce, payload)
}

// domid-only request builder shared by Release, Resume, GetDomainPath,
// IsIntroduced, Restrict.
func domidRequest(o op.Op, domid uint32) (Packet, error) {
	payload := buildPayload([]byte(strconv.FormatUint(uint64(domid), 10)))
	return finish(0, NextRequestID(), o, payload)
}

func NewRelease(domid uint32) (Packet, error)       { return domidRequest(op.Release, domid) }
func NewResume(domid uint32) (Packet, error)        { return domidRequest(op.Resume, domid) }
func NewGetDomainPath(domid uint32) (Packet, error) { return domidRequest(op.GetDomainPath, domid) }
func NewIsIntroduced(domid uint32) (Packet, error)  { return domidRequest(op.IsIntroduced, domid) }
func NewRestrict(domid uint32) (Packet, error)      { return domidRequest(op.Restrict, domid) }

// NewSetTarget builds a SetTarget request: "domid\0target_domid\0".
func NewSetTarget(domid, targetDomid uint32) (Packet, error) {
	payload := buildPayload(
		[]byte(strconv.FormatUint(uint64(domid), 10)),
		[]byte(strconv.FormatUint(uint64(targetDomid), 10)),
	)
	return finish(0, NextRequestID(), op.SetTarget, payload)
}

// NewDebug builds a Debug request: "cmd1\0cmd2\0...\0".
func NewDebug(cmds ...string) (Packet, error) {
	parts := make([][]byte, 0, len(cmds))
	for _, c := range cmds {
		if err := validateField(c); err != nil {
			return Packet{}, err
		}
		parts = append(parts, []byte(c))
	}
	payload := buildPayload(parts...)
	return finish(0, NextRequestID(), op.Debug, payload)
}

// splitNulTerminated splits a NUL-delimited payload into its segments,
// dropping exactly one trailing empty segment produced by a final
// NUL, matching the wire convention used throughout the request
// grammar.
func splitNulTerminated(payload []byte) [][]byte {
	parts := bytes.Split(payload, []byte{0})
	if len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// Parse is the receiver-side dual of the Request constructors: it
// inspects p.Ty() and splits the payload per the request grammar,
// returning a tagged RequestPayload. Malformed payloads (wrong field
// count, bad ACL, non-numeric where numeric is expected) yield a
// non-nil error rather than a panic.
func Parse(p Packet) (RequestPayload, error) {
	raw := p.DataRaw()
	switch p.Ty() {
	case op.Directory, op.Read, op.GetPerms, op.Mkdir, op.Rm:
		parts := splitNulTerminated(raw)
		if len(parts) != 1 {
			return RequestPayload{}, fmt.Errorf("wire: %s: expected 1 field, got %d", p.Ty(), len(parts))
		}
		return RequestPayload{Op: p.Ty(), Path: string(parts[0])}, nil

	case op.Write:
		i := bytes.IndexByte(raw, 0)
		if i < 0 {
			return RequestPayload{}, fmt.Errorf("wire: write: missing path separator")
		}
		return RequestPayload{Op: p.Ty(), Path: string(raw[:i]), Value: raw[i+1:]}, nil

	case op.SetPerms:
		i := bytes.IndexByte(raw, 0)
		if i < 0 {
			return RequestPayload{}, fmt.Errorf("wire: setperms: missing path separator")
		}
		a, err := acl.Parse(raw[i+1:])
		if err != nil {
			return RequestPayload{}, err
		}
		return RequestPayload{Op: p.Ty(), Path: string(raw[:i]), ACL: a}, nil

	case op.Watch, op.Unwatch:
		parts := splitNulTerminated(raw)
		if len(parts) != 2 {
			return RequestPayload{}, fmt.Errorf("wire: %s: expected 2 fields, got %d", p.Ty(), len(parts))
		}
		return RequestPayload{Op: p.Ty(), Path: string(parts[0]), Token: OfString(string(parts[1]))}, nil

	case op.TransactionStart:
		return RequestPayload{Op: op.TransactionStart}, nil

	case op.TransactionEnd:
		parts := splitNulTerminated(raw)
		if len(parts) != 1 {
			return RequestPayload{}, fmt.Errorf("wire: transaction_end: expected 1 field, got %d", len(parts))
		}
		switch string(parts[0]) {
		case "T":
			return RequestPayload{Op: op.TransactionEnd, Commit: true}, nil
		case "F":
			return RequestPayload{Op: op.TransactionEnd, Commit: false}, nil
		default:
			return RequestPayload{}, fmt.Errorf("wire: transaction_end: invalid flag %q", parts[0])
		}

	case op.Introduce:
		parts := splitNulTerminated(raw)
		if len(parts) != 3 {
			return RequestPayload{}, fmt.Errorf("wire: introduce: expected 3 fields, got %d", len(parts))
		}
		domid, err := strconv.ParseUint(string(parts[0]), 10, 32)
		if err != nil {
			return RequestPayload{}, fmt.Errorf("wire: introduce: bad domid: %w", err)
		}
		mfn, err := strconv.ParseUint(string(parts[1]), 10, 64)
		if err != nil {
			return RequestPayload{}, fmt.Errorf("wire: introduce: bad mfn: %w", err)
		}
		port, err := strconv.ParseUint(string(parts[2]), 10, 32)
		if err != nil {
			return RequestPayload{}, fmt.Errorf("wire: introduce: bad port: %w", err)
		}
		return RequestPayload{Op: op.Introduce, Domid: uint32(domid), Mfn: mfn, Port: uint32(port)}, nil

	case op.Release, op.Resume, op.GetDomainPath, op.IsIntroduced, op.Restrict:
		parts := splitNulTerminated(raw)
		if len(parts) != 1 {
			return RequestPayload{}, fmt.Errorf("wire: %s: expected 1 field, got %d", p.Ty(), len(parts))
		}
		domid, err := strconv.ParseUint(string(parts[0]), 10, 32)
		if err != nil {
			return RequestPayload{}, fmt.Errorf("wire: %s: bad domid: %w", p.Ty(), err)
		}
		return RequestPayload{Op: p.Ty(), Domid: uint32(domid)}, nil

	case op.SetTarget:
		parts := splitNulTerminated(raw)
		if len(parts) != 2 {
			return RequestPayload{}, fmt.Errorf("wire: set_target: expected 2 fields, got %d", len(parts))
		}
		domid, err := strconv.ParseUint(string(parts[0]), 10, 32)
		if err != nil {
			return RequestPayload{}, fmt.Errorf("wire: set_target: bad domid: %w", err)
		}
		target, err := strconv.ParseUint(string(parts[1]), 10, 32)
		if err != nil {
			return RequestPayload{}, fmt.Errorf("wire: set_target: bad target_domid: %w", err)
		}
		return RequestPayload{Op: op.SetTarget, Domid: uint32(domid), TargetDomid: uint32(target)}, nil

	case op.Debug:
		parts := splitNulTerminated(raw)
		cmds := make([]string, len(parts))
		for i, part := range parts {
			cmds[i] = string(part)
		}
		return RequestPayload{Op: op.Debug, DebugCmds: cmds}, nil

	default:
		return RequestPayload{}, fmt.Errorf("wire: %s: not a request operation", p.Ty())
	}
}
