// Package acl parses and serializes XenStore access-control-list
// values: the payload shape used by GET_PERMS/SET_PERMS.
package acl

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// Perm is a XenStore permission level.
type Perm uint8

const (
	None Perm = iota
	ReadOnly
	WriteOnly
	ReadWrite
)

var (
	// ErrMalformed is returned by Parse for any structurally invalid
	// wire form: bad permission char, non-decimal domid, empty input.
	ErrMalformed = errors.New("acl: malformed wire form")
)

// CharOfPerm returns the single-byte wire encoding of p.
func CharOfPerm(p Perm) byte {
	switch p {
	case None:
		return 'n'
	case ReadOnly:
		return 'r'
	case WriteOnly:
		return 'w'
	case ReadWrite:
		return 'b'
	default:
		return 'n'
	}
}

// PermOfChar is the partial inverse of CharOfPerm.
func PermOfChar(c byte) (Perm, bool) {
	switch c {
	case 'n':
		return None, true
	case 'r':
		return ReadOnly, true
	case 'w':
		return WriteOnly, true
	case 'b':
		return ReadWrite, true
	default:
		return 0, false
	}
}

// Override is a per-domain permission exception.
type Override struct {
	Domid uint32
	Perm  Perm
}

// ACL is a parsed GET_PERMS/SET_PERMS payload: an owning domain, the
// default permission applied to every other domain, and a list of
// per-domain overrides.
type ACL struct {
	Owner     uint32
	Other     Perm
	Overrides []Override
}

// Parse decodes the wire form:
//
//	<perm_char><owner>\0<perm_char><domid>\0...
//
// The first segment sets Owner+Other; later segments are overrides.
// A trailing empty segment (from a trailing '\0') is tolerated and
// dropped. Any malformed segment (bad permission character, non-decimal
// domid, or no segments at all) is reported via ErrMalformed.
func Parse(s []byte) (ACL, error) {
	segments := bytes.Split(s, []byte{0})
	if len(segments) > 0 && len(segments[len(segments)-1]) == 0 {
		segments = segments[:len(segments)-1]
	}
	if len(segments) == 0 {
		return ACL{}, fmt.Errorf("%w: empty input", ErrMalformed)
	}

	owner, other, err := parseSegment(segments[0])
	if err != nil {
		return ACL{}, err
	}
	a := ACL{Owner: owner, Other: other}

	for _, seg := range segments[1:] {
		domid, perm, err := parseSegment(seg)
		if err != nil {
			return ACL{}, err
		}
		a.Overrides = append(a.Overrides, Override{Domid: domid, Perm: perm})
	}
	return a, nil
}

func parseSegment(seg []byte) (domid uint32, perm Perm, err error) {
	if len(seg) < 2 {
		return 0, 0, fmt.Errorf("%w: short segment %q", ErrMalformed, seg)
	}
	perm, ok := PermOfChar(seg[0])
	if !ok {
		return 0, 0, fmt.Errorf("%w: bad permission char %q", ErrMalformed, seg[0])
	}
	n, err := strconv.ParseUint(string(seg[1:]), 10, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: bad domid %q", ErrMalformed, seg[1:])
	}
	return uint32(n), perm, nil
}

// String serializes a back to its wire form, including a trailing
// NUL after every segment (including the last), matching the
// on-wire convention that ACL payloads are always NUL-terminated.
func (a ACL) String() string {
	var buf bytes.Buffer
	writeSegment(&buf, a.Owner, a.Other)
	for _, o := range a.Overrides {
		writeSegment(&buf, o.Domid, o.Perm)
	}
	return buf.String()
}

func writeSegment(buf *bytes.Buffer, domid uint32, perm Perm) {
	buf.WriteByte(CharOfPerm(perm))
	buf.WriteString(strconv.FormatUint(uint64(domid), 10))
	buf.WriteByte(0)
}
