package wire

import (
	"bytes"
	"testing"

	"github.com/openxen/xenstore-go/acl"
	"github.com/openxen/xenstore-go/op"
)

func TestNewReadWireBytes(t *testing.T) {
	p, err := NewRead(0, "/foo")
	if err != nil {
		t.Fatalf("NewRead: %v", err)
	}
	b := p.ToBytes()
	if b[0] != 0x02 {
		t.Fatalf("expected ty=2 (Read), got %d", b[0])
	}
	if !bytes.Equal(b[HeaderLen:], []byte("/foo\x00")) {
		t.Fatalf("payload = %q, want %q", b[HeaderLen:], "/foo\x00")
	}
	if p.Tid() != 0 {
		t.Fatalf("tid = %d, want 0", p.Tid())
	}
}

func TestNewWriteNoTrailingNUL(t *testing.T) {
	p, err := NewWrite(0, "/a", []byte("hi"))
	if err != nil {
		t.Fatalf("NewWrite: %v", err)
	}
	if got := string(p.DataRaw()); got != "/a\x00hi" {
		t.Fatalf("payload = %q, want %q", got, "/a\x00hi")
	}
	if p.Ty() != op.Write {
		t.Fatalf("ty = %v, want Write", p.Ty())
	}
}

func TestNewTransactionEnd(t *testing.T) {
	p, err := NewTransactionEnd(7, true)
	if err != nil {
		t.Fatalf("NewTransactionEnd: %v", err)
	}
	if p.Ty().ToI32() != 7 {
		t.Fatalf("ty = %d, want 7", p.Ty().ToI32())
	}
	if p.Tid() != 7 {
		t.Fatalf("tid = %d, want 7", p.Tid())
	}
	if got := string(p.DataRaw()); got != "T\x00" {
		t.Fatalf("payload = %q, want %q", got, "T\x00")
	}
}

func TestNewWatchTidAlwaysZero(t *testing.T) {
	p, err := NewWatch("/a/b", OfUserString("sub"))
	if err != nil {
		t.Fatalf("NewWatch: %v", err)
	}
	if p.Tid() != 0 {
		t.Fatalf("tid = %d, want 0", p.Tid())
	}
}

func TestRequestConstructorsRejectEmptyPath(t *testing.T) {
	if _, err := NewRead(0, ""); err != ErrEmptyPath {
		t.Fatalf("expected ErrEmptyPath, got %v", err)
	}
}

func TestRequestConstructorsRejectEmbeddedNUL(t *testing.T) {
	if _, err := NewRead(0, "/a\x00b"); err == nil {
		t.Fatalf("expected error for embedded NUL in path")
	}
}

func TestNewSetPermsPayload(t *testing.T) {
	a := acl.ACL{Owner: 0, Other: acl.ReadWrite}
	p, err := NewSetPerms(1, "/secret", a)
	if err != nil {
		t.Fatalf("NewSetPerms: %v", err)
	}
	want := "/secret\x00" + a.String()
	if got := string(p.DataRaw()); got != want {
		t.Fatalf("payload = %q, want %q", got, want)
	}
}

func TestNewIntroducePayload(t *testing.T) {
	p, err := NewIntroduce(3, 4096, 7)
	if err != nil {
		t.Fatalf("NewIntroduce: %v", err)
	}
	if got := string(p.DataRaw()); got != "3\x004096\x007\x00" {
		t.Fatalf("payload = %q", got)
	}
	if p.Tid() != 0 {
		t.Fatalf("tid = %d, want 0", p.Tid())
	}
}

func TestParseRoundTripsAllRequestOps(t *testing.T) {
	cases := []struct {
		name  string
		build func() (Packet, error)
		check func(t *testing.T, rp RequestPayload)
	}{
		{"read", func() (Packet, error) { return NewRead(0, "/a") }, func(t *testing.T, rp RequestPayload) {
			if rp.Path != "/a" {
				t.Fatalf("path = %q", rp.Path)
			}
		}},
		{"write", func() (Packet, error) { return NewWrite(0, "/a", []byte("val")) }, func(t *testing.T, rp RequestPayload) {
			if rp.Path != "/a" || string(rp.Value) != "val" {
				t.Fatalf("got %+v", rp)
			}
		}},
		{"watch", func() (Packet, error) { return NewWatch("/a", OfUserString("u")) }, func(t *testing.T, rp RequestPayload) {
			if rp.Path != "/a" || rp.Token.ToUserString() != "u" {
				t.Fatalf("got %+v", rp)
			}
		}},
		{"transaction_start", func() (Packet, error) { return NewTransactionStart() }, func(t *testing.T, rp RequestPayload) {
			if rp.Op != op.TransactionStart {
				t.Fatalf("got %+v", rp)
			}
		}},
		{"transaction_end", func() (Packet, error) { return NewTransactionEnd(5, false) }, func(t *testing.T, rp RequestPayload) {
			if rp.Commit {
				t.Fatalf("expected commit=false")
			}
		}},
		{"introduce", func() (Packet, error) { return NewIntroduce(1, 2, 3) }, func(t *testing.T, rp RequestPayload) {
			if rp.Domid != 1 || rp.Mfn != 2 || rp.Port != 3 {
				t.Fatalf("got %+v", rp)
			}
		}},
		{"set_target", func() (Packet, error) { return NewSetTarget(1, 2) }, func(t *testing.T, rp RequestPayload) {
			if rp.Domid != 1 || rp.TargetDomid != 2 {
				t.Fatalf("got %+v", rp)
			}
		}},
		{"debug", func() (Packet, error) { return NewDebug("a", "b") }, func(t *testing.T, rp RequestPayload) {
			if len(rp.DebugCmds) != 2 || rp.DebugCmds[0] != "a" || rp.DebugCmds[1] != "b" {
				t.Fatalf("got %+v", rp)
			}
		}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := c.build()
			if err != nil {
				t.Fatalf("build: %v", err)
			}
			rp, err := Parse(p)
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			c.check(t, rp)
		})
	}
}

func TestParseMalformedSetPerms(t *testing.T) {
	p := NewPacket(0, 0, op.SetPerms, []byte("/secret\x00garbage"))
	if _, err := Parse(p); err == nil {
		t.Fatalf("expected error parsing malformed ACL")
	}
}
