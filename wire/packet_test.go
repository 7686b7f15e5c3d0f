package wire

import (
	"bytes"
	"testing"

	"github.com/openxen/xenstore-go/op"
)

func TestToBytesHeaderLayout(t *testing.T) {
	p := NewPacket(0, 7, op.Read, []byte("/foo\x00"))
	b := p.ToBytes()
	if len(b) != HeaderLen+5 {
		t.Fatalf("unexpected length %d", len(b))
	}
	want := []byte{
		0x02, 0, 0, 0, // ty = Read = 2
		0x07, 0, 0, 0, // rid = 7
		0, 0, 0, 0, // tid = 0
		0x05, 0, 0, 0, // len = 5
	}
	if !bytes.Equal(b[:HeaderLen], want) {
		t.Fatalf("header mismatch: got % x want % x", b[:HeaderLen], want)
	}
	if !bytes.Equal(b[HeaderLen:], []byte("/foo\x00")) {
		t.Fatalf("payload mismatch: got %q", b[HeaderLen:])
	}
}

func TestDataStripsOneTrailingNUL(t *testing.T) {
	p := NewPacket(0, 0, op.Read, []byte("hello\x00"))
	if got := string(p.Data()); got != "hello" {
		t.Fatalf("Data() = %q, want %q", got, "hello")
	}
	if got := string(p.DataRaw()); got != "hello\x00" {
		t.Fatalf("DataRaw() = %q, want %q", got, "hello\x00")
	}
}

func TestDataDoesNotStripWithoutTrailingNUL(t *testing.T) {
	p := NewPacket(0, 0, op.Write, []byte("/a\x00hi"))
	if got := string(p.Data()); got != "/a\x00hi" {
		t.Fatalf("Data() = %q, want unchanged", got)
	}
}

func TestDataEmptyPayload(t *testing.T) {
	p := NewPacket(0, 0, op.Rm, nil)
	if got := p.Data(); len(got) != 0 {
		t.Fatalf("Data() = %q, want empty", got)
	}
}

func TestAccessors(t *testing.T) {
	p := NewPacket(9, 4, op.Mkdir, []byte("x"))
	if p.Tid() != 9 || p.Rid() != 4 || p.Ty() != op.Mkdir {
		t.Fatalf("accessor mismatch: %+v", p)
	}
}
