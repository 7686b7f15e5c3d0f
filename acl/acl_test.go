package acl

import (
	"errors"
	"reflect"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	cases := []ACL{
		{Owner: 0, Other: ReadWrite},
		{Owner: 1, Other: None, Overrides: []Override{{Domid: 2, Perm: ReadOnly}}},
		{Owner: 7, Other: WriteOnly, Overrides: []Override{
			{Domid: 1, Perm: ReadOnly},
			{Domid: 2, Perm: ReadWrite},
			{Domid: 3, Perm: None},
		}},
	}
	for _, want := range cases {
		wire := want.String()
		got, err := Parse([]byte(wire))
		if err != nil {
			t.Fatalf("Parse(%q): %v", wire, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("round trip mismatch: got %+v want %+v", got, want)
		}
	}
}

func TestParseWireForm(t *testing.T) {
	got, err := Parse([]byte("b0\x00r5\x00"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := ACL{Owner: 0, Other: ReadWrite, Overrides: []Override{{Domid: 5, Perm: ReadOnly}}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestParseMalformed(t *testing.T) {
	cases := [][]byte{
		nil,
		[]byte(""),
		[]byte("x0"),
		[]byte("bnotanumber"),
		[]byte("b0\x00znotaperm5"),
	}
	for _, c := range cases {
		if _, err := Parse(c); !errors.Is(err, ErrMalformed) {
			t.Fatalf("Parse(%q): expected ErrMalformed, got %v", c, err)
		}
	}
}

func TestCharPermInverse(t *testing.T) {
	for _, p := range []Perm{None, ReadOnly, WriteOnly, ReadWrite} {
		c := CharOfPerm(p)
		got, ok := PermOfChar(c)
		if !ok || got != p {
			t.Fatalf("perm %v did not round trip through char %q", p, c)
		}
	}
	if _, ok := PermOfChar('x'); ok {
		t.Fatalf("expected PermOfChar('x') to fail")
	}
}
