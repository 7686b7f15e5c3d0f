package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/openxen/xenstore-go/op"
)

// HeaderLen is the fixed, wire-exact packet header size: four
// little-endian u32 fields, ty|rid|tid|len.
const HeaderLen = 16

// MaxPayload is the protocol-level maximum payload length in bytes.
const MaxPayload = 4096

// Packet is one complete XenStore wire message: header fields plus a
// payload buffer.
type Packet struct {
	tid     uint32
	rid     uint32
	ty      op.Op
	payload []byte
}

// NewPacket builds a Packet. len(payload) must be representable on
// the wire (≤ MaxPayload); ToBytes is what enforces that.
func NewPacket(tid, rid uint32, ty op.Op, payload []byte) Packet {
	buf := make([]byte, len(payload))
	copy(buf, payload)
	return Packet{tid: tid, rid: rid, ty: ty, payload: buf}
}

func (p Packet) Tid() uint32 { return p.tid }
func (p Packet) Rid() uint32 { return p.rid }
func (p Packet) Ty() op.Op   { return p.ty }

// Data returns the payload with one trailing NUL stripped, iff the
// payload is non-empty and its last byte is 0x00.
func (p Packet) Data() []byte {
	if len(p.payload) > 0 && p.payload[len(p.payload)-1] == 0 {
		return p.payload[:len(p.payload)-1]
	}
	out := make([]byte, len(p.payload))
	copy(out, p.payload)
	return out
}

// DataRaw returns the payload exactly as stored, with no NUL
// stripping.
func (p Packet) DataRaw() []byte {
	out := make([]byte, len(p.payload))
	copy(out, p.payload)
	return out
}

// ToBytes emits the 16-byte little-endian header followed by the raw
// payload. The emitted length is always len(payload), so encoding
// never produces a header/body length mismatch.
func (p Packet) ToBytes() []byte {
	if len(p.payload) > MaxPayload {
		panic(fmt.Sprintf("wire: packet payload length %d exceeds protocol maximum %d", len(p.payload), MaxPayload))
	}
	buf := make([]byte, HeaderLen+len(p.payload))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(p.ty.ToI32()))
	binary.LittleEndian.PutUint32(buf[4:8], p.rid)
	binary.LittleEndian.PutUint32(buf[8:12], p.tid)
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(p.payload)))
	copy(buf[HeaderLen:], p.payload)
	return buf
}
