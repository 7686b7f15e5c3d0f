package wire

import (
	"encoding/binary"

	"github.com/openxen/xenstore-go/op"
)

// StateKind classifies the parser's current state.
type StateKind int

const (
	// NeedMoreData means the parser wants Pending more bytes before
	// it can make further progress (either still accumulating the
	// fixed header, or accumulating a payload of known length).
	NeedMoreData StateKind = iota
	// UnknownOperation is terminal: the header decoded a ty outside
	// the defined Op enumeration.
	UnknownOperation
	// Failed is terminal: a framing-level protocol violation (len
	// over the protocol maximum, or other field-decode failure).
	Failed
	// Complete is terminal: a whole Packet is ready.
	Complete
)

// State is the parser's externally observable status.
type State struct {
	Kind StateKind

	// Pending is only meaningful when Kind == NeedMoreData: the
	// number of additional bytes the parser needs before its next
	// transition.
	Pending int

	// Code is only meaningful when Kind == UnknownOperation.
	Code int32

	// Packet is only meaningful when Kind == Complete.
	Packet Packet
}

// parserPhase distinguishes the two NeedMoreData sub-states: still
// filling the fixed header buffer, or filling a payload buffer of
// known length. An explicit int discriminant with phase-local scratch
// buffers, since framing here is exactly header-then-payload with no
// further sub-messages.
type parserPhase int

const (
	phaseHeader parserPhase = iota
	phasePayload
	phaseDone
)

// Parser is a small explicit state machine that incrementally decodes
// one Packet from a byte stream fed in arbitrary-sized chunks,
// including one byte at a time. It never blocks and never reads on
// its own; callers (typically stream.PacketStream) own the I/O.
//
// A Parser instance decodes exactly one Packet. Once it reaches a
// terminal state (Complete, Failed, or UnknownOperation) further
// Input calls are no-ops that return the same terminal State; start a
// fresh Parser for the next packet.
type Parser struct {
	phase parserPhase

	header    [HeaderLen]byte
	headerLen int

	tid, rid uint32
	ty       int32
	length   uint32

	payload    []byte
	payloadLen int

	terminal *State
}

// NewParser starts a fresh parser in the initial NeedMoreData(16) state.
func NewParser() *Parser {
	return &Parser{phase: phaseHeader}
}

// State returns the parser's current state without consuming input.
func (p *Parser) State() State {
	if p.terminal != nil {
		return *p.terminal
	}
	switch p.phase {
	case phaseHeader:
		return State{Kind: NeedMoreData, Pending: HeaderLen - p.headerLen}
	case phasePayload:
		return State{Kind: NeedMoreData, Pending: int(p.length) - p.payloadLen}
	default:
		// Unreachable while terminal is nil, but total regardless.
		return State{Kind: NeedMoreData, Pending: 0}
	}
}

// Input feeds the next chunk of bytes to the parser and returns the
// resulting State. Callers must pass at most State().Pending bytes;
// Input defensively slices down to that bound if given more. Once a
// terminal state is reached, further Input calls are no-ops returning
// that same terminal state.
func (p *Parser) Input(b []byte) State {
	if p.terminal != nil {
		return *p.terminal
	}

	pending := p.State().Pending
	if len(b) > pending {
		b = b[:pending]
	}

	switch p.phase {
	case phaseHeader:
		return p.inputHeader(b)
	case phasePayload:
		return p.inputPayload(b)
	default:
		return *p.terminal
	}
}

func (p *Parser) inputHeader(b []byte) State {
	n := copy(p.header[p.headerLen:], b)
	p.headerLen += n
	if p.headerLen < HeaderLen {
		return State{Kind: NeedMoreData, Pending: HeaderLen - p.headerLen}
	}
	return p.decodeHeader()
}

func (p *Parser) decodeHeader() State {
	ty := int32(binary.LittleEndian.Uint32(p.header[0:4]))
	rid := binary.LittleEndian.Uint32(p.header[4:8])
	tid := binary.LittleEndian.Uint32(p.header[8:12])
	length := binary.LittleEndian.Uint32(p.header[12:16])

	decoded, ok := op.FromI32(ty)
	if !ok {
		return p.fail(State{Kind: UnknownOperation, Code: ty})
	}
	if length > MaxPayload {
		return p.fail(State{Kind: Failed})
	}

	p.ty, p.rid, p.tid, p.length = ty, rid, tid, length

	if length == 0 {
		pkt := NewPacket(tid, rid, decoded, nil)
		return p.fail(State{Kind: Complete, Packet: pkt})
	}

	p.payload = make([]byte, length)
	p.phase = phasePayload
	return State{Kind: NeedMoreData, Pending: int(length)}
}

func (p *Parser) inputPayload(b []byte) State {
	n := copy(p.payload[p.payloadLen:], b)
	p.payloadLen += n
	if p.payloadLen < len(p.payload) {
		return State{Kind: NeedMoreData, Pending: len(p.payload) - p.payloadLen}
	}
	decoded, _ := op.FromI32(p.ty)
	pkt := NewPacket(p.tid, p.rid, decoded, p.payload)
	return p.fail(State{Kind: Complete, Packet: pkt})
}

// fail latches s as the terminal state and returns it. Complete
// latches through this same path as Failed/UnknownOperation.
func (p *Parser) fail(s State) State {
	p.terminal = &s
	p.phase = phaseDone
	return s
}
