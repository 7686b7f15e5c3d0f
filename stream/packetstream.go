package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/openxen/xenstore-go/wire"
)

// ErrResponseParserFailed is returned by Recv on a framing-level
// protocol violation: the parser reaching Failed (bad length), or a
// short read before completion (reported as ErrZeroByteRead, which
// wraps this error).
var ErrResponseParserFailed = errors.New("stream: response parser failed")

// ErrZeroByteRead is returned by Recv when the channel reports a
// zero-byte read (with a nil error or io.EOF) before the parser
// reaches Complete: a framing failure, so it wraps
// ErrResponseParserFailed.
var ErrZeroByteRead = fmt.Errorf("%w: zero-byte read before packet complete", ErrResponseParserFailed)

// ErrShortWrite is returned by Send when the channel's Write returns 0
// bytes with a nil error. A partial write is not an error; Send keeps
// writing the remainder.
var ErrShortWrite = errors.New("stream: short write")

// Logger is the minimal observation hook PacketStream accepts.
type Logger interface {
	Logf(format string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Logf(string, ...any) {}

// UnknownXenstoreOperationError is returned by Recv when the parser
// decodes a header operation code outside the defined enumeration.
type UnknownXenstoreOperationError struct {
	Code int32
}

func (e UnknownXenstoreOperationError) Error() string {
	return fmt.Sprintf("stream: unknown xenstore operation %d", e.Code)
}

// PacketStream adapts one Channel into a whole-Packet send/receive
// interface. Not safe for concurrent Send calls or concurrent Recv
// calls; independent goroutines may call Send and Recv concurrently
// on the same stream.
type PacketStream struct {
	ch      Channel
	log     Logger
	scratch []byte
}

// Make binds a PacketStream to ch.
func Make(ch Channel) *PacketStream {
	return &PacketStream{ch: ch, log: noopLogger{}, scratch: make([]byte, wire.MaxPayload)}
}

// WithLogger attaches an observation hook, returning the stream for
// chaining.
func (s *PacketStream) WithLogger(l Logger) *PacketStream {
	if l != nil {
		s.log = l
	}
	return s
}

// Send serializes p and writes it to the channel in full, looping
// until all bytes are drained. It fails if the channel ever returns 0
// bytes with a nil error, or a non-nil error.
func (s *PacketStream) Send(p wire.Packet) error {
	buf := p.ToBytes()
	written := 0
	for written < len(buf) {
		n, err := s.ch.Write(buf, written, len(buf)-written)
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrShortWrite
		}
		written += n
	}
	s.log.Logf("stream: sent ty=%s rid=%d tid=%d bytes=%d", p.Ty(), p.Rid(), p.Tid(), len(buf))
	return nil
}

// Recv reads from the channel until a whole Packet is decoded. Each
// read is sized to the parser's current Pending count, so Recv never
// over-reads past one packet's boundary.
func (s *PacketStream) Recv() (wire.Packet, error) {
	parser := wire.NewParser()
	for {
		st := parser.State()
		switch st.Kind {
		case wire.Complete:
			s.log.Logf("stream: recv ty=%s rid=%d tid=%d", st.Packet.Ty(), st.Packet.Rid(), st.Packet.Tid())
			return st.Packet, nil
		case wire.UnknownOperation:
			return wire.Packet{}, UnknownXenstoreOperationError{Code: st.Code}
		case wire.Failed:
			return wire.Packet{}, ErrResponseParserFailed
		}

		need := st.Pending
		if need > len(s.scratch) {
			need = len(s.scratch)
		}
		n, err := s.ch.Read(s.scratch, 0, need)
		if n == 0 && (err == nil || errors.Is(err, io.EOF)) {
			return wire.Packet{}, ErrZeroByteRead
		}
		if err != nil {
			return wire.Packet{}, err
		}

		next := parser.Input(s.scratch[:n])
		switch next.Kind {
		case wire.Complete:
			s.log.Logf("stream: recv ty=%s rid=%d tid=%d", next.Packet.Ty(), next.Packet.Rid(), next.Packet.Tid())
			return next.Packet, nil
		case wire.UnknownOperation:
			return wire.Packet{}, UnknownXenstoreOperationError{Code: next.Code}
		case wire.Failed:
			return wire.Packet{}, ErrResponseParserFailed
		}
	}
}
