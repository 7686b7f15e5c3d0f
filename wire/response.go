package wire

import (
	"strconv"

	"github.com/openxen/xenstore-go/acl"
	"github.com/openxen/xenstore-go/op"
)

// Each Response builder takes the received request packet (to copy
// rid/tid for correlation) and the response payload, returning a new
// packet ready to send back to the caller.

func correlated(req Packet, o op.Op, payload []byte) Packet {
	return NewPacket(req.Tid(), req.Rid(), o, payload)
}

// ReadResponse builds a Read reply: payload is value with no trailing NUL.
func ReadResponse(req Packet, value []byte) Packet {
	return correlated(req, op.Read, value)
}

// GetPermsResponse builds a GetPerms reply.
func GetPermsResponse(req Packet, a acl.ACL) Packet {
	return correlated(req, op.GetPerms, []byte(a.String()))
}

// GetDomainPathResponse builds a GetDomainPath reply: "path\0".
func GetDomainPathResponse(req Packet, path string) Packet {
	return correlated(req, op.GetDomainPath, buildPayload([]byte(path)))
}

// TransactionStartResponse builds a TransactionStart reply carrying
// the newly allocated transaction id: "<new_tid>\0".
func TransactionStartResponse(req Packet, newTid uint32) Packet {
	payload := buildPayload([]byte(strconv.FormatUint(uint64(newTid), 10)))
	return correlated(req, op.TransactionStart, payload)
}

// DirectoryResponse builds a Directory reply: "name1\0name2\0...\0".
func DirectoryResponse(req Packet, names []string) Packet {
	parts := make([][]byte, len(names))
	for i, n := range names {
		parts[i] = []byte(n)
	}
	return correlated(req, op.Directory, buildPayload(parts...))
}

// ackResponse builds a generic success acknowledgement: "OK\0", with
// ty equal to the request's own operation.
func ackResponse(req Packet) Packet {
	return correlated(req, req.Ty(), buildPayload([]byte("OK")))
}

func WriteResponse(req Packet) Packet           { return ackResponse(req) }
func MkdirResponse(req Packet) Packet           { return ackResponse(req) }
func RmResponse(req Packet) Packet              { return ackResponse(req) }
func SetPermsResponse(req Packet) Packet        { return ackResponse(req) }
func WatchResponse(req Packet) Packet           { return ackResponse(req) }
func UnwatchResponse(req Packet) Packet         { return ackResponse(req) }
func TransactionEndResponse(req Packet) Packet  { return ackResponse(req) }
func IntroduceResponse(req Packet) Packet       { return ackResponse(req) }
func ReleaseResponse(req Packet) Packet         { return ackResponse(req) }
func SetTargetResponse(req Packet) Packet       { return ackResponse(req) }
func RestrictResponse(req Packet) Packet        { return ackResponse(req) }
func ResumeResponse(req Packet) Packet          { return ackResponse(req) }

// ErrorResponse builds an Error reply: ty=Error, payload "name\0".
func ErrorResponse(req Packet, name string) Packet {
	return correlated(req, op.Error, buildPayload([]byte(name)))
}

// DebugResponse builds a Debug reply: "line1\0line2\0...\0".
func DebugResponse(req Packet, lines []string) Packet {
	parts := make([][]byte, len(lines))
	for i, l := range lines {
		parts[i] = []byte(l)
	}
	return correlated(req, op.Debug, buildPayload(parts...))
}

// IsIntroducedResponse builds an IsIntroduced reply: "T\0" if b, else "F\0".
func IsIntroducedResponse(req Packet, b bool) Packet {
	flag := "F"
	if b {
		flag = "T"
	}
	return correlated(req, op.IsIntroduced, buildPayload([]byte(flag)))
}

// WatchEventResponse builds an unsolicited watch-event packet. Unlike
// every other Response builder, this one is not correlated to a
// received request packet: rid is always 0 on a watch-event packet,
// since it is not a reply to any single caller's request.
func WatchEventResponse(tid uint32, path string, token Token) Packet {
	payload := buildPayload([]byte(path), []byte(token))
	return NewPacket(tid, 0, op.WatchEvent, payload)
}
