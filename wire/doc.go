// Package wire implements the XenStore wire protocol: packet framing,
// incremental parsing, watch-token coding, and the typed
// request/response/unmarshal layer that binds semantic operations to
// packet shape.
//
// Ownership boundary:
//   - packet header codec and trailing-NUL convention (packet.go)
//   - incremental frame parser state machine (parser.go)
//   - watch-token issuance/parsing (token.go)
//   - typed request constructors + parser (request.go)
//   - typed response constructors (response.go)
//   - payload projections + correlation helper (unmarshal.go)
package wire
