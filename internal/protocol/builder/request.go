package builder

import (
	"io"

	"github.com/danmuck/cqc/internal/protocol"
)

// Request is an ordered, immutable CQC request:
//
//	[ProtocolHeader, CommandHeader?, Xtra?]
//
// The zero value is not a valid request; use Build or a Builder method.
type Request struct {
	header  protocol.ProtocolHeader
	command protocol.CommandHeader
	hasCmd  bool
	xtra    protocol.Encodable
}

func newRequest(appID uint16, t protocol.MessageType, cmd *protocol.CommandHeader, xtra protocol.Encodable) Request {
	req := Request{
		header: protocol.ProtocolHeader{
			Version: protocol.Version,
			Type:    t,
			AppID:   appID,
		},
		xtra: xtra,
	}
	if cmd != nil {
		req.command = *cmd
		req.hasCmd = true
	}
	req.header.Length = uint32(req.Len() - protocol.ProtocolHeaderLen)
	return req
}

// Header returns the leading protocol header.
func (r Request) Header() protocol.ProtocolHeader {
	return r.header
}

// Command returns the command header, if the request has one.
func (r Request) Command() (protocol.CommandHeader, bool) {
	return r.command, r.hasCmd
}

// Xtra returns the trailing instruction header, if any. The dynamic type is
// RemoteNodeHeader, RotationHeader or TwoQubitHeader.
func (r Request) Xtra() (protocol.Encodable, bool) {
	return r.xtra, r.xtra != nil
}

func (r Request) RemoteNode() (protocol.RemoteNodeHeader, bool) {
	h, ok := r.xtra.(protocol.RemoteNodeHeader)
	return h, ok
}

func (r Request) Rotation() (protocol.RotationHeader, bool) {
	h, ok := r.xtra.(protocol.RotationHeader)
	return h, ok
}

func (r Request) TwoQubit() (protocol.TwoQubitHeader, bool) {
	h, ok := r.xtra.(protocol.TwoQubitHeader)
	return h, ok
}

// Headers returns the header sequence in wire order. The slice is a fresh
// copy on every call.
func (r Request) Headers() []protocol.Encodable {
	out := make([]protocol.Encodable, 0, 3)
	out = append(out, r.header)
	if r.hasCmd {
		out = append(out, r.command)
	}
	if r.xtra != nil {
		out = append(out, r.xtra)
	}
	return out
}

// Len is the full wire size of the request.
func (r Request) Len() int {
	return protocol.EncodedLen(r.Headers()...)
}

func (r Request) AppendTo(dst []byte) []byte {
	dst = r.header.AppendTo(dst)
	if r.hasCmd {
		dst = r.command.AppendTo(dst)
	}
	if r.xtra != nil {
		dst = r.xtra.AppendTo(dst)
	}
	return dst
}

// Bytes returns the canonical encoding of the request.
func (r Request) Bytes() []byte {
	return protocol.Encode(r)
}

// WriteTo writes the encoded request to w.
func (r Request) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(r.Bytes())
	return int64(n), err
}
