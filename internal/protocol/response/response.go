// Package response decodes inbound CQC messages into typed responses.
//
// Ownership boundary:
// - payload shape selected by message type alone
// - partial accessors that fail with AccessError on the wrong shape
// - node-side construction of responses (Server)
package response

import (
	"fmt"

	"github.com/danmuck/cqc/internal/protocol"
	"github.com/danmuck/cqc/internal/protocol/schema"
	"github.com/rs/zerolog/log"
)

// AccessError reports a payload accessor called on a response of another
// shape.
type AccessError struct {
	Want schema.Payload
	Got  schema.Payload
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("response: %v: want %s, have %s", protocol.ErrWrongPayload, e.Want, e.Got)
}

func (e *AccessError) Unwrap() error {
	return protocol.ErrWrongPayload
}

// Response is a decoded CQC response. It is immutable; only the payload
// matching Kind() is populated.
type Response struct {
	header protocol.ProtocolHeader

	kind     schema.Payload
	notify   protocol.NotifyHeader
	eprQubit protocol.QubitHeader
	entInfo  protocol.EntInfoHeader
	timeInfo protocol.TimeInfoHeader
}

// Header returns a copy of the leading protocol header.
func (r Response) Header() protocol.ProtocolHeader {
	return r.header
}

func (r Response) Kind() schema.Payload {
	return r.kind
}

func (r Response) Type() protocol.MessageType {
	return r.header.Type
}

func (r Response) IsError() bool {
	return r.header.Type.IsError()
}

func (r Response) Notify() (protocol.NotifyHeader, error) {
	if r.kind != schema.PayloadNotify {
		return protocol.NotifyHeader{}, &AccessError{Want: schema.PayloadNotify, Got: r.kind}
	}
	return r.notify, nil
}

// ErrorCode returns the error message type of an error response.
func (r Response) ErrorCode() (protocol.MessageType, error) {
	if r.kind != schema.PayloadErrorCode {
		return 0, &AccessError{Want: schema.PayloadErrorCode, Got: r.kind}
	}
	return r.header.Type, nil
}

// EntInfo returns the local qubit id of the new EPR half and the pair
// description.
func (r Response) EntInfo() (qubitID uint16, ent protocol.EntInfoHeader, err error) {
	if r.kind != schema.PayloadEntInfo {
		return 0, protocol.EntInfoHeader{}, &AccessError{Want: schema.PayloadEntInfo, Got: r.kind}
	}
	return r.eprQubit.QubitID, r.entInfo, nil
}

func (r Response) TimeInfo() (protocol.TimeInfoHeader, error) {
	if r.kind != schema.PayloadTimeInfo {
		return protocol.TimeInfoHeader{}, &AccessError{Want: schema.PayloadTimeInfo, Got: r.kind}
	}
	return r.timeInfo, nil
}

func (r Response) payload() []protocol.Encodable {
	switch r.kind {
	case schema.PayloadNotify:
		return []protocol.Encodable{r.notify}
	case schema.PayloadEntInfo:
		return []protocol.Encodable{r.eprQubit, r.entInfo}
	case schema.PayloadTimeInfo:
		return []protocol.Encodable{r.timeInfo}
	default:
		return nil
	}
}

func (r Response) Len() int {
	return protocol.ProtocolHeaderLen + r.kind.Len()
}

func (r Response) AppendTo(dst []byte) []byte {
	dst = r.header.AppendTo(dst)
	for _, h := range r.payload() {
		dst = h.AppendTo(dst)
	}
	return dst
}

func (r Response) Bytes() []byte {
	return protocol.Encode(r)
}

// Decode reads one response from the front of buf. It never reads past the
// declared length; trailing bytes belong to the next message.
func Decode(buf []byte) (Response, error) {
	resp, err := decode(buf)
	if err != nil {
		log.Debug().Err(err).Int("bytes", len(buf)).Msg("response.Decode failed")
		return Response{}, err
	}
	log.Debug().
		Stringer("msg_type", resp.header.Type).
		Uint16("app_id", resp.header.AppID).
		Stringer("payload", resp.kind).
		Msg("response.Decode ok")
	return resp, nil
}

func decode(buf []byte) (Response, error) {
	hdr, err := protocol.DecodeProtocolHeader(buf)
	if err != nil {
		return Response{}, err
	}
	if hdr.Version != protocol.Version {
		return Response{}, protocol.Unrecognized("protocol_header", "version", uint64(hdr.Version))
	}
	kind, err := schema.ResponsePayload(hdr.Type)
	if err != nil {
		return Response{}, err
	}
	if int(hdr.Length) != kind.Len() {
		return Response{}, protocol.LengthMismatch("protocol_header", "length", int(hdr.Length), kind.Len())
	}
	need := protocol.ProtocolHeaderLen + kind.Len()
	if len(buf) < need {
		return Response{}, protocol.Truncated("response", need, len(buf))
	}

	resp := Response{header: hdr, kind: kind}
	body := buf[protocol.ProtocolHeaderLen:need]
	switch kind {
	case schema.PayloadNotify:
		resp.notify, err = protocol.DecodeNotifyHeader(body)
	case schema.PayloadEntInfo:
		resp.eprQubit, err = protocol.DecodeQubitHeader(body)
		if err == nil {
			resp.entInfo, err = protocol.DecodeEntInfoHeader(body[protocol.QubitHeaderLen:])
		}
	case schema.PayloadTimeInfo:
		resp.timeInfo, err = protocol.DecodeTimeInfoHeader(body)
	}
	if err != nil {
		return Response{}, err
	}
	return resp, nil
}
