package response

import (
	"fmt"

	"github.com/danmuck/cqc/internal/protocol"
	"github.com/danmuck/cqc/internal/protocol/schema"
)

// Server builds the responses a node sends back to an application. It is
// used by node simulators and by tests that need well-formed inbound bytes.
type Server struct {
	appID uint16
}

func NewServer(appID uint16) Server {
	return Server{appID: appID}
}

func (s Server) header(t protocol.MessageType, kind schema.Payload) protocol.ProtocolHeader {
	return protocol.ProtocolHeader{
		Version: protocol.Version,
		Type:    t,
		AppID:   s.appID,
		Length:  uint32(kind.Len()),
	}
}

func (s Server) empty(t protocol.MessageType) Response {
	return Response{header: s.header(t, schema.PayloadEmpty), kind: schema.PayloadEmpty}
}

func (s Server) withNotify(t protocol.MessageType, n protocol.NotifyHeader) Response {
	return Response{header: s.header(t, schema.PayloadNotify), kind: schema.PayloadNotify, notify: n}
}

func (s Server) Hello() Response {
	return s.empty(protocol.MsgHello)
}

func (s Server) Done() Response {
	return s.empty(protocol.MsgDone)
}

// NewOK reports the id assigned to a freshly created qubit.
func (s Server) NewOK(qubitID uint16) Response {
	return s.withNotify(protocol.MsgNewOK, protocol.NotifyHeader{QubitID: qubitID})
}

func (s Server) MeasOut(qubitID uint16, outcome uint8) Response {
	return s.withNotify(protocol.MsgMeasOut, protocol.NotifyHeader{QubitID: qubitID, Outcome: outcome})
}

// Recv reports a qubit received from the node described by n.
func (s Server) Recv(n protocol.NotifyHeader) Response {
	return s.withNotify(protocol.MsgRecv, n)
}

func (s Server) Expire(qubitID uint16) Response {
	return s.withNotify(protocol.MsgExpire, protocol.NotifyHeader{QubitID: qubitID})
}

// EPROK reports a created EPR pair whose local half is qubitID.
func (s Server) EPROK(qubitID uint16, ent protocol.EntInfoHeader) Response {
	return Response{
		header:   s.header(protocol.MsgEPROK, schema.PayloadEntInfo),
		kind:     schema.PayloadEntInfo,
		eprQubit: protocol.QubitHeader{QubitID: qubitID},
		entInfo:  ent,
	}
}

func (s Server) InfTime(datetime uint64) Response {
	return Response{
		header:   s.header(protocol.MsgInfTime, schema.PayloadTimeInfo),
		kind:     schema.PayloadTimeInfo,
		timeInfo: protocol.TimeInfoHeader{Datetime: datetime},
	}
}

// Error builds an error response. code must be one of the error message
// types.
func (s Server) Error(code protocol.MessageType) (Response, error) {
	if !code.IsError() {
		return Response{}, fmt.Errorf("response: %w: %s is not an error type", protocol.ErrUnexpectedParameter, code)
	}
	return Response{header: s.header(code, schema.PayloadErrorCode), kind: schema.PayloadErrorCode}, nil
}
