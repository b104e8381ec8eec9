package schema

import (
	"fmt"

	"github.com/danmuck/cqc/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Xtra names the trailing header an instruction requires after its command
// header.
type Xtra uint8

const (
	XtraNone Xtra = iota
	XtraRemoteNode
	XtraRotation
	XtraTwoQubit
)

func (x Xtra) String() string {
	switch x {
	case XtraNone:
		return "none"
	case XtraRemoteNode:
		return "remote_node"
	case XtraRotation:
		return "rotation"
	case XtraTwoQubit:
		return "two_qubit"
	default:
		return fmt.Sprintf("xtra(%d)", uint8(x))
	}
}

// Len is the wire size of the trailing header.
func (x Xtra) Len() int {
	switch x {
	case XtraRemoteNode:
		return protocol.RemoteNodeHeaderLen
	case XtraRotation:
		return protocol.RotationHeaderLen
	case XtraTwoQubit:
		return protocol.TwoQubitHeaderLen
	default:
		return 0
	}
}

// Of classifies a trailing header value. ok is false for header types that
// never trail a command.
func Of(h protocol.Encodable) (x Xtra, ok bool) {
	switch h.(type) {
	case nil:
		return XtraNone, true
	case protocol.RemoteNodeHeader:
		return XtraRemoteNode, true
	case protocol.RotationHeader:
		return XtraRotation, true
	case protocol.TwoQubitHeader:
		return XtraTwoQubit, true
	default:
		return XtraNone, false
	}
}

// Rule is the header contract of one instruction.
type Rule struct {
	Instruction protocol.Instruction
	Xtra        Xtra
	// TargetsQubit is set when the command acts on an existing qubit, so
	// qubit id 0 is not a legal handle.
	TargetsQubit bool
}

var rules = map[protocol.Instruction]Rule{
	protocol.InstrI:              {protocol.InstrI, XtraNone, true},
	protocol.InstrNew:            {protocol.InstrNew, XtraNone, false},
	protocol.InstrMeasure:        {protocol.InstrMeasure, XtraNone, true},
	protocol.InstrMeasureInPlace: {protocol.InstrMeasureInPlace, XtraNone, true},
	protocol.InstrReset:          {protocol.InstrReset, XtraNone, true},
	protocol.InstrSend:           {protocol.InstrSend, XtraRemoteNode, true},
	protocol.InstrRecv:           {protocol.InstrRecv, XtraNone, false},
	protocol.InstrEPR:            {protocol.InstrEPR, XtraRemoteNode, false},
	protocol.InstrEPRRecv:        {protocol.InstrEPRRecv, XtraNone, false},

	protocol.InstrX:    {protocol.InstrX, XtraNone, true},
	protocol.InstrZ:    {protocol.InstrZ, XtraNone, true},
	protocol.InstrY:    {protocol.InstrY, XtraNone, true},
	protocol.InstrT:    {protocol.InstrT, XtraNone, true},
	protocol.InstrRotX: {protocol.InstrRotX, XtraRotation, true},
	protocol.InstrRotY: {protocol.InstrRotY, XtraRotation, true},
	protocol.InstrRotZ: {protocol.InstrRotZ, XtraRotation, true},
	protocol.InstrH:    {protocol.InstrH, XtraNone, true},
	protocol.InstrK:    {protocol.InstrK, XtraNone, true},

	protocol.InstrCNOT:   {protocol.InstrCNOT, XtraTwoQubit, true},
	protocol.InstrCPhase: {protocol.InstrCPhase, XtraTwoQubit, true},

	// Allocate carries a qubit count in the qubit id field.
	protocol.InstrAllocate: {protocol.InstrAllocate, XtraNone, false},
	protocol.InstrRelease:  {protocol.InstrRelease, XtraNone, true},
}

// ValidationError reports a lookup against the contract tables that failed.
// Kind is a protocol sentinel and is returned by Unwrap.
type ValidationError struct {
	Kind    error
	Subject string
	Reason  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("schema: %s: %s", e.Subject, e.Reason)
}

func (e ValidationError) Unwrap() error {
	return e.Kind
}

// InstructionRule returns the header contract for instr.
func InstructionRule(instr protocol.Instruction) (Rule, error) {
	rule, ok := rules[instr]
	if !ok {
		log.Debug().Uint8("instruction", uint8(instr)).Msg("schema.InstructionRule unknown instruction")
		return Rule{}, ValidationError{
			Kind:    protocol.ErrUnrecognizedValue,
			Subject: instr.String(),
			Reason:  "unknown instruction",
		}
	}
	return rule, nil
}

// Payload names the trailing header shape of a response.
type Payload uint8

const (
	PayloadEmpty Payload = iota
	PayloadNotify
	PayloadErrorCode
	PayloadEntInfo
	PayloadTimeInfo
)

func (p Payload) String() string {
	switch p {
	case PayloadEmpty:
		return "empty"
	case PayloadNotify:
		return "notify"
	case PayloadErrorCode:
		return "error_code"
	case PayloadEntInfo:
		return "ent_info"
	case PayloadTimeInfo:
		return "time_info"
	default:
		return fmt.Sprintf("payload(%d)", uint8(p))
	}
}

// Len is the number of bytes the payload occupies after the protocol header.
func (p Payload) Len() int {
	switch p {
	case PayloadNotify:
		return protocol.NotifyHeaderLen
	case PayloadEntInfo:
		return protocol.QubitHeaderLen + protocol.EntInfoHeaderLen
	case PayloadTimeInfo:
		return protocol.TimeInfoHeaderLen
	default:
		return 0
	}
}

var responsePayloads = map[protocol.MessageType]Payload{
	protocol.MsgHello:   PayloadEmpty,
	protocol.MsgDone:    PayloadEmpty,
	protocol.MsgNewOK:   PayloadNotify,
	protocol.MsgMeasOut: PayloadNotify,
	protocol.MsgRecv:    PayloadNotify,
	protocol.MsgExpire:  PayloadNotify,
	protocol.MsgEPROK:   PayloadEntInfo,
	protocol.MsgInfTime: PayloadTimeInfo,

	protocol.MsgErrGeneral:     PayloadErrorCode,
	protocol.MsgErrNoQubit:     PayloadErrorCode,
	protocol.MsgErrUnsupported: PayloadErrorCode,
	protocol.MsgErrTimeout:     PayloadErrorCode,
	protocol.MsgErrInUse:       PayloadErrorCode,
	protocol.MsgErrUnknown:     PayloadErrorCode,
}

// ResponsePayload returns the payload shape a response of type t carries.
// Request-only types and the factory/sequence types are unsupported.
func ResponsePayload(t protocol.MessageType) (Payload, error) {
	p, ok := responsePayloads[t]
	if !ok {
		return 0, ValidationError{
			Kind:    protocol.ErrUnsupportedResponse,
			Subject: t.String(),
			Reason:  "no response payload shape",
		}
	}
	return p, nil
}

// RequestCarriesCommand reports whether a request of type t is followed by a
// command header. Factory and sequence requests are not supported.
func RequestCarriesCommand(t protocol.MessageType) (bool, error) {
	switch t {
	case protocol.MsgHello:
		return false, nil
	case protocol.MsgCommand, protocol.MsgGetTime:
		return true, nil
	default:
		return false, ValidationError{
			Kind:    protocol.ErrUnsupportedRequest,
			Subject: t.String(),
			Reason:  "not a supported request type",
		}
	}
}
