package builder

import (
	"github.com/danmuck/cqc/internal/protocol"
	"github.com/danmuck/cqc/internal/protocol/schema"
	"github.com/rs/zerolog/log"
)

// Params carries the per-instruction inputs of Build. Only the field of the
// instruction's family may be set: Remote for SEND/EPR, Step for rotations,
// Target for two-qubit gates.
type Params struct {
	QubitID uint16
	Options protocol.Options
	Remote  *protocol.RemoteNodeHeader
	Step    *uint8
	Target  *uint16
}

// Build returns the command request for instr. OptAction is managed here: it
// is set exactly when a trailing header is appended, whatever the caller
// passed.
func Build(appID uint16, instr protocol.Instruction, p Params) (Request, error) {
	rule, err := schema.InstructionRule(instr)
	if err != nil {
		return Request{}, fail(&BuildError{Kind: protocol.ErrUnrecognizedValue, Instruction: instr, Field: "instruction"})
	}

	xtra, err := xtraFor(rule, p)
	if err != nil {
		return Request{}, fail(err)
	}

	opts := p.Options
	if xtra != nil {
		opts = opts.Set(protocol.OptAction)
	} else {
		opts = opts.Clear(protocol.OptAction)
	}
	cmd := protocol.CommandHeader{QubitID: p.QubitID, Instruction: instr, Options: opts}
	if err := validate(rule, cmd, xtra); err != nil {
		return Request{}, fail(err)
	}

	req := newRequest(appID, protocol.MsgCommand, &cmd, xtra)
	log.Debug().
		Uint16("app_id", appID).
		Stringer("instruction", instr).
		Uint16("qubit_id", cmd.QubitID).
		Stringer("options", cmd.Options).
		Uint32("length", req.header.Length).
		Msg("builder.Build ok")
	return req, nil
}

func xtraFor(rule schema.Rule, p Params) (protocol.Encodable, error) {
	supplied := map[schema.Xtra]bool{
		schema.XtraRemoteNode: p.Remote != nil,
		schema.XtraRotation:   p.Step != nil,
		schema.XtraTwoQubit:   p.Target != nil,
	}
	for x, set := range supplied {
		if set && x != rule.Xtra {
			return nil, &BuildError{
				Kind:        protocol.ErrUnexpectedParameter,
				Instruction: rule.Instruction,
				Field:       x.String(),
				Reason:      "instruction takes " + rule.Xtra.String(),
			}
		}
	}
	if rule.Xtra != schema.XtraNone && !supplied[rule.Xtra] {
		return nil, &BuildError{
			Kind:        protocol.ErrMissingParameter,
			Instruction: rule.Instruction,
			Field:       rule.Xtra.String(),
		}
	}
	switch rule.Xtra {
	case schema.XtraRemoteNode:
		return *p.Remote, nil
	case schema.XtraRotation:
		return protocol.RotationHeader{Step: *p.Step}, nil
	case schema.XtraTwoQubit:
		return protocol.TwoQubitHeader{TargetQubitID: *p.Target}, nil
	default:
		return nil, nil
	}
}

// validate checks cmd and its trailing header against rule. It is shared by
// Build and ParseRequest.
func validate(rule schema.Rule, cmd protocol.CommandHeader, xtra protocol.Encodable) error {
	if cmd.Options.Undefined() != 0 {
		return &BuildError{
			Kind:        protocol.ErrUnexpectedParameter,
			Instruction: cmd.Instruction,
			Field:       "options",
			Reason:      "undefined option bits",
		}
	}
	if rule.TargetsQubit && cmd.QubitID == 0 {
		return &BuildError{Kind: protocol.ErrInvalidQubitID, Instruction: cmd.Instruction, Field: "qubit_id"}
	}
	x, ok := schema.Of(xtra)
	if !ok || x != rule.Xtra {
		kind := protocol.ErrUnexpectedParameter
		if x == schema.XtraNone && ok {
			kind = protocol.ErrMissingParameter
		}
		return &BuildError{Kind: kind, Instruction: cmd.Instruction, Field: rule.Xtra.String()}
	}
	if cmd.Options.Has(protocol.OptAction) != (xtra != nil) {
		return &BuildError{
			Kind:        protocol.ErrUnexpectedParameter,
			Instruction: cmd.Instruction,
			Field:       "options",
			Reason:      "action bit disagrees with trailing header",
		}
	}
	if tq, ok := xtra.(protocol.TwoQubitHeader); ok {
		if tq.TargetQubitID == 0 {
			return &BuildError{Kind: protocol.ErrInvalidQubitID, Instruction: cmd.Instruction, Field: "target_qubit_id"}
		}
		if tq.TargetQubitID == cmd.QubitID {
			return &BuildError{
				Kind:        protocol.ErrInvalidTarget,
				Instruction: cmd.Instruction,
				Field:       "target_qubit_id",
				Reason:      "target equals acting qubit",
			}
		}
	}
	return nil
}

func fail(err error) error {
	log.Debug().Err(err).Msg("builder.Build rejected")
	return err
}

// Builder binds the caller's application id to every request it builds.
type Builder struct {
	appID uint16
}

func New(appID uint16) Builder {
	return Builder{appID: appID}
}

func (b Builder) AppID() uint16 {
	return b.appID
}

// Hello returns an alive check: a protocol header with nothing after it.
func (b Builder) Hello() Request {
	return newRequest(b.appID, protocol.MsgHello, nil, nil)
}

// GetTime asks for the creation time of qubitID. The command header carries
// the identity instruction.
func (b Builder) GetTime(qubitID uint16, opts protocol.Options) (Request, error) {
	rule, _ := schema.InstructionRule(protocol.InstrI)
	cmd := protocol.CommandHeader{QubitID: qubitID, Instruction: protocol.InstrI, Options: opts.Clear(protocol.OptAction)}
	if err := validate(rule, cmd, nil); err != nil {
		return Request{}, fail(err)
	}
	return newRequest(b.appID, protocol.MsgGetTime, &cmd, nil), nil
}

// Simple builds an instruction that carries no trailing header.
func (b Builder) Simple(instr protocol.Instruction, qubitID uint16, opts protocol.Options) (Request, error) {
	return Build(b.appID, instr, Params{QubitID: qubitID, Options: opts})
}

// Remote builds SEND or EPR.
func (b Builder) Remote(instr protocol.Instruction, qubitID uint16, remote protocol.RemoteNodeHeader, opts protocol.Options) (Request, error) {
	return Build(b.appID, instr, Params{QubitID: qubitID, Options: opts, Remote: &remote})
}

// Rotation builds ROT_X, ROT_Y or ROT_Z with an angle of step·2π/256.
func (b Builder) Rotation(instr protocol.Instruction, qubitID uint16, step uint8, opts protocol.Options) (Request, error) {
	return Build(b.appID, instr, Params{QubitID: qubitID, Options: opts, Step: &step})
}

// TwoQubit builds CNOT or CPHASE with qubitID as control.
func (b Builder) TwoQubit(instr protocol.Instruction, qubitID, target uint16, opts protocol.Options) (Request, error) {
	return Build(b.appID, instr, Params{QubitID: qubitID, Options: opts, Target: &target})
}

// NewQubit asks the node for a fresh qubit. The node assigns the id.
func (b Builder) NewQubit(opts protocol.Options) (Request, error) {
	return b.Simple(protocol.InstrNew, 0, opts)
}

func (b Builder) Measure(qubitID uint16, opts protocol.Options) (Request, error) {
	return b.Simple(protocol.InstrMeasure, qubitID, opts)
}

func (b Builder) Send(qubitID uint16, remote protocol.RemoteNodeHeader, opts protocol.Options) (Request, error) {
	return b.Remote(protocol.InstrSend, qubitID, remote, opts)
}

func (b Builder) EPR(remote protocol.RemoteNodeHeader, opts protocol.Options) (Request, error) {
	return b.Remote(protocol.InstrEPR, 0, remote, opts)
}

func (b Builder) CNOT(control, target uint16, opts protocol.Options) (Request, error) {
	return b.TwoQubit(protocol.InstrCNOT, control, target, opts)
}

func (b Builder) CPhase(control, target uint16, opts protocol.Options) (Request, error) {
	return b.TwoQubit(protocol.InstrCPhase, control, target, opts)
}

func (b Builder) RotX(qubitID uint16, step uint8, opts protocol.Options) (Request, error) {
	return b.Rotation(protocol.InstrRotX, qubitID, step, opts)
}

func (b Builder) RotY(qubitID uint16, step uint8, opts protocol.Options) (Request, error) {
	return b.Rotation(protocol.InstrRotY, qubitID, step, opts)
}

func (b Builder) RotZ(qubitID uint16, step uint8, opts protocol.Options) (Request, error) {
	return b.Rotation(protocol.InstrRotZ, qubitID, step, opts)
}
