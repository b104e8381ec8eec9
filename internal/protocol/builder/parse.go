package builder

import (
	"github.com/danmuck/cqc/internal/protocol"
	"github.com/danmuck/cqc/internal/protocol/schema"
	"github.com/rs/zerolog/log"
)

// ParseRequest decodes one request from the front of buf and checks it
// against the same rules Build enforces. Bytes past the declared length are
// ignored.
func ParseRequest(buf []byte) (Request, error) {
	req, err := parseRequest(buf)
	if err != nil {
		log.Debug().Err(err).Int("bytes", len(buf)).Msg("builder.ParseRequest rejected")
		return Request{}, err
	}
	return req, nil
}

func parseRequest(buf []byte) (Request, error) {
	hdr, err := protocol.DecodeProtocolHeader(buf)
	if err != nil {
		return Request{}, err
	}
	if hdr.Version != protocol.Version {
		return Request{}, protocol.Unrecognized("protocol_header", "version", uint64(hdr.Version))
	}
	carries, err := schema.RequestCarriesCommand(hdr.Type)
	if err != nil {
		return Request{}, err
	}
	if !carries {
		if hdr.Length != 0 {
			return Request{}, protocol.LengthMismatch("protocol_header", "length", int(hdr.Length), 0)
		}
		return newRequest(hdr.AppID, hdr.Type, nil, nil), nil
	}

	if hdr.Length < protocol.CommandHeaderLen {
		return Request{}, protocol.LengthMismatch("protocol_header", "length", int(hdr.Length), protocol.CommandHeaderLen)
	}
	body := buf[protocol.ProtocolHeaderLen:]
	cmd, err := protocol.DecodeCommandHeader(body)
	if err != nil {
		return Request{}, err
	}

	rule, err := schema.InstructionRule(cmd.Instruction)
	if err != nil {
		return Request{}, err
	}
	if hdr.Type == protocol.MsgGetTime && cmd.Instruction != protocol.InstrI {
		return Request{}, &BuildError{
			Kind:        protocol.ErrUnexpectedParameter,
			Instruction: cmd.Instruction,
			Field:       "instruction",
			Reason:      "get-time carries the identity instruction",
		}
	}

	expected := protocol.CommandHeaderLen + rule.Xtra.Len()
	if int(hdr.Length) != expected {
		return Request{}, protocol.LengthMismatch("protocol_header", "length", int(hdr.Length), expected)
	}
	if len(body) < expected {
		return Request{}, protocol.Truncated("request", protocol.ProtocolHeaderLen+expected, len(buf))
	}

	xtra, err := decodeXtra(rule.Xtra, body[protocol.CommandHeaderLen:])
	if err != nil {
		return Request{}, err
	}
	if err := validate(rule, cmd, xtra); err != nil {
		return Request{}, err
	}
	return newRequest(hdr.AppID, hdr.Type, &cmd, xtra), nil
}

func decodeXtra(x schema.Xtra, buf []byte) (protocol.Encodable, error) {
	switch x {
	case schema.XtraRemoteNode:
		return protocol.DecodeRemoteNodeHeader(buf)
	case schema.XtraRotation:
		return protocol.DecodeRotationHeader(buf)
	case schema.XtraTwoQubit:
		return protocol.DecodeTwoQubitHeader(buf)
	default:
		return nil, nil
	}
}
