// Package frame moves whole CQC messages across a byte stream.
//
// The protocol core never owns a connection. Callers hand this package an
// io.Reader or io.Writer and get back exactly one message worth of bytes.
package frame

import (
	"errors"
	"fmt"
	"io"

	"github.com/danmuck/cqc/internal/observability"
	"github.com/danmuck/cqc/internal/protocol"
	"github.com/rs/zerolog/log"
)

var ErrMessageTooLarge = errors.New("frame: message too large")

// Limits constrains message read memory use. The zero value means
// DefaultLimits.
type Limits struct {
	MaxMessageBytes uint32
}

func DefaultLimits() Limits {
	return Limits{MaxMessageBytes: 64 * 1024}
}

// ReadMessage reads one complete message: the protocol header, then the
// Length bytes it declares. The returned slice starts with the header.
// io.EOF is returned only when r ends on a message boundary; a partial
// message is ErrTruncated.
func ReadMessage(r io.Reader, limits Limits) ([]byte, error) {
	msg, err := readMessage(r, limits)
	if err != nil {
		if err != io.EOF {
			observability.RecordError("read", err)
		}
		return nil, err
	}
	hdr, _ := protocol.DecodeProtocolHeader(msg)
	observability.RecordMessage(observability.DirectionIn, hdr.Type, len(msg))
	log.Debug().Stringer("msg_type", hdr.Type).Int("bytes", len(msg)).Msg("frame.ReadMessage")
	return msg, nil
}

func readMessage(r io.Reader, limits Limits) ([]byte, error) {
	var fixed [protocol.ProtocolHeaderLen]byte
	if n, err := io.ReadFull(r, fixed[:]); err != nil {
		if n == 0 && err == io.EOF {
			return nil, io.EOF
		}
		return nil, shortRead(err, "protocol_header", protocol.ProtocolHeaderLen, n)
	}
	hdr, err := protocol.DecodeProtocolHeader(fixed[:])
	if err != nil {
		return nil, err
	}
	if limits.MaxMessageBytes == 0 {
		limits = DefaultLimits()
	}
	if hdr.Length > limits.MaxMessageBytes {
		return nil, fmt.Errorf("%w: length %d exceeds %d", ErrMessageTooLarge, hdr.Length, limits.MaxMessageBytes)
	}

	msg := make([]byte, protocol.ProtocolHeaderLen+int(hdr.Length))
	copy(msg, fixed[:])
	if hdr.Length > 0 {
		if n, err := io.ReadFull(r, msg[protocol.ProtocolHeaderLen:]); err != nil {
			return nil, shortRead(err, "message_body", int(hdr.Length), n)
		}
	}
	return msg, nil
}

func shortRead(err error, header string, need, have int) error {
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		return protocol.Truncated(header, need, have)
	}
	return fmt.Errorf("frame: read %s: %w", header, err)
}

// WriteMessage writes the encoding of m in a single Write call.
func WriteMessage(w io.Writer, m protocol.Encodable) error {
	b := protocol.Encode(m)
	if _, err := w.Write(b); err != nil {
		err = fmt.Errorf("frame: write: %w", err)
		observability.RecordError("write", err)
		return err
	}
	hdr, _ := protocol.DecodeProtocolHeader(b)
	observability.RecordMessage(observability.DirectionOut, hdr.Type, len(b))
	return nil
}

// Peek inspects a partially filled buffer. n is the full size of the first
// message once its header is known (0 before that); complete reports
// whether buf already holds all n bytes. err is set only for a header that
// can never become valid.
func Peek(buf []byte) (n int, complete bool, err error) {
	if len(buf) < protocol.ProtocolHeaderLen {
		return 0, false, nil
	}
	hdr, err := protocol.DecodeProtocolHeader(buf)
	if err != nil {
		return 0, false, err
	}
	n = protocol.ProtocolHeaderLen + int(hdr.Length)
	return n, len(buf) >= n, nil
}
