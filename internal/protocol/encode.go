package protocol

import "encoding/binary"

// Encodable is anything with a fixed canonical byte form: every header, a
// built request, and a response.
type Encodable interface {
	Len() int
	AppendTo(dst []byte) []byte
}

// Encode returns the canonical big-endian bytes of e. It never fails.
func Encode(e Encodable) []byte {
	return e.AppendTo(make([]byte, 0, e.Len()))
}

// EncodedLen sums the wire size of hs.
func EncodedLen(hs ...Encodable) int {
	total := 0
	for _, h := range hs {
		total += h.Len()
	}
	return total
}

var be = binary.BigEndian

func (h ProtocolHeader) AppendTo(dst []byte) []byte {
	dst = append(dst, h.Version, byte(h.Type))
	dst = be.AppendUint16(dst, h.AppID)
	return be.AppendUint32(dst, h.Length)
}

func (h CommandHeader) AppendTo(dst []byte) []byte {
	dst = be.AppendUint16(dst, h.QubitID)
	return append(dst, byte(h.Instruction), byte(h.Options))
}

func (h NotifyHeader) AppendTo(dst []byte) []byte {
	dst = be.AppendUint16(dst, h.QubitID)
	dst = append(dst, h.Outcome)
	dst = be.AppendUint16(dst, h.RemoteAppID)
	dst = be.AppendUint32(dst, h.RemoteNode)
	dst = be.AppendUint16(dst, h.RemotePort)
	return be.AppendUint64(dst, h.Timestamp)
}

func (h RemoteNodeHeader) AppendTo(dst []byte) []byte {
	dst = be.AppendUint16(dst, h.RemoteAppID)
	dst = be.AppendUint32(dst, h.RemoteNode)
	return be.AppendUint16(dst, h.RemotePort)
}

func (h RotationHeader) AppendTo(dst []byte) []byte {
	return append(dst, h.Step)
}

func (h TwoQubitHeader) AppendTo(dst []byte) []byte {
	return be.AppendUint16(dst, h.TargetQubitID)
}

func (h QubitHeader) AppendTo(dst []byte) []byte {
	return be.AppendUint16(dst, h.QubitID)
}

func (h TimeInfoHeader) AppendTo(dst []byte) []byte {
	return be.AppendUint64(dst, h.Datetime)
}

func (h EntInfoHeader) AppendTo(dst []byte) []byte {
	dst = be.AppendUint32(dst, h.NodeA)
	dst = be.AppendUint16(dst, h.PortA)
	dst = be.AppendUint16(dst, h.AppIDA)
	dst = be.AppendUint32(dst, h.NodeB)
	dst = be.AppendUint16(dst, h.PortB)
	dst = be.AppendUint16(dst, h.AppIDB)
	dst = be.AppendUint32(dst, h.IDAB)
	dst = be.AppendUint64(dst, h.Timestamp)
	dst = be.AppendUint64(dst, h.ToG)
	dst = be.AppendUint16(dst, h.Goodness)
	return append(dst, h.DF, h.Align)
}
