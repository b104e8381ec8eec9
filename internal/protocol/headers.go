package protocol

import (
	"math"
	"net/netip"
)

// Fixed wire sizes in bytes.
const (
	ProtocolHeaderLen   = 8
	CommandHeaderLen    = 4
	NotifyHeaderLen     = 19
	RemoteNodeHeaderLen = 8
	RotationHeaderLen   = 1
	TwoQubitHeaderLen   = 2
	QubitHeaderLen      = 2
	TimeInfoHeaderLen   = 8
	EntInfoHeaderLen    = 40
)

// ProtocolHeader starts every CQC message.
//
//	[0]    version
//	[1]    msg_type
//	[2:4]  app_id
//	[4:8]  length of all following headers
type ProtocolHeader struct {
	Version uint8
	Type    MessageType
	AppID   uint16
	Length  uint32
}

// CommandHeader names the instruction and the qubit it acts on.
//
//	[0:2] qubit_id
//	[2]   instr
//	[3]   options
type CommandHeader struct {
	QubitID     uint16
	Instruction Instruction
	Options     Options
}

// NotifyHeader trails completion responses.
//
//	[0:2]   qubit_id
//	[2]     outcome
//	[3:5]   remote_app_id
//	[5:9]   remote_node
//	[9:11]  remote_port
//	[11:19] timestamp
type NotifyHeader struct {
	QubitID     uint16
	Outcome     uint8
	RemoteAppID uint16
	RemoteNode  uint32
	RemotePort  uint16
	Timestamp   uint64
}

// RemoteNodeHeader addresses the peer of a SEND or EPR.
//
//	[0:2] remote_app_id
//	[2:6] remote_node (IPv4)
//	[6:8] remote_port
type RemoteNodeHeader struct {
	RemoteAppID uint16
	RemoteNode  uint32
	RemotePort  uint16
}

// RemoteNodeFromAddr builds a RemoteNodeHeader from an IPv4 address and port.
func RemoteNodeFromAddr(appID uint16, addr netip.AddrPort) (RemoteNodeHeader, bool) {
	ip := addr.Addr().Unmap()
	if !ip.Is4() {
		return RemoteNodeHeader{}, false
	}
	b := ip.As4()
	node := uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
	return RemoteNodeHeader{RemoteAppID: appID, RemoteNode: node, RemotePort: addr.Port()}, true
}

// Addr returns the peer as an IPv4 address and port.
func (h RemoteNodeHeader) Addr() netip.AddrPort {
	n := h.RemoteNode
	ip := netip.AddrFrom4([4]byte{byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)})
	return netip.AddrPortFrom(ip, h.RemotePort)
}

// RotationHeader carries the angle of a rotation gate in steps of 2π/256.
type RotationHeader struct {
	Step uint8
}

// Angle returns the rotation angle in radians.
func (h RotationHeader) Angle() float64 {
	return float64(h.Step) * 2 * math.Pi / 256
}

// RotationStep discretizes an angle in radians to the nearest step.
func RotationStep(rad float64) uint8 {
	turns := math.Mod(rad/(2*math.Pi), 1)
	if turns < 0 {
		turns++
	}
	return uint8(int(math.Round(turns*256)) % 256)
}

// TwoQubitHeader names the target qubit of CNOT and CPHASE.
type TwoQubitHeader struct {
	TargetQubitID uint16
}

// QubitHeader names the local qubit of a freshly created EPR half. It
// precedes the EntInfoHeader in an EPR-OK response.
type QubitHeader struct {
	QubitID uint16
}

// TimeInfoHeader answers GetTime with the qubit creation time.
type TimeInfoHeader struct {
	Datetime uint64
}

// EntInfoHeader describes a freshly created EPR pair.
//
//	[0:4]   node_a      [4:6]   port_a      [6:8]   app_id_a
//	[8:12]  node_b      [12:14] port_b      [14:16] app_id_b
//	[16:20] id_ab       [20:28] timestamp   [28:36] tog
//	[36:38] goodness    [38]    df          [39]    align
type EntInfoHeader struct {
	NodeA     uint32
	PortA     uint16
	AppIDA    uint16
	NodeB     uint32
	PortB     uint16
	AppIDB    uint16
	IDAB      uint32
	Timestamp uint64
	ToG       uint64
	Goodness  uint16
	DF        uint8
	Align     uint8
}

func (ProtocolHeader) Len() int   { return ProtocolHeaderLen }
func (CommandHeader) Len() int    { return CommandHeaderLen }
func (NotifyHeader) Len() int     { return NotifyHeaderLen }
func (RemoteNodeHeader) Len() int { return RemoteNodeHeaderLen }
func (RotationHeader) Len() int   { return RotationHeaderLen }
func (TwoQubitHeader) Len() int   { return TwoQubitHeaderLen }
func (QubitHeader) Len() int      { return QubitHeaderLen }
func (TimeInfoHeader) Len() int   { return TimeInfoHeaderLen }
func (EntInfoHeader) Len() int    { return EntInfoHeaderLen }
