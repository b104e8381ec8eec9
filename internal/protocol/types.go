package protocol

import (
	"fmt"
	"strings"
)

// Version is the only CQC interface version this package speaks.
const Version uint8 = 2

// MessageType is the msg_type byte of the CQC header.
type MessageType uint8

const (
	MsgHello   MessageType = 0  // alive check
	MsgCommand MessageType = 1  // execute a command list
	MsgFactory MessageType = 2  // execute a command list repeatedly
	MsgExpire  MessageType = 3  // qubit has expired
	MsgDone    MessageType = 4  // command execution done
	MsgRecv    MessageType = 5  // received qubit
	MsgEPROK   MessageType = 6  // created EPR pair
	MsgMeasOut MessageType = 7  // measurement outcome
	MsgGetTime MessageType = 8  // get creation time of qubit
	MsgInfTime MessageType = 9  // timing information
	MsgNewOK   MessageType = 10 // created new qubit
	MsgMix     MessageType = 11 // multiple header types follow
	MsgIf      MessageType = 12 // conditional action

	MsgErrGeneral     MessageType = 20 // general purpose error
	MsgErrNoQubit     MessageType = 21 // no more qubits available
	MsgErrUnsupported MessageType = 22 // command sequence not supported
	MsgErrTimeout     MessageType = 23 // timeout
	MsgErrInUse       MessageType = 24 // qubit already in use
	MsgErrUnknown     MessageType = 25 // unknown qubit id
)

var messageTypeNames = map[MessageType]string{
	MsgHello:          "hello",
	MsgCommand:        "command",
	MsgFactory:        "factory",
	MsgExpire:         "expire",
	MsgDone:           "done",
	MsgRecv:           "recv",
	MsgEPROK:          "epr-ok",
	MsgMeasOut:        "measure-out",
	MsgGetTime:        "get-time",
	MsgInfTime:        "inf-time",
	MsgNewOK:          "new-ok",
	MsgMix:            "mix",
	MsgIf:             "if",
	MsgErrGeneral:     "error-general",
	MsgErrNoQubit:     "error-noqubit",
	MsgErrUnsupported: "error-unsupported",
	MsgErrTimeout:     "error-timeout",
	MsgErrInUse:       "error-inuse",
	MsgErrUnknown:     "error-unknown",
}

// Valid reports whether t is a defined message type.
func (t MessageType) Valid() bool {
	_, ok := messageTypeNames[t]
	return ok
}

// IsError reports whether t is one of the error message types.
func (t MessageType) IsError() bool {
	return t >= MsgErrGeneral && t <= MsgErrUnknown
}

func (t MessageType) String() string {
	if name, ok := messageTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("msg_type(%d)", uint8(t))
}

// Instruction is the instr byte of the command header.
type Instruction uint8

const (
	InstrI              Instruction = 0 // identity
	InstrNew            Instruction = 1
	InstrMeasure        Instruction = 2
	InstrMeasureInPlace Instruction = 3
	InstrReset          Instruction = 4
	InstrSend           Instruction = 5
	InstrRecv           Instruction = 6
	InstrEPR            Instruction = 7
	InstrEPRRecv        Instruction = 8

	InstrX    Instruction = 10
	InstrZ    Instruction = 11
	InstrY    Instruction = 12
	InstrT    Instruction = 13
	InstrRotX Instruction = 14
	InstrRotY Instruction = 15
	InstrRotZ Instruction = 16
	InstrH    Instruction = 17
	InstrK    Instruction = 18

	InstrCNOT   Instruction = 20
	InstrCPhase Instruction = 21

	InstrAllocate Instruction = 22
	InstrRelease  Instruction = 23
)

var instructionNames = map[Instruction]string{
	InstrI:              "i",
	InstrNew:            "new",
	InstrMeasure:        "measure",
	InstrMeasureInPlace: "measure-inplace",
	InstrReset:          "reset",
	InstrSend:           "send",
	InstrRecv:           "recv",
	InstrEPR:            "epr",
	InstrEPRRecv:        "epr-recv",
	InstrX:              "x",
	InstrZ:              "z",
	InstrY:              "y",
	InstrT:              "t",
	InstrRotX:           "rot-x",
	InstrRotY:           "rot-y",
	InstrRotZ:           "rot-z",
	InstrH:              "h",
	InstrK:              "k",
	InstrCNOT:           "cnot",
	InstrCPhase:         "cphase",
	InstrAllocate:       "allocate",
	InstrRelease:        "release",
}

// Valid reports whether i is a defined instruction.
func (i Instruction) Valid() bool {
	_, ok := instructionNames[i]
	return ok
}

func (i Instruction) String() string {
	if name, ok := instructionNames[i]; ok {
		return name
	}
	return fmt.Sprintf("instr(%d)", uint8(i))
}

// Instructions returns every defined instruction in code order.
func Instructions() []Instruction {
	out := make([]Instruction, 0, len(instructionNames))
	for code := 0; code <= 0xFF; code++ {
		if i := Instruction(code); i.Valid() {
			out = append(out, i)
		}
	}
	return out
}

// ParseInstruction maps a name such as "cnot" or "ROT_X" to its instruction.
func ParseInstruction(name string) (Instruction, error) {
	want := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for instr, n := range instructionNames {
		if n == want {
			return instr, nil
		}
	}
	return 0, fmt.Errorf("%w: instruction %q", ErrUnrecognizedValue, name)
}
