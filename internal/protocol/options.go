package protocol

import "strings"

// Options is the command header option bitset.
//
//	bit0 0x01 notify   send a notification when the command completes
//	bit1 0x02 action   a trailing header belongs to this command
//	bit2 0x04 block    block until the command is done
//	bit3 0x08 if-then  execute the command after done
type Options uint8

const (
	OptNotify Options = 1 << iota
	OptAction
	OptBlock
	OptIfThen

	optDefined = OptNotify | OptAction | OptBlock | OptIfThen
)

// Has reports whether every bit of flag is set.
func (o Options) Has(flag Options) bool {
	return o&flag == flag
}

// Set returns o with flag set.
func (o Options) Set(flag Options) Options {
	return o | flag
}

// Clear returns o with flag cleared.
func (o Options) Clear(flag Options) Options {
	return o &^ flag
}

// Undefined returns the bits of o that no option names.
func (o Options) Undefined() Options {
	return o &^ optDefined
}

func (o Options) String() string {
	if o == 0 {
		return "none"
	}
	parts := make([]string, 0, 4)
	if o.Has(OptNotify) {
		parts = append(parts, "notify")
	}
	if o.Has(OptAction) {
		parts = append(parts, "action")
	}
	if o.Has(OptBlock) {
		parts = append(parts, "block")
	}
	if o.Has(OptIfThen) {
		parts = append(parts, "if-then")
	}
	if o.Undefined() != 0 {
		parts = append(parts, "undefined")
	}
	return strings.Join(parts, "|")
}
