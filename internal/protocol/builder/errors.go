package builder

import (
	"fmt"

	"github.com/danmuck/cqc/internal/protocol"
)

// BuildError reports a request the protocol forbids. Kind is one of
// protocol.ErrInvalidQubitID, ErrInvalidTarget, ErrMissingParameter,
// ErrUnexpectedParameter or ErrUnrecognizedValue.
type BuildError struct {
	Kind        error
	Instruction protocol.Instruction
	Field       string
	Reason      string
}

func (e *BuildError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("builder: %s.%s: %v", e.Instruction, e.Field, e.Kind)
	}
	return fmt.Sprintf("builder: %s.%s: %v (%s)", e.Instruction, e.Field, e.Kind, e.Reason)
}

func (e *BuildError) Unwrap() error {
	return e.Kind
}
