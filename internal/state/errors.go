package state

import (
	"errors"
	"fmt"
)

// ErrUnrecognizedAction matches every *UnrecognizedActionError through errors.Is.
var ErrUnrecognizedAction = errors.New("state: unrecognized action")

// UnrecognizedActionError reports an action outside the closed vocabulary.
// It is a caller bug, not a runtime condition.
type UnrecognizedActionError struct {
	Kind Kind
}

func (e *UnrecognizedActionError) Error() string {
	return fmt.Sprintf("state: unrecognized action %q", string(e.Kind))
}

func (e *UnrecognizedActionError) Is(target error) bool {
	return target == ErrUnrecognizedAction
}
