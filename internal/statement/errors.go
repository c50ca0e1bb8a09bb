package statement

import (
	"errors"
	"fmt"
)

// ErrUnknownPlayID is matched by UnknownPlayIDError.
var ErrUnknownPlayID = errors.New("unknown play id")

// UnknownPlayIDError reports a performance whose play ID is missing
// from the plays lookup table.
type UnknownPlayIDError struct {
	PlayID string
}

func (e *UnknownPlayIDError) Error() string {
	return fmt.Sprintf("unknown playID: %s", e.PlayID)
}

func (e *UnknownPlayIDError) Is(target error) bool { return target == ErrUnknownPlayID }
