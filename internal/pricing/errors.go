package pricing

import (
	"errors"
	"fmt"
)

// Sentinel errors.  The typed errors below match them with errors.Is.
var (
	ErrUnknownPlayType  = errors.New("unknown play type")
	ErrNegativeAudience = errors.New("negative audience")
	ErrInvalidRule      = errors.New("invalid pricing rule")
	ErrAmountOverflow   = errors.New("amount exceeds int64 cents")
)

// UnknownPlayTypeError reports a play type outside the supported set or
// missing from the engine's rule table.
type UnknownPlayTypeError struct {
	Type string
}

func (e *UnknownPlayTypeError) Error() string {
	return fmt.Sprintf("unknown type: %s", e.Type)
}

func (e *UnknownPlayTypeError) Is(target error) bool { return target == ErrUnknownPlayType }

// AudienceError reports an audience count that cannot be billed.
type AudienceError struct {
	Audience int
}

func (e *AudienceError) Error() string {
	return fmt.Sprintf("invalid audience: %d", e.Audience)
}

func (e *AudienceError) Is(target error) bool { return target == ErrNegativeAudience }
