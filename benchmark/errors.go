package benchmark

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownEvent         = errors.New("unknown event")
	ErrInvalidTime          = errors.New("time must be a positive, finite number of seconds")
	ErrInvalidAge           = errors.New("age must be between 1 and 18")
	ErrStandardsUnavailable = errors.New("no standards available for this event, course, and gender")
)

// UnknownEventError carries the canonical vocabulary back to the caller.
type UnknownEventError struct {
	Input string
}

func (e *UnknownEventError) Error() string {
	names := make([]string, 0, len(Events))
	for _, ev := range Events {
		names = append(names, string(ev))
	}
	return fmt.Sprintf("unknown event %q; recognized events: %s", e.Input, strings.Join(names, ", "))
}

func (e *UnknownEventError) Unwrap() error {
	return ErrUnknownEvent
}
