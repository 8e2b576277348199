// Package repair synthesizes fixes for brand violations and translates them into mutation commands.
package repair

import "fmt"

// Error represents a general repair error
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("repair error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("repair error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// TranslateError reports a fix that cannot become a command (no property
// mapping, unusable value, or not auto-fixable)
type TranslateError struct {
	FixID   string
	Message string
	Cause   error
}

func (e *TranslateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("repair translate error: fix %s: %s: %v", e.FixID, e.Message, e.Cause)
	}
	return fmt.Sprintf("repair translate error: fix %s: %s", e.FixID, e.Message)
}

func (e *TranslateError) Unwrap() error {
	return e.Cause
}
