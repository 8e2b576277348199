// Package validation evaluates design elements against a brand rule set.
package validation

import "fmt"

// ContractError reports a malformed rule set or document. Evaluation never
// proceeds past one of these.
type ContractError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ContractError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid input: %s: %s: %v", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

func (e *ContractError) Unwrap() error {
	return e.Cause
}
