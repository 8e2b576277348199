// Package types provides type definitions for structured data used throughout the brand-compliance system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ActionUpdateElement is the only mutation action emitted
const ActionUpdateElement = "updateElement"

// CommandMetadata links a command back to the fix it came from
type CommandMetadata struct {
	FixID       string  `json:"fixId"`
	FixType     FixType `json:"fixType"`
	ViolationID string  `json:"violationId,omitempty"`
}

// Command is a canonical mutation instruction for the document mutation capability
type Command struct {
	Action    string          `json:"action"`
	ElementID string          `json:"elementId"`
	Updates   map[string]any  `json:"updates"`
	Metadata  CommandMetadata `json:"metadata"`
}
