// Package llm - extractor.go builds structured-output prompts from a field schema.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the JSON structure a prompt asks the model to return
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "TextAdvisory")
	Description string        // System prompt preamble describing the task
	Fields      []SchemaField // Expected output fields
	// Instructions replace the default extraction instructions when set
	Instructions []string
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "number", "[]Issue"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

var defaultInstructions = []string{
	"Extract information directly from the text, do not invent or summarize.",
	"Return ONLY the JSON object, no markdown, no explanation, no code blocks.",
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	instructions := schema.Instructions
	if len(instructions) == 0 {
		instructions = defaultInstructions
	}
	sb.WriteString("IMPORTANT:\n")
	for _, line := range instructions {
		sb.WriteString("- ")
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// TextAdvisorySchema returns the schema for a text compliance second opinion.
// description is the rendered reviewer preamble including the brand rules.
func TextAdvisorySchema(description string, instructions []string) ExtractionSchema {
	return ExtractionSchema{
		Name:         "TextAdvisory",
		Description:  description,
		Instructions: instructions,
		Fields: []SchemaField{
			{Name: "score", Type: "number", Description: "0-100, 100 means fully on-brand", Required: true},
			{Name: "issues", Type: "[]{trigger, severity, message, suggestion}", Description: "one entry per offending phrase, empty when compliant", Required: true},
		},
	}
}
