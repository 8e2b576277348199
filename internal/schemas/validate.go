// Package schemas validates advisory responses and CLI output against JSON Schemas.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// OutputSchemaDir is the repository directory holding the output contracts
const OutputSchemaDir = "schemas"

// ResolveSchemaPath finds relativePath from the working directory or up to
// two parent directories, so commands and package tests resolve the same
// file. Returns "" when none exists.
func ResolveSchemaPath(relativePath string) string {
	for _, candidate := range []string{
		relativePath,
		filepath.Join("..", relativePath),
		filepath.Join("..", "..", relativePath),
	} {
		absPath, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		if _, err := os.Stat(absPath); err == nil {
			return absPath
		}
	}
	return ""
}

// ValidationError lists every schema violation of a document
type ValidationError struct {
	Errors []FieldError
}

// FieldError is one violation at a document path
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// LoadError reports a schema that does not compile or a document that is
// not JSON
type LoadError struct {
	Source  string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load %s: %s: %v", e.Source, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load %s: %s", e.Source, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// compiled caches schemas by file path or inline content
var compiled sync.Map

func compile(key string, loader gojsonschema.JSONLoader) (*gojsonschema.Schema, error) {
	if schema, ok := compiled.Load(key); ok {
		return schema.(*gojsonschema.Schema), nil
	}
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, err
	}
	actual, _ := compiled.LoadOrStore(key, schema)
	return actual.(*gojsonschema.Schema), nil
}

// ValidateFile validates document against the schema file at schemaPath
func ValidateFile(schemaPath string, document []byte) error {
	absPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("failed to resolve schema path: %w", err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return &LoadError{Source: absPath, Message: "schema file not found", Cause: err}
	}
	schema, err := compile(absPath, gojsonschema.NewReferenceLoader("file://"+filepath.ToSlash(absPath)))
	if err != nil {
		return &LoadError{Source: absPath, Message: "invalid schema", Cause: err}
	}
	return validate(schema, gojsonschema.NewBytesLoader(document))
}

// ValidateJSONString validates JSON content against inline schema content
func ValidateJSONString(schemaContent, jsonContent string) error {
	schema, err := compile(schemaContent, gojsonschema.NewStringLoader(schemaContent))
	if err != nil {
		return &LoadError{Source: "inline schema", Message: "invalid schema", Cause: err}
	}
	return validate(schema, gojsonschema.NewStringLoader(jsonContent))
}

// ValidateOutput validates document against schemas/<name>. found is false
// when the schema cannot be located, in which case nothing is checked.
func ValidateOutput(name string, document []byte) (found bool, err error) {
	path := ResolveSchemaPath(filepath.Join(OutputSchemaDir, name))
	if path == "" {
		return false, nil
	}
	return true, ValidateFile(path, document)
}

func validate(schema *gojsonschema.Schema, document gojsonschema.JSONLoader) error {
	result, err := schema.Validate(document)
	if err != nil {
		return &LoadError{Source: "document", Message: "not valid JSON", Cause: err}
	}
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
