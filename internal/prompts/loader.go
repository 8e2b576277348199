// Package prompts holds the embedded text advisory prompt set.
package prompts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

//go:embed advisory.json
var advisoryFile []byte

// Key names one prompt in the advisory set
type Key string

// Advisory prompt keys
const (
	TextAdvisory             Key = "text-advisory"
	TextAdvisoryInstructions Key = "text-advisory-instructions"
)

// instructionSeparator splits the instruction prompt into lines
const instructionSeparator = "|"

var placeholderPattern = regexp.MustCompile(`\{\{\.([A-Za-z]+)\}\}`)

var (
	loadOnce sync.Once
	prompts  map[Key]string
	loadErr  error
)

func load() (map[Key]string, error) {
	loadOnce.Do(func() {
		if err := json.Unmarshal(advisoryFile, &prompts); err != nil {
			loadErr = fmt.Errorf("failed to parse advisory prompts: %w", err)
		}
	})
	return prompts, loadErr
}

// Get returns the raw template for key
func Get(key Key) (string, error) {
	set, err := load()
	if err != nil {
		return "", err
	}
	prompt, ok := set[key]
	if !ok {
		return "", fmt.Errorf("advisory prompt %q not found", key)
	}
	return prompt, nil
}

// Render fills the {{.Name}} placeholders of the template for key. Every
// placeholder must have a value in data.
func Render(key Key, data map[string]string) (string, error) {
	template, err := Get(key)
	if err != nil {
		return "", err
	}
	var missing []string
	rendered := placeholderPattern.ReplaceAllStringFunc(template, func(placeholder string) string {
		name := placeholderPattern.FindStringSubmatch(placeholder)[1]
		value, ok := data[name]
		if !ok {
			missing = append(missing, name)
			return placeholder
		}
		return value
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("advisory prompt %q: no value for %s", key, strings.Join(missing, ", "))
	}
	return rendered, nil
}

// Instructions returns the advisory response rules, one per line
func Instructions() ([]string, error) {
	raw, err := Get(TextAdvisoryInstructions)
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, line := range strings.Split(raw, instructionSeparator) {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
