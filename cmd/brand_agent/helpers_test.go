package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const testGuidelines = `brands:
  acme:
    colors: ["#0055FF", "#FFFFFF", "#111111"]
    fonts:
      heading: Montserrat
      body: Inter
    fontSizes:
      body: 16
    logo:
      minWidth: 100
    spacingUnit: 8
industries:
  general:
    minContrastRatio: 4.5
    minFontSize: 12
`

const testProfile = `brandId: acme
palette: ["#0055FF", "#FFFFFF", "#111111"]
fonts: [Inter, Montserrat]
logoMinWidth: 100
minFontSize: 12
minContrastRatio: 4.5
spacingUnit: 8
tone: neutral
disallowedPhrases: [cheap]
preferredTerms:
  - term: affordable
    replaces: [cheap]
`

const testDocument = `{
  "id": "doc-1",
  "elements": [
    {"id": "body", "type": "text", "text": "Cheap plans for every team", "textColor": "#111111",
     "backgroundColor": "#FFFFFF", "fontFamily": "Papyrus", "fontSize": 16, "margin": 16},
    {"id": "logo", "type": "logo", "width": 40, "height": 20}
  ]
}`

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// resetFlags restores every flag to its default so commands can run
// repeatedly in one process
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !strings.HasSuffix(f.Value.Type(), "Slice") {
			_ = f.Value.Set(f.DefValue)
		} else if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// runCLI executes the root command in-process with isolated environment
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIEnv(t, nil, args...)
}

// runCLIEnv is runCLI with extra environment variables set for the run
func runCLIEnv(t *testing.T, env map[string]string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("GEMINI_API_KEY", "")
	for key, value := range env {
		t.Setenv(key, value)
	}

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}
