package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brand-compliance/internal/config"
	"github.com/jonathan/brand-compliance/internal/repair"
	"github.com/jonathan/brand-compliance/internal/server"
	"github.com/jonathan/brand-compliance/internal/types"
)

type fixture struct {
	dir        string
	document   string
	profile    string
	guidelines string
}

func newFixture(t *testing.T) fixture {
	dir := t.TempDir()
	return fixture{
		dir:        dir,
		document:   writeTestFile(t, dir, "document.json", testDocument),
		profile:    writeTestFile(t, dir, "profile.yaml", testProfile),
		guidelines: writeTestFile(t, dir, "guidelines.yaml", testGuidelines),
	}
}

func commandUpdates(commands []types.Command) map[string]any {
	updates := map[string]any{}
	for _, cmd := range commands {
		for k, v := range cmd.Updates {
			updates[cmd.ElementID+"."+k] = v
		}
	}
	return updates
}

func TestEvaluateCommand(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "evaluate", "--document", f.document, "--profile", f.profile)
	require.NoError(t, err)

	var result evaluationOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Empty(t, result.EvaluationID)
	assert.Equal(t, "doc-1", result.DocumentID)
	assert.Equal(t, 2, result.ElementCount)

	rules := map[types.RuleID]bool{}
	for _, v := range result.Violations {
		rules[v.RuleID] = true
	}
	assert.True(t, rules[types.RuleTypography])
	assert.True(t, rules[types.RuleLogoSize])
	assert.True(t, rules[types.RuleDisallowedPhrase])
	assert.Less(t, result.Score.Total, 100)
}

func TestEvaluateCommand_OutputFile(t *testing.T) {
	f := newFixture(t)
	outPath := filepath.Join(f.dir, "out", "result.json")

	out, err := runCLI(t, "evaluate", "-d", f.document, "-p", f.profile, "-o", outPath)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"documentId": "doc-1"`)
}

func TestEvaluateCommand_Errors(t *testing.T) {
	f := newFixture(t)
	badProfile := writeTestFile(t, f.dir, "bad.yaml", "tone: angry\ndisallowedPhrases: []\n")

	tests := []struct {
		name     string
		args     []string
		contains string
	}{
		{name: "missing profile flag", args: []string{"evaluate", "-d", f.document}, contains: "profile"},
		{name: "missing document file", args: []string{"evaluate", "-d", filepath.Join(f.dir, "nope.json"), "-p", f.profile}, contains: "failed to read"},
		{name: "invalid profile", args: []string{"evaluate", "-d", f.document, "-p", badProfile}, contains: "tone"},
		{name: "save without database", args: []string{"evaluate", "-d", f.document, "-p", f.profile, "--save"}, contains: "--save"},
		{name: "conflicting sources", args: []string{"evaluate", "-d", f.document, "-p", f.profile, "-g", f.guidelines, "--sqlite", "x.db"}, contains: "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestFixCommand(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "fix", "-d", f.document, "-p", f.profile, "-g", f.guidelines)
	require.NoError(t, err)

	var result fixOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.NotNil(t, result.Evaluation)
	assert.NotEmpty(t, result.Fixes)

	updates := commandUpdates(result.Commands)
	assert.Equal(t, "Inter", updates["body.fontFamily"])
	assert.Equal(t, 100.0, updates["logo.width"])
	assert.Equal(t, 50.0, updates["logo.height"])

	for _, fix := range result.Fixes {
		if fix.Type == types.FixContent {
			assert.False(t, fix.AutoFixable)
		}
	}
}

func TestFixCommand_WithoutGuidelines(t *testing.T) {
	f := newFixture(t)

	out, err := runCLI(t, "fix", "-d", f.document, "-p", f.profile)
	require.NoError(t, err)

	var result fixOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Empty(t, result.Commands)
	for _, fix := range result.Fixes {
		assert.False(t, fix.AutoFixable)
	}
}

func TestGuidelinesImport_SQLite(t *testing.T) {
	f := newFixture(t)
	dbPath := filepath.Join(f.dir, "guidelines.db")

	out, err := runCLI(t, "guidelines", "import", "-f", f.guidelines, "--sqlite", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 brands and 1 industries")

	out, err = runCLI(t, "fix", "-d", f.document, "-p", f.profile, "--sqlite", dbPath)
	require.NoError(t, err)

	var result fixOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 100.0, commandUpdates(result.Commands)["logo.width"])
}

func TestGuidelineSourceFromConfigWinsOverEnvDatabase(t *testing.T) {
	f := newFixture(t)
	dbPath := filepath.Join(f.dir, "configured.db")
	cfgPath := writeTestFile(t, f.dir, "config.yaml", "sqlite_path: "+dbPath+"\n")
	env := map[string]string{"DATABASE_URL": "postgres://nobody@127.0.0.1:1/unreachable?connect_timeout=1"}

	out, err := runCLIEnv(t, env, "--config", cfgPath, "guidelines", "import", "-f", f.guidelines)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 brands and 1 industries")

	out, err = runCLIEnv(t, env, "--config", cfgPath, "fix", "-d", f.document, "-p", f.profile)
	require.NoError(t, err)

	var result fixOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 100.0, commandUpdates(result.Commands)["logo.width"])
}

func TestGuidelinesImport_NoTarget(t *testing.T) {
	f := newFixture(t)

	_, err := runCLI(t, "guidelines", "import", "-f", f.guidelines)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no import target")
}

func TestGuidelinesImport_URL(t *testing.T) {
	f := newFixture(t)
	dbPath := filepath.Join(f.dir, "remote.db")
	remote := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte(testGuidelines))
	}))
	defer remote.Close()

	out, err := runCLI(t, "guidelines", "import", "--url", remote.URL+"/guidelines", "--sqlite", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 brands and 1 industries")
}

func TestGuidelinesImport_SourceFlags(t *testing.T) {
	f := newFixture(t)
	dbPath := filepath.Join(f.dir, "guidelines.db")

	_, err := runCLI(t, "guidelines", "import", "--sqlite", dbPath)
	assert.Error(t, err)

	_, err = runCLI(t, "guidelines", "import", "-f", f.guidelines, "--url", "https://example.com/g.yaml", "--sqlite", dbPath)
	assert.Error(t, err)
}

func TestTranslateCommand(t *testing.T) {
	dir := t.TempDir()
	single := writeTestFile(t, dir, "fix.json",
		`{"id": "fix-1", "type": "font_size", "recommendedValue": "16px", "autoFixable": true, "elementId": "body", "metadata": {"source": "brand"}}`)
	list := writeTestFile(t, dir, "fixes.yaml", `fixes:
  - id: fix-1
    type: color
    recommendedValue: "#0055ff"
    autoFixable: true
    elementId: banner
  - id: fix-2
    type: content
    recommendedValue: affordable
    elementId: body
`)
	empty := writeTestFile(t, dir, "empty.json", `{"fixes": []}`)
	manual := writeTestFile(t, dir, "manual.json",
		`{"id": "fix-3", "type": "contrast", "recommendedValue": "#777777", "autoFixable": false, "elementId": "body"}`)

	t.Run("single fix", func(t *testing.T) {
		out, err := runCLI(t, "translate", "-f", single)
		require.NoError(t, err)

		var result commandsOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, map[string]any{"body.fontSize": 16.0}, commandUpdates(result.Commands))
	})

	t.Run("list skips manual fixes", func(t *testing.T) {
		out, err := runCLI(t, "translate", "-f", list)
		require.NoError(t, err)

		var result commandsOutput
		require.NoError(t, json.Unmarshal([]byte(out), &result))
		assert.Equal(t, map[string]any{"banner.fill": "#0055FF"}, commandUpdates(result.Commands))
	})

	t.Run("empty list", func(t *testing.T) {
		out, err := runCLI(t, "translate", "-f", empty)
		require.NoError(t, err)
		assert.JSONEq(t, `{"commands": []}`, out)
	})

	t.Run("single manual fix fails", func(t *testing.T) {
		_, err := runCLI(t, "translate", "-f", manual)
		var translateErr *repair.TranslateError
		assert.ErrorAs(t, err, &translateErr)
	})
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret-key-for-jwt-signing-minimum-32-bytes")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_EXPIRATION_HOURS", "")

	out, err := runCLI(t, "token", "--subject", "design-tool")
	require.NoError(t, err)

	jwtConfig, err := config.NewJWTConfig()
	require.NoError(t, err)
	claims, err := server.NewJWTService(jwtConfig).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "design-tool", claims.Subject)
}

func TestTokenCommand_MissingSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := runCLI(t, "token", "--subject", "design-tool")
	assert.Error(t, err)
}
