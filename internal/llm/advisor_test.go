package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/brand-compliance/internal/types"
)

type fakeClient struct {
	response   string
	err        error
	lastPrompt string
	lastTier   ModelTier
	closed     bool
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier ModelTier) (string, error) {
	f.lastPrompt = prompt
	f.lastTier = tier
	return f.response, f.err
}

func (f *fakeClient) Close() error {
	f.closed = true
	return nil
}

func advisoryRequest() types.AdvisoryRequest {
	return types.AdvisoryRequest{
		Text: "Grab the deal now",
		Rules: types.AdvisoryRules{
			Tone:              types.ToneFormal,
			DisallowedPhrases: []string{"cheap"},
			BrandDescription:  "Enterprise banking",
		},
		Schema: `{"type":"object"}`,
	}
}

func TestBuildAdvisoryPrompt(t *testing.T) {
	prompt, err := BuildAdvisoryPrompt(advisoryRequest())
	require.NoError(t, err)

	assert.Contains(t, prompt, "Grab the deal now")
	assert.Contains(t, prompt, `"tone": "formal"`)
	assert.Contains(t, prompt, `"cheap"`)
	assert.Contains(t, prompt, `{"type":"object"}`)
	assert.Contains(t, prompt, `"score": number (required)`)
	assert.Contains(t, prompt, "Quote triggers verbatim")
	assert.NotContains(t, prompt, "{{.Rules}}")
	assert.NotContains(t, prompt, "do not invent or summarize")
}

func TestClientAdvisor_Advise(t *testing.T) {
	client := &fakeClient{response: "```json\n{\"score\": 100, \"issues\": []}\n```"}
	advisor := NewClientAdvisor(client, "")

	body, err := advisor.Advise(context.Background(), advisoryRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"score": 100, "issues": []}`, body)
	assert.Equal(t, TierLite, client.lastTier)
	assert.Contains(t, client.lastPrompt, "Grab the deal now")

	require.NoError(t, advisor.Close())
	assert.True(t, client.closed)
}

func TestClientAdvisor_ClientError(t *testing.T) {
	boom := errors.New("quota exceeded")
	advisor := NewClientAdvisor(&fakeClient{err: boom}, TierStandard)

	_, err := advisor.Advise(context.Background(), advisoryRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestNewGeminiAdvisor_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiAdvisor(context.Background(), nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestBuildExtractionPrompt_DefaultInstructions(t *testing.T) {
	schema := ExtractionSchema{
		Description: "Review this.",
		Fields:      []SchemaField{{Name: "score", Type: "number", Required: true}},
	}
	prompt := BuildExtractionPrompt(schema, "hello")
	assert.Contains(t, prompt, "do not invent or summarize")
	assert.Contains(t, prompt, "Review this.")
	assert.Contains(t, prompt, "hello")
}
