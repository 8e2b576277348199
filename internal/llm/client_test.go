package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		apiKey  string
		wantErr string
	}{
		{name: "missing key", config: DefaultConfig(), apiKey: "", wantErr: "API key is required"},
		{name: "nil config missing key", config: nil, apiKey: "", wantErr: "API key is required"},
		{name: "unknown provider", config: &Config{Provider: "openai"}, apiKey: "k", wantErr: `unsupported LLM provider "openai"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.config, tt.apiKey)
			require.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResponseText(t *testing.T) {
	candidate := func(reason genai.FinishReason, parts ...genai.Part) *genai.GenerateContentResponse {
		return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
			FinishReason: reason,
			Content:      &genai.Content{Parts: parts},
		}}}
	}

	tests := []struct {
		name     string
		resp     *genai.GenerateContentResponse
		expected string
		wantErr  string
	}{
		{
			name:     "joins text parts",
			resp:     candidate(genai.FinishReasonStop, genai.Text(`{"score": `), genai.Text(`90}`)),
			expected: `{"score": 90}`,
		},
		{
			name:     "skips non text parts",
			resp:     candidate(genai.FinishReasonStop, genai.Blob{MIMEType: "image/png"}, genai.Text(`{}`)),
			expected: `{}`,
		},
		{name: "nil response", resp: nil, wantErr: ErrEmptyResponse.Error()},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, wantErr: ErrEmptyResponse.Error()},
		{name: "no text", resp: candidate(genai.FinishReasonStop), wantErr: ErrEmptyResponse.Error()},
		{name: "safety block", resp: candidate(genai.FinishReasonSafety), wantErr: "response blocked"},
		{name: "recitation block", resp: candidate(genai.FinishReasonRecitation, genai.Text("x")), wantErr: "response blocked"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := responseText(tt.resp)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, text)
		})
	}
}
