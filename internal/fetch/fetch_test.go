package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	var gotAgent, gotHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotHeader = r.Header.Get("X-Token")
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write([]byte("brands: {}\n"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"X-Token": "abc"}
	result, err := URL(context.Background(), server.URL+"/guidelines.yaml", opts)

	require.NoError(t, err)
	assert.Equal(t, "brands: {}\n", string(result.Body))
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, DefaultUserAgent, gotAgent)
	assert.Equal(t, "abc", gotHeader)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/g.yaml", "file:///etc/passwd"} {
		t.Run(raw, func(t *testing.T) {
			_, err := URL(context.Background(), raw, nil)
			require.Error(t, err)

			var fetchErr *Error
			assert.ErrorAs(t, err, &fetchErr)
			assert.Contains(t, err.Error(), "invalid URL")
		})
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", MaxBodyBytes+1)))
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestResult_Format(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		contentType string
		expected    Format
	}{
		{name: "json content type", url: "https://x.test/g", contentType: "application/json; charset=utf-8", expected: FormatJSON},
		{name: "json suffix type", url: "https://x.test/g", contentType: "application/vnd.brand+json", expected: FormatJSON},
		{name: "json extension", url: "https://x.test/g.JSON?v=2", contentType: "text/plain", expected: FormatJSON},
		{name: "yaml content type", url: "https://x.test/g", contentType: "application/yaml", expected: FormatYAML},
		{name: "unknown falls back to yaml", url: "https://x.test/g", contentType: "", expected: FormatYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &Result{URL: tt.url, ContentType: tt.contentType}
			assert.Equal(t, tt.expected, r.Format())
		})
	}
}
