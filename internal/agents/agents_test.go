package agents

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postflow/internal/config"
)

type fixedProvider struct {
	reply string
	err   error

	lastSystem string
	lastUser   string
}

func (f *fixedProvider) Complete(ctx context.Context, system, user string) (string, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.reply, f.err
}

func TestNewProvider(t *testing.T) {
	cfg := &config.Config{LLMProvider: "openai", OpenAIAPIKey: "k"}
	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &openAIProvider{}, p)

	cfg.LLMProvider = "groq"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &openAIProvider{}, p)

	cfg.LLMProvider = "anthropic"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.IsType(t, &anthropicProvider{}, p)

	cfg.LLMProvider = "braindump"
	_, err = NewProvider(cfg)
	assert.Error(t, err)
}

func TestOpenAIComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  a topic  "}}]}`))
	}))
	defer srv.Close()

	p := newOpenAIProvider("key", srv.URL, "gpt-4o-mini")
	out, err := p.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "a topic", out)
}

func TestOpenAICompleteErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer srv.Close()

	p := newOpenAIProvider("key", srv.URL, "gpt-4o-mini")
	_, err := p.Complete(context.Background(), "sys", "user")
	assert.ErrorContains(t, err, "rate limited")
}

func TestOpenAICompleteRequiresKey(t *testing.T) {
	p := newOpenAIProvider("", "http://localhost:1", "m")
	_, err := p.Complete(context.Background(), "s", "u")
	assert.Error(t, err)
}

func TestAnthropicComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("Anthropic-Version"))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"reply"}]}`))
	}))
	defer srv.Close()

	p := newAnthropicProvider("key", "claude-3-5-sonnet-20240620")
	p.apiURL = srv.URL
	out, err := p.Complete(context.Background(), "sys", "user")
	require.NoError(t, err)
	assert.Equal(t, "reply", out)
}

func TestTopicCreatorUsesSearchResults(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "serper-key", r.Header.Get("X-API-KEY"))
		_, _ = w.Write([]byte(`{"organic":[{"title":"Big News","link":"https://x","snippet":"model launch"}]}`))
	}))
	defer search.Close()

	provider := &fixedProvider{reply: `"Model launches"`}
	tc := NewTopicCreator(provider, "serper-key")
	tc.searchURL = search.URL

	topic, err := tc.CreateTopic(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Model launches", topic)
	assert.Contains(t, provider.lastUser, "Big News")
}

func TestTopicCreatorSearchFailureDegrades(t *testing.T) {
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer search.Close()

	provider := &fixedProvider{reply: "a topic"}
	tc := NewTopicCreator(provider, "serper-key")
	tc.searchURL = search.URL

	topic, err := tc.CreateTopic(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a topic", topic)
	assert.NotContains(t, provider.lastUser, "Search results")
}

func TestPostWriterPassesTopic(t *testing.T) {
	provider := &fixedProvider{reply: "# Post"}
	w := NewPostWriter(provider)

	content, err := w.WritePost(context.Background(), "quantization")
	require.NoError(t, err)
	assert.Equal(t, "# Post", content)
	assert.Contains(t, provider.lastUser, "quantization")
}

func TestImageGeneratorUnconfiguredReturnsEmpty(t *testing.T) {
	g := NewImageGenerator("")
	url, err := g.GenerateImage(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, url)
}

func TestImageGeneratorReturnsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		_, _ = w.Write([]byte(`{"data":[{"url":"https://cdn.example.com/img.png"}]}`))
	}))
	defer srv.Close()

	g := NewImageGenerator("key")
	g.apiURL = srv.URL
	url, err := g.GenerateImage(context.Background(), "topic")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/img.png", url)
}
