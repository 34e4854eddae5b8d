package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// Isolate from the ambient environment and from any stray .env in
	// the working directory.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	for _, key := range []string{"ADDR", "MONGODB_URL", "DATABASE_NAME", "LLM_PROVIDER", "PUBLISH_MODE"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURL)
	assert.Equal(t, "linkedin_posts", cfg.DatabaseName)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, ModeGenerate, cfg.PublishMode)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("DATABASE_NAME", "testdb")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("PUBLISH_MODE", ModeStatic)
	t.Setenv("LINKEDIN_ACCESS_TOKEN", "tok")
	t.Setenv("LINKEDIN_PERSON_URN", "urn:li:person:me")

	cfg := Load()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, "testdb", cfg.DatabaseName)
	assert.Equal(t, "anthropic", cfg.LLMProvider)
	assert.Equal(t, ModeStatic, cfg.PublishMode)
	assert.Equal(t, "tok", cfg.LinkedInAccessToken)
	assert.Equal(t, "urn:li:person:me", cfg.LinkedInPersonURN)
}
