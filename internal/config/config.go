package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Publish modes for scheduled runs. "generate" runs the full AI
// pipeline on every fire; "static" publishes the next pending content
// snapshot from the scheduled_posts collection.
const (
	ModeGenerate = "generate"
	ModeStatic   = "static"
)

type Config struct {
	Addr         string
	MongoURL     string
	DatabaseName string

	LinkedInAccessToken string
	LinkedInPersonURN   string

	LLMProvider     string
	OpenAIAPIKey    string
	GroqAPIKey      string
	AnthropicAPIKey string
	SerperAPIKey    string

	PublishMode string
}

// Load reads configuration from the environment, picking up a local
// .env file first when present.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env file")
	}

	cfg := &Config{
		Addr:                getEnv("ADDR", ":8080"),
		MongoURL:            getEnv("MONGODB_URL", "mongodb://localhost:27017"),
		DatabaseName:        getEnv("DATABASE_NAME", "linkedin_posts"),
		LinkedInAccessToken: os.Getenv("LINKEDIN_ACCESS_TOKEN"),
		LinkedInPersonURN:   os.Getenv("LINKEDIN_PERSON_URN"),
		LLMProvider:         getEnv("LLM_PROVIDER", "openai"),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		GroqAPIKey:          os.Getenv("GROQ_API_KEY"),
		AnthropicAPIKey:     os.Getenv("ANTHROPIC_API_KEY"),
		SerperAPIKey:        os.Getenv("SERPER_API_KEY"),
		PublishMode:         getEnv("PUBLISH_MODE", ModeGenerate),
	}
	return cfg
}

func getEnv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
