package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ImageGenerator produces an illustration URL for a post via the
// OpenAI image generation API. An empty URL is a valid outcome; the
// pipeline then publishes text-only.
type ImageGenerator struct {
	client *http.Client
	apiKey string
	apiURL string
	model  string
}

func NewImageGenerator(apiKey string) *ImageGenerator {
	return &ImageGenerator{
		client: &http.Client{Timeout: 120 * time.Second},
		apiKey: apiKey,
		apiURL: "https://api.openai.com/v1",
		model:  "dall-e-3",
	}
}

type imageRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	N      int    `json:"n"`
	Size   string `json:"size"`
}

type imageResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
}

// GenerateImage returns a URL for a generated image, or "" when the
// generator is not configured.
func (g *ImageGenerator) GenerateImage(ctx context.Context, topic string) (string, error) {
	if g.apiKey == "" {
		return "", nil
	}
	prompt := fmt.Sprintf("An engaging illustration for a LinkedIn post about %s, "+
		"professional style, LinkedIn optimal dimensions", topic)
	payload, err := json.Marshal(imageRequest{Model: g.model, Prompt: prompt, N: 1, Size: "1792x1024"})
	if err != nil {
		return "", fmt.Errorf("marshal image request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL+"/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create image request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image error %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out imageResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	if len(out.Data) == 0 {
		return "", nil
	}
	return out.Data[0].URL, nil
}
