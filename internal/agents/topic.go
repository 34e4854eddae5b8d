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

	"github.com/rs/zerolog/log"
)

const serperURL = "https://google.serper.dev/search"

const topicSystemPrompt = "You are a technology trend researcher. Given search results " +
	"about current AI developments, pick one specific topic that would make an engaging " +
	"LinkedIn post for an intermediate audience. Reply with the topic only, no quotes."

// TopicCreator researches a post topic: it searches the web for
// trending AI developments and asks the chat backend to distill one
// topic from the results.
type TopicCreator struct {
	provider     Provider
	serperAPIKey string
	httpClient   *http.Client
	searchURL    string
}

func NewTopicCreator(provider Provider, serperAPIKey string) *TopicCreator {
	return &TopicCreator{
		provider:     provider,
		serperAPIKey: serperAPIKey,
		httpClient:   &http.Client{Timeout: 20 * time.Second},
		searchURL:    serperURL,
	}
}

// CreateTopic returns a single topic string. A failed search is not
// fatal; the model is prompted without search context instead.
func (t *TopicCreator) CreateTopic(ctx context.Context) (string, error) {
	results, err := t.search(ctx, "trending AI topics and developments")
	if err != nil {
		log.Warn().Err(err).Msg("topic search failed, prompting without context")
		results = ""
	}

	user := "Pick a LinkedIn post topic about current AI developments."
	if results != "" {
		user += "\n\nSearch results:\n" + results
	}

	topic, err := t.provider.Complete(ctx, topicSystemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("generate topic: %w", err)
	}
	return strings.Trim(topic, "\""), nil
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
}

func (t *TopicCreator) search(ctx context.Context, query string) (string, error) {
	if t.serperAPIKey == "" {
		return "", fmt.Errorf("serper api key not configured")
	}
	payload, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.searchURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("X-API-KEY", t.serperAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search error %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out serperResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode search response: %w", err)
	}

	var b strings.Builder
	for i, r := range out.Organic {
		if i >= 5 {
			break
		}
		fmt.Fprintf(&b, "- %s: %s (%s)\n", r.Title, r.Snippet, r.Link)
	}
	return b.String(), nil
}
