package agents

import (
	"context"
	"fmt"
	"time"
)

const writerSystemPrompt = "You are a LinkedIn content writer. Write an engaging, " +
	"well-structured LinkedIn post in Markdown for an intermediate technical audience. " +
	"Use a short headline, a few concise paragraphs or bullet points, and finish with " +
	"relevant hashtags."

// PostWriter drafts Markdown post content for a topic.
type PostWriter struct {
	provider Provider
}

func NewPostWriter(provider Provider) *PostWriter {
	return &PostWriter{provider: provider}
}

func (w *PostWriter) WritePost(ctx context.Context, topic string) (string, error) {
	user := fmt.Sprintf("Write a LinkedIn post about: %s\nDate: %s",
		topic, time.Now().Format("2006-01"))
	content, err := w.provider.Complete(ctx, writerSystemPrompt, user)
	if err != nil {
		return "", fmt.Errorf("draft post: %w", err)
	}
	return content, nil
}
