// Package pipeline orchestrates one end-to-end publish: research a
// topic, draft post text, generate and upload an image, publish, and
// record the outcome.
package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"

	"postflow/internal/domain"
	"postflow/internal/linkedin"
	"postflow/internal/markdown"
	"postflow/internal/store"
)

type TopicCreator interface {
	CreateTopic(ctx context.Context) (string, error)
}

type PostWriter interface {
	WritePost(ctx context.Context, topic string) (string, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, topic string) (string, error)
}

// Publisher is the LinkedIn-facing half of the pipeline, implemented
// by *linkedin.Client.
type Publisher interface {
	UploadImageFromURL(ctx context.Context, imageURL string) (*linkedin.UploadedAsset, error)
	PublishPost(ctx context.Context, text string, asset *linkedin.UploadedAsset) (json.RawMessage, error)
}

type Pipeline struct {
	topics    TopicCreator
	writer    PostWriter
	images    ImageGenerator
	publisher Publisher
	store     store.Store
}

func New(topics TopicCreator, writer PostWriter, images ImageGenerator, publisher Publisher, st store.Store) *Pipeline {
	return &Pipeline{topics: topics, writer: writer, images: images, publisher: publisher, store: st}
}

// Run executes the full generation path. Every attempt, success or
// failure, yields a persisted record; errors are converted into a
// failed record and returned only as a failure signal, never
// propagated as a panic. Returns the persisted record id on success.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	topic, err := p.topics.CreateTopic(ctx)
	if err != nil {
		return p.recordFailure(ctx, err)
	}
	log.Info().Str("topic", topic).Msg("topic generated")

	content, err := p.writer.WritePost(ctx, topic)
	if err != nil {
		return p.recordFailure(ctx, err)
	}

	imageURL, err := p.images.GenerateImage(ctx, topic)
	if err != nil {
		return p.recordFailure(ctx, err)
	}

	// No image URL is the documented text-only short-circuit, not an
	// error.
	var asset *linkedin.UploadedAsset
	if imageURL != "" {
		asset, err = p.publisher.UploadImageFromURL(ctx, imageURL)
		if err != nil {
			return p.recordFailure(ctx, err)
		}
	}

	text := markdown.ToLinkedInText(content)
	resp, err := p.publisher.PublishPost(ctx, text, asset)
	if err != nil {
		return p.recordFailure(ctx, err)
	}

	id, err := p.store.InsertPost(ctx, domain.PostRecord{
		PostedAt: time.Now(),
		Status:   domain.StatusSuccess,
		Response: resp,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to persist post record")
		return "", err
	}
	log.Info().Str("post_id", id).Msg("post published")
	return id, nil
}

// PublishContent publishes fixed text with no image, with the same
// record-everything semantics as Run.
func (p *Pipeline) PublishContent(ctx context.Context, content string) (string, error) {
	text := markdown.ToLinkedInText(content)
	resp, err := p.publisher.PublishPost(ctx, text, nil)
	if err != nil {
		return p.recordFailureContent(ctx, content, err)
	}

	id, err := p.store.InsertPost(ctx, domain.PostRecord{
		Content:  content,
		PostedAt: time.Now(),
		Status:   domain.StatusSuccess,
		Response: resp,
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to persist post record")
		return "", err
	}
	log.Info().Str("post_id", id).Msg("post published")
	return id, nil
}

func (p *Pipeline) recordFailure(ctx context.Context, cause error) (string, error) {
	return p.recordFailureContent(ctx, "", cause)
}

func (p *Pipeline) recordFailureContent(ctx context.Context, content string, cause error) (string, error) {
	log.Error().Err(cause).Msg("error posting to LinkedIn")
	_, err := p.store.InsertPost(ctx, domain.PostRecord{
		Content:  content,
		PostedAt: time.Now(),
		Status:   domain.StatusFailed,
		Error:    cause.Error(),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to persist failure record")
	}
	return "", cause
}
