// Package store persists post outcome records and schedule metadata in
// a MongoDB document store.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"postflow/internal/domain"
)

const (
	postCollection      = "posts"
	scheduledCollection = "scheduled_posts"
)

type Store interface {
	InsertPost(ctx context.Context, rec domain.PostRecord) (string, error)
	ListPosts(ctx context.Context) ([]domain.PostRecord, error)
	InsertSchedule(ctx context.Context, rec domain.ScheduleRecord) error
	NextScheduledContent(ctx context.Context) (string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type mongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect builds the store and seeds the posts collection on first
// use. The client is constructed once here and shared for the process
// lifetime; Close releases it at shutdown.
func Connect(ctx context.Context, url, dbName string) (Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	s := &mongoStore{client: client, db: client.Database(dbName)}
	if err := s.ensureSeeded(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// ensureSeeded inserts a placeholder document when the posts
// collection is empty. The marker carries a "posts" field and is
// excluded from listings.
func (s *mongoStore) ensureSeeded(ctx context.Context) error {
	coll := s.db.Collection(postCollection)
	n, err := coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("count posts: %w", err)
	}
	if n == 0 {
		if _, err := coll.InsertOne(ctx, bson.M{"posts": bson.A{}}); err != nil {
			return fmt.Errorf("seed posts collection: %w", err)
		}
	}
	return nil
}

func (s *mongoStore) InsertPost(ctx context.Context, rec domain.PostRecord) (string, error) {
	res, err := s.db.Collection(postCollection).InsertOne(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("insert post: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (s *mongoStore) ListPosts(ctx context.Context) ([]domain.PostRecord, error) {
	// The seed marker is the only document carrying a "posts" field.
	filter := bson.M{"posts": bson.M{"$exists": false}}
	cur, err := s.db.Collection(postCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	var posts []domain.PostRecord
	for cur.Next(ctx) {
		var doc struct {
			ID                primitive.ObjectID `bson:"_id"`
			domain.PostRecord `bson:",inline"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode post: %w", err)
		}
		rec := doc.PostRecord
		rec.ID = doc.ID.Hex()
		posts = append(posts, rec)
	}
	return posts, cur.Err()
}

func (s *mongoStore) InsertSchedule(ctx context.Context, rec domain.ScheduleRecord) error {
	if _, err := s.db.Collection(scheduledCollection).InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// NextScheduledContent returns the content of the most recently
// created schedule record not yet marked posted, or the default
// content when none exists.
func (s *mongoStore) NextScheduledContent(ctx context.Context) (string, error) {
	var rec domain.ScheduleRecord
	err := s.db.Collection(scheduledCollection).FindOne(ctx,
		bson.M{"posted": bson.M{"$ne": true}},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.DefaultContent, nil
	}
	if err != nil {
		return "", fmt.Errorf("find next scheduled post: %w", err)
	}
	if rec.Content == "" {
		return domain.DefaultContent, nil
	}
	return rec.Content, nil
}

func (s *mongoStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
