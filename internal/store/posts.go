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

	"github.com/utaweb/social-backend/internal/models"
)

// PostStore handles post document CRUD in MongoDB.
type PostStore struct {
	col *mongo.Collection
}

func NewPostStore(db *mongo.Database) *PostStore {
	return &PostStore{col: db.Collection("posts")}
}

func (s *PostStore) Insert(ctx context.Context, post *models.Post) (string, error) {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Attachments == nil {
		post.Attachments = []models.Attachment{}
	}
	res, err := s.col.InsertOne(ctx, post)
	if err != nil {
		return "", fmt.Errorf("mongo insert: %w", err)
	}
	oid := res.InsertedID.(primitive.ObjectID)
	post.ID = oid
	return oid.Hex(), nil
}

// List returns posts newest first, optionally filtered by career.
func (s *PostStore) List(ctx context.Context, skip, limit int64, career string) ([]models.Post, error) {
	filter := bson.M{}
	if career != "" {
		filter["career"] = career
	}
	return s.find(ctx, filter, skip, limit)
}

// ListByUser returns a user's posts newest first.
func (s *PostStore) ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.Post, error) {
	return s.find(ctx, bson.M{"user_id": userID}, skip, limit)
}

func (s *PostStore) find(ctx context.Context, filter bson.M, skip, limit int64) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var posts []models.Post
	if err := cur.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// GetByID returns the post, or nil if it does not exist.
func (s *PostStore) GetByID(ctx context.Context, id string) (*models.Post, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return nil, nil
	}
	var post models.Post
	err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes the post only if userID owns it. It reports false,
// not an error, both when the post is absent and when the requester is
// not the owner.
func (s *PostStore) Delete(ctx context.Context, id, userID string) (bool, error) {
	oid, ok := parseObjectID(id)
	if !ok {
		return false, nil
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": oid, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}
