package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/utaweb/social-backend/internal/models"
)

// CommentStore handles comment document CRUD in MongoDB.
type CommentStore struct {
	col *mongo.Collection
}

func NewCommentStore(db *mongo.Database) *CommentStore {
	return &CommentStore{col: db.Collection("comments")}
}

func (s *CommentStore) Insert(ctx context.Context, postID, userID, content string) (*models.Comment, error) {
	oid, ok := parseObjectID(postID)
	if !ok {
		return nil, fmt.Errorf("invalid post id %q", postID)
	}
	now := time.Now().UTC()
	comment := &models.Comment{
		PostID:    oid,
		UserID:    userID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	res, err := s.col.InsertOne(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	comment.ID = res.InsertedID.(primitive.ObjectID)
	return comment, nil
}

// ListByPost returns a post's comments oldest first.
func (s *CommentStore) ListByPost(ctx context.Context, postID string, skip, limit int64) ([]models.Comment, error) {
	oid, ok := parseObjectID(postID)
	if !ok {
		return nil, nil
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetSkip(skip).
		SetLimit(limit)
	cur, err := s.col.Find(ctx, bson.M{"post_id": oid}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var comments []models.Comment
	if err := cur.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPost returns the number of comments on a post.
func (s *CommentStore) CountByPost(ctx context.Context, postID string) (int64, error) {
	oid, ok := parseObjectID(postID)
	if !ok {
		return 0, nil
	}
	return s.col.CountDocuments(ctx, bson.M{"post_id": oid})
}

// Delete removes the comment only if userID authored it. Absence and
// foreign ownership both report false.
func (s *CommentStore) Delete(ctx context.Context, id, userID string) (bool, error) {
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
