package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/utaweb/social-backend/internal/models"
)

// ReactionStore handles reaction document CRUD in MongoDB. The
// (post_id, user_id) unique index from EnsureIndexes backs the upsert.
type ReactionStore struct {
	col *mongo.Collection
}

func NewReactionStore(db *mongo.Database) *ReactionStore {
	return &ReactionStore{col: db.Collection("reactions")}
}

// Upsert inserts the user's reaction on a post, or overwrites its type
// if one exists. The original created_at is kept on overwrite. Two
// concurrent first reactions can both miss the existing document; the
// unique index turns the loser's insert into a duplicate-key error,
// which is retried once as an update.
func (s *ReactionStore) Upsert(ctx context.Context, postID, userID string, reactionType models.ReactionType) (*models.Reaction, error) {
	oid, ok := parseObjectID(postID)
	if !ok {
		return nil, fmt.Errorf("invalid post id %q", postID)
	}
	filter := bson.M{"post_id": oid, "user_id": userID}
	update := bson.M{
		"$set":         bson.M{"reaction_type": reactionType},
		"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var reaction models.Reaction
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&reaction)
	if mongo.IsDuplicateKeyError(err) {
		err = s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&reaction)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo upsert: %w", err)
	}
	return &reaction, nil
}

// Delete removes the user's reaction on a post, reporting whether one
// existed. The (post, user) key already scopes the delete to the
// caller, so no extra ownership check is needed.
func (s *ReactionStore) Delete(ctx context.Context, postID, userID string) (bool, error) {
	oid, ok := parseObjectID(postID)
	if !ok {
		return false, nil
	}
	res, err := s.col.DeleteOne(ctx, bson.M{"post_id": oid, "user_id": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// ListByPost returns every reaction on a post.
func (s *ReactionStore) ListByPost(ctx context.Context, postID string) ([]models.Reaction, error) {
	oid, ok := parseObjectID(postID)
	if !ok {
		return nil, nil
	}
	cur, err := s.col.Find(ctx, bson.M{"post_id": oid})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var reactions []models.Reaction
	if err := cur.All(ctx, &reactions); err != nil {
		return nil, err
	}
	return reactions, nil
}

// CountByPost returns the total number of reactions on a post.
func (s *ReactionStore) CountByPost(ctx context.Context, postID string) (int64, error) {
	oid, ok := parseObjectID(postID)
	if !ok {
		return 0, nil
	}
	return s.col.CountDocuments(ctx, bson.M{"post_id": oid})
}

// CountByType groups a post's reactions by type. The result always
// carries all six types, including zero-count ones.
func (s *ReactionStore) CountByType(ctx context.Context, postID string) (map[models.ReactionType]int64, error) {
	counts := models.NewReactionCounts()
	oid, ok := parseObjectID(postID)
	if !ok {
		return counts, nil
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"post_id": oid}}},
		{{Key: "$group", Value: bson.M{"_id": "$reaction_type", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Type  models.ReactionType `bson:"_id"`
		Count int64               `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
