package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReactionType is the fixed set of reactions a user can leave on a post.
type ReactionType string

const (
	ReactionLike  ReactionType = "like"
	ReactionLove  ReactionType = "love"
	ReactionHaha  ReactionType = "haha"
	ReactionWow   ReactionType = "wow"
	ReactionSad   ReactionType = "sad"
	ReactionAngry ReactionType = "angry"
)

// ReactionTypes lists every valid reaction type, in enum order.
var ReactionTypes = []ReactionType{
	ReactionLike, ReactionLove, ReactionHaha,
	ReactionWow, ReactionSad, ReactionAngry,
}

// Valid reports whether t is one of the enumerated reaction types.
func (t ReactionType) Valid() bool {
	for _, rt := range ReactionTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// NewReactionCounts returns a count map carrying every reaction type
// zeroed. Aggregations start from this so the result is total over the
// enum, never sparse over observed data.
func NewReactionCounts() map[ReactionType]int64 {
	counts := make(map[ReactionType]int64, len(ReactionTypes))
	for _, rt := range ReactionTypes {
		counts[rt] = 0
	}
	return counts
}

// Comment is a single comment stored in MongoDB.
type Comment struct {
	ID        primitive.ObjectID `json:"id"         bson:"_id,omitempty"`
	PostID    primitive.ObjectID `json:"post_id"    bson:"post_id"`
	UserID    string             `json:"user_id"    bson:"user_id"`
	Content   string             `json:"content"    bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"-"          bson:"updated_at"`
}

// CommentView is a comment plus its author projection.
type CommentView struct {
	Comment
	User UserSummary `json:"user"`
}

// Reaction is a single reaction stored in MongoDB. At most one exists
// per (post, user) pair, enforced by a unique compound index.
type Reaction struct {
	ID        primitive.ObjectID `json:"id"            bson:"_id,omitempty"`
	PostID    primitive.ObjectID `json:"post_id"       bson:"post_id"`
	UserID    string             `json:"user_id"       bson:"user_id"`
	Type      ReactionType       `json:"reaction_type" bson:"reaction_type"`
	CreatedAt time.Time          `json:"created_at"    bson:"created_at"`
}

// ReactionView is a reaction plus its author projection.
type ReactionView struct {
	Reaction
	User UserSummary `json:"user"`
}

// CreateCommentRequest is the JSON body for POST /api/comments.
type CreateCommentRequest struct {
	PostID  string `json:"post_id"`
	Content string `json:"content"`
}

// CreateReactionRequest is the JSON body for POST /api/reactions.
type CreateReactionRequest struct {
	PostID string       `json:"post_id"`
	Type   ReactionType `json:"reaction_type"`
}
