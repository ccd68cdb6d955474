package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment references a file stored in the blob store. It lives
// embedded in the post document and is deleted with it.
type Attachment struct {
	FileID      string `json:"file_id"      bson:"file_id"`
	Filename    string `json:"filename"     bson:"filename"`
	ContentType string `json:"content_type" bson:"content_type"`
}

// Post is a single post stored in MongoDB. UserID holds the owning
// user's PostgreSQL UUID.
type Post struct {
	ID          primitive.ObjectID `json:"id"          bson:"_id,omitempty"`
	UserID      string             `json:"user_id"     bson:"user_id"`
	Content     string             `json:"content"     bson:"content"`
	Career      string             `json:"career"      bson:"career"`
	Attachments []Attachment       `json:"attachments" bson:"attachments"`
	CreatedAt   time.Time          `json:"created_at"  bson:"created_at"`
	UpdatedAt   time.Time          `json:"-"           bson:"updated_at"`
}

// PostView is the enriched response shape: the post plus its owner
// projection and aggregated interaction counts.
type PostView struct {
	Post
	User          UserSummary `json:"user"`
	CommentCount  int64       `json:"comment_count"`
	ReactionCount int64       `json:"reaction_count"`
}
