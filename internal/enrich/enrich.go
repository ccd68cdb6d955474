// Package enrich composes store results with owner lookups to produce
// the response shapes the API returns: each post, comment, or reaction
// carries a {id, username, profile_picture} projection of its author,
// and posts additionally carry aggregated interaction counts.
package enrich

import (
	"context"
	"errors"

	"github.com/utaweb/social-backend/internal/models"
)

// ErrOwnerMissing reports a single-item enrichment whose owning user
// no longer exists. Handlers map it to a not-found response.
var ErrOwnerMissing = errors.New("owning user not found")

// UserLookup resolves user ids to users, nil when absent.
type UserLookup interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// CommentCounter counts comments on a post.
type CommentCounter interface {
	CountByPost(ctx context.Context, postID string) (int64, error)
}

// ReactionCounter counts reactions on a post.
type ReactionCounter interface {
	CountByPost(ctx context.Context, postID string) (int64, error)
}

// Enricher attaches owner projections and counters to store results.
type Enricher struct {
	users     UserLookup
	comments  CommentCounter
	reactions ReactionCounter
}

func New(users UserLookup, comments CommentCounter, reactions ReactionCounter) *Enricher {
	return &Enricher{users: users, comments: comments, reactions: reactions}
}

// resolveOwners looks up each distinct id once and returns the
// summaries of those that exist.
func (e *Enricher) resolveOwners(ctx context.Context, ids []string) (map[string]models.UserSummary, error) {
	owners := make(map[string]models.UserSummary, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		user, err := e.users.GetUserByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue
		}
		owners[id] = user.Summary()
	}
	return owners, nil
}

// Posts enriches a list of posts, preserving order and dropping posts
// whose owner cannot be resolved.
func (e *Enricher) Posts(ctx context.Context, posts []models.Post) ([]models.PostView, error) {
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.UserID)
	}
	owners, err := e.resolveOwners(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		owner, ok := owners[p.UserID]
		if !ok {
			continue
		}
		view, err := e.postView(ctx, p, owner)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Post enriches a single post, failing with ErrOwnerMissing when the
// owner cannot be resolved.
func (e *Enricher) Post(ctx context.Context, post *models.Post) (*models.PostView, error) {
	user, err := e.users.GetUserByID(ctx, post.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrOwnerMissing
	}
	view, err := e.postView(ctx, *post, user.Summary())
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func (e *Enricher) postView(ctx context.Context, post models.Post, owner models.UserSummary) (models.PostView, error) {
	postID := post.ID.Hex()
	commentCount, err := e.comments.CountByPost(ctx, postID)
	if err != nil {
		return models.PostView{}, err
	}
	reactionCount, err := e.reactions.CountByPost(ctx, postID)
	if err != nil {
		return models.PostView{}, err
	}
	return models.PostView{
		Post:          post,
		User:          owner,
		CommentCount:  commentCount,
		ReactionCount: reactionCount,
	}, nil
}

// Comments enriches a list of comments, preserving order and dropping
// comments whose author cannot be resolved.
func (e *Enricher) Comments(ctx context.Context, comments []models.Comment) ([]models.CommentView, error) {
	ids := make([]string, 0, len(comments))
	for _, c := range comments {
		ids = append(ids, c.UserID)
	}
	owners, err := e.resolveOwners(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		owner, ok := owners[c.UserID]
		if !ok {
			continue
		}
		views = append(views, models.CommentView{Comment: c, User: owner})
	}
	return views, nil
}

// Comment enriches a single comment.
func (e *Enricher) Comment(ctx context.Context, comment *models.Comment) (*models.CommentView, error) {
	user, err := e.users.GetUserByID(ctx, comment.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrOwnerMissing
	}
	return &models.CommentView{Comment: *comment, User: user.Summary()}, nil
}

// Reactions enriches a list of reactions, preserving order and
// dropping reactions whose author cannot be resolved.
func (e *Enricher) Reactions(ctx context.Context, reactions []models.Reaction) ([]models.ReactionView, error) {
	ids := make([]string, 0, len(reactions))
	for _, rc := range reactions {
		ids = append(ids, rc.UserID)
	}
	owners, err := e.resolveOwners(ctx, ids)
	if err != nil {
		return nil, err
	}

	views := make([]models.ReactionView, 0, len(reactions))
	for _, rc := range reactions {
		owner, ok := owners[rc.UserID]
		if !ok {
			continue
		}
		views = append(views, models.ReactionView{Reaction: rc, User: owner})
	}
	return views, nil
}

// Reaction enriches a single reaction.
func (e *Enricher) Reaction(ctx context.Context, reaction *models.Reaction) (*models.ReactionView, error) {
	user, err := e.users.GetUserByID(ctx, reaction.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrOwnerMissing
	}
	return &models.ReactionView{Reaction: *reaction, User: user.Summary()}, nil
}
