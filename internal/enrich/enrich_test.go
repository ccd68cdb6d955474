package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/utaweb/social-backend/internal/models"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return f[id], nil
}

// countsByPost returns a fixed count per post id hex.
type countsByPost map[string]int64

func (c countsByPost) CountByPost(_ context.Context, postID string) (int64, error) {
	return c[postID], nil
}

func newTestEnricher(users fakeUsers, comments, reactions countsByPost) *Enricher {
	return New(users, comments, reactions)
}

func somePosts(ownerIDs ...string) []models.Post {
	posts := make([]models.Post, len(ownerIDs))
	for i, owner := range ownerIDs {
		posts[i] = models.Post{ID: primitive.NewObjectID(), UserID: owner, Content: "post"}
	}
	return posts
}

func TestPostsDropsMissingOwnersPreservingOrder(t *testing.T) {
	users := fakeUsers{
		"alice": {ID: "alice", Username: "alice"},
		"carol": {ID: "carol", Username: "carol"},
	}
	e := newTestEnricher(users, countsByPost{}, countsByPost{})

	posts := somePosts("alice", "ghost", "carol", "alice")
	views, err := e.Posts(context.Background(), posts)
	require.NoError(t, err)

	require.Len(t, views, 3)
	assert.Equal(t, posts[0].ID, views[0].ID)
	assert.Equal(t, posts[2].ID, views[1].ID)
	assert.Equal(t, posts[3].ID, views[2].ID)
	assert.Equal(t, "alice", views[0].User.Username)
	assert.Equal(t, "carol", views[1].User.Username)
}

func TestPostsAttachesCounts(t *testing.T) {
	users := fakeUsers{"alice": {ID: "alice", Username: "alice"}}
	posts := somePosts("alice")
	postID := posts[0].ID.Hex()

	e := newTestEnricher(users,
		countsByPost{postID: 4},
		countsByPost{postID: 9},
	)
	views, err := e.Posts(context.Background(), posts)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(4), views[0].CommentCount)
	assert.Equal(t, int64(9), views[0].ReactionCount)
}

func TestPostsEmptyInput(t *testing.T) {
	e := newTestEnricher(fakeUsers{}, countsByPost{}, countsByPost{})
	views, err := e.Posts(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestPostOwnerMissing(t *testing.T) {
	e := newTestEnricher(fakeUsers{}, countsByPost{}, countsByPost{})
	post := somePosts("ghost")[0]

	_, err := e.Post(context.Background(), &post)
	assert.ErrorIs(t, err, ErrOwnerMissing)
}

func TestPostAttachesOwnerProjection(t *testing.T) {
	users := fakeUsers{"alice": {
		ID:             "alice",
		Username:       "alice",
		Email:          "alice@example.com",
		ProfilePicture: "pic-1",
	}}
	e := newTestEnricher(users, countsByPost{}, countsByPost{})
	post := somePosts("alice")[0]

	view, err := e.Post(context.Background(), &post)
	require.NoError(t, err)
	assert.Equal(t, models.UserSummary{
		ID:             "alice",
		Username:       "alice",
		ProfilePicture: "pic-1",
	}, view.User)
}

func TestCommentsDropMissingOwners(t *testing.T) {
	users := fakeUsers{"bob": {ID: "bob", Username: "bob"}}
	e := newTestEnricher(users, countsByPost{}, countsByPost{})

	comments := []models.Comment{
		{ID: primitive.NewObjectID(), UserID: "ghost", Content: "first"},
		{ID: primitive.NewObjectID(), UserID: "bob", Content: "second"},
		{ID: primitive.NewObjectID(), UserID: "ghost", Content: "third"},
	}
	views, err := e.Comments(context.Background(), comments)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "second", views[0].Content)
	assert.Equal(t, "bob", views[0].User.Username)
}

func TestReactionsDropMissingOwners(t *testing.T) {
	users := fakeUsers{"bob": {ID: "bob", Username: "bob"}}
	e := newTestEnricher(users, countsByPost{}, countsByPost{})

	reactions := []models.Reaction{
		{ID: primitive.NewObjectID(), UserID: "bob", Type: models.ReactionLove},
		{ID: primitive.NewObjectID(), UserID: "ghost", Type: models.ReactionWow},
	}
	views, err := e.Reactions(context.Background(), reactions)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, models.ReactionLove, views[0].Type)
}

func TestSingleCommentAndReactionOwnerMissing(t *testing.T) {
	e := newTestEnricher(fakeUsers{}, countsByPost{}, countsByPost{})

	comment := models.Comment{ID: primitive.NewObjectID(), UserID: "ghost"}
	_, err := e.Comment(context.Background(), &comment)
	assert.ErrorIs(t, err, ErrOwnerMissing)

	reaction := models.Reaction{ID: primitive.NewObjectID(), UserID: "ghost"}
	_, err = e.Reaction(context.Background(), &reaction)
	assert.ErrorIs(t, err, ErrOwnerMissing)
}
