package comments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/utaweb/social-backend/internal/enrich"
	"github.com/utaweb/social-backend/internal/middleware"
	"github.com/utaweb/social-backend/internal/models"
)

// memCommentStore mirrors the CommentStore contract: oldest-first
// listing, ownership-scoped delete reporting false.
type memCommentStore struct {
	comments []models.Comment
	clock    time.Time
}

func (s *memCommentStore) Insert(_ context.Context, postID, userID, content string) (*models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return nil, fmt.Errorf("invalid post id %q", postID)
	}
	s.clock = s.clock.Add(time.Second)
	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    oid,
		UserID:    userID,
		Content:   content,
		CreatedAt: s.clock,
		UpdatedAt: s.clock,
	}
	s.comments = append(s.comments, comment)
	return &comment, nil
}

func (s *memCommentStore) ListByPost(_ context.Context, postID string, skip, limit int64) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range s.comments {
		if c.PostID.Hex() == postID {
			out = append(out, c)
		}
	}
	if skip >= int64(len(out)) {
		return nil, nil
	}
	out = out[skip:]
	if limit < int64(len(out)) {
		out = out[:limit]
	}
	return out, nil
}

func (s *memCommentStore) Delete(_ context.Context, id, userID string) (bool, error) {
	for i := range s.comments {
		if s.comments[i].ID.Hex() == id && s.comments[i].UserID == userID {
			s.comments = append(s.comments[:i], s.comments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

type fakeUsers map[string]*models.User

func (f fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	return f[id], nil
}

type zeroCounter struct{}

func (zeroCounter) CountByPost(_ context.Context, _ string) (int64, error) { return 0, nil }

type fakeTokens map[string]string

func (f fakeTokens) Get(_ context.Context, token string) (string, error) {
	return f[token], nil
}

func newRouter(store *memCommentStore, users fakeUsers) *chi.Mux {
	enricher := enrich.New(users, zeroCounter{}, zeroCounter{})
	h := NewHandler(store, enricher)
	tokens := fakeTokens{"alice-token": "alice", "bob-token": "bob"}

	r := chi.NewRouter()
	r.Route("/api/comments", func(r chi.Router) {
		r.Use(middleware.RequireAuth(tokens))
		r.Post("/", h.Create)
		r.Get("/post/{postID}", h.ListByPost)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func do(router *chi.Mux, req *http.Request, token string) *httptest.ResponseRecorder {
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func createComment(t *testing.T, router *chi.Mux, token, postID, content string) models.CommentView {
	t.Helper()
	raw, err := json.Marshal(models.CreateCommentRequest{PostID: postID, Content: content})
	require.NoError(t, err)
	rec := do(router, httptest.NewRequest(http.MethodPost, "/api/comments/", bytes.NewReader(raw)), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var view models.CommentView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&view))
	return view
}

func TestCreateAttachesAuthor(t *testing.T) {
	users := fakeUsers{"alice": {ID: "alice", Username: "alice", ProfilePicture: "pic"}}
	router := newRouter(&memCommentStore{clock: time.Now()}, users)

	view := createComment(t, router, "alice-token", primitive.NewObjectID().Hex(), "nice post")
	assert.Equal(t, "nice post", view.Content)
	assert.Equal(t, "alice", view.User.Username)
	assert.Equal(t, "pic", view.User.ProfilePicture)
}

func TestCreateRejectsBadInput(t *testing.T) {
	users := fakeUsers{"alice": {ID: "alice", Username: "alice"}}
	router := newRouter(&memCommentStore{clock: time.Now()}, users)

	raw, _ := json.Marshal(models.CreateCommentRequest{Content: "no post id"})
	rec := do(router, httptest.NewRequest(http.MethodPost, "/api/comments/", bytes.NewReader(raw)), "alice-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	raw, _ = json.Marshal(models.CreateCommentRequest{PostID: "not-an-object-id", Content: "hi"})
	rec = do(router, httptest.NewRequest(http.MethodPost, "/api/comments/", bytes.NewReader(raw)), "alice-token")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListOldestFirstDroppingMissingAuthors(t *testing.T) {
	users := fakeUsers{
		"alice": {ID: "alice", Username: "alice"},
		"bob":   {ID: "bob", Username: "bob"},
	}
	router := newRouter(&memCommentStore{clock: time.Now()}, users)
	postID := primitive.NewObjectID().Hex()

	createComment(t, router, "alice-token", postID, "first")
	createComment(t, router, "bob-token", postID, "second")
	createComment(t, router, "alice-token", postID, "third")

	delete(users, "bob")

	rec := do(router, httptest.NewRequest(http.MethodGet, "/api/comments/post/"+postID, nil), "alice-token")
	require.Equal(t, http.StatusOK, rec.Code)
	var views []models.CommentView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&views))
	require.Len(t, views, 2)
	assert.Equal(t, "first", views[0].Content)
	assert.Equal(t, "third", views[1].Content)
}

func TestDeleteOwnershipPolicy(t *testing.T) {
	users := fakeUsers{
		"alice": {ID: "alice", Username: "alice"},
		"bob":   {ID: "bob", Username: "bob"},
	}
	store := &memCommentStore{clock: time.Now()}
	router := newRouter(store, users)
	postID := primitive.NewObjectID().Hex()

	view := createComment(t, router, "alice-token", postID, "mine")

	notAuthor := do(router, httptest.NewRequest(http.MethodDelete, "/api/comments/"+view.ID.Hex(), nil), "bob-token")
	missing := do(router, httptest.NewRequest(http.MethodDelete, "/api/comments/"+primitive.NewObjectID().Hex(), nil), "bob-token")
	assert.Equal(t, http.StatusNotFound, notAuthor.Code)
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Equal(t, missing.Body.String(), notAuthor.Body.String())
	assert.Len(t, store.comments, 1)

	byAuthor := do(router, httptest.NewRequest(http.MethodDelete, "/api/comments/"+view.ID.Hex(), nil), "alice-token")
	assert.Equal(t, http.StatusNoContent, byAuthor.Code)
	assert.Empty(t, store.comments)
}
