package comments

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/utaweb/social-backend/internal/enrich"
	"github.com/utaweb/social-backend/internal/models"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// CommentStore defines the interface for comment persistence.
type CommentStore interface {
	Insert(ctx context.Context, postID, userID, content string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string, skip, limit int64) ([]models.Comment, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

// Handler holds comment HTTP handlers.
type Handler struct {
	comments CommentStore
	enricher *enrich.Enricher
}

func NewHandler(comments CommentStore, enricher *enrich.Enricher) *Handler {
	return &Handler{comments: comments, enricher: enricher}
}

// Create stores a comment on a post.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.PostID == "" || req.Content == "" {
		http.Error(w, `{"error":"post_id and content are required"}`, http.StatusBadRequest)
		return
	}
	if _, err := primitive.ObjectIDFromHex(req.PostID); err != nil {
		http.Error(w, `{"error":"invalid post id"}`, http.StatusBadRequest)
		return
	}

	comment, err := h.comments.Insert(r.Context(), req.PostID, userID, req.Content)
	if err != nil {
		log.Printf("comment insert error: %v", err)
		http.Error(w, `{"error":"failed to save comment"}`, http.StatusInternalServerError)
		return
	}

	view, err := h.enricher.Comment(r.Context(), comment)
	if err != nil {
		log.Printf("comment enrich error: %v", err)
		http.Error(w, `{"error":"failed to load comment"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// ListByPost returns a post's enriched comments, oldest first.
func (h *Handler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	skip, limit := pagination(r, 50)

	comments, err := h.comments.ListByPost(r.Context(), postID, skip, limit)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	views, err := h.enricher.Comments(r.Context(), comments)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Delete removes a comment. A missing comment and someone else's
// comment get the same response.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	id := chi.URLParam(r, "id")

	deleted, err := h.comments.Delete(r.Context(), id, userID)
	if err != nil {
		http.Error(w, `{"error":"delete failed"}`, http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, `{"error":"comment not found or not yours to delete"}`, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pagination(r *http.Request, defaultLimit int64) (int64, int64) {
	skip, limit := int64(0), defaultLimit
	if v, err := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64); err == nil && v >= 0 {
		skip = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 {
		limit = v
	}
	return skip, limit
}
