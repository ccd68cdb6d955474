package reactions

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

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

// ReactionStore defines the interface for reaction persistence.
type ReactionStore interface {
	Upsert(ctx context.Context, postID, userID string, reactionType models.ReactionType) (*models.Reaction, error)
	Delete(ctx context.Context, postID, userID string) (bool, error)
	ListByPost(ctx context.Context, postID string) ([]models.Reaction, error)
	CountByType(ctx context.Context, postID string) (map[models.ReactionType]int64, error)
}

// Handler holds reaction HTTP handlers.
type Handler struct {
	reactions ReactionStore
	enricher  *enrich.Enricher
}

func NewHandler(reactions ReactionStore, enricher *enrich.Enricher) *Handler {
	return &Handler{reactions: reactions, enricher: enricher}
}

// Create sets the caller's reaction on a post, replacing any previous
// one.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	var req models.CreateReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.PostID == "" || !req.Type.Valid() {
		http.Error(w, `{"error":"post_id and a valid reaction_type are required"}`, http.StatusBadRequest)
		return
	}
	if _, err := primitive.ObjectIDFromHex(req.PostID); err != nil {
		http.Error(w, `{"error":"invalid post id"}`, http.StatusBadRequest)
		return
	}

	reaction, err := h.reactions.Upsert(r.Context(), req.PostID, userID, req.Type)
	if err != nil {
		log.Printf("reaction upsert error: %v", err)
		http.Error(w, `{"error":"failed to save reaction"}`, http.StatusInternalServerError)
		return
	}

	view, err := h.enricher.Reaction(r.Context(), reaction)
	if err != nil {
		log.Printf("reaction enrich error: %v", err)
		http.Error(w, `{"error":"failed to load reaction"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// Delete removes the caller's reaction on a post.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	postID := chi.URLParam(r, "postID")

	deleted, err := h.reactions.Delete(r.Context(), postID, userID)
	if err != nil {
		http.Error(w, `{"error":"delete failed"}`, http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, `{"error":"reaction not found"}`, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListByPost returns a post's enriched reactions.
func (h *Handler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	reactions, err := h.reactions.ListByPost(r.Context(), postID)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	views, err := h.enricher.Reactions(r.Context(), reactions)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// Counts returns the per-type reaction tally for a post. Every type
// appears, zero or not.
func (h *Handler) Counts(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	counts, err := h.reactions.CountByType(r.Context(), postID)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}
