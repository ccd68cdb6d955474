package users

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/utaweb/social-backend/internal/enrich"
	"github.com/utaweb/social-backend/internal/models"
	"github.com/utaweb/social-backend/internal/store"
)

const maxUploadMemory = 32 << 20

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// UserStore defines the interface for user persistence.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfilePicture(ctx context.Context, id, fileID string) (bool, error)
}

// PostLister lists a user's posts.
type PostLister interface {
	ListByUser(ctx context.Context, userID string, skip, limit int64) ([]models.Post, error)
}

// FileStore defines the interface for profile-picture blob storage.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
}

// Handler holds user HTTP handlers.
type Handler struct {
	users    UserStore
	posts    PostLister
	files    FileStore
	enricher *enrich.Enricher
}

func NewHandler(users UserStore, posts PostLister, files FileStore, enricher *enrich.Enricher) *Handler {
	return &Handler{users: users, posts: posts, files: files, enricher: enricher}
}

// Get returns a user's public projection.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	user, err := h.users.GetUserByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user.Summary())
}

// Posts returns a user's enriched posts, newest first.
func (h *Handler) Posts(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	skip, limit := pagination(r, 20)

	posts, err := h.posts.ListByUser(r.Context(), id, skip, limit)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	views, err := h.enricher.Posts(r.Context(), posts)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// UploadProfilePicture stores an image blob and points the caller's
// profile-picture reference at it.
func (h *Handler) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, `{"error":"invalid multipart form"}`, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"file is required"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		http.Error(w, `{"error":"file must be an image"}`, http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, `{"error":"unreadable upload"}`, http.StatusBadRequest)
		return
	}

	key := uuid.New().String()
	if err := h.files.Upload(r.Context(), key, data, contentType); err != nil {
		log.Printf("profile picture upload error: %v", err)
		http.Error(w, `{"error":"file upload failed"}`, http.StatusInternalServerError)
		return
	}

	updated, err := h.users.UpdateProfilePicture(r.Context(), userID, key)
	if err != nil || !updated {
		http.Error(w, `{"error":"failed to update profile picture"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"profile_picture_id": key})
}

// GetProfilePicture streams a profile-picture blob.
func (h *Handler) GetProfilePicture(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "fileID")
	data, contentType, err := h.files.Download(r.Context(), key)
	if errors.Is(err, store.ErrBlobNotFound) {
		http.Error(w, `{"error":"file not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"download failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(data)
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
