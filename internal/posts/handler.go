package posts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

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

// PostStore defines the interface for post persistence.
type PostStore interface {
	Insert(ctx context.Context, post *models.Post) (string, error)
	List(ctx context.Context, skip, limit int64, career string) ([]models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Delete(ctx context.Context, id, userID string) (bool, error)
}

// FileStore defines the interface for attachment blob storage.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

// Handler holds post HTTP handlers.
type Handler struct {
	posts    PostStore
	files    FileStore
	enricher *enrich.Enricher
}

func NewHandler(posts PostStore, files FileStore, enricher *enrich.Enricher) *Handler {
	return &Handler{posts: posts, files: files, enricher: enricher}
}

// Create stores a post with its uploaded attachments. Multipart form:
// content and career fields plus zero or more files.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, `{"error":"invalid multipart form"}`, http.StatusBadRequest)
		return
	}
	content := r.FormValue("content")
	career := r.FormValue("career")
	if content == "" || career == "" {
		http.Error(w, `{"error":"content and career are required"}`, http.StatusBadRequest)
		return
	}

	var attachments []models.Attachment
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["files"] {
			file, err := header.Open()
			if err != nil {
				http.Error(w, `{"error":"unreadable upload"}`, http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				http.Error(w, `{"error":"unreadable upload"}`, http.StatusBadRequest)
				return
			}

			contentType := header.Header.Get("Content-Type")
			key := uuid.New().String()
			if err := h.files.Upload(r.Context(), key, data, contentType); err != nil {
				log.Printf("attachment upload error: %v", err)
				http.Error(w, `{"error":"file upload failed"}`, http.StatusInternalServerError)
				return
			}
			attachments = append(attachments, models.Attachment{
				FileID:      key,
				Filename:    header.Filename,
				ContentType: contentType,
			})
		}
	}

	post := &models.Post{
		UserID:      userID,
		Content:     content,
		Career:      career,
		Attachments: attachments,
	}
	if _, err := h.posts.Insert(r.Context(), post); err != nil {
		log.Printf("post insert error: %v", err)
		http.Error(w, `{"error":"failed to save post"}`, http.StatusInternalServerError)
		return
	}

	view, err := h.enricher.Post(r.Context(), post)
	if err != nil {
		http.Error(w, `{"error":"failed to load post"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

// List returns enriched posts, newest first, optionally filtered by
// career.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r, 20)
	career := r.URL.Query().Get("career")

	posts, err := h.posts.List(r.Context(), skip, limit, career)
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

// Get returns a single enriched post. A post whose owner is gone is
// reported as absent.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, `{"error":"post not found"}`, http.StatusNotFound)
		return
	}

	view, err := h.enricher.Post(r.Context(), post)
	if errors.Is(err, enrich.ErrOwnerMissing) {
		http.Error(w, `{"error":"post not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Delete removes a post and its attachment blobs. A missing post and a
// post owned by someone else get the same response.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id").(string)
	id := chi.URLParam(r, "id")

	post, err := h.posts.GetByID(r.Context(), id)
	if err != nil {
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}
	if post == nil || post.UserID != userID {
		http.Error(w, `{"error":"post not found or not yours to delete"}`, http.StatusNotFound)
		return
	}

	// Blobs go first; a crash between the two leaves a post with
	// dangling references rather than orphaned blobs.
	for _, attachment := range post.Attachments {
		if err := h.files.Remove(r.Context(), attachment.FileID); err != nil {
			log.Printf("attachment remove error: %v", err)
		}
	}

	deleted, err := h.posts.Delete(r.Context(), id, userID)
	if err != nil {
		http.Error(w, `{"error":"delete failed"}`, http.StatusInternalServerError)
		return
	}
	if !deleted {
		http.Error(w, `{"error":"post not found or not yours to delete"}`, http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetFile streams an attachment blob.
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
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

// pagination reads skip/limit query params with a per-resource default
// limit.
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
