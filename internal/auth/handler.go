package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/utaweb/social-backend/internal/models"
	"github.com/utaweb/social-backend/internal/store"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}

// TokenIssuer defines the interface for bearer-token issuance.
type TokenIssuer interface {
	Create(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, token string) error
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens TokenIssuer
}

func NewHandler(users UserStore, tokens TokenIssuer) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// BearerToken extracts the token from the Authorization header, or ""
// if the header is absent or not a bearer scheme.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return header[len(prefix):]
}

// Register creates a new user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		http.Error(w, `{"error":"username, email, and password are required"}`, http.StatusBadRequest)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.Username, req.Email, string(hashed))
	switch {
	case errors.Is(err, store.ErrDuplicateEmail):
		http.Error(w, `{"error":"email already registered"}`, http.StatusConflict)
		return
	case errors.Is(err, store.ErrDuplicateUsername):
		http.Error(w, `{"error":"username already taken"}`, http.StatusConflict)
		return
	case err != nil:
		http.Error(w, `{"error":"database error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// Login verifies credentials and issues a bearer token. Unknown email
// and wrong password get the same response on purpose.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil || user == nil {
		http.Error(w, `{"error":"incorrect email or password"}`, http.StatusUnauthorized)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, `{"error":"incorrect email or password"}`, http.StatusUnauthorized)
		return
	}

	token, err := h.tokens.Create(r.Context(), user.ID)
	if err != nil {
		http.Error(w, `{"error":"token creation failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user.Summary(),
	})
}

// Logout revokes the presented bearer token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := BearerToken(r); token != "" {
		h.tokens.Delete(r.Context(), token)
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"logged out"}`))
}

// Me returns the currently authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("user_id")
	if userID == nil {
		http.Error(w, `{"error":"not authenticated"}`, http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetUserByID(r.Context(), userID.(string))
	if err != nil || user == nil {
		http.Error(w, `{"error":"user not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
