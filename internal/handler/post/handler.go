package post

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	postservice "github.com/postboard/backend/internal/service/post"
	"github.com/postboard/backend/pkg/utils"
)

// Handler exposes the post store over HTTP.
type Handler struct {
	posts *postservice.Service
}

// New creates a post handler backed by the given store.
func New(posts *postservice.Service) *Handler {
	return &Handler{posts: posts}
}

// RegisterRoutes mounts the post endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/posts", h.handleList)
	r.Post("/posts", h.handleCreate)
	r.Get("/posts/search", h.handleSearch)
	r.Delete("/posts/{id}", h.handleDelete)
	r.Put("/posts/{id}", h.handleUpdate)
}

// handleList returns all posts, optionally sorted by a query parameter.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	posts, err := h.posts.List(r.Context(), query.Get("sort"), query.Get("direction"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, posts)
}

// handleCreate adds a new post from the JSON body.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	created, err := h.posts.Create(r.Context(), decodeBody(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, created)
}

// handleDelete removes the addressed post.
func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	if err := h.posts.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Post with id %d has been deleted successfully.", id),
	})
}

// handleUpdate applies a partial update to the addressed post.
func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(w, r)
	if !ok {
		return
	}
	updated, err := h.posts.Update(r.Context(), id, decodeBody(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"message":      fmt.Sprintf("Post with id %d has been updated successfully.", id),
		"updated_post": updated,
	})
}

// handleSearch filters posts by title and content substrings.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	matches := h.posts.Search(r.Context(), query.Get("title"), query.Get("content"))
	utils.RespondJSON(w, http.StatusOK, matches)
}

// decodeBody parses the request body as a JSON object. It returns nil when
// the body is missing or does not decode into an object, which the store
// reports as an invalid body.
func decodeBody(r *http.Request) map[string]any {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		return nil
	}
	return fields
}

// postID parses the id route parameter. Identifiers that are not integers
// cannot address any post, so they answer 404 directly.
func postID(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		notFound := &postservice.NotFoundError{ID: raw}
		utils.RespondError(w, http.StatusNotFound, notFound.Error())
		return 0, false
	}
	return id, true
}

// errorBody is the JSON shape for request failures.
type errorBody struct {
	Error   string   `json:"error"`
	Field   string   `json:"field,omitempty"`
	Allowed []string `json:"allowed_values,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// respondServiceError translates store errors into status codes and JSON
// bodies.
func respondServiceError(w http.ResponseWriter, err error) {
	var notFound *postservice.NotFoundError
	if errors.As(err, &notFound) {
		utils.RespondError(w, http.StatusNotFound, notFound.Error())
		return
	}

	var invalid *postservice.ValidationError
	if errors.As(err, &invalid) {
		utils.RespondJSON(w, http.StatusBadRequest, errorBody{
			Error:   invalid.Message,
			Field:   invalid.Field,
			Allowed: invalid.Allowed,
			Missing: invalid.Missing,
		})
		return
	}

	utils.RespondError(w, http.StatusInternalServerError, "internal server error")
}
