package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"devconnect/internal/httputil"
	"devconnect/internal/model"
	"devconnect/internal/service"
	"devconnect/internal/transport/http/middleware"
	"devconnect/internal/validation"
)

const (
	msgNoPostWithID     = "No post found with that id"
	msgNoPost           = "No post found"
	msgAlreadyLiked     = "User already liked this post"
	msgNotLiked         = "You have not yet liked this post"
	msgNotAuthorized    = "User not authorized"
	msgCommentNotExists = "Comment does not exist"
)

type PostHandler struct {
	postService *service.PostService
}

func NewPostHandler(postService *service.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

// List returns a paginated page of the public feed, newest-first.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePagination(r)

	page, err := h.postService.List(r.Context(), skip, limit)
	if err != nil {
		log.Printf("[ERROR] List handler: %v", err)
		httputil.WriteInternalError(w, "Failed to list posts")
		return
	}

	httputil.WriteRawJSON(w, http.StatusOK, page)
}

// Get returns a single post. A miss answers 200 with the legacy
// nopostfound payload, not 404: the clients key off the body, and the
// original route never set a status here.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteError(w, http.StatusOK, "nopostfound", msgNoPostWithID)
		return
	}

	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		if !errors.Is(err, model.ErrPostNotFound) {
			log.Printf("[ERROR] Get handler: %v", err)
		}
		httputil.WriteError(w, http.StatusOK, "nopostfound", msgNoPostWithID)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Create stores a new post owned by the caller.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	var req model.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "error", "Invalid request body")
		return
	}

	if errs, ok := validation.Post(req); !ok {
		httputil.WriteErrors(w, http.StatusBadRequest, errs)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, &req)
	if err != nil {
		log.Printf("[ERROR] Create handler: %v", err)
		httputil.WriteInternalError(w, "Failed to create post")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Delete removes a post. Owner only.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		return
	}

	if err := h.postService.Delete(r.Context(), userID, postID); err != nil {
		switch {
		case errors.Is(err, model.ErrNotPostOwner):
			httputil.WriteError(w, http.StatusUnauthorized, "notauthorized", msgNotAuthorized)
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		default:
			log.Printf("[ERROR] Delete handler: %v", err)
			httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Like records the caller's like on a post.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		return
	}

	post, err := h.postService.Like(r.Context(), userID, postID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrAlreadyLiked):
			httputil.WriteError(w, http.StatusBadRequest, "alreadyliked", msgAlreadyLiked)
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		default:
			log.Printf("[ERROR] Like handler: %v", err)
			httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// Unlike removes the caller's like from a post.
func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		return
	}

	post, err := h.postService.Unlike(r.Context(), userID, postID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNotLiked):
			httputil.WriteError(w, http.StatusBadRequest, "notliked", msgNotLiked)
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		default:
			log.Printf("[ERROR] Unlike handler: %v", err)
			httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// AddComment appends a comment to a post.
func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		return
	}

	var req model.PostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, http.StatusBadRequest, "error", "Invalid request body")
		return
	}

	if errs, ok := validation.Post(req); !ok {
		httputil.WriteErrors(w, http.StatusBadRequest, errs)
		return
	}

	post, err := h.postService.AddComment(r.Context(), userID, postID, &req)
	if err != nil {
		if errors.Is(err, model.ErrPostNotFound) {
			httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
			return
		}
		log.Printf("[ERROR] AddComment handler: %v", err)
		httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

// RemoveComment deletes a comment from a post. Comment author only.
func (h *PostHandler) RemoveComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Missing authentication")
		return
	}

	postID, err := parsePostID(r)
	if err != nil {
		httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		return
	}

	post, err := h.postService.RemoveComment(r.Context(), userID, postID, chi.URLParam(r, "comment_id"))
	if err != nil {
		switch {
		case errors.Is(err, model.ErrCommentNotFound):
			httputil.WriteError(w, http.StatusNotFound, "commentnotexists", msgCommentNotExists)
		case errors.Is(err, model.ErrNotCommentOwner):
			httputil.WriteError(w, http.StatusUnauthorized, "notauthorized", msgNotAuthorized)
		case errors.Is(err, model.ErrPostNotFound):
			httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		default:
			log.Printf("[ERROR] RemoveComment handler: %v", err)
			httputil.WriteError(w, http.StatusNotFound, "postnotfound", msgNoPost)
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, post)
}

func parsePostID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
