package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"devconnect/internal/model"
)

// Client wraps the HTTP API and dispatches every outcome as an Action.
// Action methods never return errors to the caller; failures surface
// through the dispatched actions exactly like the original action
// creators did.
type Client struct {
	baseURL    string
	httpClient *http.Client
	dispatcher Dispatcher
	token      string
}

// New returns a client dispatching to d. baseURL is the server root
// without a trailing slash, e.g. "http://localhost:8080".
func New(baseURL string, d Dispatcher) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		dispatcher: d,
	}
}

// SetToken sets the bearer token attached to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError carries a non-2xx response. Errors holds the decoded error
// payload, which the API keys by field or error kind.
type APIError struct {
	Status int
	Errors map[string]interface{}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status %d", e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}) (interface{}, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errs := map[string]interface{}{}
		if err := json.NewDecoder(resp.Body).Decode(&errs); err != nil {
			errs = map[string]interface{}{"error": resp.Status}
		}
		return nil, &APIError{Status: resp.StatusCode, Errors: errs}
	}

	var payload interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// errorPayload extracts the dispatched error map from a request failure.
// Transport errors with no response body dispatch a single "error" key.
func errorPayload(err error) map[string]interface{} {
	if apiErr, ok := err.(*APIError); ok {
		return apiErr.Errors
	}
	return map[string]interface{}{"error": err.Error()}
}

// GetCurrentProfile loads the authenticated user's profile. A failure
// dispatches an empty profile object so the dashboard renders its
// "create a profile" prompt instead of an error.
func (c *Client) GetCurrentProfile(ctx context.Context) {
	c.dispatcher.Dispatch(Action{Type: ProfileLoading})
	payload, err := c.do(ctx, http.MethodGet, "/api/profile", nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetProfile, Payload: map[string]interface{}{}})
		return
	}
	c.dispatcher.Dispatch(Action{Type: GetProfile, Payload: payload})
}

// GetProfileByHandle loads a profile by handle. Unlike
// GetCurrentProfile, a failure dispatches a nil payload: the profile
// page shows not-found rather than a create prompt.
func (c *Client) GetProfileByHandle(ctx context.Context, handle string) {
	c.dispatcher.Dispatch(Action{Type: ProfileLoading})
	payload, err := c.do(ctx, http.MethodGet, "/api/profile/handle/"+handle, nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetProfile, Payload: nil})
		return
	}
	c.dispatcher.Dispatch(Action{Type: GetProfile, Payload: payload})
}

// GetAllProfiles fetches a listing page. When existing is non-nil the
// fetched page is appended to it, supporting load-more pagination.
// limit <= 0 fetches without a limit.
func (c *Client) GetAllProfiles(ctx context.Context, limit, skip int, existing []interface{}) {
	c.dispatcher.Dispatch(Action{Type: ProfileLoading})

	path := "/api/profile/all"
	if limit > 0 {
		path = fmt.Sprintf("%s?limit=%d&skip=%d", path, limit, skip)
	}

	payload, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetProfiles, Payload: []interface{}{}})
		return
	}

	page, _ := payload.([]interface{})
	if existing != nil {
		page = append(existing, page...)
	}
	c.dispatcher.Dispatch(Action{Type: GetProfiles, Payload: page})
}

// CreateProfile creates or updates the authenticated user's profile and
// navigates to the dashboard on success.
func (c *Client) CreateProfile(ctx context.Context, req model.ProfileRequest) {
	_, err := c.do(ctx, http.MethodPost, "/api/profile", req)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.dispatcher.Dispatch(Action{Type: Navigate, Payload: "/dashboard"})
}

// AddExperience appends an experience entry and navigates to the
// dashboard on success.
func (c *Client) AddExperience(ctx context.Context, req model.ExperienceRequest) {
	_, err := c.do(ctx, http.MethodPost, "/api/profile/experience", req)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.dispatcher.Dispatch(Action{Type: Navigate, Payload: "/dashboard"})
}

// AddEducation appends an education entry and navigates to the
// dashboard on success.
func (c *Client) AddEducation(ctx context.Context, req model.EducationRequest) {
	_, err := c.do(ctx, http.MethodPost, "/api/profile/education", req)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.dispatcher.Dispatch(Action{Type: Navigate, Payload: "/dashboard"})
}

// DeleteExperience removes an experience entry and dispatches the
// updated profile.
func (c *Client) DeleteExperience(ctx context.Context, id string) {
	payload, err := c.do(ctx, http.MethodDelete, "/api/profile/experience/"+id, nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.dispatcher.Dispatch(Action{Type: GetProfile, Payload: payload})
}

// DeleteEducation removes an education entry and dispatches the updated
// profile.
func (c *Client) DeleteEducation(ctx context.Context, id string) {
	payload, err := c.do(ctx, http.MethodDelete, "/api/profile/education/"+id, nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.dispatcher.Dispatch(Action{Type: GetProfile, Payload: payload})
}

// DeleteAccount removes the account and its profile, then signs the
// user out by dispatching an empty current user. The account's posts
// stay in the feed under their denormalized name and avatar.
func (c *Client) DeleteAccount(ctx context.Context) {
	_, err := c.do(ctx, http.MethodDelete, "/api/profile", nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.dispatcher.Dispatch(Action{Type: SetCurrentUser, Payload: map[string]interface{}{}})
}

// ClearCurrentProfile resets the profile state without a server call.
func (c *Client) ClearCurrentProfile() {
	c.dispatcher.Dispatch(Action{Type: ClearCurrentProfile})
}

// GetPosts loads the post feed. A failure dispatches a nil payload.
func (c *Client) GetPosts(ctx context.Context) {
	c.dispatcher.Dispatch(Action{Type: PostLoading})
	payload, err := c.do(ctx, http.MethodGet, "/api/posts", nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetPosts, Payload: nil})
		return
	}
	c.dispatcher.Dispatch(Action{Type: GetPosts, Payload: payload})
}

// GetPost loads a single post. A failure dispatches a nil payload.
func (c *Client) GetPost(ctx context.Context, id int64) {
	c.dispatcher.Dispatch(Action{Type: PostLoading})
	payload, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetPost, Payload: nil})
		return
	}
	c.dispatcher.Dispatch(Action{Type: GetPost, Payload: payload})
}

// AddPost creates a post and dispatches it for prepending to the feed.
func (c *Client) AddPost(ctx context.Context, req model.PostRequest) {
	payload, err := c.do(ctx, http.MethodPost, "/api/posts", req)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.dispatcher.Dispatch(Action{Type: AddPost, Payload: payload})
}

// DeletePost removes a post; the dispatched payload is the deleted id
// so the store can drop it from the feed.
func (c *Client) DeletePost(ctx context.Context, id int64) {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.dispatcher.Dispatch(Action{Type: DeletePost, Payload: id})
}

// AddLike likes a post and refreshes the feed on success.
func (c *Client) AddLike(ctx context.Context, id int64) {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/like/%d", id), nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.GetPosts(ctx)
}

// RemoveLike removes a like and refreshes the feed on success.
func (c *Client) RemoveLike(ctx context.Context, id int64) {
	_, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/unlike/%d", id), nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.GetPosts(ctx)
}

// AddComment comments on a post and dispatches the updated post.
func (c *Client) AddComment(ctx context.Context, postID int64, req model.PostRequest) {
	payload, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/posts/comment/%d", postID), req)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.dispatcher.Dispatch(Action{Type: GetPost, Payload: payload})
}

// DeleteComment removes a comment and dispatches the updated post.
func (c *Client) DeleteComment(ctx context.Context, postID int64, commentID string) {
	payload, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/posts/comment/%d/%s", postID, commentID), nil)
	if err != nil {
		c.dispatcher.Dispatch(Action{Type: GetErrors, Payload: errorPayload(err)})
		return
	}
	c.dispatcher.Dispatch(Action{Type: GetPost, Payload: payload})
}
