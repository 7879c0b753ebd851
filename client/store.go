package client

import "sync"

// State is the client-side view of the application, built by applying
// dispatched actions. Payloads are kept as decoded JSON values; a nil
// Profile after loading completes means not-found, while an empty map
// means the user has no profile yet.
type State struct {
	Profile        interface{}
	Profiles       []interface{}
	ProfileLoading bool

	Posts       interface{}
	Post        interface{}
	PostLoading bool

	Errors      map[string]interface{}
	CurrentUser interface{}
	Route       string
}

// Store applies actions to a State. Safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies an action, making Store a Dispatcher.
func (s *Store) Dispatch(action Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch action.Type {
	case ProfileLoading:
		s.state.ProfileLoading = true
	case GetProfile:
		s.state.Profile = action.Payload
		s.state.ProfileLoading = false
	case GetProfiles:
		profiles, _ := action.Payload.([]interface{})
		s.state.Profiles = profiles
		s.state.ProfileLoading = false
	case ClearCurrentProfile:
		s.state.Profile = nil
	case PostLoading:
		s.state.PostLoading = true
	case GetPosts:
		s.state.Posts = action.Payload
		s.state.PostLoading = false
	case GetPost:
		s.state.Post = action.Payload
		s.state.PostLoading = false
	case AddPost:
		posts, _ := s.state.Posts.([]interface{})
		s.state.Posts = append([]interface{}{action.Payload}, posts...)
	case DeletePost:
		s.state.Posts = removePost(s.state.Posts, action.Payload)
	case GetErrors:
		errs, _ := action.Payload.(map[string]interface{})
		s.state.Errors = errs
	case SetCurrentUser:
		s.state.CurrentUser = action.Payload
	case Navigate:
		route, _ := action.Payload.(string)
		s.state.Route = route
	}
}

// removePost filters the feed by post id. Decoded JSON carries numeric
// ids as float64 while DeletePost dispatches the int64 it was called
// with, so both are compared on their float64 value.
func removePost(posts interface{}, payload interface{}) interface{} {
	list, ok := posts.([]interface{})
	if !ok {
		return posts
	}

	var id float64
	switch v := payload.(type) {
	case int64:
		id = float64(v)
	case float64:
		id = v
	default:
		return posts
	}

	filtered := make([]interface{}, 0, len(list))
	for _, p := range list {
		post, ok := p.(map[string]interface{})
		if ok {
			if postID, ok := post["id"].(float64); ok && postID == id {
				continue
			}
		}
		filtered = append(filtered, p)
	}
	return filtered
}
