// Package client is the API client action layer: every server operation
// has an action method that performs the HTTP call and dispatches the
// outcome as a state-changing Action, mirroring the original frontend's
// action creators.
package client

// ActionType names a state transition dispatched by the client.
type ActionType string

const (
	ProfileLoading      ActionType = "PROFILE_LOADING"
	GetProfile          ActionType = "GET_PROFILE"
	GetProfiles         ActionType = "GET_PROFILES"
	ClearCurrentProfile ActionType = "CLEAR_CURRENT_PROFILE"

	PostLoading ActionType = "POST_LOADING"
	GetPosts    ActionType = "GET_POSTS"
	GetPost     ActionType = "GET_POST"
	AddPost     ActionType = "ADD_POST"
	DeletePost  ActionType = "DELETE_POST"

	GetErrors      ActionType = "GET_ERRORS"
	SetCurrentUser ActionType = "SET_CURRENT_USER"

	// Navigate is the navigation side effect the original performed with
	// history.push; the payload is the target route.
	Navigate ActionType = "NAVIGATE"
)

// Action is a dispatched state transition. Payload shapes follow the
// originating server responses: decoded JSON objects and arrays, error
// maps for GetErrors, a route string for Navigate.
type Action struct {
	Type    ActionType
	Payload interface{}
}

// Dispatcher consumes actions. The Store implements it; tests implement
// it with a recording stub.
type Dispatcher interface {
	Dispatch(action Action)
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(action Action)

func (f DispatcherFunc) Dispatch(action Action) { f(action) }
