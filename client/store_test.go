package client

import "testing"

func TestStoreProfileFlow(t *testing.T) {
	s := NewStore()

	s.Dispatch(Action{Type: ProfileLoading})
	if !s.State().ProfileLoading {
		t.Error("ProfileLoading not set")
	}

	profile := map[string]interface{}{"handle": "gopher"}
	s.Dispatch(Action{Type: GetProfile, Payload: profile})
	st := s.State()
	if st.ProfileLoading {
		t.Error("ProfileLoading still set after GetProfile")
	}
	if got, _ := st.Profile.(map[string]interface{}); got["handle"] != "gopher" {
		t.Errorf("Profile = %v", st.Profile)
	}

	s.Dispatch(Action{Type: ClearCurrentProfile})
	if s.State().Profile != nil {
		t.Error("Profile not cleared")
	}
}

func TestStorePostFeed(t *testing.T) {
	s := NewStore()

	s.Dispatch(Action{Type: GetPosts, Payload: []interface{}{
		map[string]interface{}{"id": float64(1), "text": "first"},
		map[string]interface{}{"id": float64(2), "text": "second"},
	}})
	s.Dispatch(Action{Type: AddPost, Payload: map[string]interface{}{"id": float64(3), "text": "third"}})

	posts := s.State().Posts.([]interface{})
	if len(posts) != 3 {
		t.Fatalf("len(posts) = %d, want 3", len(posts))
	}
	if posts[0].(map[string]interface{})["text"] != "third" {
		t.Error("AddPost did not prepend")
	}

	s.Dispatch(Action{Type: DeletePost, Payload: int64(2)})
	posts = s.State().Posts.([]interface{})
	if len(posts) != 2 {
		t.Fatalf("len(posts) = %d after delete, want 2", len(posts))
	}
	for _, p := range posts {
		if p.(map[string]interface{})["id"] == float64(2) {
			t.Error("deleted post still in feed")
		}
	}
}

func TestStoreErrorsAndUser(t *testing.T) {
	s := NewStore()

	s.Dispatch(Action{Type: GetErrors, Payload: map[string]interface{}{"text": "Text field is required"}})
	if s.State().Errors["text"] != "Text field is required" {
		t.Errorf("Errors = %v", s.State().Errors)
	}

	s.Dispatch(Action{Type: SetCurrentUser, Payload: map[string]interface{}{}})
	user, ok := s.State().CurrentUser.(map[string]interface{})
	if !ok || len(user) != 0 {
		t.Errorf("CurrentUser = %#v", s.State().CurrentUser)
	}

	s.Dispatch(Action{Type: Navigate, Payload: "/dashboard"})
	if s.State().Route != "/dashboard" {
		t.Errorf("Route = %q", s.State().Route)
	}
}
