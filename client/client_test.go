package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"devconnect/internal/model"
)

type recorder struct {
	actions []Action
}

func (r *recorder) Dispatch(action Action) {
	r.actions = append(r.actions, action)
}

func (r *recorder) types() []ActionType {
	types := make([]ActionType, 0, len(r.actions))
	for _, a := range r.actions {
		types = append(types, a.Type)
	}
	return types
}

func jsonHandler(status int, body interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}
}

func TestGetCurrentProfile(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		jsonHandler(http.StatusOK, map[string]interface{}{"handle": "gopher"})(w, r)
	}))
	defer srv.Close()

	rec := &recorder{}
	c := New(srv.URL, rec)
	c.SetToken("tok123")
	c.GetCurrentProfile(context.Background())

	if gotAuth != "Bearer tok123" {
		t.Errorf("Authorization = %q, want Bearer tok123", gotAuth)
	}
	if !reflect.DeepEqual(rec.types(), []ActionType{ProfileLoading, GetProfile}) {
		t.Fatalf("actions = %v", rec.types())
	}
	profile, ok := rec.actions[1].Payload.(map[string]interface{})
	if !ok || profile["handle"] != "gopher" {
		t.Errorf("payload = %v", rec.actions[1].Payload)
	}
}

func TestGetCurrentProfileMissing(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusNotFound,
		map[string]string{"noprofile": "There is no profile for this user"}))
	defer srv.Close()

	rec := &recorder{}
	New(srv.URL, rec).GetCurrentProfile(context.Background())

	got := rec.actions[len(rec.actions)-1]
	if got.Type != GetProfile {
		t.Fatalf("last action = %v", got.Type)
	}
	// Missing own profile dispatches an empty object, not nil, so the
	// dashboard offers profile creation.
	profile, ok := got.Payload.(map[string]interface{})
	if !ok || len(profile) != 0 {
		t.Errorf("payload = %#v, want empty map", got.Payload)
	}
}

func TestGetProfileByHandleMissing(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusNotFound,
		map[string]string{"noprofile": "There is no profile for this user"}))
	defer srv.Close()

	rec := &recorder{}
	New(srv.URL, rec).GetProfileByHandle(context.Background(), "ghost")

	got := rec.actions[len(rec.actions)-1]
	if got.Type != GetProfile {
		t.Fatalf("last action = %v", got.Type)
	}
	if got.Payload != nil {
		t.Errorf("payload = %#v, want nil", got.Payload)
	}
}

func TestCreateProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req model.ProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Handle == "taken" {
			jsonHandler(http.StatusBadRequest,
				map[string]string{"handle": "That handle already exists"})(w, r)
			return
		}
		jsonHandler(http.StatusOK, map[string]interface{}{"handle": req.Handle})(w, r)
	}))
	defer srv.Close()

	rec := &recorder{}
	c := New(srv.URL, rec)

	c.CreateProfile(context.Background(), model.ProfileRequest{Handle: "gopher", Status: "Developer", Skills: "Go"})
	last := rec.actions[len(rec.actions)-1]
	if last.Type != Navigate || last.Payload != "/dashboard" {
		t.Errorf("success action = %+v, want NAVIGATE /dashboard", last)
	}

	c.CreateProfile(context.Background(), model.ProfileRequest{Handle: "taken", Status: "Developer", Skills: "Go"})
	last = rec.actions[len(rec.actions)-1]
	if last.Type != GetErrors {
		t.Fatalf("failure action = %v", last.Type)
	}
	errs := last.Payload.(map[string]interface{})
	if errs["handle"] != "That handle already exists" {
		t.Errorf("errors = %v", errs)
	}
}

func TestGetAllProfilesAppends(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.RawQuery; got != "limit=2&skip=2" {
			t.Errorf("query = %q", got)
		}
		jsonHandler(http.StatusOK, []map[string]interface{}{
			{"handle": "third"}, {"handle": "fourth"},
		})(w, r)
	}))
	defer srv.Close()

	existing := []interface{}{
		map[string]interface{}{"handle": "first"},
		map[string]interface{}{"handle": "second"},
	}

	rec := &recorder{}
	New(srv.URL, rec).GetAllProfiles(context.Background(), 2, 2, existing)

	got := rec.actions[len(rec.actions)-1]
	if got.Type != GetProfiles {
		t.Fatalf("last action = %v", got.Type)
	}
	page := got.Payload.([]interface{})
	if len(page) != 4 {
		t.Fatalf("len(page) = %d, want 4", len(page))
	}
	if page[0].(map[string]interface{})["handle"] != "first" ||
		page[3].(map[string]interface{})["handle"] != "fourth" {
		t.Errorf("page order wrong: %v", page)
	}
}

func TestGetAllProfilesFailure(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusNotFound,
		map[string]string{"noprofile": "There are no profiles"}))
	defer srv.Close()

	rec := &recorder{}
	New(srv.URL, rec).GetAllProfiles(context.Background(), 0, 0, nil)

	got := rec.actions[len(rec.actions)-1]
	page, ok := got.Payload.([]interface{})
	if !ok || len(page) != 0 {
		t.Errorf("payload = %#v, want empty slice", got.Payload)
	}
}

func TestGetPostMissDispatchesBody(t *testing.T) {
	// The server answers a post miss with 200 and a nopostfound body,
	// which flows through to the GET_POST payload unchanged.
	srv := httptest.NewServer(jsonHandler(http.StatusOK,
		map[string]string{"nopostfound": "No post found with that id"}))
	defer srv.Close()

	rec := &recorder{}
	New(srv.URL, rec).GetPost(context.Background(), 99)

	got := rec.actions[len(rec.actions)-1]
	if got.Type != GetPost {
		t.Fatalf("last action = %v", got.Type)
	}
	body := got.Payload.(map[string]interface{})
	if body["nopostfound"] != "No post found with that id" {
		t.Errorf("payload = %v", body)
	}
}

func TestDeletePost(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/posts/7" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		jsonHandler(http.StatusOK, map[string]bool{"success": true})(w, r)
	}))
	defer srv.Close()

	rec := &recorder{}
	New(srv.URL, rec).DeletePost(context.Background(), 7)

	got := rec.actions[len(rec.actions)-1]
	if got.Type != DeletePost || got.Payload != int64(7) {
		t.Errorf("action = %+v", got)
	}
}

func TestAddLikeRefetchesFeed(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/api/posts" {
			jsonHandler(http.StatusOK, []map[string]interface{}{{"id": 1}})(w, r)
			return
		}
		jsonHandler(http.StatusOK, map[string]interface{}{"id": 1})(w, r)
	}))
	defer srv.Close()

	rec := &recorder{}
	New(srv.URL, rec).AddLike(context.Background(), 1)

	want := []string{"/api/posts/like/1", "/api/posts"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("paths = %v, want %v", paths, want)
	}
	if got := rec.types(); !reflect.DeepEqual(got, []ActionType{PostLoading, GetPosts}) {
		t.Errorf("actions = %v", got)
	}
}

func TestDeleteAccount(t *testing.T) {
	srv := httptest.NewServer(jsonHandler(http.StatusOK, map[string]bool{"success": true}))
	defer srv.Close()

	rec := &recorder{}
	New(srv.URL, rec).DeleteAccount(context.Background())

	got := rec.actions[len(rec.actions)-1]
	if got.Type != SetCurrentUser {
		t.Fatalf("last action = %v", got.Type)
	}
	user, ok := got.Payload.(map[string]interface{})
	if !ok || len(user) != 0 {
		t.Errorf("payload = %#v, want empty map", got.Payload)
	}
}
