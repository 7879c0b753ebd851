package validation

import (
	"strings"
	"testing"

	"devconnect/internal/model"
)

func TestProfile_Valid(t *testing.T) {
	errs, ok := Profile(model.ProfileRequest{
		Handle: "jdoe",
		Status: "Developer",
		Skills: "Go,SQL,HTML",
	})
	if !ok {
		t.Fatalf("expected valid, got errors: %v", errs)
	}
	if len(errs) != 0 {
		t.Errorf("expected empty errors map, got %v", errs)
	}
}

func TestProfile_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		req     model.ProfileRequest
		field   string
		message string
	}{
		{
			name:    "missing handle",
			req:     model.ProfileRequest{Status: "Developer", Skills: "Go"},
			field:   "handle",
			message: "Profile handle is required",
		},
		{
			name:    "missing status",
			req:     model.ProfileRequest{Handle: "jdoe", Skills: "Go"},
			field:   "status",
			message: "Status field is required",
		},
		{
			name:    "missing skills",
			req:     model.ProfileRequest{Handle: "jdoe", Status: "Developer"},
			field:   "skills",
			message: "Skills field is required",
		},
		{
			name:    "whitespace counts as missing",
			req:     model.ProfileRequest{Handle: "   ", Status: "Developer", Skills: "Go"},
			field:   "handle",
			message: "Profile handle is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs, ok := Profile(tt.req)
			if ok {
				t.Fatal("expected invalid")
			}
			if got := errs[tt.field]; got != tt.message {
				t.Errorf("errs[%q] = %q, want %q", tt.field, got, tt.message)
			}
		})
	}
}

func TestExperience_RequiredFields(t *testing.T) {
	errs, ok := Experience(model.ExperienceRequest{})
	if ok {
		t.Fatal("expected invalid")
	}
	want := map[string]string{
		"title":   "Job title field is required",
		"company": "Company field is required",
		"from":    "From date field is required",
	}
	for f, msg := range want {
		if errs[f] != msg {
			t.Errorf("errs[%q] = %q, want %q", f, errs[f], msg)
		}
	}

	errs, ok = Experience(model.ExperienceRequest{
		Title: "Engineer", Company: "Acme", From: "2020-01-01",
	})
	if !ok {
		t.Fatalf("expected valid, got %v", errs)
	}
}

func TestEducation_RequiredFields(t *testing.T) {
	errs, ok := Education(model.EducationRequest{})
	if ok {
		t.Fatal("expected invalid")
	}
	for _, f := range []string{"school", "degree", "fieldofstudy", "from"} {
		if _, present := errs[f]; !present {
			t.Errorf("expected error for field %q", f)
		}
	}

	_, ok = Education(model.EducationRequest{
		School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2015-09-01",
	})
	if !ok {
		t.Fatal("expected valid")
	}
}

func TestPost_Length(t *testing.T) {
	// 19 chars — valid
	if errs, ok := Post(model.PostRequest{Text: "Hello there friend!"}); !ok {
		t.Fatalf("expected valid, got %v", errs)
	}

	// 2 chars — too short
	errs, ok := Post(model.PostRequest{Text: "hi"})
	if ok {
		t.Fatal("expected invalid")
	}
	if errs["text"] != "Post must be between 10 and 300 characters" {
		t.Errorf("errs[text] = %q", errs["text"])
	}

	// 301 chars — too long
	errs, ok = Post(model.PostRequest{Text: strings.Repeat("a", 301)})
	if ok {
		t.Fatal("expected invalid")
	}
	if errs["text"] != "Post must be between 10 and 300 characters" {
		t.Errorf("errs[text] = %q", errs["text"])
	}

	// exactly 300 — valid
	if _, ok := Post(model.PostRequest{Text: strings.Repeat("a", 300)}); !ok {
		t.Fatal("expected 300 chars to be valid")
	}
}

func TestPost_EmptyGetsRequiredMessage(t *testing.T) {
	errs, ok := Post(model.PostRequest{Text: ""})
	if ok {
		t.Fatal("expected invalid")
	}
	if errs["text"] != "Text field is required" {
		t.Errorf("errs[text] = %q, want required message", errs["text"])
	}
}
