package model

import (
	"errors"
	"time"

	"github.com/lib/pq"
)

// Profile is a user's developer profile. One per user; the handle is
// globally unique. JSON keys follow the legacy API wire format.
type Profile struct {
	ID             int64          `db:"id" json:"-"`
	UserID         int64          `db:"user_id" json:"-"`
	Handle         string         `db:"handle" json:"handle"`
	Company        *string        `db:"company" json:"company,omitempty"`
	Website        *string        `db:"website" json:"website,omitempty"`
	Location       *string        `db:"location" json:"location,omitempty"`
	Bio            *string        `db:"bio" json:"bio,omitempty"`
	Status         string         `db:"status" json:"status"`
	GithubUsername *string        `db:"github_username" json:"githubusername,omitempty"`
	Skills         pq.StringArray `db:"skills" json:"skills"`
	CreatedAt      time.Time      `db:"created_at" json:"date"`
	UpdatedAt      time.Time      `db:"updated_at" json:"-"`

	// Assembled fields (not columns of the profiles table)
	Social     Social       `json:"social"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	User       *UserSummary `json:"user,omitempty"`
}

// Social holds the profile's social links. Stored as flat columns,
// rendered as a nested object like the legacy payload.
type Social struct {
	Youtube   *string `json:"youtube,omitempty"`
	Twitter   *string `json:"twitter,omitempty"`
	Facebook  *string `json:"facebook,omitempty"`
	Linkedin  *string `json:"linkedin,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
}

// Experience is a work-history entry owned by a profile. Entries render
// newest-first.
type Experience struct {
	ID          string    `db:"id" json:"id"`
	ProfileID   int64     `db:"profile_id" json:"-"`
	Title       string    `db:"title" json:"title"`
	Company     string    `db:"company" json:"company"`
	Location    *string   `db:"location" json:"location,omitempty"`
	From        string    `db:"from_date" json:"from"`
	To          *string   `db:"to_date" json:"to,omitempty"`
	Current     bool      `db:"current" json:"current"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
}

// Education is a schooling entry owned by a profile, same lifecycle as
// Experience.
type Education struct {
	ID           string    `db:"id" json:"id"`
	ProfileID    int64     `db:"profile_id" json:"-"`
	School       string    `db:"school" json:"school"`
	Degree       string    `db:"degree" json:"degree"`
	FieldOfStudy string    `db:"field_of_study" json:"fieldofstudy"`
	From         string    `db:"from_date" json:"from"`
	To           *string   `db:"to_date" json:"to,omitempty"`
	Current      bool      `db:"current" json:"current"`
	Description  *string   `db:"description" json:"description,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
}

// ProfileRequest is the request body for the create-or-update endpoint.
// Skills arrive as a comma-separated string; only these fields are ever
// copied into the profile, so unknown body fields are dropped.
type ProfileRequest struct {
	Handle         string `json:"handle"`
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	Linkedin       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// ExperienceRequest is the request body for adding an experience entry.
type ExperienceRequest struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	From        string `json:"from"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationRequest is the request body for adding an education entry.
type EducationRequest struct {
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldofstudy"`
	From         string `json:"from"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// Profile errors
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrHandleTaken        = errors.New("handle already exists")
	ErrExperienceNotFound = errors.New("experience not found")
	ErrEducationNotFound  = errors.New("education not found")
)
