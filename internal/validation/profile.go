// Package validation holds the pure request validators. Each validator
// returns a field→message map plus a validity flag; it never touches the
// store, so uniqueness rules (handle ownership) live in the service layer.
package validation

import (
	"strings"

	"devconnect/internal/model"
)

// Errors maps a field name to a human-readable message.
type Errors map[string]string

func missing(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Profile validates the create-or-update profile request.
func Profile(req model.ProfileRequest) (Errors, bool) {
	errs := Errors{}

	if missing(req.Handle) {
		errs["handle"] = "Profile handle is required"
	}
	if missing(req.Status) {
		errs["status"] = "Status field is required"
	}
	if missing(req.Skills) {
		errs["skills"] = "Skills field is required"
	}

	return errs, len(errs) == 0
}

// Experience validates an add-experience request.
func Experience(req model.ExperienceRequest) (Errors, bool) {
	errs := Errors{}

	if missing(req.Title) {
		errs["title"] = "Job title field is required"
	}
	if missing(req.Company) {
		errs["company"] = "Company field is required"
	}
	if missing(req.From) {
		errs["from"] = "From date field is required"
	}

	return errs, len(errs) == 0
}

// Education validates an add-education request.
func Education(req model.EducationRequest) (Errors, bool) {
	errs := Errors{}

	if missing(req.School) {
		errs["school"] = "School field is required"
	}
	if missing(req.Degree) {
		errs["degree"] = "Degree field is required"
	}
	if missing(req.FieldOfStudy) {
		errs["fieldofstudy"] = "Field of study field is required"
	}
	if missing(req.From) {
		errs["from"] = "From date field is required"
	}

	return errs, len(errs) == 0
}
