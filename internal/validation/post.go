package validation

import (
	"unicode/utf8"

	"devconnect/internal/model"
)

// Post validates post and comment text: required, and between 10 and 300
// characters. Both checks trip at once for an empty string; the required
// message wins the "text" key, matching the legacy validator.
func Post(req model.PostRequest) (Errors, bool) {
	errs := Errors{}

	n := utf8.RuneCountInString(req.Text)
	if n < model.MinPostTextLength || n > model.MaxPostTextLength {
		errs["text"] = "Post must be between 10 and 300 characters"
	}
	if missing(req.Text) {
		errs["text"] = "Text field is required"
	}

	return errs, len(errs) == 0
}
