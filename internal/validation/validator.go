package validation

import (
	"regexp"
	"strings"

	"github.com/publication-manager/internal/models"
)

// Field names reported in validation errors
const (
	FieldTitle     = "title"
	FieldType      = "type"
	FieldTags      = "tags"
	FieldURL       = "url"
	FieldBody      = "body"
	FieldImageLink = "image_link"
	FieldUsername  = "username"
	FieldPassword  = "password"
)

var (
	// one or more tokens separated by exactly ", "; a token may carry inner
	// dots so that names like "ASP.Net" are accepted
	tagsRegex      = regexp.MustCompile(`^[A-Za-z0-9#]+(?:\.[A-Za-z0-9#]+)*(?:, [A-Za-z0-9#]+(?:\.[A-Za-z0-9#]+)*)*$`)
	imageLinkRegex = regexp.MustCompile(`(?i)^(https?|ftp)://[^\s/$.?#].[^\s]*$`)
)

// ValidatePublication checks a draft before it is saved. It never stops at
// the first failure: every broken rule is reported, in a fixed order.
func ValidatePublication(d models.Draft) []models.ValidationError {
	var errors []models.ValidationError

	// Validate title
	if isBlank(d.Title) {
		errors = append(errors, models.ValidationError{Field: FieldTitle, Message: "publication title is required"})
	}

	// Validate type
	if d.TypeID <= 0 {
		errors = append(errors, models.ValidationError{Field: FieldType, Message: "publication type is required"})
	}

	// Validate tags
	if isBlank(d.Tags) {
		errors = append(errors, models.ValidationError{Field: FieldTags, Message: "tags are required"})
	} else if !ValidTags(d.Tags) {
		errors = append(errors, models.ValidationError{
			Field:   FieldTags,
			Message: "tags must be words separated by comma and space, e.g. 'C#, ASP.Net, Linux' or just 'Python'",
			Value:   d.Tags,
		})
	}

	// Validate url (derived from the title, still required)
	if isBlank(d.URL) {
		errors = append(errors, models.ValidationError{Field: FieldURL, Message: "url is required"})
	}

	// Validate body
	if isBlank(d.Body) {
		errors = append(errors, models.ValidationError{Field: FieldBody, Message: "publication text is required"})
	}

	// Validate image link, optional
	if !isBlank(d.ImageLink) && !ValidImageLink(d.ImageLink) {
		errors = append(errors, models.ValidationError{
			Field:   FieldImageLink,
			Message: "image link is not a valid http, https or ftp URL",
			Value:   d.ImageLink,
		})
	}

	return errors
}

// ValidateCredentials checks the connection fields edited on the settings screen
func ValidateCredentials(url, username, password string) []models.ValidationError {
	var errors []models.ValidationError

	if isBlank(url) {
		errors = append(errors, models.ValidationError{Field: FieldURL, Message: "url is required"})
	}
	if isBlank(username) {
		errors = append(errors, models.ValidationError{Field: FieldUsername, Message: "user name is required"})
	}
	if isBlank(password) {
		errors = append(errors, models.ValidationError{Field: FieldPassword, Message: "password is required"})
	}

	return errors
}

// ValidTags reports whether tags match the tag list grammar
func ValidTags(tags string) bool {
	return tagsRegex.MatchString(tags)
}

// ValidImageLink reports whether link is an absolute http, https or ftp URL
func ValidImageLink(link string) bool {
	return imageLinkRegex.MatchString(link)
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
