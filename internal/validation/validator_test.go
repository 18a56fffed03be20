package validation

import (
	"regexp"
	"strings"
	"testing"

	"github.com/publication-manager/internal/models"
)

func validDraft() models.Draft {
	return models.Draft{
		Title:     "Título com Acentos",
		TypeID:    1,
		Tags:      "C#, ASP.Net, Linux",
		URL:       "titulo_com_acentos",
		Active:    true,
		ImageLink: "https://example.com/x.png",
		Body:      "Some body text",
	}
}

func TestValidatePublication(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(d *models.Draft)
		wantFields []string
	}{
		{
			name:   "valid draft",
			mutate: func(d *models.Draft) {},
		},
		{
			name:       "missing title",
			mutate:     func(d *models.Draft) { d.Title = "   " },
			wantFields: []string{FieldTitle},
		},
		{
			name:       "missing type",
			mutate:     func(d *models.Draft) { d.TypeID = 0 },
			wantFields: []string{FieldType},
		},
		{
			name:       "negative type",
			mutate:     func(d *models.Draft) { d.TypeID = -1 },
			wantFields: []string{FieldType},
		},
		{
			name:       "missing tags",
			mutate:     func(d *models.Draft) { d.Tags = "" },
			wantFields: []string{FieldTags},
		},
		{
			name:       "malformed tags",
			mutate:     func(d *models.Draft) { d.Tags = "c#,net" },
			wantFields: []string{FieldTags},
		},
		{
			name:       "missing url",
			mutate:     func(d *models.Draft) { d.URL = "" },
			wantFields: []string{FieldURL},
		},
		{
			name:       "missing body",
			mutate:     func(d *models.Draft) { d.Body = "\n\t" },
			wantFields: []string{FieldBody},
		},
		{
			name:       "invalid image link",
			mutate:     func(d *models.Draft) { d.ImageLink = "not-a-url" },
			wantFields: []string{FieldImageLink},
		},
		{
			name:   "blank image link is not provided",
			mutate: func(d *models.Draft) { d.ImageLink = "  " },
		},
		{
			name:       "empty draft reports every required field in order",
			mutate:     func(d *models.Draft) { *d = models.Draft{} },
			wantFields: []string{FieldTitle, FieldType, FieldTags, FieldURL, FieldBody},
		},
		{
			name: "all rules broken",
			mutate: func(d *models.Draft) {
				*d = models.Draft{Tags: "tag!", ImageLink: "ftp:/broken"}
			},
			wantFields: []string{FieldTitle, FieldType, FieldTags, FieldURL, FieldBody, FieldImageLink},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDraft()
			tt.mutate(&d)

			errors := ValidatePublication(d)
			if len(errors) != len(tt.wantFields) {
				t.Fatalf("ValidatePublication() got %d errors, want %d. Errors: %v", len(errors), len(tt.wantFields), errors)
			}
			for i, want := range tt.wantFields {
				if errors[i].Field != want {
					t.Errorf("error %d: got field %q, want %q", i, errors[i].Field, want)
				}
			}
		})
	}
}

// plainTagsRegex is the token grammar without dots. Every list it accepts
// must stay valid; the only widening is a dotted token such as "ASP.Net".
var plainTagsRegex = regexp.MustCompile(`^([a-zA-Z0-9#]+|([a-zA-Z0-9#]+(, [a-zA-Z0-9#]+)*))$`)

func TestValidTagsWidensPlainGrammarOnlyForDots(t *testing.T) {
	tests := []struct {
		tags  string
		plain bool
		valid bool
	}{
		{"Python", true, true},
		{"C#, Linux", true, true},
		{"C#, ASP.Net, Linux", false, true},
		{"ASP.Net", false, true},
		{"node.js, go", false, true},
		{"ASP..Net", false, false},
		{".net", false, false},
		{"net.", false, false},
		{"c#,net", false, false},
		{"go,  rust", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.tags, func(t *testing.T) {
			if got := plainTagsRegex.MatchString(tt.tags); got != tt.plain {
				t.Fatalf("plain grammar on %q = %v, want %v", tt.tags, got, tt.plain)
			}
			if got := ValidTags(tt.tags); got != tt.valid {
				t.Errorf("ValidTags(%q) = %v, want %v", tt.tags, got, tt.valid)
			}
			if tt.plain && !tt.valid {
				t.Errorf("%q is accepted by the plain grammar but rejected here", tt.tags)
			}
			if tt.valid && !tt.plain && !strings.Contains(tt.tags, ".") {
				t.Errorf("%q is accepted only here but has no dotted token", tt.tags)
			}
		})
	}
}

func TestValidTags(t *testing.T) {
	tests := []struct {
		tags  string
		valid bool
	}{
		{"python", true},
		{"Python", true},
		{"C#, ASP.Net, Linux", true},
		{"go, rust, zig", true},
		{"#golang", true},
		{"a1, b2", true},
		{"c#,net", false},
		{"tag!", false},
		{"go,  rust", false},
		{"go, ", false},
		{", go", false},
		{"go rust", false},
		{"ASP..Net", false},
		{".net", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.tags, func(t *testing.T) {
			if got := ValidTags(tt.tags); got != tt.valid {
				t.Errorf("ValidTags(%q) = %v, want %v", tt.tags, got, tt.valid)
			}
		})
	}
}

func TestValidImageLink(t *testing.T) {
	tests := []struct {
		link  string
		valid bool
	}{
		{"https://example.com/x.png", true},
		{"http://example.com", true},
		{"FTP://files.example.com/a.jpg", true},
		{"HTTPS://EXAMPLE.COM/IMG.PNG", true},
		{"not-a-url", false},
		{"mailto:someone@example.com", false},
		{"https://", false},
		{"https://exa mple.com", false},
		{"https://.example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			if got := ValidImageLink(tt.link); got != tt.valid {
				t.Errorf("ValidImageLink(%q) = %v, want %v", tt.link, got, tt.valid)
			}
		})
	}
}

func TestValidateCredentials(t *testing.T) {
	if errs := ValidateCredentials("jdbc:postgresql://h/d", "u", "p"); len(errs) != 0 {
		t.Errorf("expected no errors, got %v", errs)
	}

	errs := ValidateCredentials(" ", "", "\t")
	if len(errs) != 3 {
		t.Fatalf("expected 3 errors, got %v", errs)
	}
	want := []string{FieldURL, FieldUsername, FieldPassword}
	for i, f := range want {
		if errs[i].Field != f {
			t.Errorf("error %d: got field %q, want %q", i, errs[i].Field, f)
		}
	}
}
