package models

import (
	"time"
)

// DisplayDateLayout is the dd/mm/yyyy layout used for publish and review dates
const DisplayDateLayout = "02/01/2006"

// PublicationType is read-only reference data for publications
type PublicationType struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Publication represents a stored publication record
type Publication struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	TypeID      int64      `json:"type_id" db:"type_id"`
	Tags        string     `json:"tags" db:"tags"` // comma+space separated, e.g. "C#, Linux"
	URL         string     `json:"url" db:"url"`   // slug derived from the title
	PublishedAt time.Time  `json:"published_at" db:"published_at"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	Active      bool       `json:"active" db:"active"`
	Body        string     `json:"body" db:"body"`
	ImageLink   string     `json:"image_link,omitempty" db:"image_link"` // empty is stored as NULL
}

// TitleEntry is one row of the published titles list
type TitleEntry struct {
	ID    int64  `json:"id" db:"id"`
	Title string `json:"title" db:"title"`
}

// Draft is the in-memory, not yet persisted form of a publication being
// viewed, created or edited.
type Draft struct {
	ID          int64 // 0 while creating
	TypeID      int64
	Title       string
	Tags        string
	URL         string
	PublishedAt *time.Time
	ReviewedAt  *time.Time
	Active      bool
	ImageLink   string
	Body        string
}

// DraftFromPublication copies a stored record into a draft
func DraftFromPublication(p *Publication) Draft {
	published := p.PublishedAt
	d := Draft{
		ID:          p.ID,
		TypeID:      p.TypeID,
		Title:       p.Title,
		Tags:        p.Tags,
		URL:         p.URL,
		PublishedAt: &published,
		Active:      p.Active,
		ImageLink:   p.ImageLink,
		Body:        p.Body,
	}
	if p.ReviewedAt != nil {
		reviewed := *p.ReviewedAt
		d.ReviewedAt = &reviewed
	}
	return d
}

// Publication converts the draft into a record ready for persistence
func (d Draft) Publication() *Publication {
	p := &Publication{
		ID:        d.ID,
		Title:     d.Title,
		TypeID:    d.TypeID,
		Tags:      d.Tags,
		URL:       d.URL,
		Active:    d.Active,
		Body:      d.Body,
		ImageLink: d.ImageLink,
	}
	if d.PublishedAt != nil {
		p.PublishedAt = *d.PublishedAt
	}
	if d.ReviewedAt != nil {
		reviewed := *d.ReviewedAt
		p.ReviewedAt = &reviewed
	}
	return p
}
