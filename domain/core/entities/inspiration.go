package entities

import (
	"strings"
	"time"

	"inspiration-backend/domain/config"
	"inspiration-backend/domain/core/valueobjects"
	pkgerrors "inspiration-backend/pkg/errors"
)

// InspirationType distinguishes text notes from image captures
type InspirationType string

const (
	TypeText  InspirationType = "text"
	TypeImage InspirationType = "image"
)

// IsValid reports whether t is a known type
func (t InspirationType) IsValid() bool {
	return t == TypeText || t == TypeImage
}

// Inspiration is a user-authored note or image record. Its JSON form is the
// durable storage format.
type Inspiration struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Content   string          `json:"content"`
	Type      InspirationType `json:"type"`
	Tags      []string        `json:"tags"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// InspirationDraft carries the caller-supplied fields of a new inspiration
type InspirationDraft struct {
	Title   string
	Content string
	Type    InspirationType
	Tags    []string
}

// InspirationPatch lists the fields an update may change. Nil fields are left
// untouched.
type InspirationPatch struct {
	Title   *string
	Content *string
	Type    *InspirationType
	Tags    *[]string
}

// NewInspiration applies the creation defaults to draft and stamps both
// timestamps with now.
//
// An empty type becomes text, empty text content becomes the default note text
// and missing tags become the default tag.
func NewInspiration(id string, draft InspirationDraft, now time.Time, cfg *config.DomainConfig) (Inspiration, error) {
	if cfg == nil {
		cfg = config.DefaultDomainConfig()
	}
	if id == "" {
		return Inspiration{}, pkgerrors.NewValidationError("id cannot be empty")
	}

	kind := draft.Type
	if kind == "" {
		kind = TypeText
	}
	if !kind.IsValid() {
		return Inspiration{}, pkgerrors.NewValidationError("type must be one of: text image")
	}

	content := draft.Content
	if kind == TypeText && strings.TrimSpace(content) == "" {
		content = cfg.DefaultTextContent
	}

	tags := valueobjects.NormalizeTags(draft.Tags)
	if len(tags) == 0 {
		tags = []string{cfg.DefaultTag}
	}

	return Inspiration{
		ID:        id,
		Title:     draft.Title,
		Content:   content,
		Type:      kind,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Apply returns a copy of i with patch merged in. UpdatedAt moves to now, or
// stays put if now is earlier than the current value.
func (i Inspiration) Apply(patch InspirationPatch, now time.Time) (Inspiration, error) {
	updated := i.Clone()

	if patch.Title != nil {
		updated.Title = *patch.Title
	}
	if patch.Type != nil {
		if !patch.Type.IsValid() {
			return Inspiration{}, pkgerrors.NewValidationError("type must be one of: text image")
		}
		updated.Type = *patch.Type
	}
	if patch.Content != nil {
		updated.Content = *patch.Content
	}
	if patch.Tags != nil {
		tags := valueobjects.NormalizeTags(*patch.Tags)
		if len(tags) == 0 {
			return Inspiration{}, pkgerrors.NewValidationError("tags cannot be empty")
		}
		updated.Tags = tags
	}

	if updated.Type == TypeText && strings.TrimSpace(updated.Content) == "" {
		return Inspiration{}, pkgerrors.NewValidationError("content cannot be empty for text inspirations")
	}

	if now.After(i.UpdatedAt) {
		updated.UpdatedAt = now
	}
	return updated, nil
}

// IsEmpty reports whether the patch changes nothing
func (p InspirationPatch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Type == nil && p.Tags == nil
}

// HasTag reports whether the inspiration carries tag
func (i Inspiration) HasTag(tag string) bool {
	return valueobjects.ContainsTag(i.Tags, tag)
}

// CreatedOn reports whether the inspiration was created on the same calendar
// day as day, both read in loc.
func (i Inspiration) CreatedOn(day time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	return i.CreatedAt.In(loc).Format(time.DateOnly) == day.In(loc).Format(time.DateOnly)
}

// Clone returns a deep copy
func (i Inspiration) Clone() Inspiration {
	c := i
	if i.Tags != nil {
		c.Tags = append([]string(nil), i.Tags...)
	}
	return c
}

// TagCount pairs a tag with the number of inspirations carrying it
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CountTags counts tags across items in first-occurrence order
func CountTags(items []Inspiration) []TagCount {
	positions := make(map[string]int)
	var counts []TagCount
	for _, item := range items {
		for _, tag := range item.Tags {
			if pos, ok := positions[tag]; ok {
				counts[pos].Count++
				continue
			}
			positions[tag] = len(counts)
			counts = append(counts, TagCount{Name: tag, Count: 1})
		}
	}
	return counts
}
