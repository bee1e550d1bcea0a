// Package search provides the tag autocomplete index.
package search

import (
	"github.com/booruapp/tagsearch-server/internal/domain"
)

// TagDocument is the indexed representation of a known tag.
type TagDocument struct {
	ID     string // Same as Name
	Name   string // Tag as stored, case preserved
	Key    string // Case-folded name used for prefix matching
	Source string
}

// TagToDocument converts a domain tag to an index document.
func TagToDocument(t *domain.Tag) *TagDocument {
	return &TagDocument{
		ID:     t.Name,
		Name:   t.Name,
		Key:    t.Key,
		Source: string(t.Source),
	}
}

// ToMap converts the document to a map with field names matching the mapping.
func (d *TagDocument) ToMap() map[string]any {
	return map[string]any{
		"name":   d.Name,
		"key":    d.Key,
		"source": d.Source,
	}
}
