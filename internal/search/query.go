package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/booruapp/tagsearch-server/internal/color"
)

// Suggestion limits.
const (
	DefaultSuggestLimit = 10
	MaxSuggestLimit     = 100
)

// Suggestion is a single autocomplete hit.
type Suggestion struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	Color  string `json:"color"` // Chip color, stable per tag
}

// SuggestResult holds autocomplete hits and the total number of matches.
type SuggestResult struct {
	Prefix      string       `json:"prefix"`
	Total       uint64       `json:"total"`
	Suggestions []Suggestion `json:"suggestions"`
}

// Suggest returns tags whose name starts with prefix, ignoring case.
// Results are ordered by name with case-sensitive comparison.
// An empty prefix matches every tag.
func (s *SearchIndex) Suggest(ctx context.Context, prefix string, limit int) (*SuggestResult, error) {
	if limit <= 0 {
		limit = DefaultSuggestLimit
	}
	limit = min(limit, MaxSuggestLimit)

	var q query.Query
	key := strings.ToLower(prefix)
	if key == "" {
		q = bleve.NewMatchAllQuery()
	} else {
		pq := bleve.NewPrefixQuery(key)
		pq.SetField("key")
		q = pq
	}

	req := bleve.NewSearchRequestOptions(q, limit, 0, false)
	req.Fields = []string{"name", "source"}
	req.SortBy([]string{"name"})

	s.mu.RLock()
	res, err := s.index.SearchInContext(ctx, req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("suggest tags: %w", err)
	}

	result := &SuggestResult{
		Prefix:      prefix,
		Total:       res.Total,
		Suggestions: make([]Suggestion, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		sug := Suggestion{Name: hit.ID}
		if name, ok := hit.Fields["name"].(string); ok {
			sug.Name = name
		}
		sug.Color = color.ForTag(sug.Name)
		if source, ok := hit.Fields["source"].(string); ok {
			sug.Source = source
		}
		result.Suggestions = append(result.Suggestions, sug)
	}

	return result, nil
}

// LastWord returns the word being typed at the end of text: the part after
// the last space. Autocompletion only completes that word.
func LastWord(text string) string {
	if i := strings.LastIndexByte(text, ' '); i >= 0 {
		return text[i+1:]
	}
	return text
}
