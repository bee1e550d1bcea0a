package store

import (
	"encoding/base64"
)

// Page size bounds for listing.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 1000
)

// PageParams selects one page of a listing.
type PageParams struct {
	Limit  int    // Items per page; clamped to [1, MaxPageLimit], 0 means DefaultPageLimit
	Cursor string // Opaque cursor from the previous page; empty for the first page
}

// Page is one page of results in key order.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"` // Empty on the last page
	HasMore    bool   `json:"has_more"`
}

func (p PageParams) limit() int {
	switch {
	case p.Limit <= 0:
		return DefaultPageLimit
	case p.Limit > MaxPageLimit:
		return MaxPageLimit
	}
	return p.Limit
}

// encodeCursor turns the last key of a page into an opaque cursor.
func encodeCursor(key []byte) string {
	if len(key) == 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(key)
}

// decodeCursor returns the key a cursor points at, which must start with prefix.
func decodeCursor(cursor, prefix string) ([]byte, error) {
	if cursor == "" {
		return nil, nil
	}
	key, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil || len(key) <= len(prefix) || string(key[:len(prefix)]) != prefix {
		return nil, ErrInvalidCursor
	}
	return key, nil
}
