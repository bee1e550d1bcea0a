// Package query converts between raw image-board query strings and their
// structured filter components.
//
// A raw query is a space separated list of tags with optional filter tokens
// mixed in:
//
//	cat dog order:score -rating:explicit status:active date:01/15/2023
//
// Decompose pulls the first token of each filter category out of the text,
// and Compose puts a structured query back together in a stable order.
// Both functions are pure and safe for concurrent use.
package query

import (
	"regexp"
	"strings"
	"time"
)

// DateLayout is the textual format of a date filter value (MM/dd/yyyy).
const DateLayout = "01/02/2006"

// Token prefixes.
const (
	orderPrefix  = "order:"
	statusPrefix = "status:"
	datePrefix   = "date:"

	// MD5Prefix introduces a reverse image lookup token.
	MD5Prefix = "md5:"
)

var (
	orderPattern  = regexp.MustCompile(`order:([^ ]+)`)
	ratingPattern = regexp.MustCompile(`-?rating:[^ ]+`)
	statusPattern = regexp.MustCompile(`status:([^ ]+)`)
	datePattern   = regexp.MustCompile(`date:([^ ]+)`)
)

// Query is the structured form of a raw query string.
//
// Filter fields use their zero value for "not set". Tags holds the text left
// over after filter tokens were removed and is not whitespace normalized.
type Query struct {
	Tags   string `json:"tags"`
	Order  Order  `json:"order,omitempty"`
	Rating Rating `json:"rating,omitempty"`
	Status Status `json:"status,omitempty"`
	Date   string `json:"date,omitempty"`
}

// IsZero reports whether q carries no tags and no filters.
func (q Query) IsZero() bool {
	return strings.TrimSpace(q.Tags) == "" &&
		!q.Order.IsSet() && !q.Rating.IsSet() && !q.Status.IsSet() && q.Date == ""
}

// ParsedDate parses the date filter with DateLayout.
// It returns false when no date is set or the value does not parse.
func (q Query) ParsedDate() (time.Time, bool) {
	if q.Date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, q.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Decompose extracts the order, rating, status and date filters from raw.
//
// Only the first token of each category is considered. A token whose value is
// not in the vocabulary is still removed from the text and leaves the field
// unset. Date values are kept verbatim.
func Decompose(raw string) Query {
	var q Query
	text := raw

	if value, rest, ok := extract(orderPattern, text, 1); ok {
		text = rest
		if o, known := ParseOrder(value); known {
			q.Order = o
		}
	}

	if value, rest, ok := extract(ratingPattern, text, 0); ok {
		text = rest
		if r, known := ParseRating(value); known {
			q.Rating = r
		}
	}

	if value, rest, ok := extract(statusPattern, text, 1); ok {
		text = rest
		if s, known := ParseStatus(value); known {
			q.Status = s
		}
	}

	if value, rest, ok := extract(datePattern, text, 1); ok {
		text = rest
		q.Date = value
	}

	q.Tags = text
	return q
}

// Compose builds a raw query string from q.
//
// Segments appear in a fixed order: extraPrefix, tags, status, order, rating,
// date. Empty segments are skipped and the rest are joined with single spaces.
func Compose(q Query, extraPrefix string) string {
	segments := make([]string, 0, 6)
	push := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}

	push(extraPrefix)
	push(q.Tags)
	if q.Status.IsSet() {
		push(statusPrefix + string(q.Status))
	}
	if q.Order.IsSet() {
		push(orderPrefix + string(q.Order))
	}
	if q.Rating.IsSet() {
		push(string(q.Rating))
	}
	if q.Date != "" {
		push(datePrefix + q.Date)
	}

	return strings.Join(segments, " ")
}

// ReverseImagePrefix returns the extra prefix for a reverse image lookup,
// or "" when there is no hash.
func ReverseImagePrefix(hexHash string) string {
	if hexHash == "" {
		return ""
	}
	return MD5Prefix + hexHash
}

// extract finds the first match of re in text and returns the requested
// submatch along with text minus the whole match.
func extract(re *regexp.Regexp, text string, group int) (value, rest string, ok bool) {
	loc := re.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", text, false
	}
	value = text[loc[2*group]:loc[2*group+1]]
	rest = text[:loc[0]] + text[loc[1]:]
	return value, rest, true
}
