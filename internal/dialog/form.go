// Package dialog models the search form that sits in front of the query codec.
//
// The form speaks in combo box indices: index 0 is the "no filter" entry and
// index k selects the k-1th vocabulary item. That convention is confined to
// this package; everything past FromQuery and Form.Query uses the optional
// enums from package query.
package dialog

import (
	"fmt"

	"github.com/booruapp/tagsearch-server/internal/query"
)

// UnsetLabel is the label of the "no filter" entry at index 0 of every combo.
const UnsetLabel = "---"

// Option is one entry of a combo box.
type Option struct {
	Index int    `json:"index"`
	Value string `json:"value"`
	Label string `json:"label"`
}

// ComboOptions lists the options of each filter combo box.
type ComboOptions struct {
	Orders   []Option `json:"orders"`
	Ratings  []Option `json:"ratings"`
	Statuses []Option `json:"statuses"`
}

// Options returns the option lists rendered by the form, unset entry first.
func Options() ComboOptions {
	return ComboOptions{
		Orders:   buildOptions(query.Orders()),
		Ratings:  buildOptions(query.Ratings()),
		Statuses: buildOptions(query.Statuses()),
	}
}

func buildOptions[T ~string](values []T) []Option {
	opts := make([]Option, 0, len(values)+1)
	opts = append(opts, Option{Index: 0, Label: UnsetLabel})
	for i, v := range values {
		opts = append(opts, Option{Index: i + 1, Value: string(v), Label: string(v)})
	}
	return opts
}

// Form is the editable state of the search form.
type Form struct {
	Tags        string `json:"tags"`
	OrderIndex  int    `json:"order_index"`
	RatingIndex int    `json:"rating_index"`
	StatusIndex int    `json:"status_index"`
	Date        string `json:"date"`
}

// FromQuery pre-populates a form from a decomposed query.
func FromQuery(q query.Query) Form {
	return Form{
		Tags:        q.Tags,
		OrderIndex:  q.Order.Index() + 1,
		RatingIndex: q.Rating.Index() + 1,
		StatusIndex: q.Status.Index() + 1,
		Date:        q.Date,
	}
}

// Query converts the form back into a structured query.
// Indices outside a combo's range are treated as unset.
func (f Form) Query() query.Query {
	return query.Query{
		Tags:   f.Tags,
		Order:  pick(query.Orders(), f.OrderIndex),
		Rating: pick(query.Ratings(), f.RatingIndex),
		Status: pick(query.Statuses(), f.StatusIndex),
		Date:   f.Date,
	}
}

// Generate produces the final query string for the form.
func (f Form) Generate(extraPrefix string) string {
	return query.Compose(f.Query(), extraPrefix)
}

// Validate checks that every combo index is in range.
func (f Form) Validate() error {
	checks := []struct {
		name  string
		index int
		size  int
	}{
		{"order_index", f.OrderIndex, len(query.Orders())},
		{"rating_index", f.RatingIndex, len(query.Ratings())},
		{"status_index", f.StatusIndex, len(query.Statuses())},
	}
	for _, c := range checks {
		if c.index < 0 || c.index > c.size {
			return fmt.Errorf("%s must be between 0 and %d, got %d", c.name, c.size, c.index)
		}
	}
	return nil
}

func pick[T ~string](values []T, index int) T {
	if index < 1 || index > len(values) {
		var zero T
		return zero
	}
	return values[index-1]
}
