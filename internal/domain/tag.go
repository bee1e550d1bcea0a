package domain

import "time"

// TagSource records where a known tag came from.
type TagSource string

// Tag sources.
const (
	TagSourceUser       TagSource = "user"       // Added through the API
	TagSourceDictionary TagSource = "dictionary" // Loaded from the tag dictionary file
)

// Tag is a known tag string offered for autocompletion.
// Name is the source of truth and keeps its case; Key is the case-folded form
// used for prefix matching.
type Tag struct {
	Name      string    `json:"name"`
	Key       string    `json:"key"`
	Source    TagSource `json:"source"`
	CreatedAt time.Time `json:"created_at"`
}
