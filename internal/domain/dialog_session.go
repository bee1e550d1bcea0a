package domain

import (
	"time"

	"github.com/booruapp/tagsearch-server/internal/dialog"
)

// DialogSession is one open search dialog.
// It is created from the caller's current tag string, edited through form
// updates, and consumed exactly once when accepted or cancelled.
type DialogSession struct {
	ID        string      `json:"id"`
	Source    string      `json:"source"` // Tag string the dialog was opened with
	Form      dialog.Form `json:"form"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// NewDialogSession creates a session expiring ttl from now.
func NewDialogSession(id, source string, form dialog.Form, ttl time.Duration) *DialogSession {
	now := time.Now()
	return &DialogSession{
		ID:        id,
		Source:    source,
		Form:      form,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session is past its expiry.
func (s *DialogSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch updates the UpdatedAt timestamp.
func (s *DialogSession) Touch() {
	s.UpdatedAt = time.Now()
}
