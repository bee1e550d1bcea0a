package domain

import "time"

// DefaultLanguage is the language preference used until one is saved.
const DefaultLanguage = "English"

// Preferences holds the settings the search form reads: the display
// language and the directory the image picker opens in.
type Preferences struct {
	Language  string    `json:"language"`
	SavePath  string    `json:"save_path"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewPreferences creates preferences with defaults.
func NewPreferences(savePath string) *Preferences {
	return &Preferences{
		Language:  DefaultLanguage,
		SavePath:  savePath,
		UpdatedAt: time.Now(),
	}
}

// Touch updates the UpdatedAt timestamp.
func (p *Preferences) Touch() {
	p.UpdatedAt = time.Now()
}
