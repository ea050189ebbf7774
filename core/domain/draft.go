// ABOUTME: Draft domain model holds the lightweight editable fields of an unsaved site
// ABOUTME: The document body is deliberately excluded to keep drafts small

package domain

import "time"

// Draft is the locally persisted snapshot of an unsaved site's metadata
type Draft struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Prompt      string    `json:"prompt"`
	SavedAt     time.Time `json:"savedAt"`
	CustomFonts []string  `json:"customFonts"`
}

// IsEmpty reports whether the draft carries nothing worth restoring
func (d *Draft) IsEmpty() bool {
	return d == nil || (d.Title == "" && d.Description == "" && d.Prompt == "" && len(d.CustomFonts) == 0)
}
