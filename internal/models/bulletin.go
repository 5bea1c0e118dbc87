package models

import (
	"strings"
	"time"
)

// Bulletin is the assembled message for one run. Fully immutable; discarded
// after delivery.
type Bulletin struct {
	MentionPrefix string   `json:"mention_prefix,omitempty"`
	Header        string   `json:"header"`
	Sections      []string `json:"sections"`
}

// Render joins the bulletin into the delivered message text. Identical
// inputs render to byte-identical output.
func (b *Bulletin) Render() string {
	var sb strings.Builder
	if b.MentionPrefix != "" {
		sb.WriteString(b.MentionPrefix)
		sb.WriteString("\n")
	}
	sb.WriteString(b.Header)
	for _, section := range b.Sections {
		sb.WriteString("\n\n")
		sb.WriteString(section)
	}
	return sb.String()
}

// BulletinRecord is the audit row archived after a run. It is write-only
// from the engine's point of view: nothing in classification reads it back.
type BulletinRecord struct {
	ID              string    `json:"id"`
	RanAt           time.Time `json:"ran_at"`
	Tier            string    `json:"tier"`
	TrendLabel      string    `json:"trend_label"`
	NickelPrice     float64   `json:"nickel_price"`
	NickelChangePct float64   `json:"nickel_change_pct"`
	Delivered       bool      `json:"delivered"`
	Message         string    `json:"message"`
}
