// Package copygen turns event metadata into promotional copy for moments, xiaohongshu and one-line summaries.
// The model path is best effort; the template path always produces a result.
package copygen

import (
	"strings"
	"time"
)

// DefaultOrganization is prefixed to the location of affiliated events.
const DefaultOrganization = "华东师范大学"

// EventData is the event metadata copy is generated from. It is never modified.
type EventData struct {
	Title        string `json:"title"`
	Time         string `json:"time"`
	Location     string `json:"location"`
	Organizer    string `json:"organizer"`
	Description  string `json:"description,omitempty"`
	JoinURL      string `json:"join_url,omitempty"`
	IsAffiliated bool   `json:"is_affiliated"`
}

// CopyResult holds the three copy variants. Community is the long-form xiaohongshu text.
type CopyResult struct {
	Moments   string `json:"moments"`
	Community string `json:"xiaohongshu"`
	Summary   string `json:"summary"`
}

// Settings controls how event data is rendered into text.
type Settings struct {
	Organization string         // full name prefixed to affiliated locations
	Location     *time.Location // zone used to render event times; nil = time.Local
}

// DefaultSettings returns settings with the default organization and the local zone.
func DefaultSettings() Settings {
	return Settings{Organization: DefaultOrganization, Location: time.Local}
}

func (s Settings) zone() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

// ResolveLocation returns the display location, prefixed with the organization name when the event is affiliated.
func ResolveLocation(ev EventData, s Settings) string {
	if !ev.IsAffiliated {
		return ev.Location
	}
	org := strings.TrimSpace(s.Organization)
	if org == "" {
		org = DefaultOrganization
	}
	return org + " " + ev.Location
}
