package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/campus-poster/backend/internal/copygen"
)

// Poster is a stored event together with its generated copy and exported image.
type Poster struct {
	ID           uuid.UUID           `json:"id"`
	Title        string              `json:"title"`
	Time         string              `json:"time"`
	Location     string              `json:"location"`
	Organizer    string              `json:"organizer"`
	Description  string              `json:"description,omitempty"`
	JoinURL      string              `json:"join_url,omitempty"`
	IsAffiliated bool                `json:"is_affiliated"`
	Copies       *copygen.CopyResult `json:"copies"`
	CopySource   string              `json:"copy_source,omitempty"`
	ImageKey     string              `json:"-"`
	ImageURL     string              `json:"image_url,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// Event returns the copy pipeline input for this poster.
func (p *Poster) Event() copygen.EventData {
	return copygen.EventData{
		Title:        p.Title,
		Time:         p.Time,
		Location:     p.Location,
		Organizer:    p.Organizer,
		Description:  p.Description,
		JoinURL:      p.JoinURL,
		IsAffiliated: p.IsAffiliated,
	}
}
