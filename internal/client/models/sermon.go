package models

import "time"

type SermonType string

const (
	SermonAudio SermonType = "audio"
	SermonVideo SermonType = "video"
)

// MediaKind maps the sermon type onto the upload kind.
func (t SermonType) MediaKind() MediaKind {
	if t == SermonVideo {
		return MediaVideo
	}
	return MediaAudio
}

type Comment struct {
	ID        string    `json:"_id,omitempty"`
	Name      string    `json:"name" validate:"required"`
	Text      string    `json:"text" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
}

type Sermon struct {
	ID            string     `json:"_id,omitempty"`
	Title         string     `json:"title" validate:"required"`
	Speaker       string     `json:"speaker" validate:"required"`
	Topic         string     `json:"topic,omitempty"`
	Date          time.Time  `json:"date"`
	Duration      string     `json:"duration,omitempty"`
	Type          SermonType `json:"type" validate:"required,oneof=audio video"`
	MediaURL      string     `json:"mediaUrl,omitempty"`
	MediaPublicID string     `json:"mediaPublicId,omitempty"`
	ThumbnailURL  string     `json:"thumbnailUrl,omitempty"`
	Transcript    string     `json:"transcript,omitempty"`
	Description   string     `json:"description,omitempty"`
	Featured      bool       `json:"featured"`
	Comments      []Comment  `json:"comments,omitempty" validate:"dive"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	// Optimistic marks a provisional record not yet confirmed by the server.
	Optimistic bool `json:"-"`
	// Updating marks a record with an edit in flight.
	Updating bool `json:"-"`
}

func (s Sermon) GetID() string { return s.ID }

func (s Sermon) MediaRef() Media {
	return Media{URL: s.MediaURL, PublicID: s.MediaPublicID}
}

// SermonFilter is the read key of a sermon list.
type SermonFilter struct {
	Type   SermonType
	Search string
}

func (s Sermon) WithMedia(m Media) Sermon {
	s.MediaURL, s.MediaPublicID = m.URL, m.PublicID
	return s
}

// AsProvisional returns s as a locally created, unconfirmed record.
func (s Sermon) AsProvisional(id string, at time.Time) Sermon {
	s.ID, s.Optimistic, s.CreatedAt, s.UpdatedAt = id, true, at, at
	return s
}

func (c Comment) GetID() string { return c.ID }
