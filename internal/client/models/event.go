package models

import "time"

type Event struct {
	ID            string    `json:"_id,omitempty"`
	Title         string    `json:"title" validate:"required"`
	Date          time.Time `json:"date" validate:"required"`
	Time          string    `json:"time,omitempty"`
	Location      string    `json:"location" validate:"required"`
	ImageURL      string    `json:"image,omitempty"`
	ImagePublicID string    `json:"imagePublicId,omitempty"`
	Description   string    `json:"description,omitempty"`
	Featured      bool      `json:"featured"`
	Speakers      []string  `json:"speakers,omitempty"`
	Registrations int       `json:"registrations" validate:"gte=0"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Optimistic bool `json:"-"`
	Updating   bool `json:"-"`
}

func (e Event) GetID() string { return e.ID }

func (e Event) MediaRef() Media {
	return Media{URL: e.ImageURL, PublicID: e.ImagePublicID}
}

type EventFilter struct {
	Search string
}

func (e Event) WithMedia(m Media) Event {
	e.ImageURL, e.ImagePublicID = m.URL, m.PublicID
	return e
}

func (e Event) AsProvisional(id string, at time.Time) Event {
	e.ID, e.Optimistic, e.CreatedAt, e.UpdatedAt = id, true, at, at
	return e
}
