package models

import "time"

type Announcement struct {
	ID            string    `json:"_id,omitempty"`
	Title         string    `json:"title" validate:"required"`
	Content       string    `json:"content" validate:"required"`
	Category      string    `json:"category,omitempty"`
	ImageURL      string    `json:"image,omitempty"`
	ImagePublicID string    `json:"imagePublicId,omitempty"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Optimistic bool `json:"-"`
}

func (a Announcement) GetID() string { return a.ID }
func (a Announcement) MediaRef() Media {
	return Media{URL: a.ImageURL, PublicID: a.ImagePublicID}
}
func (a Announcement) WithMedia(md Media) Announcement {
	a.ImageURL, a.ImagePublicID = md.URL, md.PublicID
	return a
}
func (a Announcement) AsProvisional(id string, at time.Time) Announcement {
	a.ID, a.Optimistic, a.CreatedAt, a.UpdatedAt = id, true, at, at
	return a
}

// ActiveOn reports whether the announcement should be shown on day.
// Zero bounds are open.
func (a Announcement) ActiveOn(day time.Time) bool {
	if !a.StartDate.IsZero() && day.Before(a.StartDate) {
		return false
	}
	if !a.EndDate.IsZero() && day.After(a.EndDate) {
		return false
	}
	return true
}

type GalleryImage struct {
	ID            string    `json:"_id,omitempty"`
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description,omitempty"`
	Category      string    `json:"category,omitempty"`
	ImageURL      string    `json:"imageUrl" validate:"required"`
	ImagePublicID string    `json:"imagePublicId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Optimistic bool `json:"-"`
}

func (g GalleryImage) GetID() string { return g.ID }
func (g GalleryImage) MediaRef() Media {
	return Media{URL: g.ImageURL, PublicID: g.ImagePublicID}
}
func (g GalleryImage) WithMedia(md Media) GalleryImage {
	g.ImageURL, g.ImagePublicID = md.URL, md.PublicID
	return g
}
func (g GalleryImage) AsProvisional(id string, at time.Time) GalleryImage {
	g.ID, g.Optimistic, g.CreatedAt, g.UpdatedAt = id, true, at, at
	return g
}

type Ministry struct {
	ID            string    `json:"_id,omitempty"`
	Name          string    `json:"name" validate:"required"`
	Description   string    `json:"description" validate:"required"`
	Leader        string    `json:"leader,omitempty"`
	Category      string    `json:"category,omitempty"`
	ImageURL      string    `json:"image,omitempty"`
	ImagePublicID string    `json:"imagePublicId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Optimistic bool `json:"-"`
}

func (m Ministry) GetID() string { return m.ID }
func (m Ministry) MediaRef() Media {
	return Media{URL: m.ImageURL, PublicID: m.ImagePublicID}
}
func (m Ministry) WithMedia(md Media) Ministry {
	m.ImageURL, m.ImagePublicID = md.URL, md.PublicID
	return m
}
func (m Ministry) AsProvisional(id string, at time.Time) Ministry {
	m.ID, m.Optimistic, m.CreatedAt, m.UpdatedAt = id, true, at, at
	return m
}

type ServiceTime struct {
	ID            string    `json:"_id,omitempty"`
	Title         string    `json:"title" validate:"required"`
	Day           string    `json:"day" validate:"required"`
	Time          string    `json:"time" validate:"required"`
	Description   string    `json:"description,omitempty"`
	Type          string    `json:"type,omitempty"`
	ImageURL      string    `json:"image,omitempty"`
	ImagePublicID string    `json:"imagePublicId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	Optimistic bool `json:"-"`
}

func (s ServiceTime) GetID() string { return s.ID }
func (s ServiceTime) MediaRef() Media {
	return Media{URL: s.ImageURL, PublicID: s.ImagePublicID}
}
func (s ServiceTime) WithMedia(md Media) ServiceTime {
	s.ImageURL, s.ImagePublicID = md.URL, md.PublicID
	return s
}
func (s ServiceTime) AsProvisional(id string, at time.Time) ServiceTime {
	s.ID, s.Optimistic, s.CreatedAt, s.UpdatedAt = id, true, at, at
	return s
}

type ContactMessage struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message" validate:"required"`
}
