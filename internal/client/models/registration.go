package models

import "time"

type RegistrationStatus string

const (
	StatusPending   RegistrationStatus = "pending"
	StatusConfirmed RegistrationStatus = "confirmed"
	StatusCancelled RegistrationStatus = "cancelled"
)

type Registration struct {
	ID                string             `json:"_id,omitempty"`
	EventID           string             `json:"eventId" validate:"required"`
	EventName         string             `json:"eventName,omitempty"`
	FullName          string             `json:"fullName" validate:"required"`
	Email             string             `json:"email" validate:"required,email"`
	Phone             string             `json:"phone,omitempty"`
	NumberOfAttendees int                `json:"numberOfAttendees" validate:"min=1"`
	SpecialRequests   string             `json:"specialRequests,omitempty"`
	Status            RegistrationStatus `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled"`
	CreatedAt         time.Time          `json:"createdAt"`

	Optimistic bool `json:"-"`
}

func (r Registration) GetID() string { return r.ID }

type RegistrationFilter struct {
	EventID string
}

func (r Registration) AsProvisional(id string, at time.Time) Registration {
	r.ID, r.Optimistic, r.CreatedAt = id, true, at
	if r.Status == "" {
		r.Status = StatusPending
	}
	return r
}
