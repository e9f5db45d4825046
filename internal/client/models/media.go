package models

// MediaKind selects the upload endpoint and allowed content types.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// Media pairs a display URL with the storage deletion handle.
type Media struct {
	URL      string `json:"url" validate:"required"`
	PublicID string `json:"publicId"`
}

// Empty reports whether no asset is referenced.
func (m Media) Empty() bool {
	return m.URL == "" && m.PublicID == ""
}

// Identifiable is implemented by every cached entity.
type Identifiable interface {
	GetID() string
}

// MediaOwner is an entity that references an uploaded asset.
type MediaOwner interface {
	Identifiable
	MediaRef() Media
}
