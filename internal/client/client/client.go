package client

import (
	"context"
	"io"
	"net/url"

	"github.com/dmitrijs2005/ministrysync/internal/client/models"
)

// Resource is the CRUD surface shared by every entity path.
type Resource[T models.Identifiable] interface {
	List(ctx context.Context, query url.Values) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

type SermonAPI interface {
	Resource[models.Sermon]
	All(ctx context.Context) ([]models.Sermon, error)
	Featured(ctx context.Context) ([]models.Sermon, error)
	AddComment(ctx context.Context, sermonID string, c models.Comment) (models.Sermon, error)
	DeleteComment(ctx context.Context, sermonID, commentID string) (models.Sermon, error)
}

type EventAPI interface {
	Resource[models.Event]
	Upcoming(ctx context.Context) ([]models.Event, error)
}

type RegistrationAPI interface {
	Resource[models.Registration]
	UpdateStatus(ctx context.Context, id string, status models.RegistrationStatus) (models.Registration, error)
}

// UploadAPI talks to the backend media endpoints.
type UploadAPI interface {
	Upload(ctx context.Context, kind models.MediaKind, filename string, r io.Reader) (models.Media, error)
	DeleteMedia(ctx context.Context, kind models.MediaKind, publicID string) error
	DeleteImage(ctx context.Context, publicID string) error
}

// Client is the whole backend as seen by the services layer.
type Client interface {
	Sermons() SermonAPI
	Events() EventAPI
	Registrations() RegistrationAPI
	Announcements() Resource[models.Announcement]
	Gallery() Resource[models.GalleryImage]
	Ministries() Resource[models.Ministry]
	ServiceTimes() Resource[models.ServiceTime]
	Uploads() UploadAPI
	SendContact(ctx context.Context, msg models.ContactMessage) error
	Ping(ctx context.Context) error
}
