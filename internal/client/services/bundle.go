package services

import (
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
	"github.com/dmitrijs2005/ministrysync/internal/client/upload"
)

// Services groups every entity service over one client and cache.
type Services struct {
	Sermons       SermonService
	Events        EventService
	Registrations RegistrationService
	Announcements CatalogService[models.Announcement]
	Gallery       CatalogService[models.GalleryImage]
	Ministries    CatalogService[models.Ministry]
	ServiceTimes  CatalogService[models.ServiceTime]
	Contact       ContactService
}

func New(c client.Client, media upload.MediaStore, r *mutation.Runner) *Services {
	return &Services{
		Sermons:       NewSermonService(c.Sermons(), media, r),
		Events:        NewEventService(c.Events(), media, r),
		Registrations: NewRegistrationService(c.Registrations(), r),
		Announcements: NewAnnouncementService(c.Announcements(), media, r),
		Gallery:       NewGalleryService(c.Gallery(), media, r),
		Ministries:    NewMinistryService(c.Ministries(), media, r),
		ServiceTimes:  NewServiceTimeService(c.ServiceTimes(), media, r),
		Contact:       NewContactService(c, r.Notifier()),
	}
}
