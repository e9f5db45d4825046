package cli

import (
	"strings"

	"github.com/dmitrijs2005/ministrysync/internal/client/models"
)

// The fill functions prompt for every editable field, showing the current
// value as the default.

func fillSermon(in *prompter, s models.Sermon) models.Sermon {
	s.Title = in.text("Title", s.Title)
	s.Speaker = in.text("Speaker", s.Speaker)
	s.Topic = in.text("Topic", s.Topic)
	s.Date = in.date("Date", s.Date)
	s.Duration = in.text("Duration", s.Duration)
	s.Type = models.SermonType(strings.ToLower(in.text("Type (audio/video)", string(s.Type))))
	s.MediaURL = in.text("Media URL (or pick a file next)", s.MediaURL)
	s.ThumbnailURL = in.text("Thumbnail URL", s.ThumbnailURL)
	s.Description = in.long("Description", s.Description)
	s.Featured = in.flag("Featured", s.Featured)
	return s
}

func fillEvent(in *prompter, e models.Event) models.Event {
	e.Title = in.text("Title", e.Title)
	e.Date = in.date("Date", e.Date)
	e.Time = in.text("Time", e.Time)
	e.Location = in.text("Location", e.Location)
	e.Speakers = in.list("Speakers", e.Speakers)
	e.Description = in.long("Description", e.Description)
	e.Featured = in.flag("Featured", e.Featured)
	return e
}

func fillAnnouncement(in *prompter, an models.Announcement) models.Announcement {
	an.Title = in.text("Title", an.Title)
	an.Content = in.long("Content", an.Content)
	an.Category = in.text("Category", an.Category)
	an.StartDate = in.date("Start date", an.StartDate)
	an.EndDate = in.date("End date", an.EndDate)
	return an
}

func fillGalleryImage(in *prompter, g models.GalleryImage) models.GalleryImage {
	g.Title = in.text("Title", g.Title)
	g.Description = in.text("Description", g.Description)
	g.Category = in.text("Category", g.Category)
	return g
}

func fillMinistry(in *prompter, m models.Ministry) models.Ministry {
	m.Name = in.text("Name", m.Name)
	m.Description = in.long("Description", m.Description)
	m.Leader = in.text("Leader", m.Leader)
	m.Category = in.text("Category", m.Category)
	return m
}

func fillServiceTime(in *prompter, s models.ServiceTime) models.ServiceTime {
	s.Title = in.text("Title", s.Title)
	s.Day = in.text("Day", s.Day)
	s.Time = in.text("Time", s.Time)
	s.Type = in.text("Type", s.Type)
	s.Description = in.text("Description", s.Description)
	return s
}
