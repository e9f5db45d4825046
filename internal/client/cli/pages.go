package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
)

const homePreview = 3

// load runs fn as the current page. A failed page stays in its error state
// until retry succeeds.
func (a *App) load(ctx context.Context, fn func(ctx context.Context) error) error {
	a.last = fn
	if err := fn(ctx); err != nil {
		a.log.Warn(ctx, "page load failed", "error", err)
		printlnFn("Error:", client.Message(err))
		printlnFn("Type 'retry' to try again.")
		return err
	}
	return nil
}

// Retry reloads the last page.
func (a *App) Retry(ctx context.Context) error {
	if a.last == nil {
		printlnFn("Nothing to retry")
		return nil
	}
	return a.load(ctx, a.last)
}

func (a *App) Routes(ctx context.Context) error {
	printlnFn("Pages:")
	a.printRoutes(false)
	if a.isAdmin(ctx) {
		printlnFn("Admin pages:")
		a.printRoutes(true)
	}
	return nil
}

func refreshing(on bool) {
	if on {
		printlnFn("(showing cached data, refreshing)")
	}
}

func printList[T any](items []T, empty string, line func(T) string) {
	if len(items) == 0 {
		printlnFn(empty)
		return
	}
	for _, it := range items {
		printlnFn(line(it))
	}
}

func day(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func pending(optimistic bool) string {
	if optimistic {
		return " (saving)"
	}
	return ""
}

func sermonLine(s models.Sermon) string {
	return fmt.Sprintf("%-26s %s  [%s] %s - %s%s", s.ID, day(s.Date), s.Type, s.Title, s.Speaker, pending(s.Optimistic))
}

func eventLine(e models.Event) string {
	return fmt.Sprintf("%-26s %s %s  %s @ %s  (%d registered)%s", e.ID, day(e.Date), e.Time, e.Title, e.Location, e.Registrations, pending(e.Optimistic))
}

func announcementLine(an models.Announcement) string {
	return fmt.Sprintf("%-26s %s: %s%s", an.ID, an.Title, an.Content, pending(an.Optimistic))
}

func galleryLine(g models.GalleryImage) string {
	return fmt.Sprintf("%-26s %s  %s%s", g.ID, g.Title, g.ImageURL, pending(g.Optimistic))
}

func ministryLine(m models.Ministry) string {
	return fmt.Sprintf("%-26s %s (%s): %s%s", m.ID, m.Name, m.Leader, m.Description, pending(m.Optimistic))
}

func serviceTimeLine(s models.ServiceTime) string {
	return fmt.Sprintf("%-26s %s %s  %s%s", s.ID, s.Day, s.Time, s.Title, pending(s.Optimistic))
}

func registrationLine(r models.Registration) string {
	return fmt.Sprintf("%-26s %s <%s> %s x%d [%s]%s", r.ID, r.FullName, r.Email, r.EventName, r.NumberOfAttendees, r.Status, pending(r.Optimistic))
}

func (a *App) activeAnnouncements(items []models.Announcement) []models.Announcement {
	now := a.now()
	var out []models.Announcement
	for _, an := range items {
		if an.ActiveOn(now) {
			out = append(out, an)
		}
	}
	return out
}

func (a *App) home(ctx context.Context, _ params, _ []string) error {
	return a.load(ctx, func(ctx context.Context) error {
		events, err := a.svc.Events.Upcoming(ctx)
		if err != nil {
			return err
		}
		sermons, err := a.svc.Sermons.Featured(ctx)
		if err != nil {
			return err
		}
		anns, err := a.svc.Announcements.List(ctx)
		if err != nil {
			return err
		}

		printlnFn("Announcements:")
		printList(a.activeAnnouncements(anns.Data), "  none", announcementLine)
		printlnFn("Upcoming events:")
		printList(events.Data[:min(homePreview, len(events.Data))], "  none", eventLine)
		printlnFn("Featured sermons:")
		printList(sermons.Data[:min(homePreview, len(sermons.Data))], "  none", sermonLine)
		return nil
	})
}

func (a *App) sermons(ctx context.Context, _ params, args []string) error {
	var f models.SermonFilter
	if len(args) > 0 {
		switch t := models.SermonType(strings.ToLower(args[0])); t {
		case models.SermonAudio, models.SermonVideo:
			f.Type = t
			args = args[1:]
		}
	}
	f.Search = strings.Join(args, " ")

	return a.load(ctx, func(ctx context.Context) error {
		res, err := a.svc.Sermons.List(ctx, f)
		if err != nil {
			return err
		}
		refreshing(res.Refetching)
		printList(res.Data, "No sermons found", sermonLine)
		return nil
	})
}

func (a *App) sermon(ctx context.Context, p params, _ []string) error {
	return a.load(ctx, func(ctx context.Context) error {
		res, err := a.svc.Sermons.Get(ctx, p["id"])
		if err != nil {
			return err
		}
		s := res.Data
		refreshing(res.Refetching)
		printlnFn(s.Title)
		printlnFn(fmt.Sprintf("%s | %s | %s %s", s.Speaker, day(s.Date), s.Type, s.Duration))
		if s.Topic != "" {
			printlnFn("Topic:", s.Topic)
		}
		if s.MediaURL != "" {
			printlnFn("Media:", s.MediaURL)
		}
		if s.Description != "" {
			printlnFn(s.Description)
		}
		printlnFn(fmt.Sprintf("Comments (%d):", len(s.Comments)))
		printList(s.Comments, "  none", func(c models.Comment) string {
			return fmt.Sprintf("  %s  %s: %s", c.ID, c.Name, c.Text)
		})
		return nil
	})
}

func (a *App) comment(ctx context.Context, p params, _ []string) error {
	in := newPrompter(a.reader, a.out)
	c := models.Comment{
		Name: in.text("Your name", ""),
		Text: in.long("Comment", ""),
	}
	if in.err != nil {
		printlnFn("Error:", in.err)
		return in.err
	}
	_, err := a.svc.Sermons.AddComment(ctx, p["id"], c)
	return err
}

func (a *App) events(ctx context.Context, _ params, args []string) error {
	f := models.EventFilter{Search: strings.Join(args, " ")}
	return a.load(ctx, func(ctx context.Context) error {
		res, err := a.svc.Events.List(ctx, f)
		if err != nil {
			return err
		}
		refreshing(res.Refetching)
		printList(res.Data, "No events found", eventLine)
		return nil
	})
}

func (a *App) event(ctx context.Context, p params, _ []string) error {
	return a.load(ctx, func(ctx context.Context) error {
		res, err := a.svc.Events.Get(ctx, p["id"])
		if err != nil {
			return err
		}
		e := res.Data
		refreshing(res.Refetching)
		printlnFn(e.Title)
		printlnFn(fmt.Sprintf("%s %s @ %s", day(e.Date), e.Time, e.Location))
		if len(e.Speakers) > 0 {
			printlnFn("Speakers:", strings.Join(e.Speakers, ", "))
		}
		if e.Description != "" {
			printlnFn(e.Description)
		}
		printlnFn(fmt.Sprintf("Registered: %d", e.Registrations))
		return nil
	})
}

func (a *App) register(ctx context.Context, p params, _ []string) error {
	res, err := a.svc.Events.Get(ctx, p["id"])
	if err != nil {
		printlnFn("Error:", client.Message(err))
		return err
	}
	printlnFn("Register for", res.Data.Title)

	in := newPrompter(a.reader, a.out)
	reg := models.Registration{
		EventID:   res.Data.ID,
		EventName: res.Data.Title,
	}
	reg.FullName = in.text("Full name", "")
	reg.Email = in.text("Email", "")
	reg.Phone = in.text("Phone", "")
	reg.NumberOfAttendees = in.number("Number of attendees", 1)
	reg.SpecialRequests = in.text("Special requests", "")
	if in.err != nil {
		printlnFn("Error:", in.err)
		return in.err
	}

	_, err = a.svc.Registrations.Create(ctx, reg)
	return err
}

func (a *App) announcements(ctx context.Context, _ params, _ []string) error {
	return a.load(ctx, func(ctx context.Context) error {
		res, err := a.svc.Announcements.List(ctx)
		if err != nil {
			return err
		}
		refreshing(res.Refetching)
		printList(a.activeAnnouncements(res.Data), "No announcements", announcementLine)
		return nil
	})
}

func (a *App) gallery(ctx context.Context, _ params, _ []string) error {
	return a.load(ctx, func(ctx context.Context) error {
		res, err := a.svc.Gallery.List(ctx)
		if err != nil {
			return err
		}
		refreshing(res.Refetching)
		printList(res.Data, "The gallery is empty", galleryLine)
		return nil
	})
}

func (a *App) ministries(ctx context.Context, _ params, _ []string) error {
	return a.load(ctx, func(ctx context.Context) error {
		res, err := a.svc.Ministries.List(ctx)
		if err != nil {
			return err
		}
		refreshing(res.Refetching)
		printList(res.Data, "No ministries", ministryLine)
		return nil
	})
}

func (a *App) serviceTimes(ctx context.Context, _ params, _ []string) error {
	return a.load(ctx, func(ctx context.Context) error {
		res, err := a.svc.ServiceTimes.List(ctx)
		if err != nil {
			return err
		}
		refreshing(res.Refetching)
		printList(res.Data, "No service times", serviceTimeLine)
		return nil
	})
}

func (a *App) contact(ctx context.Context, _ params, _ []string) error {
	in := newPrompter(a.reader, a.out)
	msg := models.ContactMessage{
		Name:    in.text("Your name", ""),
		Email:   in.text("Email", ""),
		Subject: in.text("Subject", ""),
		Message: in.long("Message", ""),
	}
	if in.err != nil {
		printlnFn("Error:", in.err)
		return in.err
	}
	return a.svc.Contact.Send(ctx, msg)
}
