package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/ministrysync/internal/client/admin"
	"github.com/dmitrijs2005/ministrysync/internal/client/cache"
	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/dmitrijs2005/ministrysync/internal/client/mutation"
	"github.com/dmitrijs2005/ministrysync/internal/client/services"
	"github.com/dmitrijs2005/ministrysync/internal/client/upload"
)

var (
	errNotFound = errors.New("item not found")
	errPending  = errors.New("item is still being saved")
)

type routable interface {
	routes() []route
}

// resource is one admin section: list, create, edit and delete over a
// single entity type, each form driven by an admin.Screen.
type resource[T models.Identifiable] struct {
	a      *App
	path   string
	noun   string
	list   func(ctx context.Context) (cache.Result[[]T], error)
	create func(ctx context.Context, form services.Form[T]) (T, error)
	update func(ctx context.Context, form services.Form[T]) (T, error)
	remove func(ctx context.Context, item T) error
	fill   func(in *prompter, item T) T
	kinds  func(item T) []models.MediaKind
	line   func(item T) string
}

func (r *resource[T]) routes() []route {
	base := "/admin/" + r.path
	return []route{
		{base, "manage " + r.path, r.index},
		{base + "/new", "new " + r.noun, r.createPage},
		{base + "/:id/edit", "edit a " + r.noun, r.editPage},
		{base + "/:id/delete", "delete a " + r.noun, r.deletePage},
	}
}

func (r *resource[T]) index(ctx context.Context, _ params, _ []string) error {
	return r.a.load(ctx, func(ctx context.Context) error {
		res, err := r.list(ctx)
		if err != nil {
			return err
		}
		refreshing(res.Refetching)
		printList(res.Data, "Nothing here yet", r.line)
		return nil
	})
}

func (r *resource[T]) find(ctx context.Context, id string) (T, error) {
	if mutation.IsTemp(id) {
		var zero T
		return zero, fmt.Errorf("%s %s: %w", r.noun, id, errPending)
	}
	res, err := r.list(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	for _, it := range res.Data {
		if it.GetID() == id {
			return it, nil
		}
	}
	var zero T
	return zero, fmt.Errorf("%s %s: %w", r.noun, id, errNotFound)
}

func (r *resource[T]) createPage(ctx context.Context, _ params, _ []string) error {
	screen := admin.NewScreen[T]()
	var blank T
	if err := screen.Create(blank); err != nil {
		return err
	}
	return r.edit(ctx, screen, r.create)
}

func (r *resource[T]) editPage(ctx context.Context, p params, _ []string) error {
	item, err := r.find(ctx, p["id"])
	if err != nil {
		printlnFn("Error:", client.Message(err))
		return err
	}
	screen := admin.NewScreen[T]()
	if err := screen.Edit(item); err != nil {
		return err
	}
	return r.edit(ctx, screen, r.update)
}

// edit fills the open form and submits it. A failed save keeps the form
// open with its inline error and offers another attempt.
func (r *resource[T]) edit(ctx context.Context, screen *admin.Screen[T], save func(context.Context, services.Form[T]) (T, error)) error {
	for {
		in := newPrompter(r.a.reader, r.a.out)
		item := r.fill(in, screen.Item())
		if in.err != nil {
			_ = screen.Cancel()
			printlnFn("Error:", in.err)
			return in.err
		}

		machine, err := r.pickFile(in, item)
		if err != nil {
			_ = screen.Cancel()
			printlnFn("Error:", err)
			return err
		}

		err = screen.Save(ctx, item, func(ctx context.Context, item T) error {
			_, err := save(ctx, services.Form[T]{Item: item, Media: machine})
			return err
		})
		if err == nil {
			return nil
		}

		printlnFn("Error:", screen.InlineError())
		again, cerr := Confirm(r.a.reader, "Edit and try again?", r.a.out)
		if cerr != nil || !again {
			_ = screen.Cancel()
			return err
		}
	}
}

// pickFile asks for an optional media file. A nil machine means the form
// carries no file.
func (r *resource[T]) pickFile(in *prompter, item T) (*upload.Machine, error) {
	path := in.text("Media file path (empty to skip)", "")
	if in.err != nil {
		return nil, in.err
	}
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	m := upload.NewMachine(r.kinds(item)...)
	if err := m.Select(filepath.Base(path), data); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *resource[T]) deletePage(ctx context.Context, p params, _ []string) error {
	item, err := r.find(ctx, p["id"])
	if err != nil {
		printlnFn("Error:", client.Message(err))
		return err
	}

	screen := admin.NewScreen[T]()
	if err := screen.RequestDelete(item); err != nil {
		return err
	}
	printlnFn(r.line(item))
	ok, err := Confirm(r.a.reader, fmt.Sprintf("Delete this %s?", r.noun), r.a.out)
	if err != nil || !ok {
		_ = screen.Cancel()
		return err
	}
	if err := screen.Delete(ctx, r.remove); err != nil {
		printlnFn("Error:", screen.InlineError())
		return err
	}
	return nil
}

func imageOnly[T any](T) []models.MediaKind { return []models.MediaKind{models.MediaImage} }

func (a *App) adminResources() []routable {
	s := a.svc
	return []routable{
		&resource[models.Sermon]{
			a: a, path: "sermons", noun: "sermon",
			list: s.Sermons.All, create: s.Sermons.Create, update: s.Sermons.Update, remove: s.Sermons.Delete,
			fill: fillSermon, line: sermonLine,
			kinds: func(s models.Sermon) []models.MediaKind { return []models.MediaKind{s.Type.MediaKind()} },
		},
		&resource[models.Event]{
			a: a, path: "events", noun: "event",
			list: func(ctx context.Context) (cache.Result[[]models.Event], error) {
				return s.Events.List(ctx, models.EventFilter{})
			},
			create: s.Events.Create, update: s.Events.Update, remove: s.Events.Delete,
			fill: fillEvent, line: eventLine, kinds: imageOnly[models.Event],
		},
		&resource[models.Announcement]{
			a: a, path: "announcements", noun: "announcement",
			list: s.Announcements.List, create: s.Announcements.Create, update: s.Announcements.Update, remove: s.Announcements.Delete,
			fill: fillAnnouncement, line: announcementLine, kinds: imageOnly[models.Announcement],
		},
		&resource[models.GalleryImage]{
			a: a, path: "gallery", noun: "image",
			list: s.Gallery.List, create: s.Gallery.Create, update: s.Gallery.Update, remove: s.Gallery.Delete,
			fill: fillGalleryImage, line: galleryLine, kinds: imageOnly[models.GalleryImage],
		},
		&resource[models.Ministry]{
			a: a, path: "ministries", noun: "ministry",
			list: s.Ministries.List, create: s.Ministries.Create, update: s.Ministries.Update, remove: s.Ministries.Delete,
			fill: fillMinistry, line: ministryLine, kinds: imageOnly[models.Ministry],
		},
		&resource[models.ServiceTime]{
			a: a, path: "service-times", noun: "service time",
			list: s.ServiceTimes.List, create: s.ServiceTimes.Create, update: s.ServiceTimes.Update, remove: s.ServiceTimes.Delete,
			fill: fillServiceTime, line: serviceTimeLine, kinds: imageOnly[models.ServiceTime],
		},
	}
}

func (a *App) dashboard(ctx context.Context, _ params, _ []string) error {
	return a.load(ctx, func(ctx context.Context) error {
		sermons, err := a.svc.Sermons.All(ctx)
		if err != nil {
			return err
		}
		events, err := a.svc.Events.Upcoming(ctx)
		if err != nil {
			return err
		}
		regs, err := a.svc.Registrations.List(ctx, models.RegistrationFilter{})
		if err != nil {
			return err
		}
		pendingRegs := 0
		for _, r := range regs.Data {
			if r.Status == models.StatusPending {
				pendingRegs++
			}
		}
		printlnFn(fmt.Sprintf("Sermons: %d", len(sermons.Data)))
		printlnFn(fmt.Sprintf("Upcoming events: %d", len(events.Data)))
		printlnFn(fmt.Sprintf("Registrations: %d (%d pending)", len(regs.Data), pendingRegs))
		return nil
	})
}

func (a *App) adminRegistrations(ctx context.Context, _ params, args []string) error {
	var f models.RegistrationFilter
	if len(args) > 0 {
		f.EventID = args[0]
	}
	return a.load(ctx, func(ctx context.Context) error {
		res, err := a.svc.Registrations.List(ctx, f)
		if err != nil {
			return err
		}
		refreshing(res.Refetching)
		printList(res.Data, "No registrations", registrationLine)
		return nil
	})
}

func (a *App) registrationStatus(ctx context.Context, p params, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: /admin/registrations/<id>/status pending|confirmed|cancelled")
		return nil
	}
	status := models.RegistrationStatus(args[0])
	switch status {
	case models.StatusPending, models.StatusConfirmed, models.StatusCancelled:
	default:
		printlnFn("Unknown status:", args[0])
		return fmt.Errorf("unknown status %q", args[0])
	}
	_, err := a.svc.Registrations.UpdateStatus(ctx, p["id"], status)
	return err
}

func (a *App) registrationDelete(ctx context.Context, p params, _ []string) error {
	ok, err := Confirm(a.reader, "Delete this registration?", a.out)
	if err != nil || !ok {
		return err
	}
	return a.svc.Registrations.Delete(ctx, p["id"])
}

func (a *App) commentDelete(ctx context.Context, p params, _ []string) error {
	_, err := a.svc.Sermons.DeleteComment(ctx, p["id"], p["comment"])
	return err
}
