package cli

import (
	"context"
)

// showBanner prints today's announcements unless they were dismissed for
// the day.
func (a *App) showBanner(ctx context.Context) {
	show, err := a.banner.ShouldShow(ctx, a.now())
	if err != nil {
		a.log.Warn(ctx, "failed to read banner state", "error", err)
		return
	}
	if !show {
		return
	}

	res, err := a.svc.Announcements.List(ctx)
	if err != nil {
		a.log.Warn(ctx, "failed to load announcements", "error", err)
		return
	}
	active := a.activeAnnouncements(res.Data)
	if len(active) == 0 {
		return
	}

	printlnFn("*** Announcements ***")
	for _, an := range active {
		printlnFn(an.Title + ": " + an.Content)
	}
	printlnFn("Type 'dismiss' to close or 'dismiss today' to hide until tomorrow.")
}

// Dismiss closes the banner, remembering the day when today is set.
func (a *App) Dismiss(ctx context.Context, today bool) error {
	if err := a.banner.Dismiss(ctx, a.now(), today); err != nil {
		a.log.Error(ctx, "failed to store banner state", "error", err)
		return err
	}
	if today {
		a.notifier.Info("Announcements hidden until tomorrow")
	} else {
		a.notifier.Info("Announcements closed")
	}
	return nil
}
