package session

import (
	"context"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/repositories/metadata"
)

const (
	bannerKey  = "announcementDismissedDate"
	dateLayout = "2006-01-02"
)

// Banner remembers the local calendar day on which the announcement banner
// was dismissed with "don't show again today".
type Banner struct {
	repo metadata.Repository
}

func NewBanner(repo metadata.Repository) *Banner {
	return &Banner{repo: repo}
}

// ShouldShow reports whether the banner opens at now.
func (b *Banner) ShouldShow(ctx context.Context, now time.Time) (bool, error) {
	v, ok, err := b.repo.Get(ctx, bannerKey)
	if err != nil {
		return false, err
	}
	return !ok || v != now.Format(dateLayout), nil
}

// Dismiss closes the banner. Only with dontShowToday is the day recorded;
// otherwise it opens again on the next start.
func (b *Banner) Dismiss(ctx context.Context, now time.Time, dontShowToday bool) error {
	if !dontShowToday {
		return nil
	}
	return b.repo.Set(ctx, bannerKey, now.Format(dateLayout))
}
