package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ministrysync/internal/client/client"
	"github.com/dmitrijs2005/ministrysync/internal/client/export"
	"github.com/dmitrijs2005/ministrysync/internal/client/models"
)

// Export writes the registrations, optionally of one event, to a CSV or PDF
// file in the configured export directory.
func (a *App) Export(ctx context.Context, args []string) error {
	if err := a.requireAdmin(ctx); err != nil {
		return err
	}

	f, err := export.ParseFormat(args[0])
	if err != nil {
		printlnFn("Usage: export csv|pdf [eventID]")
		return err
	}
	eventID := ""
	if len(args) > 1 {
		eventID = args[1]
	}

	res, err := a.svc.Registrations.List(ctx, models.RegistrationFilter{})
	if err != nil {
		a.notifier.Error("Export failed: " + client.Message(err))
		return err
	}
	rows := export.Filter(res.Data, eventID)

	path, err := export.ToFile(a.config.ExportDir, f, rows, a.eventName(ctx, eventID, rows), a.now())
	if errors.Is(err, export.ErrNoData) {
		a.notifier.Info("No data to export")
		return nil
	}
	if err != nil {
		a.log.Error(ctx, "export failed", "format", f, "error", err)
		a.notifier.Error("Export failed: " + err.Error())
		return err
	}

	a.log.Info(ctx, "registrations exported", "path", path, "rows", len(rows))
	a.notifier.Success(fmt.Sprintf("Exported %d registrations to %s", len(rows), path))
	return nil
}

func (a *App) eventName(ctx context.Context, eventID string, rows []models.Registration) string {
	if eventID == "" {
		return ""
	}
	if res, err := a.svc.Events.Get(ctx, eventID); err == nil && res.Data.Title != "" {
		return res.Data.Title
	}
	if len(rows) > 0 && rows[0].EventName != "" {
		return rows[0].EventName
	}
	return eventID
}
