// Package export turns the registration list into CSV and PDF documents
// entirely on the client.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/ministrysync/internal/client/models"
)

// ErrNoData is returned when there is nothing to export. Callers show it
// as a notice; no file is written.
var ErrNoData = errors.New("no data to export")

type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

var columns = []string{"Name", "Email", "Phone", "Event", "Attendees", "Status", "Special Requests", "Registered"}

// row renders one registration; the attendee count is the only numeric
// column.
func row(r models.Registration) []string {
	registered := ""
	if !r.CreatedAt.IsZero() {
		registered = r.CreatedAt.Format("2006-01-02")
	}
	status := string(r.Status)
	if status == "" {
		status = string(models.StatusPending)
	}
	return []string{
		r.FullName,
		r.Email,
		r.Phone,
		r.EventName,
		strconv.Itoa(r.NumberOfAttendees),
		status,
		r.SpecialRequests,
		registered,
	}
}

const attendeesCol = 4

// Filter keeps the registrations of eventID; an empty eventID keeps all.
func Filter(regs []models.Registration, eventID string) []models.Registration {
	if eventID == "" {
		return append([]models.Registration(nil), regs...)
	}
	out := make([]models.Registration, 0, len(regs))
	for _, r := range regs {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out
}

var unsafeName = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// FileName is registrations_<event|all>_<YYYY-MM-DD>.<ext>.
func FileName(eventName string, f Format, now time.Time) string {
	name := strings.Trim(unsafeName.ReplaceAllString(eventName, "_"), "_")
	if name == "" {
		name = "all"
	}
	return fmt.Sprintf("registrations_%s_%s.%s", name, now.Format("2006-01-02"), f)
}

// Write renders rows in format f.
func Write(w io.Writer, f Format, rows []models.Registration, title string) error {
	switch f {
	case FormatCSV:
		return CSV(w, rows)
	case FormatPDF:
		return PDF(w, rows, title)
	}
	return fmt.Errorf("unknown export format %q", f)
}

// ToFile writes rows into dir under FileName and returns the path. With no
// rows it returns ErrNoData and creates nothing.
func ToFile(dir string, f Format, rows []models.Registration, eventName string, now time.Time) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoData
	}

	path := filepath.Join(dir, FileName(eventName, f, now))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	title := "Registrations"
	if eventName != "" {
		title += " - " + eventName
	}
	if err := Write(file, f, rows, title); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
