package export

import (
	"bufio"
	"io"
	"strings"

	"github.com/dmitrijs2005/ministrysync/internal/client/models"
)

// CSV writes a header and one line per registration. Every text field is
// quoted; the attendee count is written bare.
func CSV(w io.Writer, rows []models.Registration) error {
	if len(rows) == 0 {
		return ErrNoData
	}

	bw := bufio.NewWriter(w)
	writeLine(bw, columns, -1)
	for _, r := range rows {
		writeLine(bw, row(r), attendeesCol)
	}
	return bw.Flush()
}

func writeLine(w *bufio.Writer, fields []string, bare int) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		if i == bare {
			w.WriteString(f)
			continue
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteString("\r\n")
}
