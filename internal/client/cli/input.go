package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

const dateLayout = "2006-01-02"

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints a passcode prompt to w and reads it from the user's
// terminal without echo. A newline is printed after the read to keep the UI
// tidy.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter admin passcode: "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetMultiline prints a prompt to w and reads multiple lines until an empty
// line is entered (i.e., the user presses Enter twice). The trailing newline
// on each line is trimmed and the collected text is joined with '\n'.
//
// This helper is used for descriptions, announcement bodies and messages.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// Confirm asks a yes/no question; anything but y or yes is a no.
func Confirm(reader *bufio.Reader, prompt string, w io.Writer) (bool, error) {
	s, err := GetSimpleText(reader, prompt+" [y/N]", w)
	if err != nil {
		return false, err
	}
	s = strings.ToLower(s)
	return s == "y" || s == "yes", nil
}

// prompter fills form fields one after another. The first error sticks and
// turns every later call into a no-op that returns the current value.
type prompter struct {
	r   *bufio.Reader
	w   io.Writer
	err error
}

func newPrompter(r *bufio.Reader, w io.Writer) *prompter {
	return &prompter{r: r, w: w}
}

func (p *prompter) label(name, cur string) string {
	if cur == "" {
		return name
	}
	return fmt.Sprintf("%s [%s]", name, cur)
}

// text reads a line; an empty answer keeps cur.
func (p *prompter) text(name, cur string) string {
	if p.err != nil {
		return cur
	}
	s, err := GetSimpleText(p.r, p.label(name, cur), p.w)
	if err != nil {
		p.err = err
		return cur
	}
	if s == "" {
		return cur
	}
	return s
}

// long reads a multi-line value; an empty answer keeps cur.
func (p *prompter) long(name, cur string) string {
	if p.err != nil {
		return cur
	}
	s, err := GetMultiline(p.r, p.label(name, cur), p.w)
	if err != nil {
		p.err = err
		return cur
	}
	if s == "" {
		return cur
	}
	return s
}

func (p *prompter) date(name string, cur time.Time) time.Time {
	def := ""
	if !cur.IsZero() {
		def = cur.Format(dateLayout)
	}
	s := p.text(name+" (YYYY-MM-DD)", def)
	if p.err != nil || s == def {
		return cur
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		p.err = fmt.Errorf("invalid date %q", s)
		return cur
	}
	return t
}

func (p *prompter) number(name string, cur int) int {
	s := p.text(name, strconv.Itoa(cur))
	if p.err != nil {
		return cur
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		p.err = fmt.Errorf("invalid number %q", s)
		return cur
	}
	return n
}

func (p *prompter) flag(name string, cur bool) bool {
	def := "n"
	if cur {
		def = "y"
	}
	s := strings.ToLower(p.text(name+" (y/n)", def))
	return s == "y" || s == "yes"
}

// list reads a comma separated value.
func (p *prompter) list(name string, cur []string) []string {
	s := p.text(name+" (comma separated)", strings.Join(cur, ", "))
	if p.err != nil {
		return cur
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
