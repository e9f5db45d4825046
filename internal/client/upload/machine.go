// Package upload drives a single media upload from file selection to a
// stored asset, and replaces or discards assets referenced by entities.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmitrijs2005/ministrysync/internal/client/models"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUpload            = errors.New("upload failed")
	ErrInvalidTransition = errors.New("invalid upload transition")
	ErrUnsupportedMedia  = errors.New("unsupported media type")
	ErrEmptyFile         = errors.New("empty file")
)

type State string

const (
	StateIdle      State = "idle"
	StateSelected  State = "selected"
	StateUploading State = "uploading"
	StateDone      State = "done"
	StateError     State = "error"
)

type Event string

const (
	EventSelect  Event = "select"
	EventStart   Event = "start"
	EventSucceed Event = "succeed"
	EventFail    Event = "fail"
	EventReset   Event = "reset"
)

var transitions = map[State]map[Event]State{
	StateIdle: {
		EventSelect: StateSelected,
	},
	StateSelected: {
		EventSelect: StateSelected,
		EventStart:  StateUploading,
		EventReset:  StateIdle,
	},
	StateUploading: {
		EventSucceed: StateDone,
		EventFail:    StateError,
	},
	StateDone: {
		EventSelect: StateSelected,
		EventReset:  StateIdle,
	},
	StateError: {
		EventSelect: StateSelected,
		EventStart:  StateUploading,
		EventReset:  StateIdle,
	},
}

// File is a selected, not yet uploaded, media file.
type File struct {
	Name        string
	ContentType string
	Kind        models.MediaKind
	Data        []byte
}

// Machine is the upload flow of one form field.
type Machine struct {
	mu      sync.Mutex
	state   State
	allowed []models.MediaKind
	file    *File
	result  models.Media
	err     error
}

// NewMachine accepts files of the given kinds; with none given every kind
// is accepted.
func NewMachine(allowed ...models.MediaKind) *Machine {
	return &Machine{state: StateIdle, allowed: allowed}
}

func (m *Machine) fire(ev Event) error {
	next, ok := transitions[m.state][ev]
	if !ok {
		return fmt.Errorf("%w: %s on %s", ErrInvalidTransition, ev, m.state)
	}
	m.state = next
	return nil
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// File returns the current selection.
func (m *Machine) File() (File, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.file == nil {
		return File{}, false
	}
	return *m.file, true
}

// Result returns the stored asset after a successful upload.
func (m *Machine) Result() (models.Media, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.result, m.state == StateDone
}

func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.err
}

// Select records a file, detecting its kind from content. A rejected file
// leaves the machine unchanged.
func (m *Machine) Select(name string, data []byte) error {
	if len(data) == 0 {
		return ErrEmptyFile
	}

	ct, kind := Detect(name, data)
	if !m.accepts(kind) {
		return fmt.Errorf("%w: %s", ErrUnsupportedMedia, ct)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fire(EventSelect); err != nil {
		return err
	}
	m.file = &File{Name: name, ContentType: ct, Kind: kind, Data: data}
	m.result = models.Media{}
	m.err = nil
	return nil
}

func (m *Machine) accepts(kind models.MediaKind) bool {
	if kind == "" {
		return false
	}
	if len(m.allowed) == 0 {
		return true
	}
	for _, k := range m.allowed {
		if k == kind {
			return true
		}
	}
	return false
}

// Upload sends the selected file to store.
func (m *Machine) Upload(ctx context.Context, store MediaStore) (models.Media, error) {
	m.mu.Lock()
	if err := m.fire(EventStart); err != nil {
		m.mu.Unlock()
		return models.Media{}, err
	}
	f := *m.file
	m.mu.Unlock()

	media, err := store.Upload(ctx, f.Kind, f.Name, bytes.NewReader(f.Data))
	if err == nil && media.URL == "" {
		err = errors.New("no url returned")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.err = fmt.Errorf("%w: %w", ErrUpload, err)
		_ = m.fire(EventFail)
		return models.Media{}, m.err
	}
	m.result = media
	_ = m.fire(EventSucceed)
	return media, nil
}

// Reset clears the selection.
func (m *Machine) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fire(EventReset); err != nil {
		return err
	}
	m.file = nil
	m.result = models.Media{}
	m.err = nil
	return nil
}

// Detect sniffs the content type of data, falling back to the file
// extension, and maps it to a media kind ("" when none applies).
func Detect(name string, data []byte) (string, models.MediaKind) {
	ct := mimetype.Detect(data).String()
	kind := kindOf(ct)
	if kind == "" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
			ct = byExt
			kind = kindOf(ct)
		}
	}
	return ct, kind
}

func kindOf(ct string) models.MediaKind {
	switch {
	case strings.HasPrefix(ct, "image/"):
		return models.MediaImage
	case strings.HasPrefix(ct, "audio/"):
		return models.MediaAudio
	case strings.HasPrefix(ct, "video/"):
		return models.MediaVideo
	}
	return ""
}
