// Package notify sends desktop notifications when tiles are saved, exported
// or copied.
package notify

import (
	"bytes"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/platform"
	"github.com/example/tilesmith/internal/render"
)

// Event identifies a notification trigger.
type Event string

const (
	EventSave   Event = "save"
	EventExport Event = "export"
	EventCopy   Event = "copy"
)

// previewScale is the cell size of the tile preview used as the icon of
// save notifications.
const previewScale = 8

// send is swapped out in tests.
var send = platform.Notify

var defaultMessages = map[Event]string{
	EventSave:   "Saved {{.Name}}{{if .Size}} ({{.Size}}x{{.Size}}){{end}}",
	EventExport: "Exported {{.Path}}",
	EventCopy:   "Copied {{.Name}} to the clipboard",
}

// Message is the data available to notification templates.
type Message struct {
	Name string
	Size int
	Path string
}

// Notifier formats and sends notifications for the events that are enabled.
// A nil Notifier is valid and silent.
type Notifier struct {
	title    string
	messages map[Event]*template.Template
	enabled  map[Event]bool
}

// Option configures a Notifier.
type Option func(*Notifier)

// WithTitle sets the notification title.
func WithTitle(title string) Option {
	return func(n *Notifier) { n.title = title }
}

// WithMessage replaces the body template of event. Templates see a Message.
// An unparsable template is reported and the default is kept.
func WithMessage(event Event, text string) Option {
	return func(n *Notifier) {
		t, err := template.New(string(event)).Parse(text)
		if err != nil {
			log.Printf("notification template %s: %v", event, err)
			return
		}
		n.messages[event] = t
	}
}

// WithEvents enables the given events.
func WithEvents(events ...Event) Option {
	return func(n *Notifier) {
		for _, e := range events {
			n.enabled[e] = true
		}
	}
}

// FromEnvironment reads TILESMITH_NOTIFY_TITLE and the per event
// TILESMITH_NOTIFY_{SAVE,EXPORT,COPY}_TEXT templates.
func FromEnvironment() []Option {
	var opts []Option
	if v := strings.TrimSpace(os.Getenv("TILESMITH_NOTIFY_TITLE")); v != "" {
		opts = append(opts, WithTitle(v))
	}
	for _, e := range []Event{EventSave, EventExport, EventCopy} {
		key := "TILESMITH_NOTIFY_" + strings.ToUpper(string(e)) + "_TEXT"
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			opts = append(opts, WithMessage(e, v))
		}
	}
	return opts
}

// New returns a Notifier with every event disabled unless enabled by opts.
func New(opts ...Option) *Notifier {
	n := &Notifier{
		title:    platform.AppName,
		messages: make(map[Event]*template.Template, len(defaultMessages)),
		enabled:  make(map[Event]bool),
	}
	for e, text := range defaultMessages {
		n.messages[e] = template.Must(template.New(string(e)).Parse(text))
	}
	for _, o := range opts {
		o(n)
	}
	return n
}

// Enable toggles the notifier for the provided event.
func (n *Notifier) Enable(event Event, enabled bool) {
	if n == nil {
		return
	}
	n.enabled[event] = enabled
}

// Save announces a stored tile with a scaled preview of g as the icon.
func (n *Notifier) Save(name string, g grid.Grid) {
	if !n.on(EventSave) {
		return
	}
	var opts platform.Options
	if len(g) > 0 {
		icon, err := writePreview(g)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer removePreview(icon)
			opts.IconPath = icon
		}
	}
	n.emit(EventSave, Message{Name: orUntitled(name), Size: g.Height()}, opts)
}

// Export announces a written image file and shows it as the icon.
func (n *Notifier) Export(path string) {
	if !n.on(EventExport) {
		return
	}
	var opts platform.Options
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if _, err := os.Stat(path); err == nil {
		opts.IconPath = path
	}
	n.emit(EventExport, Message{Path: path, Name: filepath.Base(path)}, opts)
}

// Copy announces that the named tile was placed on the clipboard.
func (n *Notifier) Copy(name string) {
	if !n.on(EventCopy) {
		return
	}
	if strings.TrimSpace(name) == "" {
		name = "tile"
	}
	n.emit(EventCopy, Message{Name: name}, platform.Options{})
}

func (n *Notifier) on(event Event) bool {
	return n != nil && n.enabled[event]
}

func (n *Notifier) emit(event Event, msg Message, opts platform.Options) {
	t := n.messages[event]
	if t == nil {
		return
	}
	var body bytes.Buffer
	if err := t.Execute(&body, msg); err != nil {
		log.Printf("notification %s: %v", event, err)
		return
	}
	text := strings.TrimSpace(body.String())
	if text == "" {
		return
	}
	if err := send(n.title, text, opts); err != nil {
		log.Printf("notification %s: %v", event, err)
	}
}

func orUntitled(name string) string {
	if strings.TrimSpace(name) == "" {
		return "(untitled)"
	}
	return name
}

func writePreview(g grid.Grid) (string, error) {
	f, err := os.CreateTemp("", "tilesmith-preview-*.png")
	if err != nil {
		return "", err
	}
	encErr := png.Encode(f, render.Image(g, previewScale, nil))
	closeErr := f.Close()
	if encErr == nil {
		encErr = closeErr
	}
	if encErr != nil {
		removePreview(f.Name())
		return "", encErr
	}
	return f.Name(), nil
}

func removePreview(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("remove preview: %v", err)
	}
}
