// Package appstate is the graphical tile editor built on shiny.
package appstate

import (
	"context"
	"image"
	"image/draw"
	"log"
	"sync"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/grid"
	"github.com/example/tilesmith/internal/notify"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/theme"
	"github.com/example/tilesmith/internal/tile"
)

const (
	defaultWidth  = 720
	defaultHeight = 560
)

// AppState holds application configuration for the UI.
type AppState struct {
	Session  *editor.Session
	Store    *tile.Store
	Record   *tile.Tile
	Theme    *theme.Theme
	Notifier *notify.Notifier
	Width    int
	Height   int

	updateCh chan struct{}

	onClose   func()
	closeOnce sync.Once
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithSession sets the session being edited.
func WithSession(s *editor.Session) Option { return func(a *AppState) { a.Session = s } }

// WithStore sets where ctrl+s saves the tile.
func WithStore(s *tile.Store) Option { return func(a *AppState) { a.Store = s } }

// WithRecord sets the stored tile the session was opened from so saves
// overwrite it.
func WithRecord(t *tile.Tile) Option { return func(a *AppState) { a.Record = t } }

// WithTheme sets the UI colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.Theme = t } }

// WithNotifier sets the desktop notifier used on save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.Notifier = n } }

// WithSize sets the initial window size in pixels.
func WithSize(w, h int) Option { return func(a *AppState) { a.Width, a.Height = w, h } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		Theme:    theme.Default(),
		Width:    defaultWidth,
		Height:   defaultHeight,
		updateCh: make(chan struct{}, 1),
	}
	for _, o := range opts {
		o(a)
	}
	if a.Session == nil {
		s, err := editor.New(16)
		if err != nil {
			panic(err)
		}
		a.Session = s
	}
	return a
}

// NotifyChanged requests a repaint after the session was edited from
// outside the UI.
func (a *AppState) NotifyChanged() {
	select {
	case a.updateCh <- struct{}{}:
	default:
	}
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// paintState is an immutable snapshot handed to the paint goroutine.
type paintState struct {
	layout   layout
	window   grid.Grid
	virtual  grid.Grid
	offset   image.Point
	tool     Tool
	color    palette.Color
	hover    image.Point
	hoverOK  bool
	dragging bool
	drag     image.Rectangle
	status   string
}

func (c *controller) snapshot() paintState {
	b := c.session.Board()
	return paintState{
		layout:   c.layout,
		window:   b.Window(),
		virtual:  b.VirtualGrid(),
		offset:   b.Offset(),
		tool:     c.tool,
		color:    c.session.Color,
		hover:    c.hover,
		hoverOK:  c.hoverOK,
		dragging: c.dragging,
		drag:     c.drag,
		status:   c.status(),
	}
}

// Main runs the event loop on an existing screen.
func (a *AppState) Main(s screen.Screen) {
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: a.Width, Height: a.Height, Title: "tilesmith"})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer w.Release()
	defer a.notifyClose()

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-a.updateCh:
				w.Send(paint.Event{})
			case <-done:
				return
			}
		}
	}()

	ctl := newController(a.Session, a.Store, a.Record, a.Notifier)
	ctl.layout = newLayout(a.Width, a.Height, a.Session.TileSize())
	th := a.Theme

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, w, th, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	for {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			ctl.layout = newLayout(e.WidthPx, e.HeightPx, a.Session.TileSize())
			w.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			queueFrame(paintCh, ctl.snapshot())
		case key.Event:
			if ctl.key(e) {
				w.Send(paint.Event{})
			}
		case mouse.Event:
			if ctl.pointer(e) {
				w.Send(paint.Event{})
			}
		case error:
			log.Print(e)
		}
	}
}

// queueFrame replaces any frame still waiting in ch with st. It never blocks
// as long as the event loop is the only sender.
func queueFrame(ch chan paintState, st paintState) {
	for {
		select {
		case ch <- st:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, th *theme.Theme, st paintState) {
	l := st.layout
	b, err := s.NewBuffer(image.Pt(l.width, l.height))
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	dst := b.RGBA()
	draw.Draw(dst, dst.Bounds(), image.NewUniform(th.Background), image.Point{}, draw.Src)
	drawCanvas(dst, l, th, st)
	if ctx.Err() != nil {
		return
	}
	drawToolbar(dst, l, th, st)
	drawMinimap(dst, l, th, st)
	drawStatus(dst, l, th, st)
	if ctx.Err() != nil {
		return
	}

	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
