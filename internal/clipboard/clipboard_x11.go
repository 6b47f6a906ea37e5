//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// readTimeout bounds how long a paste waits for the selection owner.
const readTimeout = 2 * time.Second

var (
	initOnce sync.Once
	initErr  error
	owner    *selectionOwner

	errNoTarget = errors.New("clipboard target unavailable")
)

func ensureInit() error {
	initOnce.Do(func() {
		if !hasDisplay() {
			initErr = errNoDisplay
			return
		}
		owner, initErr = newSelectionOwner()
	})
	return initErr
}

// WriteImage encodes the provided image as PNG and publishes it to the clipboard.
func WriteImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	return owner.publish(owner.atoms[atomPNG], data)
}

// ReadImage retrieves PNG image data from the clipboard and decodes it.
func ReadImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := owner.read(owner.atoms[atomPNG])
	if err != nil {
		return nil, err
	}
	return decodePNG(data)
}

// WriteText writes text data to the clipboard.
func WriteText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return owner.publish(owner.atoms[atomUTF8], []byte(text))
}

// ReadText returns UTF-8 text data from the clipboard.
func ReadText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	data, err := owner.read(owner.atoms[atomUTF8])
	if err != nil {
		if data, err = owner.read(xproto.AtomString); err != nil {
			return "", err
		}
	}
	// Some owners include a trailing NUL in STRING replies.
	for len(data) > 0 && data[len(data)-1] == 0 {
		data = data[:len(data)-1]
	}
	if len(data) == 0 {
		return "", errNoText
	}
	return string(data), nil
}

const (
	atomClipboard = "CLIPBOARD"
	atomTargets   = "TARGETS"
	atomUTF8      = "UTF8_STRING"
	atomTextPlain = "text/plain;charset=utf-8"
	atomPNG       = "image/png"
	atomProperty  = "TILESMITH_CLIPBOARD"
)

// selectionOwner keeps a hidden window that owns CLIPBOARD while tilesmith
// has something copied, and answers requests from other clients.
type selectionOwner struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  map[string]xproto.Atom

	mu      sync.RWMutex
	kind    xproto.Atom // atomUTF8 or atomPNG while data is held
	payload []byte
}

func newSelectionOwner() (*selectionOwner, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	atoms, err := internAtoms(conn, atomClipboard, atomTargets, atomUTF8, atomTextPlain, atomPNG, atomProperty)
	if err != nil {
		conn.Close()
		return nil, err
	}
	window, err := createWindow(conn, xproto.EventMaskPropertyChange|xproto.EventMaskStructureNotify)
	if err != nil {
		conn.Close()
		return nil, err
	}
	o := &selectionOwner{conn: conn, window: window, atoms: atoms}
	go o.serve()
	return o, nil
}

func internAtoms(conn *xgb.Conn, names ...string) (map[string]xproto.Atom, error) {
	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, name := range names {
		cookies[i] = xproto.InternAtom(conn, false, uint16(len(name)), name)
	}
	atoms := make(map[string]xproto.Atom, len(names))
	for i, c := range cookies {
		reply, err := c.Reply()
		if err != nil {
			return nil, fmt.Errorf("intern atom %s: %w", names[i], err)
		}
		atoms[names[i]] = reply.Atom
	}
	return atoms, nil
}

func createWindow(conn *xgb.Conn, mask uint32) (xproto.Window, error) {
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return 0, err
	}
	err = xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{mask}).Check()
	if err != nil {
		return 0, err
	}
	return window, nil
}

func (o *selectionOwner) publish(kind xproto.Atom, data []byte) error {
	o.mu.Lock()
	o.kind = kind
	o.payload = append([]byte(nil), data...)
	o.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(o.conn, o.window, o.atoms[atomClipboard], xproto.TimeCurrentTime).Check()
}

func (o *selectionOwner) serve() {
	for {
		ev, err := o.conn.WaitForEvent()
		if ev == nil && err == nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			o.answer(e)
		case xproto.SelectionClearEvent:
			o.mu.Lock()
			o.kind, o.payload = 0, nil
			o.mu.Unlock()
		}
	}
}

// targets lists what the held data can be converted to.
func (o *selectionOwner) targets(kind xproto.Atom) []xproto.Atom {
	out := []xproto.Atom{o.atoms[atomTargets]}
	switch kind {
	case o.atoms[atomUTF8]:
		out = append(out, o.atoms[atomUTF8], xproto.AtomString, o.atoms[atomTextPlain])
	case o.atoms[atomPNG]:
		out = append(out, o.atoms[atomPNG])
	}
	return out
}

func (o *selectionOwner) answer(e xproto.SelectionRequestEvent) {
	o.mu.RLock()
	kind, payload := o.kind, o.payload
	o.mu.RUnlock()

	property := e.Property
	if property == xproto.AtomNone {
		property = e.Target
	}

	var (
		typ    xproto.Atom
		format byte = 8
		data   []byte
	)
	isText := kind == o.atoms[atomUTF8]
	switch {
	case e.Target == o.atoms[atomTargets]:
		list := o.targets(kind)
		data = make([]byte, 4*len(list))
		for i, a := range list {
			xgb.Put32(data[4*i:], uint32(a))
		}
		typ, format = xproto.AtomAtom, 32
	case isText && (e.Target == o.atoms[atomUTF8] || e.Target == xproto.AtomString || e.Target == o.atoms[atomTextPlain]):
		typ, data = e.Target, payload
	case kind == o.atoms[atomPNG] && e.Target == o.atoms[atomPNG]:
		typ, data = e.Target, payload
	default:
		property = xproto.AtomNone
	}

	if property != xproto.AtomNone {
		units := uint32(len(data))
		if format == 32 {
			units /= 4
		}
		xproto.ChangeProperty(o.conn, xproto.PropModeReplace, e.Requestor, property, typ, format, units, data)
	}
	reply := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  property,
	}
	xproto.SendEvent(o.conn, false, e.Requestor, 0, string(reply.Bytes()))
}

// read asks the current owner to convert CLIPBOARD to target. It uses its
// own connection so it does not race with serve for events.
func (o *selectionOwner) read(target xproto.Atom) ([]byte, error) {
	o.mu.RLock()
	kind, payload := o.kind, o.payload
	o.mu.RUnlock()
	if kind != 0 && (kind == target || (kind == o.atoms[atomUTF8] && target == xproto.AtomString)) {
		return append([]byte(nil), payload...), nil
	}

	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	window, err := createWindow(conn, xproto.EventMaskPropertyChange)
	if err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	prop := o.atoms[atomProperty]
	if err := xproto.ConvertSelectionChecked(conn, window, o.atoms[atomClipboard], target, prop, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}

	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)
	go func() {
		for {
			ev, err := conn.WaitForEvent()
			if ev == nil && err == nil {
				done <- result{err: errNoTarget}
				return
			}
			e, ok := ev.(xproto.SelectionNotifyEvent)
			if !ok {
				continue
			}
			if e.Property == xproto.AtomNone {
				done <- result{err: errNoTarget}
				return
			}
			reply, perr := xproto.GetProperty(conn, true, window, prop, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
			if perr != nil {
				done <- result{err: perr}
				return
			}
			done <- result{data: append([]byte(nil), reply.Value...)}
			return
		}
	}()

	select {
	case r := <-done:
		return r.data, r.err
	case <-time.After(readTimeout):
		return nil, fmt.Errorf("clipboard owner did not answer within %s", readTimeout)
	}
}
