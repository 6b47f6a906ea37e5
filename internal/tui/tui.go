// Package tui is the terminal tile editor built on bubbletea.
package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	tileclip "github.com/example/tilesmith/internal/clipboard"
	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/fill"
	"github.com/example/tilesmith/internal/notify"
	"github.com/example/tilesmith/internal/palette"
	"github.com/example/tilesmith/internal/render"
	"github.com/example/tilesmith/internal/theme"
	"github.com/example/tilesmith/internal/tile"
)

// Terminal clipboard access goes through xclip, xsel, wl-copy or pbcopy so
// it also works over ssh without an X connection. Swapped out in tests.
var (
	writeClipboard = clipboard.WriteAll
	readClipboard  = clipboard.ReadAll
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	statusStyle  = lipgloss.NewStyle().Faint(true)
	messageStyle = lipgloss.NewStyle().Italic(true)
)

// Model is the bubbletea model of the terminal editor.
type Model struct {
	session  *editor.Session
	store    *tile.Store
	record   *tile.Tile
	notifier *notify.Notifier
	theme    *theme.Theme

	cursor image.Point
	width  int
	height int

	prompt    bool
	input     string
	message   string
	help      bool
	quitArmed bool
}

// Option configures a Model.
type Option func(*Model)

// WithStore sets where ctrl+s saves.
func WithStore(s *tile.Store) Option { return func(m *Model) { m.store = s } }

// WithRecord sets the stored tile being edited.
func WithRecord(t *tile.Tile) Option { return func(m *Model) { m.record = t } }

// WithNotifier sets the desktop notifier used on save.
func WithNotifier(n *notify.Notifier) Option { return func(m *Model) { m.notifier = n } }

// WithTheme sets the checkerboard and cursor colours.
func WithTheme(t *theme.Theme) Option { return func(m *Model) { m.theme = t } }

// New returns a model editing s.
func New(s *editor.Session, opts ...Option) Model {
	m := Model{session: s, theme: theme.Default()}
	for _, o := range opts {
		o(&m)
	}
	return m
}

// Run starts the program on the terminal and blocks until it exits.
func Run(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

// Session returns the session being edited.
func (m Model) Session() *editor.Session { return m.session }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.prompt {
			return m.updatePrompt(msg)
		}
		if m.help {
			m.help = false
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEscape, tea.KeyCtrlC:
		m.prompt, m.input = false, ""
	case tea.KeyEnter:
		m.prompt = false
		line := strings.TrimSpace(m.input)
		m.input = ""
		if line == "" {
			return m, nil
		}
		if err := m.session.ExecLine(line); err != nil {
			m.message = err.Error()
		} else {
			m.message = line
		}
		m.clampCursor()
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	k := msg.String()
	if k != "q" && k != "ctrl+c" {
		m.quitArmed = false
	}
	m.message = ""

	report := func(err error) {
		if err != nil {
			m.message = err.Error()
		}
	}

	switch k {
	case "q", "ctrl+c":
		if s.Dirty() && !m.quitArmed {
			m.quitArmed = true
			m.message = "unsaved changes, press q again to quit"
			return m, nil
		}
		return m, tea.Quit
	case "?":
		m.help = true
	case ":":
		m.prompt, m.input = true, ""
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "shift+left", "H":
		s.Shift(-1, 0)
	case "shift+right", "L":
		s.Shift(1, 0)
	case "shift+up", "K":
		s.Shift(0, -1)
	case "shift+down", "J":
		s.Shift(0, 1)
	case "c":
		s.Center()
	case " ", "enter":
		report(s.Paint(m.cursor.X, m.cursor.Y))
	case "x", "delete":
		report(s.Erase(m.cursor.X, m.cursor.Y))
	case "f":
		report(s.Fill(m.cursor.X, m.cursor.Y))
	case "F":
		report(s.FillColor(m.cursor.X, m.cursor.Y, s.Color, fill.Eight))
	case "b":
		report(s.Brush(m.cursor.X, m.cursor.Y))
	case "i":
		if c, err := s.Pixel(m.cursor.X, m.cursor.Y); err == nil && !c.IsTransparent() {
			s.Color = c
		}
	case "r":
		report(s.RotateCW())
	case "R":
		report(s.RotateCCW())
	case "|":
		report(s.FlipHorizontal())
	case "-":
		report(s.FlipVertical())
	case "g":
		if s.Connectivity == fill.Four {
			s.Connectivity = fill.Eight
		} else {
			s.Connectivity = fill.Four
		}
	case "]":
		m.cycleColor(1)
	case "[":
		m.cycleColor(-1)
	case "u", "ctrl+z":
		if !s.Undo() {
			m.message = "nothing to undo"
		}
	case "ctrl+r", "ctrl+y":
		if !s.Redo() {
			m.message = "nothing to redo"
		}
	case "ctrl+s":
		m.save()
	case "y":
		m.yank()
	case "p":
		m.put()
	}
	return m, nil
}

func (m *Model) moveCursor(dx, dy int) {
	m.cursor = m.cursor.Add(image.Pt(dx, dy))
	m.clampCursor()
}

func (m *Model) clampCursor() {
	n := m.session.TileSize()
	m.cursor.X = max(0, min(m.cursor.X, n-1))
	m.cursor.Y = max(0, min(m.cursor.Y, n-1))
}

func (m *Model) cycleColor(step int) {
	pal := palette.Palette()
	idx := 0
	for i, pc := range pal {
		if pc.Color == m.session.Color {
			idx = i
			break
		}
	}
	m.session.Color = pal[(idx+step+len(pal))%len(pal)].Color
}

func (m *Model) save() {
	if m.store == nil {
		m.message = "no tile store configured"
		return
	}
	if m.record == nil {
		m.record = tile.FromSession(m.session)
	} else {
		m.record.Update(m.session)
	}
	if err := m.store.Save(m.record); err != nil {
		m.message = fmt.Sprintf("save: %v", err)
		return
	}
	m.session.MarkSaved()
	m.message = "saved " + m.record.ID
	m.notifier.Save(m.record.Name, m.record.Grid)
}

func (m *Model) yank() {
	text, err := tileclip.EncodeGrid(m.session.Window())
	if err == nil {
		err = writeClipboard(text)
	}
	if err != nil {
		m.message = fmt.Sprintf("copy: %v", err)
		return
	}
	m.message = "tile copied"
}

func (m *Model) put() {
	text, err := readClipboard()
	if err != nil {
		m.message = fmt.Sprintf("paste: %v", err)
		return
	}
	g, err := tileclip.DecodeGrid(text)
	if err == nil {
		err = m.session.LoadWindow(g)
	}
	if err != nil {
		m.message = fmt.Sprintf("paste: %v", err)
		return
	}
	m.message = "tile pasted"
}

const helpText = `arrows/hjkl  move cursor      shift+arrows/HJKL  pan window   c  centre
space/enter  paint            x  erase     f  fill   F  8-way fill   b  brush
i  pick colour   [ ]  cycle palette   g  toggle 4/8-way fill
r/R  rotate cw/ccw   |  flip horizontal   -  flip vertical
u/ctrl+z  undo   ctrl+r/ctrl+y  redo   ctrl+s  save   y/p  copy/paste
:  command prompt (paint X Y, fill X Y, shift DX DY, ...)   q  quit`

func (m Model) View() string {
	if m.help {
		return titleStyle.Render("tilesmith keys") + "\n\n" + helpText + "\n\n" +
			statusStyle.Render("commands: "+strings.Join(editor.Commands(), ", ")) + "\n"
	}
	s := m.session
	var sb strings.Builder
	name := s.Name
	if name == "" {
		name = "untitled"
	}
	if s.Dirty() {
		name += " [+]"
	}
	sb.WriteString(titleStyle.Render(name))
	sb.WriteString("  ")
	sb.WriteString(render.Swatch(s.Color, string(s.Color)))
	sb.WriteString("\n\n")
	sb.WriteString(render.Terminal(s.Window(), m.cursor, m.theme))
	sb.WriteString("\n\n")

	px, _ := s.Pixel(m.cursor.X, m.cursor.Y)
	off := s.Offset()
	sb.WriteString(statusStyle.Render(fmt.Sprintf("(%d,%d) %s  window @%d,%d  %s fill  strength %.2f  ? help",
		m.cursor.X, m.cursor.Y, px, off.X, off.Y, s.Connectivity, s.Strength)))
	sb.WriteString("\n")
	switch {
	case m.prompt:
		sb.WriteString(":" + m.input + "█")
	case m.message != "":
		sb.WriteString(messageStyle.Render(m.message))
	}
	return sb.String()
}
