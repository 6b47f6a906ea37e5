package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	input := `
# comment
Name: Test
Background: #112233
cursor: #01020380
Unknown: #FFFFFF
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "Test" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Background != (color.RGBA{0x11, 0x22, 0x33, 0xFF}) {
		t.Errorf("Background = %+v", th.Background)
	}
	if th.Cursor != (color.RGBA{1, 2, 3, 0x80}) {
		t.Errorf("Cursor = %+v", th.Cursor)
	}
	if th.CheckerDark != Default().CheckerDark {
		t.Errorf("unset field lost its default")
	}
}

func TestParseRejectsBadColor(t *testing.T) {
	_, err := Parse(strings.NewReader("Name: x\n\nBackground: glitter"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected error naming line 3, got %v", err)
	}
	if _, err := Parse(strings.NewReader("Background: #12345")); err == nil {
		t.Fatal("expected error for bad hex length")
	}
}

func TestParseAcceptsColourNames(t *testing.T) {
	th, err := Parse(strings.NewReader("Background: navy\nGridLine: rgb(1,2,3)"))
	if err != nil {
		t.Fatal(err)
	}
	if th.Background != (color.RGBA{0, 0, 0x80, 0xFF}) || th.GridLine != (color.RGBA{1, 2, 3, 0xFF}) {
		t.Fatalf("unexpected colours %+v %+v", th.Background, th.GridLine)
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	l := &Loader{}
	for _, name := range []string{"default", "dark", "high_contrast.theme"} {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("Load(%q): %v", name, err)
		}
		if th.Name == "" {
			t.Errorf("%s: missing name", name)
		}
	}
	if _, err := l.Load("does-not-exist"); err == nil {
		t.Fatal("expected error for unknown theme")
	}
}

func TestLoaderSearchesConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\nGridLine: #010203\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: dir}
	th, err := l.Load("mine")
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "Mine" || th.GridLine != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("unexpected theme %+v", th)
	}
	names := strings.Join(l.Available(), ",")
	if !strings.Contains(names, "dark") || !strings.HasSuffix(names, "mine") {
		t.Fatalf("Available() = %s", names)
	}
}

func TestHexRoundTrip(t *testing.T) {
	for _, f := range Default().Fields() {
		c, err := ParseColor(Hex(f.Color))
		if err != nil || c != f.Color {
			t.Errorf("%s: %s -> %+v, %v", f.Name, Hex(f.Color), c, err)
		}
	}
}
