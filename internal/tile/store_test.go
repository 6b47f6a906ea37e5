package tile

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/tilesmith/internal/board"
	"github.com/example/tilesmith/internal/editor"
	"github.com/example/tilesmith/internal/grid"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "tiles"))
	clock := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	sess, err := editor.New(4, editor.WithName("Grass Top"))
	if err != nil {
		t.Fatal(err)
	}
	if err := sess.PaintColor(1, 2, "#00ff00"); err != nil {
		t.Fatal(err)
	}
	sess.Shift(1, 0)

	tl := FromSession(sess)
	if err := s.Save(tl); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if tl.ID == "" || tl.CreatedAt.IsZero() || !tl.UpdatedAt.Equal(tl.CreatedAt) {
		t.Fatalf("save did not stamp the record: %+v", tl)
	}
	if _, err := os.Stat(filepath.Join(s.Dir, tl.ID+".json")); err != nil {
		t.Fatalf("tile file missing: %v", err)
	}

	got, err := s.Load(tl.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Name != "Grass Top" || got.Size != 4 || !got.Grid.Equal(tl.Grid) {
		t.Fatalf("loaded tile differs: %+v", got)
	}

	reopened, err := got.Session()
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Offset() != image.Pt(5, 4) {
		t.Fatalf("window position lost: %v", reopened.Offset())
	}
	reopened.Shift(-1, 0)
	if c, _ := reopened.Pixel(1, 2); c != "#00ff00" {
		t.Fatalf("pixel lost after reload: %q", c)
	}
}

func TestSaveKeepsCreatedAt(t *testing.T) {
	s := newTestStore(t)
	tl := &Tile{Name: "a", Size: 2, Grid: grid.Square(2, "#000000")}
	if err := s.Save(tl); err != nil {
		t.Fatal(err)
	}
	created := tl.CreatedAt
	if err := s.Save(tl); err != nil {
		t.Fatal(err)
	}
	if !tl.CreatedAt.Equal(created) || !tl.UpdatedAt.After(created) {
		t.Fatalf("timestamps wrong: created %v updated %v", tl.CreatedAt, tl.UpdatedAt)
	}
}

func TestGridOnlyTileLoadsCentred(t *testing.T) {
	tl := &Tile{ID: "plain", Name: "plain", Size: 2, Grid: grid.Grid{{"#ff0000", "#00ff00"}, {"#0000ff", "#ffffff"}}}
	b, err := tl.Restore()
	if err != nil {
		t.Fatal(err)
	}
	if b.Offset() != image.Pt(2, 2) || !b.Window().Equal(tl.Grid) {
		t.Fatalf("grid not loaded into centred window")
	}
}

func TestSaveRejectsMismatchedGrid(t *testing.T) {
	s := newTestStore(t)
	err := s.Save(&Tile{Name: "bad", Size: 3, Grid: grid.Square(2, "#000000")})
	if !errors.Is(err, board.ErrDimensionMismatch) {
		t.Fatalf("expected ErrDimensionMismatch, got %v", err)
	}
	err = s.Save(&Tile{ID: "../escape", Size: 1, Grid: grid.Square(1, "#000000")})
	if err == nil {
		t.Fatalf("expected error for path-like id")
	}
}

func TestListFindDelete(t *testing.T) {
	s := newTestStore(t)
	if tiles, err := s.List(); err != nil || len(tiles) != 0 {
		t.Fatalf("empty store: %v %v", tiles, err)
	}
	for _, name := range []string{"water", "Sand", "lava"} {
		if err := s.Save(&Tile{Name: name, Size: 1, Grid: grid.Square(1, "#000000")}); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(s.Dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}

	tiles, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, tl := range tiles {
		names = append(names, tl.Name)
	}
	if len(names) != 3 || names[0] != "Sand" || names[1] != "lava" || names[2] != "water" {
		t.Fatalf("unexpected order %v", names)
	}

	found, err := s.Find("SAND")
	if err != nil || found.Name != "Sand" {
		t.Fatalf("Find by name: %v %v", found, err)
	}
	if err := s.Delete(found.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Find(found.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(found.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Grass Top":    "grass-top",
		"  --x--  ":    "x",
		"Ünïcode 42!":  "n-code-42",
		"":             "",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUpdateKeepsIdentity(t *testing.T) {
	s := newTestStore(t)
	sess, err := editor.New(2, editor.WithName("door"))
	if err != nil {
		t.Fatal(err)
	}
	tl := FromSession(sess)
	tl.Animation = &Animation{Frames: []string{"a", "b"}, FPS: 4}
	if err := s.Save(tl); err != nil {
		t.Fatal(err)
	}
	id := tl.ID

	_ = sess.PaintColor(0, 0, "#ffffff")
	tl.Update(sess)
	if err := s.Save(tl); err != nil {
		t.Fatal(err)
	}
	got, err := s.Load(id)
	if err != nil {
		t.Fatal(err)
	}
	if got.Grid[0][0] != "#ffffff" || got.Animation == nil || got.Animation.FPS != 4 {
		t.Fatalf("update lost data: %+v", got)
	}
}
