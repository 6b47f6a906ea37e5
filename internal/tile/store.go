package tile

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrNotFound is returned when no tile matches an id or name.
var ErrNotFound = errors.New("tile not found")

const ext = ".json"

// Store keeps one JSON file per tile in a directory.
type Store struct {
	Dir string
	now func() time.Time
}

// NewStore returns a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

func (s *Store) path(id string) string {
	return filepath.Join(s.Dir, id+ext)
}

// Save writes t, assigning an id and timestamps as needed.
func (s *Store) Save(t *Tile) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if t.ID == "" {
		id, err := newID(t.Name)
		if err != nil {
			return err
		}
		t.ID = id
	} else if !validID(t.ID) {
		return fmt.Errorf("invalid tile id %q", t.ID)
	}
	now := s.now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create tile dir: %w", err)
	}
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("encode tile %q: %w", t.ID, err)
	}
	tmp, err := os.CreateTemp(s.Dir, "."+t.ID+"-*")
	if err != nil {
		return fmt.Errorf("save tile %q: %w", t.ID, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("save tile %q: %w", t.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save tile %q: %w", t.ID, err)
	}
	if err := os.Rename(tmp.Name(), s.path(t.ID)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("save tile %q: %w", t.ID, err)
	}
	return nil
}

// Load reads the tile with the given id.
func (s *Store) Load(id string) (*Tile, error) {
	if !validID(id) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	data, err := os.ReadFile(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	var t Tile
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode tile %q: %w", id, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Find loads a tile by id, falling back to a case-insensitive name match.
func (s *Store) Find(ref string) (*Tile, error) {
	if t, err := s.Load(ref); err == nil {
		return t, nil
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	tiles, err := s.List()
	if err != nil {
		return nil, err
	}
	for _, t := range tiles {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, ref)
}

// List returns every readable tile sorted by name then id. Files that fail
// to decode are reported on stderr and skipped.
func (s *Store) List() ([]*Tile, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var tiles []*Tile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ext) {
			continue
		}
		t, err := s.Load(strings.TrimSuffix(name, ext))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", name, err)
			continue
		}
		tiles = append(tiles, t)
	}
	sort.Slice(tiles, func(i, j int) bool {
		if tiles[i].Name != tiles[j].Name {
			return tiles[i].Name < tiles[j].Name
		}
		return tiles[i].ID < tiles[j].ID
	})
	return tiles, nil
}

// Delete removes the tile with the given id.
func (s *Store) Delete(id string) error {
	if !validID(id) {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	err := os.Remove(s.path(id))
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return err
}

func newID(name string) (string, error) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("generate tile id: %w", err)
	}
	suffix := hex.EncodeToString(buf[:])
	if slug := slugify(name); slug != "" {
		return slug + "-" + suffix, nil
	}
	return "tile-" + suffix, nil
}

func slugify(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		case sb.Len() > 0 && !dash:
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// validID keeps ids inside the store directory.
func validID(id string) bool {
	if id == "" || strings.HasPrefix(id, ".") {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && id != ".."
}
