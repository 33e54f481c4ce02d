// Package archive persists analysis runs as JSON files.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KaramelBytes/salesloom-cli/internal/sales"
	"github.com/KaramelBytes/salesloom-cli/internal/utils"
	"github.com/google/uuid"
)

const entryExt = ".json"

// ErrNotFound is returned when no saved run matches an id.
var ErrNotFound = errors.New("report not found")

// Entry is one saved analysis run.
type Entry struct {
	ID        string        `json:"id"`
	Source    string        `json:"source"`
	CreatedAt time.Time     `json:"created_at"`
	Report    *sales.Report `json:"report"`
}

// Store keeps entries in a directory, one file per run.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on first save.
func NewStore(dir string) *Store { return &Store{dir: dir} }

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Save writes a new entry for rep and returns it.
func (s *Store) Save(source string, rep *sales.Report) (*Entry, error) {
	if rep == nil {
		return nil, errors.New("report is nil")
	}
	if err := utils.EnsureDir(s.dir); err != nil {
		return nil, fmt.Errorf("ensure reports dir: %w", err)
	}
	e := &Entry{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Report:    rep,
	}
	data, err := utils.PrettyJSON(e)
	if err != nil {
		return nil, err
	}
	if err := utils.SafeWriteFile(filepath.Join(s.dir, e.ID+entryExt), data); err != nil {
		return nil, err
	}
	return e, nil
}

// Load reads the entry with the given id. A unique id prefix is accepted.
func (s *Store) Load(id string) (*Entry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	if _, err := uuid.Parse(id); err != nil {
		full, err := s.resolvePrefix(id)
		if err != nil {
			return nil, err
		}
		id = full
	}
	return readEntry(filepath.Join(s.dir, id+entryExt))
}

// List returns all entries, newest first.
func (s *Store) List() ([]*Entry, error) {
	ids, err := s.ids()
	if err != nil {
		return nil, err
	}
	out := make([]*Entry, 0, len(ids))
	for _, id := range ids {
		e, err := readEntry(filepath.Join(s.dir, id+entryExt))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) ids() ([]string, error) {
	ents, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reports dir: %w", err)
	}
	var ids []string
	for _, de := range ents {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, entryExt) {
			continue
		}
		id := strings.TrimSuffix(name, entryExt)
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) resolvePrefix(prefix string) (string, error) {
	ids, err := s.ids()
	if err != nil {
		return "", err
	}
	var match []string
	for _, id := range ids {
		if strings.HasPrefix(id, prefix) {
			match = append(match, id)
		}
	}
	switch len(match) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return match[0], nil
	default:
		return "", fmt.Errorf("ambiguous report id %q matches %d reports", prefix, len(match))
	}
}

func readEntry(path string) (*Entry, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSuffix(filepath.Base(path), entryExt))
		}
		return nil, fmt.Errorf("read report: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(b, &e); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", filepath.Base(path), err)
	}
	return &e, nil
}
