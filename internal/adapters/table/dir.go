package table

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/okian/rapm/internal/domain/lineup"
	"github.com/okian/rapm/internal/domain/model"
)

// Default per-game file patterns, relative to the data directory.
const (
	DefaultEventsPattern      = "pbp/%s.csv"
	DefaultStartersPattern    = "starters/%s.csv"
	DefaultPossessionsPattern = "possessions/%s.csv"
)

// DirOption applies a configuration option to a Dir.
type DirOption func(*Dir)

// WithEventsPattern sets the play-by-play file pattern; %s is the game id.
func WithEventsPattern(p string) DirOption {
	return func(d *Dir) {
		if p != "" {
			d.events = p
		}
	}
}

// WithStartersPattern sets the period starters file pattern.
func WithStartersPattern(p string) DirOption {
	return func(d *Dir) {
		if p != "" {
			d.starters = p
		}
	}
}

// WithPossessionsPattern sets the possession table file pattern.
func WithPossessionsPattern(p string) DirOption {
	return func(d *Dir) {
		if p != "" {
			d.possessions = p
		}
	}
}

// Dir resolves per-game tables under a data directory.
type Dir struct {
	root        string
	events      string
	starters    string
	possessions string
}

// NewDir creates a Dir rooted at root.
func NewDir(root string, opts ...DirOption) *Dir {
	d := &Dir{
		root:        root,
		events:      DefaultEventsPattern,
		starters:    DefaultStartersPattern,
		possessions: DefaultPossessionsPattern,
	}

	// Apply all options
	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Path joins a relative name onto the data directory. Absolute names are kept.
func (d *Dir) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(d.root, name)
}

func (d *Dir) gamePath(pattern, gameID string) string {
	return d.Path(fmt.Sprintf(pattern, gameID))
}

// EventsPath returns the play-by-play file of a game.
func (d *Dir) EventsPath(gameID string) string { return d.gamePath(d.events, gameID) }

// StartersPath returns the period starters file of a game.
func (d *Dir) StartersPath(gameID string) string { return d.gamePath(d.starters, gameID) }

// PossessionsPath returns the possession table file of a game.
func (d *Dir) PossessionsPath(gameID string) string { return d.gamePath(d.possessions, gameID) }

// LoadEvents reads a game's play-by-play log.
func (d *Dir) LoadEvents(gameID string) ([]model.Event, error) {
	var events []model.Event
	err := ReadFile(d.EventsPath(gameID), func(r io.Reader) (err error) {
		events, err = ReadEvents(r)
		return err
	})
	return events, err
}

// LoadStarters reads a game's period starters.
func (d *Dir) LoadStarters(gameID string) ([]lineup.Starters, error) {
	var starters []lineup.Starters
	err := ReadFile(d.StartersPath(gameID), func(r io.Reader) (err error) {
		starters, err = ReadStarters(r)
		return err
	})
	return starters, err
}

// LoadPossessions reads a game's possession table.
func (d *Dir) LoadPossessions(gameID string) ([]model.Possession, error) {
	var ps []model.Possession
	err := ReadFile(d.PossessionsPath(gameID), func(r io.Reader) (err error) {
		ps, err = ReadPossessions(r)
		return err
	})
	return ps, err
}

// SavePossessions writes a game's possession table, creating directories as needed.
func (d *Dir) SavePossessions(gameID string, ps []model.Possession) error {
	return WriteFile(d.PossessionsPath(gameID), func(w io.Writer) error {
		return WritePossessions(w, ps)
	})
}

// ReadFile opens path and passes it to read.
func ReadFile(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := read(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// WriteFile creates path and its parent directories and passes the file to write.
func WriteFile(path string, write func(io.Writer) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}
