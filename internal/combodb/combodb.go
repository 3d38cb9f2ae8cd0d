// Package combodb loads the known-combo database from a JSON file and keeps
// it fresh by watching the file for changes.
package combodb

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Combo is one known card combination.
type Combo struct {
	// Cards are the names required for the combo (2 or more).
	Cards []string `json:"cards"`
	// Result describes what the combo does.
	Result string `json:"result"`
	// DeckCount is how many decks upstream run the full combo; used for
	// popularity ordering.
	DeckCount int `json:"deck_count"`
	// Bracket is the coarse power tier the combo belongs to.
	Bracket int `json:"bracket,omitempty"`
}

// Database holds the loaded combos. Reads are safe during background reloads.
type Database struct {
	mu     sync.RWMutex
	combos []Combo

	watcher *fsnotify.Watcher
	done    chan struct{}
	logger  *slog.Logger
}

// New creates an empty database.
func New(logger *slog.Logger) *Database {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Database{logger: logger}
}

// Load replaces the database contents from a JSON file of []Combo. Entries
// with fewer than two cards are dropped.
func (d *Database) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read combo file: %w", err)
	}

	var raw []Combo
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse combo file: %w", err)
	}

	combos := make([]Combo, 0, len(raw))
	for _, combo := range raw {
		if len(combo.Cards) < 2 {
			continue
		}
		combos = append(combos, combo)
	}

	// Popularity order so detection output needs no re-sort for display.
	sort.SliceStable(combos, func(i, j int) bool {
		return combos[i].DeckCount > combos[j].DeckCount
	})

	d.mu.Lock()
	d.combos = combos
	d.mu.Unlock()

	d.logger.Info("combo database loaded", "path", path, "combos", len(combos))
	return nil
}

// SetCombos replaces the contents directly. Tests use this.
func (d *Database) SetCombos(combos []Combo) {
	d.mu.Lock()
	d.combos = combos
	d.mu.Unlock()
}

// Combos returns a snapshot of the loaded combos.
func (d *Database) Combos() []Combo {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snapshot := make([]Combo, len(d.combos))
	copy(snapshot, d.combos)
	return snapshot
}

// Len returns the number of loaded combos.
func (d *Database) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.combos)
}

// Watch reloads the database whenever the file changes. Call Close to stop
// watching.
func (d *Database) Watch(path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory: editors replace files rather than writing in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch combo directory: %w", err)
	}

	d.watcher = watcher
	d.done = make(chan struct{})

	go func() {
		base := filepath.Base(path)
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != base {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := d.Load(path); err != nil {
					d.logger.Warn("combo database reload failed", "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.logger.Warn("combo database watcher error", "error", err)
			case <-d.done:
				return
			}
		}
	}()

	return nil
}

// Close stops the file watcher, if any.
func (d *Database) Close() error {
	if d.done != nil {
		close(d.done)
		d.done = nil
	}
	if d.watcher != nil {
		err := d.watcher.Close()
		d.watcher = nil
		return err
	}
	return nil
}

// NormalizeName canonicalizes a card name for combo matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
