// Package history provides the implementation for tracking and persisting playback progress per item.
package history

import (
	"time"

	"github.com/metafates/gache"
	"github.com/streamfin/streamfin/filesystem"
	"github.com/streamfin/streamfin/media"
	"github.com/streamfin/streamfin/where"
)

// Entry is one persisted playback progress record.
type Entry struct {
	ItemID    string    `json:"item_id"`
	Name      string    `json:"name"`
	Seconds   float64   `json:"seconds"`
	UpdatedAt time.Time `json:"updated_at"`
}

// cacher provides an abstracted, disk-backed registry for playback progress records.
var cacher = gache.New[map[string]*Entry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of progress records from the persistent store.
func Get() (map[string]*Entry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Entry), nil
	}
	return cached, nil
}

// Position returns the saved playback position for an item, or 0 when none exists.
func Position(itemID string) (float64, error) {
	saved, err := Get()
	if err != nil {
		return 0, err
	}
	entry, ok := saved[itemID]
	if !ok {
		return 0, nil
	}
	return entry.Seconds, nil
}

// Save persists the playback position of an item.
// Idempotency: the furthest observed position wins, preventing regressions when
// a stale report arrives after a newer one.
func Save(item *media.Item, seconds float64) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	if existing, exists := saved[item.ID]; exists && seconds < existing.Seconds {
		seconds = existing.Seconds
	}

	saved[item.ID] = &Entry{
		ItemID:    item.ID,
		Name:      item.Name,
		Seconds:   seconds,
		UpdatedAt: time.Now(),
	}

	return cacher.Set(saved)
}

// Remove permanently deletes an item's progress record.
func Remove(itemID string) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, itemID)
	return cacher.Set(saved)
}
