// Package favorites maintains the visitor's favorite-dish list for kiosk
// installations, mirrored to a single JSON file the same way the web
// storefront mirrors it to browser storage.  The list is device-local state:
// it is never synchronized with the server.
package favorites

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/fenui/festival-menu-api/internal/repository"
)

// Favorite is a snapshot of a dish at the moment it was favorited.  The
// snapshot deliberately copies name, price and country so the list still
// renders if the dish is later edited or removed.
type Favorite struct {
	ID          uint64    `json:"id"`
	Name        string    `json:"name"`
	Price       string    `json:"price"`
	CountryName string    `json:"countryName"`
	CountryFlag string    `json:"countryFlag"`
	Category    string    `json:"category"`
	AddedAt     time.Time `json:"addedAt"`
}

// Stats summarizes the list: total entries, per-category and per-country
// counts (only present keys appear) and the summed value of parsed prices.
type Stats struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
	ByCountry  map[string]int `json:"byCountry"`
	TotalValue float64        `json:"totalValue"`
}

// Store is a bounded, deduplicated favorites list persisted to a single file.
// Every mutation rewrites the whole file; a failed write is logged and the
// in-memory state kept, so the worst case after a crash is a stale file, not
// a corrupted one.  Safe for concurrent use.
type Store struct {
	mu   sync.Mutex
	path string
	list []Favorite
}

// Load opens (or initializes) the store at path.  A missing file starts an
// empty list; an unreadable or malformed file is discarded and replaced with
// an empty list rather than failing, matching how the storefront treats a
// corrupted browser-storage entry.
func Load(path string) *Store {
	s := &Store{path: path, list: []Favorite{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("favorites: read %s: %v; resetting", path, err)
			_ = os.Remove(path)
		}
		return s
	}
	var list []Favorite
	if err := json.Unmarshal(raw, &list); err != nil || list == nil {
		log.Printf("favorites: malformed data in %s; resetting", path)
		_ = os.Remove(path)
		return s
	}
	s.list = list
	return s
}

// persist rewrites the whole list to disk.  Called with the lock held.
func (s *Store) persist() {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("favorites: mkdir %s: %v", dir, err)
			return
		}
	}
	raw, err := json.Marshal(s.list)
	if err != nil {
		log.Printf("favorites: marshal: %v", err)
		return
	}
	if err := os.WriteFile(s.path, raw, 0o644); err != nil {
		// No rollback: in-memory state stays ahead of the file.
		log.Printf("favorites: write %s: %v", s.path, err)
	}
}

func (s *Store) indexOf(id uint64) int {
	for i, f := range s.list {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a snapshot of the dish unless its id is already present.
// Adding an existing id is a no-op, so Add is idempotent.
func (s *Store) Add(d repository.DishWithCountry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(d.ID) >= 0 {
		return
	}
	flag := d.Country.FlagEmoji
	if flag == "" {
		flag = "\U0001F3F3" // white flag fallback, same as the storefront
	}
	s.list = append(s.list, Favorite{
		ID:          d.ID,
		Name:        d.Name,
		Price:       d.Price,
		CountryName: d.Country.Name,
		CountryFlag: flag,
		Category:    d.Category,
		AddedAt:     time.Now().UTC(),
	})
	s.persist()
}

// Remove deletes the entry with the given id if present; absent ids are a
// no-op.
func (s *Store) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.list = append(s.list[:i], s.list[i+1:]...)
	s.persist()
}

// Toggle removes the dish when present, adds it otherwise.  Two toggles
// return the list to its prior state.
func (s *Store) Toggle(d repository.DishWithCountry) {
	if s.IsFavorite(d.ID) {
		s.Remove(d.ID)
	} else {
		s.Add(d)
	}
}

// IsFavorite reports whether the id is in the list.
func (s *Store) IsFavorite(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// All returns a copy of the list in insertion order.
func (s *Store) All() []Favorite {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Favorite, len(s.list))
	copy(out, s.list)
	return out
}

// Clear empties the list.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = []Favorite{}
	s.persist()
}

// Stats derives the summary figures.  Unparseable prices contribute zero to
// the total value; category/country maps only contain keys that occur.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Stats{
		Total:      len(s.list),
		ByCategory: map[string]int{},
		ByCountry:  map[string]int{},
	}
	for _, f := range s.list {
		st.ByCategory[f.Category]++
		st.ByCountry[f.CountryName]++
		if p, err := strconv.ParseFloat(f.Price, 64); err == nil {
			st.TotalValue += p
		}
	}
	return st
}
