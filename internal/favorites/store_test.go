package favorites

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fenui/festival-menu-api/internal/repository"
)

func sample(id uint64, name, price, country, category string) repository.DishWithCountry {
	return repository.DishWithCountry{
		Dish: repository.Dish{
			ID:       id,
			Name:     name,
			Price:    price,
			Category: category,
		},
		Country: repository.Country{Name: country, FlagEmoji: "🇧🇷"},
	}
}

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "favorites.json")
	return Load(path), path
}

func TestAddIsIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	d := sample(1, "Coxinha", "8.00", "Brasil", "salgados")
	s.Add(d)
	s.Add(d)
	if got := len(s.All()); got != 1 {
		t.Fatalf("expected 1 entry after double add, got %d", got)
	}
	if !s.IsFavorite(1) {
		t.Fatal("dish should be a favorite")
	}
}

func TestAddSnapshotsDishFields(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(sample(7, "Pizza", "15.00", "Itália", "salgados"))
	all := s.All()
	f := all[0]
	if f.ID != 7 || f.Name != "Pizza" || f.Price != "15.00" || f.CountryName != "Itália" {
		t.Fatalf("bad snapshot: %+v", f)
	}
	if f.AddedAt.IsZero() {
		t.Fatal("AddedAt not set")
	}
}

func TestAddFallsBackToWhiteFlag(t *testing.T) {
	s, _ := newTestStore(t)
	d := sample(3, "Sushi", "20.00", "Japão", "salgados")
	d.Country.FlagEmoji = ""
	s.Add(d)
	if got := s.All()[0].CountryFlag; got != "\U0001F3F3" {
		t.Fatalf("expected white flag fallback, got %q", got)
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(sample(1, "Coxinha", "8.00", "Brasil", "salgados"))
	s.Remove(99)
	if got := len(s.All()); got != 1 {
		t.Fatalf("expected list untouched, got %d entries", got)
	}
	s.Remove(1)
	if s.IsFavorite(1) {
		t.Fatal("entry should be gone")
	}
}

func TestToggleIsSelfInverse(t *testing.T) {
	s, _ := newTestStore(t)
	d := sample(2, "Brigadeiro", "4.00", "Brasil", "doces")
	s.Toggle(d)
	if !s.IsFavorite(2) {
		t.Fatal("first toggle should add")
	}
	s.Toggle(d)
	if s.IsFavorite(2) {
		t.Fatal("second toggle should remove")
	}
	if got := len(s.All()); got != 0 {
		t.Fatalf("expected empty list, got %d", got)
	}
}

func TestClear(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(sample(1, "Coxinha", "8.00", "Brasil", "salgados"))
	s.Add(sample(2, "Pizza", "15.00", "Itália", "salgados"))
	s.Clear()
	if got := len(s.All()); got != 0 {
		t.Fatalf("expected empty list after Clear, got %d", got)
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(sample(1, "Coxinha", "8.00", "Brasil", "salgados"))
	s.Add(sample(2, "Brigadeiro", "4.00", "Brasil", "doces"))
	s.Add(sample(3, "Pizza", "15.00", "Itália", "salgados"))

	st := s.Stats()
	if st.Total != 3 {
		t.Fatalf("total: expected 3, got %d", st.Total)
	}
	if st.ByCategory["salgados"] != 2 || st.ByCategory["doces"] != 1 {
		t.Fatalf("byCategory: %v", st.ByCategory)
	}
	if st.ByCountry["Brasil"] != 2 || st.ByCountry["Itália"] != 1 {
		t.Fatalf("byCountry: %v", st.ByCountry)
	}
	if st.TotalValue != 27.0 {
		t.Fatalf("totalValue: expected 27.0, got %v", st.TotalValue)
	}
	if _, ok := st.ByCategory["bebidas"]; ok {
		t.Fatal("absent category must not appear in the map")
	}
}

func TestStatsSkipsUnparseablePrice(t *testing.T) {
	s, _ := newTestStore(t)
	s.Add(sample(1, "Coxinha", "8.00", "Brasil", "salgados"))
	s.Add(sample(2, "Broken", "preço", "Brasil", "doces"))
	st := s.Stats()
	if st.Total != 2 || st.TotalValue != 8.0 {
		t.Fatalf("expected total 2 / value 8.0, got %d / %v", st.Total, st.TotalValue)
	}
}

func TestPersistenceRoundtrip(t *testing.T) {
	s, path := newTestStore(t)
	s.Add(sample(1, "Coxinha", "8.00", "Brasil", "salgados"))
	s.Add(sample(2, "Pizza", "15.00", "Itália", "salgados"))
	s.Remove(1)

	reloaded := Load(path)
	all := reloaded.All()
	if len(all) != 1 || all[0].ID != 2 {
		t.Fatalf("unexpected reloaded list: %+v", all)
	}
}

func TestLoadResetsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "favorites.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := Load(path)
	if got := len(s.All()); got != 0 {
		t.Fatalf("expected empty list from malformed file, got %d", got)
	}
	// The bad file must be gone so the next write starts clean.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("malformed file should have been removed, stat err: %v", err)
	}
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "nope", "favorites.json"))
	if got := len(s.All()); got != 0 {
		t.Fatalf("expected empty list, got %d", got)
	}
}
