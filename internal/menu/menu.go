// Package menu holds the pure presentation logic of the storefront: category
// validation, partitioning a filtered dish list into per-country buckets,
// splitting beverages into their own section and deriving per-country summary
// figures.  Nothing here touches the database or mutates its inputs.
package menu

import (
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/fenui/festival-menu-api/internal/repository"
)

// The closed category set.  These are the wire values the storefront has
// always used; the boundary rejects anything else.
const (
	CategorySalty    = "salgados"
	CategorySweet    = "doces"
	CategoryBeverage = "bebidas"
)

// ValidCategory reports whether s is one of the known category values.
func ValidCategory(s string) bool {
	switch s {
	case CategorySalty, CategorySweet, CategoryBeverage:
		return true
	}
	return false
}

// Categories returns the closed category set in display order.
func Categories() []string {
	return []string{CategorySalty, CategorySweet, CategoryBeverage}
}

// CountryGroup is one storefront bucket: a country and its dishes.  The
// grouping key is the country display name, matching what the section header
// shows.
type CountryGroup struct {
	Country repository.Country
	Dishes  []repository.DishWithCountry
}

// GroupByCountry partitions dishes into per-country buckets keyed by country
// name.  Buckets appear in first-encounter order, so a list coming straight
// from the repository (already sorted by country display position) yields
// groups in display order without a second sort.
func GroupByCountry(dishes []repository.DishWithCountry) []CountryGroup {
	idx := make(map[string]int, 8)
	groups := []CountryGroup{}
	for _, d := range dishes {
		i, ok := idx[d.Country.Name]
		if !ok {
			i = len(groups)
			idx[d.Country.Name] = i
			groups = append(groups, CountryGroup{Country: d.Country})
		}
		groups[i].Dishes = append(groups[i].Dishes, d)
	}
	return groups
}

// SplitBeverages separates beverages from everything else, preserving order
// within both halves.  The storefront renders beverages as a shared section
// instead of inside the country buckets.
func SplitBeverages(dishes []repository.DishWithCountry) (food, beverages []repository.DishWithCountry) {
	food = make([]repository.DishWithCountry, 0, len(dishes))
	beverages = []repository.DishWithCountry{}
	for _, d := range dishes {
		if d.Category == CategoryBeverage {
			beverages = append(beverages, d)
		} else {
			food = append(food, d)
		}
	}
	return food, beverages
}

// SortGroupsByDisplayOrder orders buckets by the country's admin-controlled
// display position, ties broken by name.  This is the authoritative ordering
// for every storefront section.
func SortGroupsByDisplayOrder(groups []CountryGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Country.Order != groups[j].Country.Order {
			return groups[i].Country.Order < groups[j].Country.Order
		}
		return groups[i].Country.Name < groups[j].Country.Name
	})
}

// SortGroupsAlphabetical orders buckets by country name under Brazilian
// Portuguese collation, so "Índia" sorts with the I's rather than after Z.
// Only the country gallery opts into this; everything else uses
// SortGroupsByDisplayOrder.
func SortGroupsAlphabetical(groups []CountryGroup) {
	col := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(groups, func(i, j int) bool {
		return col.CompareString(groups[i].Country.Name, groups[j].Country.Name) < 0
	})
}

// SortDishes returns a copy of dishes ordered the same way the repository
// orders its result sets: country display position, then dish display
// position, then dish name.  Used when an in-memory collection (favorites
// snapshots, admin previews) needs the canonical order.
func SortDishes(dishes []repository.DishWithCountry) []repository.DishWithCountry {
	out := make([]repository.DishWithCountry, len(dishes))
	copy(out, dishes)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Country.Order != out[j].Country.Order {
			return out[i].Country.Order < out[j].Country.Order
		}
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CountrySummary carries the admin dashboard figures for one country bucket.
type CountrySummary struct {
	Country        repository.Country `json:"country"`
	TotalDishes    int                `json:"totalDishes"`
	FeaturedDishes int                `json:"featuredDishes"`
	AvgPrice       float64            `json:"avgPrice"`
}

// Summaries derives per-bucket totals: dish count, featured count and mean
// price.  Prices are fixed-point strings on the wire; they are parsed here
// only for the mean.  An unparseable price contributes zero rather than
// poisoning the mean, and an empty bucket reports an average of exactly 0.
func Summaries(groups []CountryGroup) []CountrySummary {
	out := make([]CountrySummary, 0, len(groups))
	for _, g := range groups {
		s := CountrySummary{Country: g.Country, TotalDishes: len(g.Dishes)}
		sum := 0.0
		for _, d := range g.Dishes {
			if d.IsFeatured {
				s.FeaturedDishes++
			}
			if p, err := strconv.ParseFloat(d.Price, 64); err == nil {
				sum += p
			}
		}
		if s.TotalDishes > 0 {
			s.AvgPrice = sum / float64(s.TotalDishes)
		}
		out = append(out, s)
	}
	return out
}

// SortSummariesByCount orders summaries by dish count, busiest country first,
// the order the admin dashboard lists them in.
func SortSummariesByCount(summaries []CountrySummary) {
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].TotalDishes > summaries[j].TotalDishes
	})
}
