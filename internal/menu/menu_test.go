package menu

import (
	"testing"

	"github.com/fenui/festival-menu-api/internal/repository"
)

func dish(name, category, price string, order int, country repository.Country) repository.DishWithCountry {
	return repository.DishWithCountry{
		Dish: repository.Dish{
			Name:      name,
			Category:  category,
			Price:     price,
			Order:     order,
			CountryID: country.ID,
		},
		Country: country,
	}
}

func TestGroupByCountryKeysOnNameAndKeepsOrder(t *testing.T) {
	brasil := repository.Country{ID: 1, Name: "Brasil", Order: 0}
	italia := repository.Country{ID: 2, Name: "Itália", Order: 1}

	dishes := []repository.DishWithCountry{
		dish("Coxinha", CategorySalty, "8.00", 0, brasil),
		dish("Pizza", CategorySalty, "15.00", 0, italia),
		dish("Brigadeiro", CategorySweet, "4.00", 1, brasil),
	}

	groups := GroupByCountry(dishes)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Country.Name != "Brasil" || groups[1].Country.Name != "Itália" {
		t.Fatalf("groups out of order: %q, %q", groups[0].Country.Name, groups[1].Country.Name)
	}
	if len(groups[0].Dishes) != 2 {
		t.Fatalf("expected 2 dishes in the Brasil group, got %d", len(groups[0].Dishes))
	}
	if len(dishes) != 3 {
		t.Fatalf("input was mutated")
	}
}

func TestSplitBeverages(t *testing.T) {
	brasil := repository.Country{ID: 1, Name: "Brasil"}
	dishes := []repository.DishWithCountry{
		dish("Coxinha", CategorySalty, "8.00", 0, brasil),
		dish("Caipirinha", CategoryBeverage, "12.00", 0, brasil),
		dish("Brigadeiro", CategorySweet, "4.00", 0, brasil),
	}

	food, beverages := SplitBeverages(dishes)
	if len(food) != 2 || len(beverages) != 1 {
		t.Fatalf("expected 2 food / 1 beverage, got %d / %d", len(food), len(beverages))
	}
	if beverages[0].Name != "Caipirinha" {
		t.Fatalf("wrong beverage: %q", beverages[0].Name)
	}
}

func TestSortDishesThreeLevelsWithNameTieBreak(t *testing.T) {
	c1 := repository.Country{ID: 1, Name: "Brasil", Order: 1}
	c2 := repository.Country{ID: 2, Name: "Itália", Order: 2}

	// Same country order, same dish order: name decides.
	in := []repository.DishWithCountry{
		dish("Zebra", CategorySalty, "1.00", 1, c1),
		dish("Pasta", CategorySalty, "1.00", 0, c2),
		dish("Apple", CategorySalty, "1.00", 1, c1),
		dish("Acarajé", CategorySalty, "1.00", 0, c1),
	}

	got := SortDishes(in)
	want := []string{"Acarajé", "Apple", "Zebra", "Pasta"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, got[i].Name)
		}
	}
	if in[0].Name != "Zebra" {
		t.Fatalf("input slice was reordered")
	}
}

func TestSortGroupsByDisplayOrderTiesByName(t *testing.T) {
	groups := []CountryGroup{
		{Country: repository.Country{Name: "Peru", Order: 2}},
		{Country: repository.Country{Name: "Japão", Order: 1}},
		{Country: repository.Country{Name: "Alemanha", Order: 2}},
	}
	SortGroupsByDisplayOrder(groups)
	want := []string{"Japão", "Alemanha", "Peru"}
	for i, name := range want {
		if groups[i].Country.Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, groups[i].Country.Name)
		}
	}
}

func TestSortGroupsAlphabeticalUsesPortugueseCollation(t *testing.T) {
	groups := []CountryGroup{
		{Country: repository.Country{Name: "Zimbábue"}},
		{Country: repository.Country{Name: "Índia"}},
		{Country: repository.Country{Name: "Brasil"}},
	}
	SortGroupsAlphabetical(groups)
	// Under pt-BR collation Índia sorts between Brasil and Zimbábue, not
	// after Z the way a raw byte comparison would place it.
	want := []string{"Brasil", "Índia", "Zimbábue"}
	for i, name := range want {
		if groups[i].Country.Name != name {
			t.Fatalf("position %d: expected %q, got %q", i, name, groups[i].Country.Name)
		}
	}
}

func TestSummaries(t *testing.T) {
	brasil := repository.Country{ID: 1, Name: "Brasil"}
	d1 := dish("Coxinha", CategorySalty, "8.00", 0, brasil)
	d1.IsFeatured = true
	d2 := dish("Brigadeiro", CategorySweet, "4.00", 0, brasil)

	groups := []CountryGroup{
		{Country: brasil, Dishes: []repository.DishWithCountry{d1, d2}},
		{Country: repository.Country{ID: 2, Name: "Itália"}}, // empty bucket
	}

	sums := Summaries(groups)
	if sums[0].TotalDishes != 2 || sums[0].FeaturedDishes != 1 {
		t.Fatalf("unexpected counts: %+v", sums[0])
	}
	if sums[0].AvgPrice != 6.0 {
		t.Fatalf("expected avg 6.0, got %v", sums[0].AvgPrice)
	}
	if sums[1].AvgPrice != 0 {
		t.Fatalf("empty group must average exactly 0, got %v", sums[1].AvgPrice)
	}
}

func TestSummariesIgnoresUnparseablePrice(t *testing.T) {
	c := repository.Country{ID: 1, Name: "Brasil"}
	groups := []CountryGroup{{
		Country: c,
		Dishes: []repository.DishWithCountry{
			dish("Ok", CategorySalty, "10.00", 0, c),
			dish("Broken", CategorySalty, "n/a", 0, c),
		},
	}}
	sums := Summaries(groups)
	if sums[0].AvgPrice != 5.0 {
		t.Fatalf("expected 5.0 (bad price counts as zero), got %v", sums[0].AvgPrice)
	}
}

func TestSortSummariesByCount(t *testing.T) {
	sums := []CountrySummary{
		{Country: repository.Country{Name: "A"}, TotalDishes: 1},
		{Country: repository.Country{Name: "B"}, TotalDishes: 5},
	}
	SortSummariesByCount(sums)
	if sums[0].Country.Name != "B" {
		t.Fatalf("expected busiest country first, got %q", sums[0].Country.Name)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories() {
		if !ValidCategory(c) {
			t.Fatalf("%q should be valid", c)
		}
	}
	for _, c := range []string{"", "sobremesas", "SALGADOS", "drinks"} {
		if ValidCategory(c) {
			t.Fatalf("%q should be invalid", c)
		}
	}
}
