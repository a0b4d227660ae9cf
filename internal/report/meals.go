// internal/report/meals.go
package report

import (
	"fmt"
	"strconv"

	"compreg/internal/catalog"
	"compreg/internal/model"
	"compreg/internal/table"
)

// SlicesPerPizza is the fixed unit used for ceiling-division when turning
// slice totals into whole pizzas to order.
const SlicesPerPizza = 8

// Pizzas converts a slice total into whole pizzas, rounding up.
func Pizzas(slices int) int {
	return (slices + SlicesPerPizza - 1) / SlicesPerPizza
}

// FormatSlices renders a slice total the way the kitchen sheet expects it.
func FormatSlices(n int) string {
	switch {
	case n < SlicesPerPizza:
		return fmt.Sprintf("%d slice(s)", n)
	case n == SlicesPerPizza:
		return "1 Pizza"
	default:
		return fmt.Sprintf("%d Pizza and %d slice(s)", n/SlicesPerPizza, n%SlicesPerPizza)
	}
}

// addSlices accumulates one member's lunch choice into a per-category tally.
// Unrecognized choices contribute nothing.
func addSlices(cat *catalog.Catalog, tally map[string]int, choice string) {
	opt, ok := cat.LunchOption(choice)
	if !ok {
		return
	}
	for category, n := range opt.Slices {
		tally[category] += n
	}
}

// GeneralMealTotals sums every member's slices per pizza category across the
// whole graph and derives the pizza count per category.
func GeneralMealTotals(cat *catalog.Catalog, g *model.Graph) *table.Table {
	tally := make(map[string]int)
	for _, grp := range g.Groups() {
		for _, m := range grp.Members() {
			addSlices(cat, tally, m.Lunch)
		}
	}

	t := table.New([]string{"Pizza Type", "Slices", "Pizzas"})
	for _, category := range cat.Categories() {
		t.AppendRow(category, strconv.Itoa(tally[category]), strconv.Itoa(Pizzas(tally[category])))
	}
	return t
}

// PerSchoolMealTotals produces the same sums partitioned by group, one row per
// (group, category), each with the human-readable order string.
func PerSchoolMealTotals(cat *catalog.Catalog, g *model.Graph) *table.Table {
	t := table.New([]string{"Group", "Pizza Type", "Slices", "Order"})
	for _, grp := range g.Groups() {
		tally := make(map[string]int)
		for _, m := range grp.Members() {
			addSlices(cat, tally, m.Lunch)
		}
		for _, category := range cat.Categories() {
			t.AppendRow(grp.Name, category, strconv.Itoa(tally[category]), FormatSlices(tally[category]))
		}
	}
	return t
}

// PerPersonMeals lists every member's raw lunch choice, empty choices included.
func PerPersonMeals(g *model.Graph) *table.Table {
	t := table.New([]string{"Group", "Name", "Lunch Choice"})
	for _, grp := range g.Groups() {
		for _, m := range grp.Members() {
			t.AppendRow(grp.Name, m.Name, m.Lunch)
		}
	}
	return t
}
