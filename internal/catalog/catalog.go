// internal/catalog/catalog.go
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"compreg/internal/logger"
)

// Tier is the meal-rate tier an individual lunch choice bills at.
type Tier string

const (
	// TierNone means the choice (or an unrecognized string) carries no meal charge.
	TierNone Tier = ""
	// TierHalf is the single-slice lunch rate.
	TierHalf Tier = "half"
	// TierFull is the two-slice lunch rate.
	TierFull Tier = "full"
)

// LunchOption maps one form answer to pizza slices per category plus its billing tier.
type LunchOption struct {
	Choice string         `yaml:"choice"`
	Slices map[string]int `yaml:"slices"`
	Tier   Tier           `yaml:"tier"`
}

// Catalog holds the static lookup tables for every free-text form answer the
// pipeline classifies. Lookups are exact-string; anything not present is
// ignored by aggregation rather than treated as an error.
type Catalog struct {
	lunch        map[string]LunchOption
	categories   []string // pizza categories in first-seen order
	apparelSizes []string
	femaleLabels map[string]bool
}

type catalogFile struct {
	LunchOptions []LunchOption `yaml:"lunch_options"`
	ApparelSizes []string      `yaml:"apparel_sizes"`
	FemaleLabels []string      `yaml:"female_labels"`
}

// Default returns the catalogs matching the registration form as published.
func Default() *Catalog {
	c, err := build(catalogFile{
		LunchOptions: []LunchOption{
			{Choice: "2 slices of pepperoni", Slices: map[string]int{"pepperoni": 2}, Tier: TierFull},
			{Choice: "2 slices of cheese", Slices: map[string]int{"cheese": 2}, Tier: TierFull},
			{Choice: "2 slices of vegetarian", Slices: map[string]int{"vegetarian": 2}, Tier: TierFull},
			{Choice: "1 slice of pepperoni and 1 slice of cheese", Slices: map[string]int{"pepperoni": 1, "cheese": 1}, Tier: TierFull},
			{Choice: "1 slice of pepperoni and 1 slice of vegetarian", Slices: map[string]int{"pepperoni": 1, "vegetarian": 1}, Tier: TierFull},
			{Choice: "1 slice of cheese and 1 slice of vegetarian", Slices: map[string]int{"cheese": 1, "vegetarian": 1}, Tier: TierFull},
			{Choice: "1 slice of pepperoni", Slices: map[string]int{"pepperoni": 1}, Tier: TierHalf},
			{Choice: "1 slice of cheese", Slices: map[string]int{"cheese": 1}, Tier: TierHalf},
			{Choice: "1 slice of vegetarian", Slices: map[string]int{"vegetarian": 1}, Tier: TierHalf},
		},
		ApparelSizes: []string{"XS", "S", "M", "L", "XL", "XXL"},
		FemaleLabels: []string{"Female", "Female | Féminin"},
	})
	if err != nil {
		// The built-in tables are constants; a validation failure here is a bug.
		panic(err)
	}
	return c
}

// LoadFile reads a full catalog definition from a YAML file. The file replaces
// the defaults entirely so that form edits stay in one place.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var cf catalogFile
	if err := yaml.Unmarshal(raw, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	c, err := build(cf)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog file %s: %w", path, err)
	}

	logger.LogInfo("Loaded catalog from %s: %d lunch options, %d pizza categories, %d apparel sizes",
		path, len(c.lunch), len(c.categories), len(c.apparelSizes))
	return c, nil
}

func build(cf catalogFile) (*Catalog, error) {
	if len(cf.LunchOptions) == 0 {
		return nil, fmt.Errorf("no lunch options defined")
	}
	if len(cf.ApparelSizes) == 0 {
		return nil, fmt.Errorf("no apparel sizes defined")
	}

	c := &Catalog{
		lunch:        make(map[string]LunchOption, len(cf.LunchOptions)),
		apparelSizes: append([]string(nil), cf.ApparelSizes...),
		femaleLabels: make(map[string]bool, len(cf.FemaleLabels)),
	}

	seen := make(map[string]bool)
	for _, opt := range cf.LunchOptions {
		if opt.Choice == "" {
			return nil, fmt.Errorf("lunch option with empty choice string")
		}
		if c.lunch[opt.Choice].Choice != "" {
			return nil, fmt.Errorf("duplicate lunch option %q", opt.Choice)
		}
		if len(opt.Slices) == 0 {
			return nil, fmt.Errorf("lunch option %q has no slices", opt.Choice)
		}
		if opt.Tier != TierHalf && opt.Tier != TierFull {
			return nil, fmt.Errorf("lunch option %q has invalid tier %q", opt.Choice, opt.Tier)
		}
		for category, n := range opt.Slices {
			if n <= 0 {
				return nil, fmt.Errorf("lunch option %q has non-positive count for %q", opt.Choice, category)
			}
			if !seen[category] {
				seen[category] = true
				c.categories = append(c.categories, category)
			}
		}
		c.lunch[opt.Choice] = opt
	}

	for _, label := range cf.FemaleLabels {
		c.femaleLabels[label] = true
	}

	return c, nil
}

// LunchOption looks up a raw meal-choice string. The second return is false
// for unrecognized strings, which aggregation skips.
func (c *Catalog) LunchOption(choice string) (LunchOption, bool) {
	opt, ok := c.lunch[choice]
	return opt, ok
}

// Categories returns the pizza categories in the order the catalog introduced them.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// ApparelSizes returns the size categories in display order.
func (c *Catalog) ApparelSizes() []string {
	return append([]string(nil), c.apparelSizes...)
}

// IsFemale reports whether a raw gender answer matches the female category.
func (c *Catalog) IsFemale(gender string) bool {
	return c.femaleLabels[strings.TrimSpace(gender)]
}

// NormalizeEmail applies the comparison rules used everywhere an email is
// matched: surrounding whitespace stripped, case folded to upper.
func NormalizeEmail(email string) string {
	return strings.ToUpper(strings.TrimSpace(email))
}
