package flock

import (
	"fmt"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/pthm-cable/coopkeeper/config"
)

// Breed identifies one of the twelve fixed chicken kinds.
type Breed uint8

const (
	BreedLeghorn Breed = iota
	BreedRhodeIslandRed
	BreedPlymouthRock
	BreedSussex
	BreedWyandotte
	BreedOrpington
	BreedAustralorp
	BreedSilkie
	BreedPolish
	BreedBrahma
	BreedCochin
	BreedGoldenPhoenix

	NumBreeds = 12
)

// BreedNames returns the config keys for all breeds.
// The order matches the Breed constants.
func BreedNames() []string {
	return []string{
		"leghorn", "rhode_island_red", "plymouth_rock", "sussex",
		"wyandotte", "orpington", "australorp", "silkie",
		"polish", "brahma", "cochin", "golden_phoenix",
	}
}

// String returns the config key for a Breed.
func (b Breed) String() string {
	names := BreedNames()
	if int(b) < len(names) {
		return names[b]
	}
	return "unknown"
}

// ParseBreed maps a config key to a Breed.
// Unknown keys produce an error naming the closest known key.
func ParseBreed(name string) (Breed, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	names := BreedNames()
	for i, n := range names {
		if n == key {
			return Breed(i), nil
		}
	}
	return 0, fmt.Errorf("unknown breed %q (did you mean %q?)", name, closest(key, names))
}

// Special is a breed's distinguishing ability.
type Special uint8

const (
	SpecialNone   Special = iota
	SpecialTank   // Blocks breaches of other chickens while in the coop
	SpecialGolden // The special chicken; its eggs are worth more
	SpecialRunner // Roams outside at full speed
	SpecialLayer  // Accrues eggs even when hungry
)

// SpecialNames returns the config keys for all specials.
func SpecialNames() []string {
	return []string{"none", "tank", "golden", "runner", "layer"}
}

// String returns the config key for a Special.
func (s Special) String() string {
	names := SpecialNames()
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// ParseSpecial maps a config key to a Special. Empty means none.
func ParseSpecial(name string) (Special, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return SpecialNone, nil
	}
	names := SpecialNames()
	for i, n := range names {
		if n == key {
			return Special(i), nil
		}
	}
	return 0, fmt.Errorf("unknown special %q (did you mean %q?)", name, closest(key, names))
}

// closest returns the candidate with the smallest edit distance to s.
func closest(s string, candidates []string) string {
	best := ""
	bestDist := -1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(s, c)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// BreedStats are the behavioral modifiers of one breed.
// Rates are per second.
type BreedStats struct {
	Speed       float64
	Boldness    float64
	HungerDecay float64
	EggInterval float64
	Radius      float64
	Special     Special
}

// BreedTable holds the stats for every breed, indexed by Breed.
type BreedTable [NumBreeds]BreedStats

// NewBreedTable builds a table from config records.
// Exactly one record per breed is required.
func NewBreedTable(records []config.BreedConfig) (BreedTable, error) {
	var table BreedTable
	var seen [NumBreeds]bool

	for _, rec := range records {
		b, err := ParseBreed(rec.Name)
		if err != nil {
			return table, err
		}
		if seen[b] {
			return table, fmt.Errorf("breed %q configured twice", rec.Name)
		}
		special, err := ParseSpecial(rec.Special)
		if err != nil {
			return table, fmt.Errorf("breed %q: %w", rec.Name, err)
		}
		if rec.Speed < 0 || rec.Boldness < 0 || rec.HungerDecay < 0 {
			return table, fmt.Errorf("breed %q: speed, boldness and hunger_decay must not be negative", rec.Name)
		}
		if rec.EggInterval <= 0 || rec.Radius <= 0 {
			return table, fmt.Errorf("breed %q: egg_interval and radius must be positive", rec.Name)
		}
		seen[b] = true
		table[b] = BreedStats{
			Speed:       rec.Speed,
			Boldness:    rec.Boldness,
			HungerDecay: rec.HungerDecay,
			EggInterval: rec.EggInterval,
			Radius:      rec.Radius,
			Special:     special,
		}
	}

	for i, ok := range seen {
		if !ok {
			return table, fmt.Errorf("breed %q missing from config", Breed(i))
		}
	}
	return table, nil
}
