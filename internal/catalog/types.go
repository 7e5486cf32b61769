// Package catalog supplies the static travel catalog consumed by the
// retrieval pipeline. Items form a closed tagged union of destinations,
// itinerary templates, and guide profiles, discriminated by Kind. The
// catalog is loaded once at startup and shared read-only across queries;
// Replace exists only so a file watcher can swap the whole item set.
package catalog

import (
	"fmt"
	"math"
	"strings"
)

// Kind discriminates the catalog item variants.
type Kind string

const (
	KindDestination Kind = "destination"
	KindItinerary   Kind = "itinerary"
	KindGuide       Kind = "guide"
)

// Item is one catalog record. Only the fields matching Kind are
// populated; SearchText and Popularity switch exhaustively on Kind.
type Item struct {
	ID     string  `yaml:"id" json:"id"`
	Kind   Kind    `yaml:"kind" json:"kind"`
	Name   string  `yaml:"name" json:"name"`
	Rating float64 `yaml:"rating" json:"rating"`

	// Destination fields.
	Category    string `yaml:"category,omitempty" json:"category,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Itinerary fields.
	DurationDays int      `yaml:"duration_days,omitempty" json:"duration_days,omitempty"`
	CostPerDay   float64  `yaml:"cost_per_day,omitempty" json:"cost_per_day,omitempty"`
	Activities   []string `yaml:"activities,omitempty" json:"activities,omitempty"`

	// Guide fields.
	Specialties []string `yaml:"specialties,omitempty" json:"specialties,omitempty"`
	Languages   []string `yaml:"languages,omitempty" json:"languages,omitempty"`
	PricePerDay float64  `yaml:"price_per_day,omitempty" json:"price_per_day,omitempty"`
}

// Validate checks the invariants shared by all variants.
func (it Item) Validate() error {
	if it.ID == "" {
		return fmt.Errorf("catalog: item missing id")
	}
	if it.Name == "" {
		return fmt.Errorf("catalog: item %s missing name", it.ID)
	}
	switch it.Kind {
	case KindDestination, KindItinerary, KindGuide:
		return nil
	default:
		return fmt.Errorf("catalog: item %s has unknown kind %q", it.ID, it.Kind)
	}
}

// SearchText builds the composite text the retriever scores against.
func (it Item) SearchText() string {
	switch it.Kind {
	case KindDestination:
		return strings.TrimSpace(it.Name + " " + it.Category + " " + it.Description)
	case KindItinerary:
		return strings.TrimSpace(it.Name + " " + strings.Join(it.Activities, " ") + " " + it.Description)
	case KindGuide:
		return strings.TrimSpace(it.Name + " " + strings.Join(it.Specialties, " ") + " " + strings.Join(it.Languages, " "))
	default:
		return it.Name
	}
}

// Popularity returns the precomputed ranking signal used when no
// personalized history exists. Destinations and guides rank by rating;
// itineraries rank by value (longer trips at lower daily cost score
// higher).
func (it Item) Popularity() float64 {
	switch it.Kind {
	case KindItinerary:
		perDay := it.CostPerDay
		if perDay <= 0 {
			perDay = 1
		}
		return float64(it.DurationDays) / math.Max(perDay/1000, 1)
	default:
		return it.Rating
	}
}
