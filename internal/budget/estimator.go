// Package budget derives a low/high cost range for a trip from a
// rule-based cost model. Rates are INR per person per day; the model
// is deliberately deterministic so estimates stay explainable, and
// every sanity adjustment is reported in the basis string instead of
// silently changing the number.
package budget

import (
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/yatra/internal/catalog"
)

// Tier is the declared spending tier.
type Tier string

const (
	TierBudget   Tier = "budget"
	TierMidRange Tier = "mid-range"
	TierLuxury   Tier = "luxury"
)

// Provenance tags where a budget signal came from.
type Provenance string

const (
	ProvenanceLocal Provenance = "local"
	ProvenanceWeb   Provenance = "web"
)

// Signal is one data point feeding the aggregate estimate.
type Signal struct {
	Label      string     `json:"label"`
	Amount     float64    `json:"amount"`
	Provenance Provenance `json:"provenance"`
	Note       string     `json:"note,omitempty"`
}

// Preferences parameterize the cost model.
type Preferences struct {
	Tier         Tier     `json:"tier"`
	DurationDays int      `json:"duration_days"`
	TravelStyle  string   `json:"travel_style"`
	Interests    []string `json:"interests"`
	GroupSize    int      `json:"group_size"`
}

// Breakdown is the per-category trip total before the low/high band.
type Breakdown struct {
	Accommodation float64 `json:"accommodation"`
	Food          float64 `json:"food"`
	Transport     float64 `json:"transport"`
	Activities    float64 `json:"activities"`
	Miscellaneous float64 `json:"miscellaneous"`
}

// Estimate is the aggregated cost range. Low <= High and both are
// strictly positive for any valid preferences.
type Estimate struct {
	Low       float64   `json:"low"`
	High      float64   `json:"high"`
	Currency  string    `json:"currency"`
	Basis     string    `json:"basis"`
	Breakdown Breakdown `json:"breakdown"`
	Signals   []Signal  `json:"signals"`
}

// Daily per-person base rates by tier.
var baseRates = map[Tier]Breakdown{
	TierBudget:   {Accommodation: 800, Food: 400, Transport: 300, Activities: 200, Miscellaneous: 200},
	TierMidRange: {Accommodation: 2500, Food: 1200, Transport: 800, Activities: 600, Miscellaneous: 500},
	TierLuxury:   {Accommodation: 8000, Food: 3000, Transport: 2000, Activities: 1500, Miscellaneous: 1500},
}

// styleMultipliers model non-linear per-person scaling: shared rooms,
// children costing less, bulk discounts for groups.
var styleMultipliers = map[string]float64{
	"solo":   1.0,
	"couple": 1.6,
	"family": 2.8,
	"group":  0.9,
}

// styleGroupSizes derive a head count when none is given.
var styleGroupSizes = map[string]int{
	"solo":   1,
	"couple": 2,
	"family": 4,
	"group":  6,
}

const (
	currency = "INR"

	lowFactor  = 0.85
	highFactor = 1.2

	minPerDay = 1000
	maxPerDay = 50000

	transportGroupDiscount = 0.8
)

// Estimator computes estimates against the catalog's historical
// itineraries.
type Estimator struct {
	cat    *catalog.Catalog
	logger *zap.Logger
}

// NewEstimator creates an estimator.
func NewEstimator(cat *catalog.Catalog, logger *zap.Logger) *Estimator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{cat: cat, logger: logger}
}

// Estimate derives the cost range for the given preferences.
func (e *Estimator) Estimate(prefs Preferences) Estimate {
	tier := prefs.Tier
	if _, ok := baseRates[tier]; !ok {
		tier = TierMidRange
	}
	duration := prefs.DurationDays
	if duration <= 0 {
		duration = 1
	}
	style := strings.ToLower(prefs.TravelStyle)
	mult, ok := styleMultipliers[style]
	if !ok {
		style = "solo"
		mult = 1.0
	}
	groupSize := prefs.GroupSize
	if groupSize <= 0 {
		groupSize = styleGroupSizes[style]
	}

	rates := baseRates[tier]
	bd := Breakdown{
		Accommodation: rates.Accommodation * mult,
		Food:          rates.Food * mult,
		Transport:     rates.Transport * mult,
		Activities:    rates.Activities * mult,
		Miscellaneous: rates.Miscellaneous * mult,
	}
	if groupSize > 1 {
		bd.Transport *= transportGroupDiscount
	}
	applySurcharges(&bd, prefs.Interests)

	perDay := bd.Accommodation + bd.Food + bd.Transport + bd.Activities + bd.Miscellaneous
	total := perDay * float64(duration)

	basis := e.basis(tier, duration, groupSize, prefs.Interests)
	clamped, basis := clamp(total, duration, basis)
	if clamped != total {
		// Rescale the category split so it still sums to the clamped
		// total instead of reporting the rejected amounts.
		bd = scale(bd, clamped/total)
		total = clamped
	}

	// Asymmetric band: more upside variance than downside.
	est := Estimate{
		Low:       math.Round(total * lowFactor),
		High:      math.Round(total * highFactor),
		Currency:  currency,
		Basis:     basis,
		Breakdown: scale(bd, float64(duration)),
	}
	est.Signals = localSignals(est.Breakdown)
	return est
}

// applySurcharges adjusts categories for declared interests,
// multiplicatively after the base sum.
func applySurcharges(bd *Breakdown, interests []string) {
	for _, raw := range interests {
		switch strings.ToLower(strings.TrimSpace(raw)) {
		case "heritage", "culture":
			bd.Activities *= 1.2
		case "food":
			bd.Food *= 1.3
		case "shopping":
			bd.Miscellaneous *= 2
		}
	}
}

// basis searches historical itineraries for comparable trips: duration
// within one day and at least one overlapping interest.
func (e *Estimator) basis(tier Tier, duration, groupSize int, interests []string) string {
	matches := 0
	var perDaySum float64
	for _, it := range e.cat.ByKind(catalog.KindItinerary) {
		if absInt(it.DurationDays-duration) > 1 {
			continue
		}
		if len(interests) > 0 && !interestOverlap(it, interests) {
			continue
		}
		matches++
		perDaySum += it.CostPerDay
	}
	if matches > 0 {
		avg := perDaySum / float64(matches)
		return fmt.Sprintf("based on %d comparable itineraries averaging ₹%.0f per day", matches, avg)
	}
	return fmt.Sprintf("%s estimate for a %d-day trip for %d traveller(s)", tier, duration, groupSize)
}

func interestOverlap(it catalog.Item, interests []string) bool {
	text := strings.ToLower(it.SearchText())
	for _, in := range interests {
		in = strings.ToLower(strings.TrimSpace(in))
		if in != "" && strings.Contains(text, in) {
			return true
		}
	}
	return false
}

// clamp scales implausible per-day totals back into range, appending
// a note to the basis rather than adjusting silently.
func clamp(total float64, duration int, basis string) (float64, string) {
	perDay := total / float64(duration)
	switch {
	case perDay < minPerDay:
		total = minPerDay * float64(duration)
		basis += "; adjusted upward to a plausible daily minimum"
	case perDay > maxPerDay:
		total = maxPerDay * float64(duration)
		basis += "; adjusted downward to a plausible daily maximum"
	}
	return total, basis
}

func scale(bd Breakdown, factor float64) Breakdown {
	return Breakdown{
		Accommodation: bd.Accommodation * factor,
		Food:          bd.Food * factor,
		Transport:     bd.Transport * factor,
		Activities:    bd.Activities * factor,
		Miscellaneous: bd.Miscellaneous * factor,
	}
}

func localSignals(bd Breakdown) []Signal {
	return []Signal{
		{Label: "accommodation", Amount: bd.Accommodation, Provenance: ProvenanceLocal},
		{Label: "food", Amount: bd.Food, Provenance: ProvenanceLocal},
		{Label: "transport", Amount: bd.Transport, Provenance: ProvenanceLocal},
		{Label: "activities", Amount: bd.Activities, Provenance: ProvenanceLocal},
		{Label: "miscellaneous", Amount: bd.Miscellaneous, Provenance: ProvenanceLocal},
	}
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
