package budget

import (
	"math"
	"strings"
	"testing"

	"github.com/fyrsmithlabs/yatra/internal/catalog"
)

func newEstimator() *Estimator {
	return NewEstimator(catalog.Default(), nil)
}

func TestEstimateBoundsHold(t *testing.T) {
	e := newEstimator()
	tiers := []Tier{TierBudget, TierMidRange, TierLuxury, Tier("bogus")}
	styles := []string{"solo", "couple", "family", "group", "unknown", ""}
	durations := []int{0, 1, 3, 14}
	interests := [][]string{nil, {"heritage"}, {"food", "shopping"}, {"heritage", "culture", "food"}}

	for _, tier := range tiers {
		for _, style := range styles {
			for _, d := range durations {
				for _, in := range interests {
					est := e.Estimate(Preferences{Tier: tier, TravelStyle: style, DurationDays: d, Interests: in})
					if est.Low <= 0 || est.High <= 0 {
						t.Errorf("tier=%s style=%s d=%d: non-positive bounds %v/%v", tier, style, d, est.Low, est.High)
					}
					if est.Low > est.High {
						t.Errorf("tier=%s style=%s d=%d: low %v > high %v", tier, style, d, est.Low, est.High)
					}
					if est.Currency != "INR" {
						t.Errorf("currency = %s, want INR", est.Currency)
					}
					if est.Basis == "" {
						t.Error("basis is empty")
					}
				}
			}
		}
	}
}

func TestEstimateHeritageSurcharge(t *testing.T) {
	e := newEstimator()
	base := Preferences{Tier: TierMidRange, DurationDays: 3, TravelStyle: "couple", GroupSize: 2}
	with := base
	with.Interests = []string{"heritage"}

	plain := e.Estimate(base)
	surcharged := e.Estimate(with)

	ratio := surcharged.Breakdown.Activities / plain.Breakdown.Activities
	if math.Abs(ratio-1.2) > 1e-9 {
		t.Errorf("activities surcharge ratio = %v, want 1.2", ratio)
	}
	// Other categories are untouched by a heritage interest.
	if surcharged.Breakdown.Food != plain.Breakdown.Food {
		t.Errorf("food changed by heritage surcharge: %v vs %v", surcharged.Breakdown.Food, plain.Breakdown.Food)
	}
}

func TestEstimateTransportGroupDiscount(t *testing.T) {
	e := newEstimator()
	solo := e.Estimate(Preferences{Tier: TierMidRange, DurationDays: 2, TravelStyle: "solo"})
	duo := e.Estimate(Preferences{Tier: TierMidRange, DurationDays: 2, TravelStyle: "solo", GroupSize: 2})

	// Same style multiplier; only the 20% transport discount differs.
	ratio := duo.Breakdown.Transport / solo.Breakdown.Transport
	if math.Abs(ratio-0.8) > 1e-9 {
		t.Errorf("transport discount ratio = %v, want 0.8", ratio)
	}
}

func TestEstimateGroupSizeFromStyle(t *testing.T) {
	e := newEstimator()
	est := e.Estimate(Preferences{Tier: TierBudget, DurationDays: 2, TravelStyle: "family"})
	// Family derives group size 4, which triggers the transport
	// discount relative to an explicit size of 1.
	single := e.Estimate(Preferences{Tier: TierBudget, DurationDays: 2, TravelStyle: "family", GroupSize: 1})
	if est.Breakdown.Transport >= single.Breakdown.Transport {
		t.Errorf("derived family group did not discount transport: %v vs %v",
			est.Breakdown.Transport, single.Breakdown.Transport)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		total     float64
		duration  int
		wantTotal float64
		wantNote  bool
	}{
		{"below floor scales up", 1200, 3, 3000, true},
		{"above ceiling scales down", 200000, 2, 100000, true},
		{"in range untouched", 9000, 3, 9000, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total, basis := clamp(tt.total, tt.duration, "base")
			if total != tt.wantTotal {
				t.Errorf("clamp total = %v, want %v", total, tt.wantTotal)
			}
			if tt.wantNote && basis == "base" {
				t.Error("clamp did not append a note to the basis")
			}
			if !tt.wantNote && basis != "base" {
				t.Errorf("clamp appended unexpected note: %q", basis)
			}
		})
	}
}

func TestEstimateLuxuryClampNote(t *testing.T) {
	e := newEstimator()
	// Luxury family with every surcharge crosses the daily ceiling.
	est := e.Estimate(Preferences{
		Tier: TierLuxury, DurationDays: 4, TravelStyle: "family",
		Interests: []string{"heritage", "culture", "food", "shopping"},
	})
	if !strings.Contains(est.Basis, "adjusted downward") {
		t.Errorf("basis = %q, want downward-adjustment note", est.Basis)
	}
}

func TestEstimateClampedBreakdownReconciles(t *testing.T) {
	e := newEstimator()
	est := e.Estimate(Preferences{
		Tier: TierLuxury, DurationDays: 4, TravelStyle: "family",
		Interests: []string{"heritage", "culture", "food", "shopping"},
	})

	// Clamped trips rescale the category split with the total.
	sum := est.Breakdown.Accommodation + est.Breakdown.Food + est.Breakdown.Transport +
		est.Breakdown.Activities + est.Breakdown.Miscellaneous
	want := 50000.0 * 4
	if math.Abs(sum-want) > 1 {
		t.Errorf("breakdown sums to %.0f, want clamped total %.0f", sum, want)
	}
	for _, s := range est.Signals {
		if s.Amount > want {
			t.Errorf("signal %s = %.0f exceeds clamped total", s.Label, s.Amount)
		}
	}
}

func TestEstimateBasisFromComparableItineraries(t *testing.T) {
	e := newEstimator()
	// The seed catalog has a 3-day heritage itinerary in Kolkata.
	est := e.Estimate(Preferences{Tier: TierMidRange, DurationDays: 3, TravelStyle: "couple", Interests: []string{"heritage"}})
	if !strings.Contains(est.Basis, "comparable itineraries") {
		t.Errorf("basis = %q, want comparable-itinerary report", est.Basis)
	}
}

func TestEstimateBasisGenericWhenNoMatch(t *testing.T) {
	cat, err := catalog.New([]catalog.Item{
		{ID: "d1", Kind: catalog.KindDestination, Name: "Somewhere", Rating: 4},
	})
	if err != nil {
		t.Fatal(err)
	}
	e := NewEstimator(cat, nil)
	est := e.Estimate(Preferences{Tier: TierLuxury, DurationDays: 9, TravelStyle: "solo"})
	if !strings.Contains(est.Basis, "luxury estimate") {
		t.Errorf("basis = %q, want generic tier/duration description", est.Basis)
	}
}

func TestEstimateSignals(t *testing.T) {
	e := newEstimator()
	est := e.Estimate(Preferences{Tier: TierMidRange, DurationDays: 3, TravelStyle: "couple"})
	if len(est.Signals) != 5 {
		t.Fatalf("signals = %d, want 5 local categories", len(est.Signals))
	}
	for _, sig := range est.Signals {
		if sig.Provenance != ProvenanceLocal {
			t.Errorf("signal %s provenance = %s, want local", sig.Label, sig.Provenance)
		}
		if sig.Amount <= 0 {
			t.Errorf("signal %s amount = %v, want > 0", sig.Label, sig.Amount)
		}
	}
}
