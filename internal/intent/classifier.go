// Package intent classifies travel queries into a closed set of
// intents using weighted regular-expression pattern sets. It is
// deterministic and side-effect free so classifications stay auditable
// and unit-testable.
package intent

import (
	"regexp"
	"strings"
)

// Intent is the closed set of query categories.
type Intent string

const (
	PlanItinerary      Intent = "plan_itinerary"
	BookGuide          Intent = "book_guide"
	FindHeritage       Intent = "find_heritage"
	BudgetQuestion     Intent = "budget_question"
	CulturalInfo       Intent = "cultural_info"
	BookingQuery       Intent = "booking_query"
	Marketplace        Intent = "marketplace"
	Transport          Intent = "transport"
	GetRecommendations Intent = "get_recommendations"
	GeneralChat        Intent = "general_chat"
)

// defaultConfidence is reported when no pattern matches anywhere.
const defaultConfidence = 0.3

// Result is a classified query. Location, Duration, and Budget are
// shallow single-value extractions produced as a byproduct; the
// entities package does the full extraction.
type Result struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
	Location   string  `json:"location,omitempty"`
	Duration   string  `json:"duration,omitempty"`
	Budget     string  `json:"budget,omitempty"`
}

// category pairs an intent with its independent patterns. Each
// matching pattern contributes exactly 1 to the category score.
type category struct {
	intent   Intent
	patterns []*regexp.Regexp
}

// Classifier matches queries against ordered category pattern sets.
// Ties break by declaration order: the first declared category with
// the top score wins.
type Classifier struct {
	categories []category

	locationRe *regexp.Regexp
	durationRe *regexp.Regexp
	budgetRe   *regexp.Regexp
}

// NewClassifier builds the classifier with the default pattern sets.
func NewClassifier() *Classifier {
	mk := func(intent Intent, exprs ...string) category {
		ps := make([]*regexp.Regexp, 0, len(exprs))
		for _, e := range exprs {
			ps = append(ps, regexp.MustCompile(`(?i)`+e))
		}
		return category{intent: intent, patterns: ps}
	}

	return &Classifier{
		categories: []category{
			mk(PlanItinerary,
				`plan.*(trip|itinerary|tour|visit|vacation)`,
				`\bitinerary\b`,
				`\d+\s*-?\s*(day|week|night)s?\b.*\b(trip|tour|stay|in)\b`,
				`(create|make|build|suggest).*(plan|schedule|route)`,
			),
			mk(BookGuide,
				`book.*guide`,
				`(hire|find|need|want).*(a|local)?\s*guide`,
				`guide.*(book|hire|available)`,
				`local guide`,
			),
			mk(FindHeritage,
				`heritage\s*(site|place|walk)s?`,
				`\b(monument|temple|palace|fort|museum|ghat)s?\b`,
				`(historical|ancient|colonial).*(place|site|building|city)`,
				`\bunesco\b`,
			),
			mk(BudgetQuestion,
				`\b(budget|cost|price|expense|fare)s?\b`,
				`how much`,
				`\b(cheap|affordable|expensive)\b`,
				`₹|\brupees?\b|\binr\b|\brs\.?\s*\d`,
			),
			mk(CulturalInfo,
				`\b(culture|cultural|tradition|festival|heritage of)\b`,
				`history of`,
				`tell me about`,
				`(custom|cuisine|art|music)s?\s+of`,
			),
			mk(BookingQuery,
				`(my|check|view).*(booking|reservation)`,
				`(cancel|modify|change|reschedule).*(booking|trip|reservation)`,
				`booking (status|confirmation|id)`,
			),
			mk(Marketplace,
				`\b(nft|souvenir|handicraft|artisan|memorabilia)s?\b`,
				`(buy|purchase|shop for|collect)`,
				`\bmarketplace\b`,
			),
			mk(Transport,
				`how (do i|to) (get|reach|travel)`,
				`\b(train|bus|flight|metro|taxi|ferry|tram)s?\b`,
				`\bfrom\s+\w+\s+to\s+\w+`,
			),
			mk(GetRecommendations,
				`\brecommend\w*\b`,
				`\bsuggest\w*\b`,
				`(best|top|popular|must.?see).*(place|destination|spot|thing)`,
				`where should i`,
			),
			mk(GeneralChat,
				`^\s*(hi|hello|hey|namaste)\b`,
				`\b(thank you|thanks)\b`,
				`(who|what) are you`,
			),
		},
		locationRe: regexp.MustCompile(`\b(?:[Ii]n|[Tt]o|[Aa]t|[Nn]ear|[Aa]round)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
		durationRe: regexp.MustCompile(`(?i)\b\d+\s*-?\s*(?:day|days|night|nights|week|weeks)\b`),
		budgetRe:   regexp.MustCompile(`(?i)(?:₹|rs\.?\s*|inr\s*)[\d,]+|\b[\d,]+\s*(?:rupees|inr|rs)\b`),
	}
}

// Classify scores the query against every category. Each matching
// pattern counts once; confidence is the winning score over the total
// across all categories. With no matches at all the query is
// general_chat at the fixed default confidence.
func (c *Classifier) Classify(query string) Result {
	query = strings.TrimSpace(query)

	best := GeneralChat
	bestScore, total := 0, 0
	for _, cat := range c.categories {
		score := 0
		for _, p := range cat.patterns {
			if p.MatchString(query) {
				score++
			}
		}
		total += score
		if score > bestScore {
			best = cat.intent
			bestScore = score
		}
	}

	res := Result{Intent: best, Confidence: defaultConfidence}
	if total > 0 {
		res.Confidence = float64(bestScore) / float64(total)
	} else {
		res.Intent = GeneralChat
	}

	if m := c.locationRe.FindStringSubmatch(query); m != nil {
		res.Location = m[1]
	}
	if m := c.durationRe.FindString(query); m != "" {
		res.Duration = m
	}
	if m := c.budgetRe.FindString(query); m != "" {
		res.Budget = m
	}
	return res
}
