// Package entities extracts structured travel facts from free text.
// Each entity family runs its own pattern set independently over the
// full original query, so overlapping text can feed several families
// at once. Extraction is deterministic and stateless.
package entities

import (
	"regexp"
	"strings"
)

// Travel styles form a closed enum; free-form matches are normalized
// into it.
const (
	StyleSolo   = "solo"
	StyleCouple = "couple"
	StyleFamily = "family"
	StyleGroup  = "group"
)

// Set holds the extracted entities, each list deduplicated
// case-insensitively.
type Set struct {
	Locations     []string `json:"locations,omitempty"`
	Dates         []string `json:"dates,omitempty"`
	Budgets       []string `json:"budgets,omitempty"`
	Durations     []string `json:"durations,omitempty"`
	HeritageSites []string `json:"heritage_sites,omitempty"`
	TravelStyles  []string `json:"travel_styles,omitempty"`
	Interests     []string `json:"interests,omitempty"`
}

// Count returns the total number of extracted entities.
func (s Set) Count() int {
	return len(s.Locations) + len(s.Dates) + len(s.Budgets) + len(s.Durations) +
		len(s.HeritageSites) + len(s.TravelStyles) + len(s.Interests)
}

// gazetteer lists known place names matched as whole words,
// case-insensitively. Matches are reported in this canonical casing.
var gazetteer = []string{
	"Kolkata", "Delhi", "Mumbai", "Jaipur", "Agra", "Varanasi",
	"Darjeeling", "Chennai", "Goa", "Udaipur", "Amritsar", "Hampi",
	"Khajuraho", "Konark", "Pondicherry", "Shantiniketan", "Murshidabad",
	"Bishnupur", "Sundarbans",
}

// heritageSites lists known site names matched as whole phrases.
var heritageSites = []string{
	"Victoria Memorial", "Howrah Bridge", "Taj Mahal", "Qutub Minar",
	"Red Fort", "India Gate", "Hawa Mahal", "Gateway of India",
	"Dakshineswar Temple", "Sun Temple", "Ajanta Caves", "Ellora Caves",
	"Marble Palace", "Indian Museum", "Belur Math",
}

// styleAliases normalizes free-form phrasing into the closed enum.
var styleAliases = []struct {
	phrase string
	style  string
}{
	{"solo", StyleSolo},
	{"alone", StyleSolo},
	{"by myself", StyleSolo},
	{"on my own", StyleSolo},
	{"couple", StyleCouple},
	{"honeymoon", StyleCouple},
	{"romantic", StyleCouple},
	{"my wife", StyleCouple},
	{"my husband", StyleCouple},
	{"my partner", StyleCouple},
	{"family", StyleFamily},
	{"kids", StyleFamily},
	{"children", StyleFamily},
	{"parents", StyleFamily},
	{"group", StyleGroup},
	{"friends", StyleGroup},
	{"colleagues", StyleGroup},
}

// interestRules maps an interest tag to the keywords that indicate it.
var interestRules = map[string][]string{
	"heritage":    {"heritage", "historical", "monument", "architecture", "colonial"},
	"culture":     {"culture", "cultural", "festival", "tradition", "art", "music"},
	"food":        {"food", "cuisine", "street food", "restaurant", "eat"},
	"nature":      {"nature", "wildlife", "mangrove", "mountain", "river", "tea garden"},
	"spiritual":   {"spiritual", "pilgrimage", "temple", "ghat", "worship"},
	"photography": {"photography", "photo", "camera", "instagram"},
	"shopping":    {"shopping", "market", "bazaar", "souvenir", "handicraft"},
	"adventure":   {"adventure", "trek", "hike", "safari", "rafting"},
}

// interestOrder fixes the evaluation order of interestRules so output
// is deterministic.
var interestOrder = []string{
	"heritage", "culture", "food", "nature", "spiritual",
	"photography", "shopping", "adventure",
}

// Extractor pulls entity sets from query text.
type Extractor struct {
	locationRes  []*regexp.Regexp
	dateRes      []*regexp.Regexp
	budgetRes    []*regexp.Regexp
	durationRes  []*regexp.Regexp
	gazetteerRes []*regexp.Regexp
	siteRes      []*regexp.Regexp
	styleRes     []*regexp.Regexp
}

// NewExtractor compiles all pattern families.
func NewExtractor() *Extractor {
	e := &Extractor{
		locationRes: []*regexp.Regexp{
			regexp.MustCompile(`\b(?:[Ii]n|[Tt]o|[Aa]t|[Nn]ear|[Aa]round|[Vv]isit(?:ing)?)\s+([A-Z][a-z]+(?:\s+[A-Z][a-z]+)?)`),
		},
		dateRes: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+\d{1,2}(?:st|nd|rd|th)?\b`),
			regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
			regexp.MustCompile(`(?i)\b(?:next|this)\s+(?:week|month|weekend|summer|winter|monsoon)\b`),
			regexp.MustCompile(`(?i)\b(?:today|tomorrow)\b`),
			regexp.MustCompile(`(?i)\bduring\s+(?:durga\s+puja|diwali|holi|christmas)\b`),
		},
		budgetRes: []*regexp.Regexp{
			regexp.MustCompile(`₹\s*[\d,]+(?:k)?`),
			regexp.MustCompile(`(?i)\b[\d,]+\s*(?:rupees|inr|rs\.?)\b`),
			regexp.MustCompile(`(?i)\brs\.?\s*[\d,]+\b`),
			regexp.MustCompile(`(?i)\bbudget\s+of\s+[\d,]+\b`),
			regexp.MustCompile(`\$\s*[\d,]+`),
		},
		durationRes: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\b\d+\s*-?\s*(?:day|days|night|nights|week|weeks)\b`),
			regexp.MustCompile(`(?i)\b(?:a|one)\s+(?:week|weekend|fortnight)\b`),
			regexp.MustCompile(`(?i)\bhalf\s*-?\s*day\b`),
		},
	}

	for _, place := range gazetteer {
		e.gazetteerRes = append(e.gazetteerRes,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(place)+`\b`))
	}
	for _, site := range heritageSites {
		e.siteRes = append(e.siteRes,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(site)+`\b`))
	}
	for _, alias := range styleAliases {
		e.styleRes = append(e.styleRes,
			regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(alias.phrase)+`\b`))
	}
	return e
}

// Extract runs every family over the full original query. Calling it
// twice on the same input yields identical sets.
func (e *Extractor) Extract(query string) Set {
	var s Set

	loc := newDedup()
	for _, re := range e.locationRes {
		for _, m := range re.FindAllStringSubmatch(query, -1) {
			loc.add(m[1])
		}
	}
	for i, re := range e.gazetteerRes {
		if re.MatchString(query) {
			loc.add(gazetteer[i])
		}
	}
	s.Locations = loc.values

	s.Dates = collect(query, e.dateRes)
	s.Budgets = collect(query, e.budgetRes)
	s.Durations = collect(query, e.durationRes)

	sites := newDedup()
	for i, re := range e.siteRes {
		if re.MatchString(query) {
			sites.add(heritageSites[i])
		}
	}
	s.HeritageSites = sites.values

	styles := newDedup()
	for i, re := range e.styleRes {
		if re.MatchString(query) {
			styles.add(styleAliases[i].style)
		}
	}
	s.TravelStyles = styles.values

	lower := strings.ToLower(query)
	interests := newDedup()
	for _, tag := range interestOrder {
		for _, kw := range interestRules[tag] {
			if strings.Contains(lower, kw) {
				interests.add(tag)
				break
			}
		}
	}
	s.Interests = interests.values

	return s
}

func collect(query string, res []*regexp.Regexp) []string {
	d := newDedup()
	for _, re := range res {
		for _, m := range re.FindAllString(query, -1) {
			d.add(strings.TrimSpace(m))
		}
	}
	return d.values
}

// dedup accumulates values in first-seen order, keyed
// case-insensitively.
type dedup struct {
	seen   map[string]struct{}
	values []string
}

func newDedup() *dedup {
	return &dedup{seen: make(map[string]struct{})}
}

func (d *dedup) add(v string) {
	key := strings.ToLower(strings.TrimSpace(v))
	if key == "" {
		return
	}
	if _, ok := d.seen[key]; ok {
		return
	}
	d.seen[key] = struct{}{}
	d.values = append(d.values, strings.TrimSpace(v))
}
