// Package recommend ranks catalog items for a user. With recorded
// interaction history it runs a similarity-weighted collaborative
// vote; otherwise it falls back to precomputed popularity scores.
package recommend

import (
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/yatra/internal/catalog"
)

// ScoredItem pairs a catalog item with its ranking score.
type ScoredItem struct {
	Item  catalog.Item `json:"item"`
	Score float64      `json:"score"`
}

// Recommendations groups ranked items by catalog variant.
type Recommendations struct {
	Destinations []ScoredItem `json:"destinations"`
	Itineraries  []ScoredItem `json:"itineraries"`
	Guides       []ScoredItem `json:"guides"`
}

// Engine holds the interaction store. Interactions are sets, so
// recording the same interaction twice has no extra effect. The store
// is append-mostly and guarded by a single RWMutex.
type Engine struct {
	mu           sync.RWMutex
	cat          *catalog.Catalog
	interactions map[string]map[string]struct{}
	logger       *zap.Logger
}

// NewEngine creates an engine over the catalog.
func NewEngine(cat *catalog.Catalog, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cat:          cat,
		interactions: make(map[string]map[string]struct{}),
		logger:       logger,
	}
}

// RecordInteraction marks that the user engaged with an item. It is
// the engine's only mutator and is idempotent.
func (e *Engine) RecordInteraction(userID, itemID string) {
	if userID == "" || itemID == "" {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	set, ok := e.interactions[userID]
	if !ok {
		set = make(map[string]struct{})
		e.interactions[userID] = set
	}
	set[itemID] = struct{}{}
}

// InteractionCount returns how many distinct items the user has
// engaged with.
func (e *Engine) InteractionCount(userID string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.interactions[userID])
}

// Recommend returns up to limit items per category. A known user with
// history gets collaborative filtering; anonymous users and categories
// with no collaborative signal get popularity ranking.
func (e *Engine) Recommend(userID string, limit int) Recommendations {
	if limit <= 0 {
		limit = 5
	}

	// Copy the user's set before releasing the lock; ranking below must
	// not read a map a concurrent RecordInteraction may be writing.
	e.mu.RLock()
	seen := make(map[string]struct{}, len(e.interactions[userID]))
	for id := range e.interactions[userID] {
		seen[id] = struct{}{}
	}
	votes := e.collaborativeVotes(userID, seen)
	e.mu.RUnlock()

	recs := Recommendations{}
	for _, kind := range []catalog.Kind{catalog.KindDestination, catalog.KindItinerary, catalog.KindGuide} {
		ranked := e.rankByVotes(kind, votes, limit)
		if len(ranked) == 0 {
			ranked = e.rankByPopularity(kind, seen, limit)
		}
		switch kind {
		case catalog.KindDestination:
			recs.Destinations = ranked
		case catalog.KindItinerary:
			recs.Itineraries = ranked
		case catalog.KindGuide:
			recs.Guides = ranked
		}
	}
	return recs
}

// collaborativeVotes accumulates similarity-weighted votes from users
// who share at least one interacted item. Similarity is
// common / sqrt(|A|*|B|). Callers hold the read lock.
func (e *Engine) collaborativeVotes(userID string, seen map[string]struct{}) map[string]float64 {
	if len(seen) == 0 {
		return nil
	}
	votes := make(map[string]float64)
	for other, theirs := range e.interactions {
		if other == userID {
			continue
		}
		common := 0
		for id := range seen {
			if _, ok := theirs[id]; ok {
				common++
			}
		}
		if common == 0 {
			continue
		}
		sim := float64(common) / math.Sqrt(float64(len(seen))*float64(len(theirs)))
		for id := range theirs {
			if _, already := seen[id]; already {
				continue
			}
			votes[id] += sim
		}
	}
	return votes
}

func (e *Engine) rankByVotes(kind catalog.Kind, votes map[string]float64, limit int) []ScoredItem {
	if len(votes) == 0 {
		return nil
	}
	var ranked []ScoredItem
	for id, score := range votes {
		it, ok := e.cat.Get(id)
		if !ok || it.Kind != kind {
			continue
		}
		ranked = append(ranked, ScoredItem{Item: it, Score: score})
	}
	sortScored(ranked)
	return truncate(ranked, limit)
}

func (e *Engine) rankByPopularity(kind catalog.Kind, seen map[string]struct{}, limit int) []ScoredItem {
	var ranked []ScoredItem
	for _, it := range e.cat.ByKind(kind) {
		if _, already := seen[it.ID]; already {
			continue
		}
		ranked = append(ranked, ScoredItem{Item: it, Score: it.Popularity()})
	}
	sortScored(ranked)
	return truncate(ranked, limit)
}

func sortScored(items []ScoredItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Item.ID < items[j].Item.ID
	})
}

func truncate(items []ScoredItem, limit int) []ScoredItem {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}
