// Package retriever ranks catalog items against a query. The primary
// provider scores TF-IDF cosine similarity; a lexical-overlap provider
// sits behind it so retrieval still works when vectorization is
// unavailable. Providers form an ordered chain tried in sequence, each
// returning a result or an error, instead of nested recovery blocks.
package retriever

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/yatra/internal/catalog"
	"github.com/fyrsmithlabs/yatra/internal/vectorizer"
)

// SourceType tags where a retrieved context item came from.
type SourceType string

const (
	SourceDestination SourceType = "destination"
	SourceItinerary   SourceType = "itinerary"
	SourceGuide       SourceType = "guide"
	SourceWeb         SourceType = "web"
)

// Source is one piece of retrieved context.
type Source struct {
	Title   string     `json:"title"`
	Snippet string     `json:"snippet"`
	Score   float64    `json:"score"`
	Type    SourceType `json:"type"`
}

const (
	// DefaultTopN caps the ranked result list.
	DefaultTopN = 8

	// DefaultThreshold filters semantic scores; items scoring at or
	// below it are dropped. The lexical path uses score > 0 instead,
	// since overlap scores are coarser.
	DefaultThreshold = 0.1

	snippetLen = 160
)

// ErrNoVocabulary signals that the semantic provider has nothing to
// score against and the chain should fall through.
var ErrNoVocabulary = errors.New("retriever: empty vocabulary")

// Provider is one retrieval strategy in the fallback chain.
type Provider interface {
	Name() string
	Retrieve(ctx context.Context, query string) ([]Source, error)
}

// Retriever tries providers in order and returns the first successful
// result. A provider error is logged and the next provider is tried;
// the worst case is an empty, non-nil slice.
type Retriever struct {
	providers []Provider
	logger    *zap.Logger
}

// Option configures a Retriever.
type Option func(*options)

type options struct {
	topN      int
	threshold float64
	providers []Provider
}

// WithTopN overrides the result cap.
func WithTopN(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.topN = n
		}
	}
}

// WithThreshold overrides the semantic relevance threshold.
func WithThreshold(t float64) Option {
	return func(o *options) { o.threshold = t }
}

// WithProviders replaces the default provider chain.
func WithProviders(providers ...Provider) Option {
	return func(o *options) { o.providers = providers }
}

// New builds a retriever over the catalog with the default
// semantic-then-lexical chain.
func New(cat *catalog.Catalog, vec *vectorizer.Vectorizer, logger *zap.Logger, opts ...Option) *Retriever {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := options{topN: DefaultTopN, threshold: DefaultThreshold}
	for _, opt := range opts {
		opt(&o)
	}
	if o.providers == nil {
		o.providers = []Provider{
			&semanticProvider{cat: cat, vec: vec, topN: o.topN, threshold: o.threshold},
			&lexicalProvider{cat: cat, topN: o.topN},
		}
	}
	return &Retriever{providers: o.providers, logger: logger}
}

// Retrieve returns ranked context for the query.
func (r *Retriever) Retrieve(ctx context.Context, query string) []Source {
	for _, p := range r.providers {
		sources, err := p.Retrieve(ctx, query)
		if err != nil {
			r.logger.Warn("retrieval provider failed, trying next",
				zap.String("provider", p.Name()),
				zap.Error(err))
			continue
		}
		return sources
	}
	return []Source{}
}

// semanticProvider scores catalog items by TF-IDF cosine similarity.
type semanticProvider struct {
	cat       *catalog.Catalog
	vec       *vectorizer.Vectorizer
	topN      int
	threshold float64
}

func (p *semanticProvider) Name() string { return "semantic" }

func (p *semanticProvider) Retrieve(ctx context.Context, query string) ([]Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.vec.VocabSize() == 0 {
		return nil, ErrNoVocabulary
	}

	queryVec := p.vec.Vectorize(query)
	var sources []Source
	for _, it := range p.cat.Items() {
		text := it.SearchText()
		score := vectorizer.Cosine(queryVec, p.vec.Vectorize(text))
		if score <= p.threshold {
			continue
		}
		sources = append(sources, Source{
			Title:   it.Name,
			Snippet: snippet(text),
			Score:   score,
			Type:    typeFor(it.Kind),
		})
	}
	return rank(sources, p.topN), nil
}

// lexicalProvider scores by the fraction of query tokens found as
// substrings of the item text.
type lexicalProvider struct {
	cat  *catalog.Catalog
	topN int
}

func (p *lexicalProvider) Name() string { return "lexical" }

func (p *lexicalProvider) Retrieve(ctx context.Context, query string) ([]Source, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens := vectorizer.Tokenize(query)
	if len(tokens) == 0 {
		return []Source{}, nil
	}

	var sources []Source
	for _, it := range p.cat.Items() {
		text := strings.ToLower(it.SearchText())
		matched := 0
		for _, tok := range tokens {
			if strings.Contains(text, tok) {
				matched++
			}
		}
		score := float64(matched) / float64(len(tokens))
		if score <= 0 {
			continue
		}
		sources = append(sources, Source{
			Title:   it.Name,
			Snippet: snippet(it.SearchText()),
			Score:   score,
			Type:    typeFor(it.Kind),
		})
	}
	return rank(sources, p.topN), nil
}

func typeFor(k catalog.Kind) SourceType {
	switch k {
	case catalog.KindItinerary:
		return SourceItinerary
	case catalog.KindGuide:
		return SourceGuide
	default:
		return SourceDestination
	}
}

func rank(sources []Source, topN int) []Source {
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Score > sources[j].Score
	})
	if len(sources) > topN {
		sources = sources[:topN]
	}
	if sources == nil {
		sources = []Source{}
	}
	return sources
}

func snippet(text string) string {
	if len(text) <= snippetLen {
		return text
	}
	// Back the cut off to a rune boundary so multibyte catalog text is
	// never split mid-rune.
	end := snippetLen
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	cut := strings.LastIndex(text[:end], " ")
	if cut <= 0 {
		cut = end
	}
	return text[:cut] + "…"
}
