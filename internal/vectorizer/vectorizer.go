// Package vectorizer builds TF-IDF document vectors over a small,
// rebuildable, corpus-derived vocabulary. It exists so the retriever
// can rank catalog items by cosine similarity without an external
// embedding service; corpus sizes are hundreds to low thousands of
// documents, never web scale.
//
// All math is guarded: empty corpora, unknown tokens, zero-norm
// vectors, and length mismatches degrade to zero scores rather than
// panicking, since this sits on the hot path of every query.
package vectorizer

import (
	"math"
	"regexp"
	"strings"
	"sync"

	"go.uber.org/zap"
)

var nonWord = regexp.MustCompile(`[^a-z0-9\s]+`)

// Tokenize lowercases, strips non-word characters, splits on
// whitespace, and drops tokens of length <= 2.
func Tokenize(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), " ")
	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > 2 {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Vectorizer converts text into fixed-length TF-IDF vectors. The
// vocabulary is built once from the corpus; Rebuild swaps it and drops
// every cached vector under one write lock so readers never mix
// generations.
type Vectorizer struct {
	mu       sync.RWMutex
	vocab    map[string]int
	docSets  []map[string]struct{}
	docCount int
	cache    map[string][]float64
	gen      uint64
	logger   *zap.Logger
}

// New builds a vectorizer from the corpus texts. An empty corpus is
// valid: Vectorize then returns zero-length vectors and every
// similarity degrades to 0.
func New(corpus []string, logger *zap.Logger) *Vectorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	v := &Vectorizer{logger: logger}
	v.build(corpus)
	return v
}

func (v *Vectorizer) build(corpus []string) {
	vocab := make(map[string]int)
	docSets := make([]map[string]struct{}, 0, len(corpus))
	for _, text := range corpus {
		set := make(map[string]struct{})
		for _, tok := range Tokenize(text) {
			set[tok] = struct{}{}
			if _, ok := vocab[tok]; !ok {
				vocab[tok] = len(vocab)
			}
		}
		docSets = append(docSets, set)
	}
	v.vocab = vocab
	v.docSets = docSets
	v.docCount = len(corpus)
	v.cache = make(map[string][]float64)
	v.gen++
	v.logger.Debug("vocabulary built",
		zap.Int("documents", v.docCount),
		zap.Int("terms", len(vocab)))
}

// Rebuild replaces the vocabulary from a new corpus and invalidates
// the entire vector cache atomically.
func (v *Vectorizer) Rebuild(corpus []string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.build(corpus)
}

// VocabSize returns the number of distinct vocabulary terms.
func (v *Vectorizer) VocabSize() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.vocab)
}

// Vectorize returns the L2-normalized TF-IDF vector for text. Results
// are cached by normalized source text for the lifetime of the current
// vocabulary; repeated calls are O(1).
func (v *Vectorizer) Vectorize(text string) []float64 {
	key := strings.ToLower(strings.TrimSpace(text))

	v.mu.RLock()
	if vec, ok := v.cache[key]; ok {
		v.mu.RUnlock()
		return vec
	}
	gen := v.gen
	vec := v.compute(text)
	v.mu.RUnlock()

	// Last write wins on collision; the value is deterministic for a
	// given key and vocabulary generation. A vector computed against a
	// vocabulary that was rebuilt in the meantime is never cached.
	v.mu.Lock()
	if v.gen == gen {
		v.cache[key] = vec
	}
	v.mu.Unlock()
	return vec
}

// compute assembles the vector. Callers hold at least the read lock.
func (v *Vectorizer) compute(text string) []float64 {
	vec := make([]float64, len(v.vocab))
	tokens := Tokenize(text)
	if len(tokens) == 0 || v.docCount == 0 {
		return vec
	}

	counts := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		counts[tok]++
	}

	total := float64(len(tokens))
	for tok, count := range counts {
		idx, ok := v.vocab[tok]
		if !ok {
			continue
		}
		df := v.documentFrequency(tok)
		if df == 0 {
			continue
		}
		tf := float64(count) / total
		idf := math.Log(float64(v.docCount) / float64(df))
		vec[idx] = tf * idf
	}

	normalize(vec)
	return vec
}

func (v *Vectorizer) documentFrequency(tok string) int {
	df := 0
	for _, set := range v.docSets {
		if _, ok := set[tok]; ok {
			df++
		}
	}
	return df
}

func normalize(vec []float64) {
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

// Cosine returns the cosine similarity of two vectors. It returns 0
// when the lengths differ or either norm is zero; it never panics.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
