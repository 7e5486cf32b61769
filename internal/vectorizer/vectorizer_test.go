package vectorizer

import (
	"math"
	"testing"
)

var testCorpus = []string{
	"heritage walk through colonial Kolkata architecture",
	"tea gardens and mountain views in Darjeeling",
	"mangrove boat safari in the Sundarbans delta",
	"street food trail and markets of old Delhi",
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"drops short tokens", "go to the Taj Mahal", []string{"the", "taj", "mahal"}},
		{"strips punctuation", "Plan a 3-day trip, please!", []string{"plan", "day", "trip", "please"}},
		{"empty input", "   ", nil},
		{"lowercases", "KOLKATA Heritage", []string{"kolkata", "heritage"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCosineBounds(t *testing.T) {
	v := New(testCorpus, nil)
	texts := append([]string{"heritage food mountains", "completely unrelated zebra"}, testCorpus...)
	for _, a := range texts {
		for _, b := range texts {
			sim := Cosine(v.Vectorize(a), v.Vectorize(b))
			if sim < -1.0000001 || sim > 1.0000001 {
				t.Errorf("Cosine(%q, %q) = %v out of [-1, 1]", a, b, sim)
			}
		}
	}
}

func TestCosineSelfSimilarity(t *testing.T) {
	v := New(testCorpus, nil)
	vec := v.Vectorize("heritage walk in Kolkata")
	if sim := Cosine(vec, vec); math.Abs(sim-1) > 1e-9 {
		t.Errorf("self similarity = %v, want 1", sim)
	}
}

func TestCosineGuards(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
	}{
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}},
		{"zero vector", []float64{0, 0}, []float64{1, 0}},
		{"both empty", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cosine(tt.a, tt.b); got != 0 {
				t.Errorf("Cosine() = %v, want 0", got)
			}
		})
	}
}

func TestVectorizeNormalized(t *testing.T) {
	v := New(testCorpus, nil)
	vec := v.Vectorize(testCorpus[0])
	var sum float64
	for _, x := range vec {
		sum += x * x
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("squared norm = %v, want 1", sum)
	}
}

func TestVectorizeOutOfVocabulary(t *testing.T) {
	v := New(testCorpus, nil)
	vec := v.Vectorize("zzz qqq xxx")
	for i, x := range vec {
		if x != 0 {
			t.Fatalf("vec[%d] = %v for out-of-vocabulary text, want all zeros", i, x)
		}
	}
}

func TestEmptyCorpusSafe(t *testing.T) {
	v := New(nil, nil)
	vec := v.Vectorize("heritage sites")
	if len(vec) != 0 {
		t.Errorf("empty corpus vector length = %d, want 0", len(vec))
	}
	if sim := Cosine(vec, vec); sim != 0 {
		t.Errorf("similarity over empty corpus = %v, want 0", sim)
	}
}

func TestCacheIsDeterministic(t *testing.T) {
	v := New(testCorpus, nil)
	a := v.Vectorize("  Heritage WALK  ")
	b := v.Vectorize("heritage walk")
	if len(a) != len(b) {
		t.Fatalf("length mismatch %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cached vector differs at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestRebuildInvalidatesCache(t *testing.T) {
	v := New(testCorpus, nil)
	before := v.Vectorize("tea gardens")
	if len(before) != v.VocabSize() {
		t.Fatalf("vector length %d != vocab size %d", len(before), v.VocabSize())
	}

	v.Rebuild([]string{"tea gardens", "tea estates"})
	after := v.Vectorize("tea gardens")
	if len(after) != v.VocabSize() {
		t.Fatalf("post-rebuild vector length %d != vocab size %d", len(after), v.VocabSize())
	}
	if len(after) == len(before) {
		t.Fatalf("rebuild did not change vocabulary size (%d)", len(after))
	}
}
