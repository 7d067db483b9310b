package index

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// HashEmbedder is a deterministic, dependency-free Embedder built on token
// feature hashing. It stands in for the real cross-modal provider in tests
// and offline smoke runs: image bytes that decode as UTF-8 text are embedded
// through the same token path as queries, so textual fixtures land near
// textual queries. Binary image bytes fall back to byte-trigram hashing,
// which keeps Upsert deterministic but carries no semantics.
type HashEmbedder struct {
	dims int
}

// NewHashEmbedder creates a HashEmbedder. Non-positive dims defaults to 256.
func NewHashEmbedder(dims int) *HashEmbedder {
	if dims <= 0 {
		dims = 256
	}
	return &HashEmbedder{dims: dims}
}

// Dimensions returns the embedding dimensionality.
func (e *HashEmbedder) Dimensions() int { return e.dims }

// EmbedText hashes lowercased tokens into a normalized count vector.
func (e *HashEmbedder) EmbedText(_ context.Context, text string) ([]float64, error) {
	v := make([]float64, e.dims)
	for _, tok := range tokenize(text) {
		v[bucket(tok, e.dims)]++
	}
	return l2Normalize(v), nil
}

// EmbedImage embeds image bytes. UTF-8 payloads reuse the token path.
func (e *HashEmbedder) EmbedImage(ctx context.Context, image []byte) ([]float64, error) {
	if utf8.Valid(image) && len(image) > 0 {
		return e.EmbedText(ctx, string(image))
	}
	v := make([]float64, e.dims)
	for i := 0; i+3 <= len(image); i++ {
		v[bucket(string(image[i:i+3]), e.dims)]++
	}
	return l2Normalize(v), nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func bucket(s string, dims int) int {
	h := fnv.New32a()
	h.Write([]byte(s))
	return int(h.Sum32() % uint32(dims))
}

func l2Normalize(v []float64) []float64 {
	var norm float64
	for _, f := range v {
		norm += f * f
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
	return v
}
