package retrieval

import (
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"policychat/internal/vecmath"
)

// Vectorizer is a fitted TF-IDF weighting model over unigrams and bigrams.
// Once fitted it can project arbitrary query strings into the same vector
// basis; terms outside the fitted vocabulary contribute zero weight.
type Vectorizer struct {
	vocabulary map[string]int // feature -> index
	idf        []float32
}

// Fit builds the vocabulary and IDF weights from the corpus contents.
// An empty corpus fits an empty model; every later Transform then yields
// a zero vector.
func (v *Vectorizer) Fit(contents []string) {
	df := make(map[string]int)
	for _, text := range contents {
		seen := make(map[string]bool)
		for _, f := range features(text) {
			if !seen[f] {
				df[f]++
				seen[f] = true
			}
		}
	}

	// Stable feature ordering so repeated builds over the same corpus
	// produce identical vectors.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	v.vocabulary = make(map[string]int, len(terms))
	v.idf = make([]float32, len(terms))
	n := float64(len(contents))
	for i, term := range terms {
		v.vocabulary[term] = i
		// Smoothed IDF: log((1+N)/(1+df)) + 1
		v.idf[i] = float32(math.Log((1+n)/(1+float64(df[term]))) + 1)
	}
}

// Transform projects text into the fitted vector basis and returns an
// L2-normalized TF-IDF vector.
func (v *Vectorizer) Transform(text string) []float32 {
	vec := make([]float32, len(v.idf))

	tf := make(map[int]int)
	for _, f := range features(text) {
		if idx, ok := v.vocabulary[f]; ok {
			tf[idx]++
		}
	}
	for idx, count := range tf {
		vec[idx] = float32(count) * v.idf[idx]
	}
	vecmath.Normalize(vec)
	return vec
}

// Dimensions returns the fitted vocabulary size.
func (v *Vectorizer) Dimensions() int {
	return len(v.vocabulary)
}

// VectorSpace is one corpus snapshot with its fitted model and one weighted
// vector per document. The vector at position i corresponds to the document
// at position i; rebuilding produces a fresh space and invalidates nothing
// already handed out, since spaces are immutable after construction.
type VectorSpace struct {
	docs  []Document
	vecs  [][]float32
	model *Vectorizer
}

// BuildSpace fits a vector space over the supplied documents. Documents with
// content that is not valid UTF-8 abort the build so a caller can keep its
// previous space intact.
func BuildSpace(docs []Document) (*VectorSpace, error) {
	contents := make([]string, len(docs))
	for i, d := range docs {
		if !utf8.ValidString(d.Content) {
			return nil, wrapError("build", ErrMalformedDocument)
		}
		contents[i] = d.Content
	}

	model := &Vectorizer{}
	model.Fit(contents)

	vecs := make([][]float32, len(docs))
	for i, c := range contents {
		vecs[i] = model.Transform(c)
	}

	return &VectorSpace{docs: docs, vecs: vecs, model: model}, nil
}

// Len returns the number of documents in the space.
func (s *VectorSpace) Len() int {
	if s == nil {
		return 0
	}
	return len(s.docs)
}

// Documents returns the corpus snapshot the space was built from.
func (s *VectorSpace) Documents() []Document {
	if s == nil {
		return nil
	}
	return s.docs
}

// features tokenizes text into lowercase word tokens and returns the
// unigrams plus adjacent-pair bigrams. Bigrams catch short policy phrases
// ("annual leave") that unigram matching alone misses.
func features(text string) []string {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(tokens)-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

// tokenize splits text into lowercase runs of letters and digits.
func tokenize(text string) []string {
	var words []string
	var word strings.Builder

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			word.WriteRune(r)
		} else if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}
	if word.Len() > 0 {
		words = append(words, word.String())
	}

	return words
}
