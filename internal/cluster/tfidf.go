package cluster

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gonum.org/v1/gonum/mat"
)

// ErrEmptyVocabulary is returned when no terms survive tokenization and
// document-frequency pruning.
var ErrEmptyVocabulary = errors.New("cluster: empty vocabulary")

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Vectorizer turns documents into L2-normalised TF-IDF rows.
type Vectorizer struct {
	MaxFeatures int
	MaxDF       float64 // proportion of documents
	MinDF       int
	NgramMax    int
}

// NewVectorizer returns the vectorizer settings used for story clustering.
func NewVectorizer() *Vectorizer {
	return &Vectorizer{MaxFeatures: 500, MaxDF: 0.95, MinDF: 1, NgramMax: 2}
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Terms tokenizes a document into unigrams and n-grams after stop word
// removal.
func (v *Vectorizer) Terms(doc string) []string {
	doc = stripAccents(strings.ToLower(doc))
	var words []string
	for _, tok := range tokenPattern.FindAllString(doc, -1) {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		words = append(words, tok)
	}

	terms := append([]string(nil), words...)
	for n := 2; n <= v.NgramMax; n++ {
		for i := 0; i+n <= len(words); i++ {
			terms = append(terms, strings.Join(words[i:i+n], " "))
		}
	}
	return terms
}

// FitTransform builds the vocabulary for docs and returns the TF-IDF matrix
// with one row per document, plus the vocabulary in column order.
func (v *Vectorizer) FitTransform(docs []string) (*mat.Dense, []string, error) {
	n := len(docs)
	if n == 0 {
		return nil, nil, ErrEmptyVocabulary
	}

	counts := make([]map[string]int, n)
	df := make(map[string]int)
	total := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, t := range v.Terms(doc) {
			counts[i][t]++
			total[t]++
		}
		for t := range counts[i] {
			df[t]++
		}
	}
	if len(df) == 0 {
		return nil, nil, ErrEmptyVocabulary
	}

	maxDocs := v.MaxDF * float64(n)
	vocab := make([]string, 0, len(df))
	for t, d := range df {
		if float64(d) > maxDocs || d < v.MinDF {
			continue
		}
		vocab = append(vocab, t)
	}
	if len(vocab) == 0 {
		return nil, nil, ErrEmptyVocabulary
	}

	sort.Slice(vocab, func(i, j int) bool {
		if total[vocab[i]] != total[vocab[j]] {
			return total[vocab[i]] > total[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if v.MaxFeatures > 0 && len(vocab) > v.MaxFeatures {
		vocab = vocab[:v.MaxFeatures]
	}
	sort.Strings(vocab)

	cols := len(vocab)
	data := make([]float64, n*cols)
	for j, t := range vocab {
		idf := math.Log(float64(1+n)/float64(1+df[t])) + 1
		for i := range docs {
			if c := counts[i][t]; c > 0 {
				data[i*cols+j] = float64(c) * idf
			}
		}
	}
	for i := 0; i < n; i++ {
		normalize(data[i*cols : (i+1)*cols])
	}
	return mat.NewDense(n, cols, data), vocab, nil
}

// normalize scales row to unit L2 length; all-zero rows stay zero.
func normalize(row []float64) {
	sum := 0.0
	for _, v := range row {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	l2 := math.Sqrt(sum)
	for k := range row {
		row[k] /= l2
	}
}

// Similarity returns the cosine similarity matrix of L2-normalised rows.
func Similarity(x *mat.Dense) *mat.Dense {
	var sim mat.Dense
	sim.Mul(x, x.T())
	return &sim
}
