package metrics

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/CedarQuran/core/cache"
)

// Memo caches computed Counts keyed by a content hash of the raw text
// and the canonicalized options. Because the key covers the full input
// of the computation, a hit is always identical to recomputation.
type Memo struct {
	cache cache.Cache[string, Counts]
}

// NewMemo creates a Memo backed by an LRU cache with the given config.
func NewMemo(cfg cache.Config) *Memo {
	return &Memo{cache: cache.NewLRU[string, Counts](cfg)}
}

// Count returns the metrics for text under opts, computing and storing
// them on first use.
func (m *Memo) Count(text string, opts Options) (Counts, error) {
	key := Key(text, opts)
	if counts, ok := m.cache.Get(key); ok {
		return counts, nil
	}
	counts, err := Count(text, opts)
	if err != nil {
		return Counts{}, err
	}
	m.cache.Put(key, counts)
	return counts, nil
}

// Stats exposes the underlying cache statistics.
func (m *Memo) Stats() cache.Stats {
	return m.cache.Stats()
}

// Key derives the cache key: a blake3 hash over the text and a
// canonical encoding of the options. The conjunction set is sorted so
// that equal sets produce equal keys regardless of declaration order.
func Key(text string, opts Options) string {
	conj := append([]rune(nil), opts.Tokenize.SplitLeadingConjunctions...)
	sort.Slice(conj, func(i, j int) bool { return conj[i] < conj[j] })

	h := blake3.New()
	fmt.Fprintf(h, "strip=%t;fold=%t;conj=%q;", opts.Normalize.StripDiacritics, opts.Normalize.FoldVariants, string(conj))
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return hex.EncodeToString(sum)
}
