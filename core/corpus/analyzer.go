package corpus

import (
	"github.com/FocuswithJustin/CedarQuran/core/cache"
	"github.com/FocuswithJustin/CedarQuran/core/metrics"
	"github.com/FocuswithJustin/CedarQuran/core/normalize"
	"github.com/FocuswithJustin/CedarQuran/core/tokenize"
)

// Analyzer runs the normalization/tokenization pipeline against a
// loaded corpus. Per-verse counts are memoized; the memo key covers
// the raw text and the options, so results are always identical to
// recomputation. Safe for concurrent use.
type Analyzer struct {
	corpus *Corpus
	memo   *metrics.Memo
}

// NewAnalyzer creates an Analyzer over c.
func NewAnalyzer(c *Corpus) *Analyzer {
	return &Analyzer{
		corpus: c,
		memo:   metrics.NewMemo(cache.DefaultConfig()),
	}
}

// Corpus returns the underlying corpus.
func (a *Analyzer) Corpus() *Corpus {
	return a.corpus
}

// VerseText returns the normalized text of one verse.
func (a *Analyzer) VerseText(chapter, verse int, opts normalize.Options) (string, error) {
	v, err := a.corpus.GetVerse(chapter, verse)
	if err != nil {
		return "", err
	}
	return normalize.Normalize(v.Text, opts), nil
}

// VerseWords returns the word list of one verse under opts.
func (a *Analyzer) VerseWords(chapter, verse int, opts metrics.Options) ([]string, error) {
	v, err := a.corpus.GetVerse(chapter, verse)
	if err != nil {
		return nil, err
	}
	return tokenize.Words(normalize.Normalize(v.Text, opts.Normalize), opts.Tokenize)
}

// VerseCounts returns the word and letter counts of one verse.
func (a *Analyzer) VerseCounts(chapter, verse int, opts metrics.Options) (metrics.Counts, error) {
	v, err := a.corpus.GetVerse(chapter, verse)
	if err != nil {
		return metrics.Counts{}, err
	}
	return a.memo.Count(v.Text, opts)
}

// ChapterCounts sums the per-verse counts across one chapter.
func (a *Analyzer) ChapterCounts(chapter int, opts metrics.Options) (metrics.Counts, error) {
	ch, err := a.corpus.GetChapter(chapter)
	if err != nil {
		return metrics.Counts{}, err
	}
	return a.sum(ch.Verses, opts)
}

// CorpusCounts sums the per-verse counts across the whole corpus.
func (a *Analyzer) CorpusCounts(opts metrics.Options) (metrics.Counts, error) {
	var total metrics.Counts
	for i := range a.corpus.chapters {
		counts, err := a.sum(a.corpus.chapters[i].Verses, opts)
		if err != nil {
			return metrics.Counts{}, err
		}
		total.Words += counts.Words
		total.Letters += counts.Letters
	}
	return total, nil
}

// CacheStats exposes the memo cache statistics.
func (a *Analyzer) CacheStats() cache.Stats {
	return a.memo.Stats()
}

func (a *Analyzer) sum(verses []Verse, opts metrics.Options) (metrics.Counts, error) {
	var total metrics.Counts
	for i := range verses {
		counts, err := a.memo.Count(verses[i].Text, opts)
		if err != nil {
			return metrics.Counts{}, err
		}
		total.Words += counts.Words
		total.Letters += counts.Letters
	}
	return total, nil
}
