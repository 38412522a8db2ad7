// Package metrics derives word and letter counts from the
// normalization and tokenization pipeline. Both counts are pure
// derivations: they always equal what a caller would get by running
// normalize and tokenize directly with the same options.
package metrics

import (
	"github.com/FocuswithJustin/CedarQuran/core/normalize"
	"github.com/FocuswithJustin/CedarQuran/core/script"
	"github.com/FocuswithJustin/CedarQuran/core/tokenize"
)

// Options bundles the configuration for both pipeline stages.
type Options struct {
	Normalize normalize.Options
	Tokenize  tokenize.Options
}

// DefaultOptions returns the default configuration: strip diacritics,
// fold variants, no conjunction splitting.
func DefaultOptions() Options {
	return Options{
		Normalize: normalize.DefaultOptions(),
		Tokenize:  tokenize.DefaultOptions(),
	}
}

// Counts holds the derived metrics for one piece of text.
type Counts struct {
	Words   int `json:"words"`
	Letters int `json:"letters"`
}

// WordCount returns the number of tokens in the normalized text.
func WordCount(text string, opts Options) (int, error) {
	tokens, err := tokenize.Tokenize(normalize.Normalize(text, opts.Normalize), opts.Tokenize)
	if err != nil {
		return 0, err
	}
	return len(tokens), nil
}

// LetterCount returns the number of letter-bearing code points in the
// normalized text. Diacritics and separators never count as letters,
// whether or not stripping is enabled; variants count as letters even
// when folding is disabled.
func LetterCount(text string, opts Options) int {
	n := 0
	for _, r := range normalize.Normalize(text, opts.Normalize) {
		if script.IsLetter(r) {
			n++
		}
	}
	return n
}

// Count computes both metrics in one pass over the pipeline.
func Count(text string, opts Options) (Counts, error) {
	words, err := WordCount(text, opts)
	if err != nil {
		return Counts{}, err
	}
	return Counts{Words: words, Letters: LetterCount(text, opts)}, nil
}
