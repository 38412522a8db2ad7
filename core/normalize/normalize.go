// Package normalize rewrites raw verse text into a canonical form.
//
// Normalization is a pure function of (text, options): it can strip
// diacritic marks and fold letter variants to their base letters, and
// does nothing else. It never touches separators, never reorders
// letters, and is idempotent under any fixed set of options.
package normalize

import (
	"strings"

	"github.com/FocuswithJustin/CedarQuran/core/script"
)

// Options controls normalization behavior.
type Options struct {
	// StripDiacritics removes every diacritic-classified code point.
	StripDiacritics bool
	// FoldVariants replaces letter variants with their base letters.
	FoldVariants bool
}

// DefaultOptions returns the default configuration: diacritic-free,
// variant-folded output.
func DefaultOptions() Options {
	return Options{StripDiacritics: true, FoldVariants: true}
}

// Normalize returns the canonical form of text under opts. An empty
// input yields an empty output; a string of nothing but diacritics
// yields an empty string when StripDiacritics is set.
func Normalize(text string, opts Options) string {
	if text == "" {
		return ""
	}
	if !opts.StripDiacritics && !opts.FoldVariants {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch script.ClassOf(r) {
		case script.Diacritic:
			if opts.StripDiacritics {
				continue
			}
			b.WriteRune(r)
		case script.Variant:
			if opts.FoldVariants {
				b.WriteRune(script.Fold(r))
				continue
			}
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
