// Package script classifies Arabic code points for the analysis pipeline.
//
// Every rune falls into exactly one class: base letter, diacritic mark,
// letter variant (a presentation form of a base letter), or separator.
// The classifier is total: any rune outside the known tables is a
// separator, never an error. Class membership and the variant folding
// table follow the orthography of the Tanzil text provider, which
// supplies both the Uthmani and the simple script.
package script

// Class is the character class of a single code point.
type Class int

const (
	// Separator is whitespace, punctuation, digits, verse ornaments, and
	// every code point the classifier does not otherwise recognize.
	Separator Class = iota
	// BaseLetter is a canonical Arabic letter.
	BaseLetter
	// Diacritic is a tashkeel or Quranic annotation mark attached to a
	// letter. Diacritics are phonetic marks, not letters.
	Diacritic
	// Variant is an orthographic form of a base letter (e.g. the
	// hamza-carrying alef forms). Fold maps it to its base letter.
	Variant
)

// String returns the class name for diagnostics.
func (c Class) String() string {
	switch c {
	case BaseLetter:
		return "base-letter"
	case Diacritic:
		return "diacritic"
	case Variant:
		return "variant"
	default:
		return "separator"
	}
}

// ClassOf returns the class of r. Total over all runes.
func ClassOf(r rune) Class {
	if c, ok := classTable[r]; ok {
		return c
	}
	return Separator
}

// Fold returns the canonical base letter for a variant code point.
// Non-variant runes are returned unchanged.
func Fold(r rune) rune {
	if base, ok := foldTable[r]; ok {
		return base
	}
	return r
}

// IsLetter reports whether r is letter-bearing: a base letter or a
// variant of one. Diacritics and separators are not letters.
func IsLetter(r rune) bool {
	c := ClassOf(r)
	return c == BaseLetter || c == Variant
}
