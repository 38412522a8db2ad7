package corpus

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/CedarQuran/core/errors"
)

// Ref addresses a chapter, a verse, or a verse range.
type Ref struct {
	// Chapter is the chapter number (1-114).
	Chapter int `json:"chapter"`

	// Verse is the verse number (0 for whole-chapter references).
	Verse int `json:"verse,omitempty"`

	// VerseEnd is the ending verse for ranges (0 for single verses).
	VerseEnd int `json:"verse_end,omitempty"`
}

type refGrammar struct {
	Chapter  int        `parser:"@Int"`
	VerseRef *versePart `parser:"( \":\" @@ )?"`
}

type versePart struct {
	Verse int  `parser:"@Int"`
	Range *int `parser:"( \"-\" @Int )?"`
}

var refLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var refParser = participle.MustBuild[refGrammar](
	participle.Lexer(refLexer),
	participle.Elide("Whitespace"),
)

// ParseRef parses a reference string.
// Supported formats:
//   - "2" (whole chapter)
//   - "2:255" (single verse)
//   - "1:1-7" (verse range, inclusive)
func ParseRef(s string) (*Ref, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.NewParse("reference", "", "empty reference string")
	}

	parsed, err := refParser.ParseString("", s)
	if err != nil {
		return nil, &errors.ParseError{
			Format:  "reference",
			Message: fmt.Sprintf("invalid reference %q", s),
			Err:     err,
		}
	}

	ref := &Ref{Chapter: parsed.Chapter}
	if parsed.VerseRef != nil {
		ref.Verse = parsed.VerseRef.Verse
		if ref.Verse < 1 {
			return nil, errors.NewValidation("reference", "verse numbers are 1-based")
		}
		if parsed.VerseRef.Range != nil {
			ref.VerseEnd = *parsed.VerseRef.Range
			if ref.VerseEnd < ref.Verse {
				return nil, errors.NewValidation("reference",
					fmt.Sprintf("range end %d precedes start %d", ref.VerseEnd, ref.Verse))
			}
		}
	}
	return ref, nil
}

// String renders the reference back to its canonical form.
func (r *Ref) String() string {
	switch {
	case r.Verse == 0:
		return fmt.Sprintf("%d", r.Chapter)
	case r.VerseEnd == 0:
		return fmt.Sprintf("%d:%d", r.Chapter, r.Verse)
	default:
		return fmt.Sprintf("%d:%d-%d", r.Chapter, r.Verse, r.VerseEnd)
	}
}

// Resolve returns the verses the reference addresses, in order.
func (r *Ref) Resolve(c *Corpus) ([]Verse, error) {
	ch, err := c.GetChapter(r.Chapter)
	if err != nil {
		return nil, err
	}
	if r.Verse == 0 {
		return ch.Verses, nil
	}
	end := r.VerseEnd
	if end == 0 {
		end = r.Verse
	}
	if end > ch.VerseCount() {
		return nil, errors.NewNotFound("verse", fmt.Sprintf("%d:%d", r.Chapter, end))
	}
	return ch.Verses[r.Verse-1 : end], nil
}
