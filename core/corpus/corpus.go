// Package corpus models the loaded text: 114 chapters of ordered
// verses in one script variant. A Corpus is immutable once built;
// concurrent readers need no locking.
package corpus

import (
	"fmt"

	"github.com/FocuswithJustin/CedarQuran/core/errors"
)

// ChapterCount is the fixed number of chapters in the text.
const ChapterCount = 114

// Script identifies one of the two mutually exclusive text sources.
type Script string

const (
	// ScriptUthmani is the fully vocalized Uthmani orthography.
	ScriptUthmani Script = "uthmani"
	// ScriptSimple is the plain modern orthography.
	ScriptSimple Script = "simple"
)

// ParseScript converts a user-supplied script name.
func ParseScript(s string) (Script, error) {
	switch Script(s) {
	case ScriptUthmani:
		return ScriptUthmani, nil
	case ScriptSimple:
		return ScriptSimple, nil
	default:
		return "", errors.NewUnsupported("script", fmt.Sprintf("%q is not uthmani or simple", s))
	}
}

// Verse is one numbered unit of text within a chapter. Text holds the
// raw source text exactly as it appears in the data file; it is the
// single source of truth for all derived analysis.
type Verse struct {
	Chapter int    `json:"chapter"`
	Number  int    `json:"number"`
	Text    string `json:"text"`
}

// Ref returns the verse coordinate in "chapter:verse" form.
func (v Verse) Ref() string {
	return fmt.Sprintf("%d:%d", v.Chapter, v.Number)
}

// Chapter is one of the 114 top-level divisions.
type Chapter struct {
	Number int     `json:"number"`
	Name   string  `json:"name"`
	Verses []Verse `json:"verses"`
}

// Verse returns the 1-based verse n of the chapter.
func (c *Chapter) Verse(n int) (Verse, error) {
	if n < 1 || n > len(c.Verses) {
		return Verse{}, errors.NewNotFound("verse", fmt.Sprintf("%d:%d", c.Number, n))
	}
	return c.Verses[n-1], nil
}

// VerseCount returns the number of verses in the chapter.
func (c *Chapter) VerseCount() int {
	return len(c.Verses)
}

// Corpus is the read-only, load-once collection of chapters.
type Corpus struct {
	script     Script
	sourceHash string
	chapters   []Chapter
}

// New builds a Corpus from loaded chapters. Chapters must be numbered
// contiguously from 1 and there must be exactly 114 of them.
func New(script Script, chapters []Chapter, sourceHash string) (*Corpus, error) {
	if len(chapters) != ChapterCount {
		return nil, errors.NewValidation("chapters",
			fmt.Sprintf("expected %d chapters, got %d", ChapterCount, len(chapters)))
	}
	for i := range chapters {
		if chapters[i].Number != i+1 {
			return nil, errors.NewValidation("chapters",
				fmt.Sprintf("chapter at position %d is numbered %d", i+1, chapters[i].Number))
		}
		for j := range chapters[i].Verses {
			v := chapters[i].Verses[j]
			if v.Chapter != i+1 || v.Number != j+1 {
				return nil, errors.NewValidation("verses",
					fmt.Sprintf("verse at %d:%d carries coordinate %d:%d", i+1, j+1, v.Chapter, v.Number))
			}
		}
	}
	return &Corpus{script: script, sourceHash: sourceHash, chapters: chapters}, nil
}

// Script returns the script variant this corpus was loaded from.
func (c *Corpus) Script() Script {
	return c.script
}

// SourceHash returns the blake3 hex digest of the raw data file.
func (c *Corpus) SourceHash() string {
	return c.sourceHash
}

// Chapters returns the chapter list in order. The returned slice and
// everything it references must be treated as read-only.
func (c *Corpus) Chapters() []Chapter {
	return c.chapters
}

// GetChapter returns the 1-based chapter n.
func (c *Corpus) GetChapter(n int) (*Chapter, error) {
	if n < 1 || n > len(c.chapters) {
		return nil, errors.NewNotFound("chapter", fmt.Sprintf("%d", n))
	}
	return &c.chapters[n-1], nil
}

// GetVerse returns verse (chapter, verse), both 1-based.
func (c *Corpus) GetVerse(chapter, verse int) (Verse, error) {
	ch, err := c.GetChapter(chapter)
	if err != nil {
		return Verse{}, err
	}
	return ch.Verse(verse)
}

// VerseCount returns the total number of verses across all chapters.
func (c *Corpus) VerseCount() int {
	n := 0
	for i := range c.chapters {
		n += len(c.chapters[i].Verses)
	}
	return n
}
