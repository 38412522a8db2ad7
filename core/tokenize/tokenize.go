// Package tokenize splits normalized (or raw) text into word tokens.
//
// A token is a maximal run of non-separator code points. Tokenization
// is deterministic and context-free: the output depends only on the
// input text and the options, never on chapter/verse identity.
package tokenize

import (
	"fmt"
	"unicode/utf8"

	"github.com/FocuswithJustin/CedarQuran/core/errors"
	"github.com/FocuswithJustin/CedarQuran/core/script"
)

// Token is one word produced by tokenization. Start and End are byte
// offsets into the input string, so Text == input[Start:End].
type Token struct {
	Text  string
	Start int
	End   int
}

// ConjunctionWaFa is the conventional conjunction set: the single-letter
// particles waw ("and") and fa ("so") written attached to the next word.
var ConjunctionWaFa = []rune{script.Waw, script.Fa}

// Options controls tokenization behavior.
type Options struct {
	// SplitLeadingConjunctions lists single letters to split off the
	// front of a token. The split happens once per token, only when a
	// non-empty remainder is left. Empty means no splitting.
	SplitLeadingConjunctions []rune
}

// DefaultOptions returns the default configuration: no conjunction
// splitting.
func DefaultOptions() Options {
	return Options{}
}

// Validate checks that every configured conjunction letter is a
// classified base letter of the script.
func (o Options) Validate() error {
	for _, r := range o.SplitLeadingConjunctions {
		if script.ClassOf(r) != script.BaseLetter {
			return &errors.ValidationError{
				Field:   "split_leading_conjunctions",
				Value:   fmt.Sprintf("%q", r),
				Message: fmt.Sprintf("%q is not a base letter", r),
			}
		}
	}
	return nil
}

// Tokenize splits text into tokens in source order. Leading and
// trailing separator runs produce no empty tokens.
func Tokenize(text string, opts Options) ([]Token, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	var tokens []Token
	start := -1
	for i, r := range text {
		if script.ClassOf(r) == script.Separator {
			if start >= 0 {
				tokens = appendToken(tokens, text, start, i, opts)
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, text, start, len(text), opts)
	}
	return tokens, nil
}

// Words is a convenience wrapper returning only the token texts.
func Words(text string, opts Options) ([]string, error) {
	tokens, err := Tokenize(text, opts)
	if err != nil {
		return nil, err
	}
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Text
	}
	return words, nil
}

// appendToken adds the token text[start:end], splitting off a leading
// conjunction letter when configured and the remainder still carries at
// least one letter. A token that is exactly the conjunction letter
// (possibly with trailing diacritics) is never split.
func appendToken(tokens []Token, text string, start, end int, opts Options) []Token {
	word := text[start:end]
	first, size := utf8.DecodeRuneInString(word)
	if isConjunction(first, opts.SplitLeadingConjunctions) && hasLetter(word[size:]) {
		return append(tokens,
			Token{Text: word[:size], Start: start, End: start + size},
			Token{Text: word[size:], Start: start + size, End: end},
		)
	}
	return append(tokens, Token{Text: word, Start: start, End: end})
}

func hasLetter(s string) bool {
	for _, r := range s {
		if script.IsLetter(r) {
			return true
		}
	}
	return false
}

func isConjunction(r rune, set []rune) bool {
	for _, c := range set {
		if c == r {
			return true
		}
	}
	return false
}
