package corpus

import (
	"errors"
	"testing"

	cederrors "github.com/FocuswithJustin/CedarQuran/core/errors"
)

func TestParseRef(t *testing.T) {
	tests := []struct {
		in   string
		want Ref
	}{
		{"2", Ref{Chapter: 2}},
		{"114", Ref{Chapter: 114}},
		{"2:255", Ref{Chapter: 2, Verse: 255}},
		{"1:1-7", Ref{Chapter: 1, Verse: 1, VerseEnd: 7}},
		{"  1:5 ", Ref{Chapter: 1, Verse: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRef(tt.in)
			if err != nil {
				t.Fatalf("ParseRef(%q) failed: %v", tt.in, err)
			}
			if *got != tt.want {
				t.Errorf("ParseRef(%q) = %+v, want %+v", tt.in, *got, tt.want)
			}
		})
	}
}

func TestParseRef_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "1:", ":5", "1:2-", "1:7-3", "1:0", "2:255:3"} {
		t.Run(in, func(t *testing.T) {
			if _, err := ParseRef(in); !errors.Is(err, cederrors.ErrInvalidInput) {
				t.Errorf("ParseRef(%q) error = %v, want ErrInvalidInput", in, err)
			}
		})
	}
}

func TestRefString(t *testing.T) {
	tests := []struct {
		ref  Ref
		want string
	}{
		{Ref{Chapter: 2}, "2"},
		{Ref{Chapter: 2, Verse: 255}, "2:255"},
		{Ref{Chapter: 1, Verse: 1, VerseEnd: 7}, "1:1-7"},
	}
	for _, tt := range tests {
		if got := tt.ref.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRefResolve(t *testing.T) {
	c := testCorpus(t)

	// Whole chapter.
	ref := &Ref{Chapter: 1}
	verses, err := ref.Resolve(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(verses) != 7 {
		t.Errorf("chapter ref resolved to %d verses, want 7", len(verses))
	}

	// Single verse.
	ref = &Ref{Chapter: 1, Verse: 5}
	verses, err = ref.Resolve(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(verses) != 1 || verses[0].Ref() != "1:5" {
		t.Errorf("verse ref resolved to %v", verses)
	}

	// Range.
	ref = &Ref{Chapter: 1, Verse: 2, VerseEnd: 4}
	verses, err = ref.Resolve(c)
	if err != nil {
		t.Fatal(err)
	}
	if len(verses) != 3 || verses[0].Number != 2 || verses[2].Number != 4 {
		t.Errorf("range ref resolved to %v", verses)
	}
}

func TestRefResolve_NotFound(t *testing.T) {
	c := testCorpus(t)
	for _, ref := range []*Ref{
		{Chapter: 115},
		{Chapter: 1, Verse: 8},
		{Chapter: 1, Verse: 5, VerseEnd: 9},
	} {
		if _, err := ref.Resolve(c); !errors.Is(err, cederrors.ErrNotFound) {
			t.Errorf("Resolve(%s) error = %v, want ErrNotFound", ref, err)
		}
	}
}
