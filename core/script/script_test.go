package script

import "testing"

func TestClassOf_BaseLetters(t *testing.T) {
	for _, r := range []rune{'ب', 'ت', 'ج', 'س', 'ع', 'ق', 'ل', 'م', 'ن', 'و', 'ي', Hamza, WawHamza, YaHamza, Alef} {
		if got := ClassOf(r); got != BaseLetter {
			t.Errorf("ClassOf(%q) = %v, want base-letter", r, got)
		}
	}
}

func TestClassOf_Variants(t *testing.T) {
	for _, r := range []rune{AlefMadda, AlefHamza, AlefHamzaLo, AlefWasla, TaMarbuta, AlefMaqsura} {
		if got := ClassOf(r); got != Variant {
			t.Errorf("ClassOf(%q) = %v, want variant", r, got)
		}
	}
}

func TestClassOf_Diacritics(t *testing.T) {
	// Fatha, damma, kasra, shadda, sukun, tanween forms, tatweel,
	// maddah, hamza above, dagger alef, small high seen.
	for _, r := range []rune{0x064E, 0x064F, 0x0650, 0x0651, 0x0652, 0x064B, 0x064C, 0x064D, Tatweel, 0x0653, 0x0654, SuperAlef, 0x06DC} {
		if got := ClassOf(r); got != Diacritic {
			t.Errorf("ClassOf(%#x) = %v, want diacritic", r, got)
		}
	}
}

func TestClassOf_Separators(t *testing.T) {
	// Whitespace, Latin text, Arabic-Indic digits, verse ornaments, and
	// arbitrary unrecognized code points all classify as separator.
	for _, r := range []rune{' ', '\n', '\t', '.', ',', 'a', 'Z', '0', 0x0660, 0x0669, 0x06DD, 0x06DE, 0x06E9, 0x1F600, 0} {
		if got := ClassOf(r); got != Separator {
			t.Errorf("ClassOf(%#x) = %v, want separator", r, got)
		}
	}
}

func TestFold(t *testing.T) {
	tests := []struct {
		in, want rune
	}{
		{AlefMadda, Alef},
		{AlefHamza, Alef},
		{AlefHamzaLo, Alef},
		{AlefWasla, Alef},
		{TaMarbuta, Ha},
		{AlefMaqsura, Ya},
		// Non-variants pass through unchanged.
		{Alef, Alef},
		{'ب', 'ب'},
		{' ', ' '},
		{0x064E, 0x064E},
	}
	for _, tt := range tests {
		if got := Fold(tt.in); got != tt.want {
			t.Errorf("Fold(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFold_TargetsAreBaseLetters(t *testing.T) {
	// Every fold target must itself classify as a base letter, so folding
	// is idempotent by construction.
	for variant, base := range foldTable {
		if got := ClassOf(base); got != BaseLetter {
			t.Errorf("fold target %q of %q classifies as %v, want base-letter", base, variant, got)
		}
	}
}

func TestIsLetter(t *testing.T) {
	if !IsLetter('ب') {
		t.Error("base letter should be a letter")
	}
	if !IsLetter(AlefHamza) {
		t.Error("variant should be a letter")
	}
	if IsLetter(0x064E) {
		t.Error("diacritic should not be a letter")
	}
	if IsLetter(' ') {
		t.Error("separator should not be a letter")
	}
}

func TestClassString(t *testing.T) {
	tests := []struct {
		class Class
		want  string
	}{
		{BaseLetter, "base-letter"},
		{Diacritic, "diacritic"},
		{Variant, "variant"},
		{Separator, "separator"},
	}
	for _, tt := range tests {
		if got := tt.class.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.class, got, tt.want)
		}
	}
}
