package main

import (
	"testing"
)

func TestPipelineFlags_Defaults(t *testing.T) {
	var f pipelineFlags
	opts := f.options()

	if !opts.Normalize.StripDiacritics {
		t.Error("diacritics should be stripped by default")
	}
	if !opts.Normalize.FoldVariants {
		t.Error("variants should be folded by default")
	}
	if len(opts.Tokenize.SplitLeadingConjunctions) != 0 {
		t.Errorf("no conjunctions should be configured by default, got %v",
			opts.Tokenize.SplitLeadingConjunctions)
	}
}

func TestPipelineFlags_Keep(t *testing.T) {
	f := pipelineFlags{KeepDiacritics: true, KeepVariants: true}
	opts := f.options()

	if opts.Normalize.StripDiacritics || opts.Normalize.FoldVariants {
		t.Errorf("keep flags should disable both steps: %+v", opts.Normalize)
	}
}

func TestPipelineFlags_SplitConjunctions(t *testing.T) {
	f := pipelineFlags{SplitConjunctions: "وف"}
	opts := f.options()

	got := opts.Tokenize.SplitLeadingConjunctions
	if len(got) != 2 || got[0] != 'و' || got[1] != 'ف' {
		t.Errorf("conjunctions = %q", string(got))
	}
	if err := opts.Tokenize.Validate(); err != nil {
		t.Errorf("وف should be valid conjunction letters: %v", err)
	}
}
