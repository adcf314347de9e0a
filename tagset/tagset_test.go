package tagset

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

var categories = map[Universal][]string{
	Noun:  {"NN", "NNS", "NP"},
	Propn: {"NNP", "NNPS"},
	Verb:  {"MD", "VB", "VBD", "VBG", "VBN", "VBP", "VBZ"},
	Adj:   {"JJ", "JJR", "JJS"},
	Adv:   {"RB", "RBR", "RBS", "WRB"},
	Pron:  {"PRP", "PRP$", "WP", "WP$"},
	Det:   {"DT", "PDT", "WDT", "EX"},
	Prep:  {"IN"},
	Num:   {"CD"},
	Conj:  {"CC"},
	Intj:  {"UH"},
	Prt:   {"POS", "RP", "TO"},
	Punc:  {"SYM", "LS", ".", "!", "?", ",", ":", "(", ")", "\"", "#", "$"},
}

func TestMapTagCategories(t *testing.T) {
	total := 0
	for want, tags := range categories {
		for _, tag := range tags {
			require.Equal(t, string(want), MapTag(tag), "tag %q", tag)
			u, ok := Lookup(tag)
			require.True(t, ok, tag)
			require.Equal(t, want, u)
			total++
		}
	}
	require.Len(t, treebank, total)
}

func TestMapTagFallback(t *testing.T) {
	for _, tag := range []string{"XYZ", "", "nn", "NN ", "FW", "-LRB-", "``", "ADD", "NOUN", "NNP_LOC", "NNPX-LOC"} {
		require.Equal(t, "X", MapTag(tag), "tag %q", tag)
		_, ok := Lookup(tag)
		require.False(t, ok)
	}
}

func TestMapTagCompoundProperNoun(t *testing.T) {
	cases := map[string]string{
		"NNP-LOC":      "NOUN-LOC",
		"NNPS-PERS":    "NOUN-PERS",
		"NNP-ORG-GOV":  "NOUN-ORG-GOV",
		"NNPS-x":       "NOUN-x",
		"NNP-$":        "NOUN-$",
		"NNP-NNP-LOC":  "NOUN-NNP-LOC",
		"NNPS-a b c d": "NOUN-a b c d",
	}
	for tag, want := range cases {
		require.Equal(t, want, MapTag(tag), "tag %q", tag)
	}
}

func TestMapTagExamples(t *testing.T) {
	require.Equal(t, "VERB", MapTag("VBD"))
	require.Equal(t, "NOUN-LOC", MapTag("NNP-LOC"))
	require.Equal(t, "X", MapTag("XYZ"))
	require.Equal(t, "PUNC", MapTag(","))
}

func TestUniversalValidate(t *testing.T) {
	require.Len(t, All(), 15)
	for _, u := range All() {
		require.NoError(t, u.Validate())
	}
	err := Universal("PART").Validate()
	require.True(t, errors.Is(err, ErrUnknownTag))
}

func TestValidateLabel(t *testing.T) {
	for _, label := range []string{"NOUN", "PUNC", "X", MapTag("NNP-LOC"), MapTag("NNPS-ORG-GOV")} {
		require.NoError(t, ValidateLabel(label), label)
	}
	for _, label := range []string{"PUNCT", "PART", "noun", "NN", ""} {
		require.True(t, errors.Is(ValidateLabel(label), ErrUnknownTag), label)
	}
}
