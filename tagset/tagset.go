// Package tagset maps fine-grained Penn Treebank tags onto a coarse universal
// tag set.
package tagset

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownTag = errors.New("unknown universal tag")

// Universal is a coarse part-of-speech category.
type Universal string

const (
	Noun  Universal = "NOUN"
	Verb  Universal = "VERB"
	Adj   Universal = "ADJ"
	Adv   Universal = "ADV"
	Pron  Universal = "PRON"
	Det   Universal = "DET"
	Prep  Universal = "PREP"
	Adp   Universal = "ADP"
	Num   Universal = "NUM"
	Conj  Universal = "CONJ"
	Intj  Universal = "INTJ"
	Prt   Universal = "PRT"
	Punc  Universal = "PUNC"
	X     Universal = "X"
	Propn Universal = "PROPN"
)

var universalTags = []Universal{
	Noun, Verb, Adj, Adv, Pron, Det, Prep, Adp, Num, Conj, Intj, Prt, Punc, X, Propn,
}

// All returns the universal categories in declaration order.
func All() []Universal {
	res := make([]Universal, len(universalTags))
	copy(res, universalTags)
	return res
}

func (u Universal) String() string {
	return string(u)
}

func (u Universal) Validate() error {
	for _, v := range universalTags {
		if u == v {
			return nil
		}
	}
	return fmt.Errorf("%w: %q, expected one of %v", ErrUnknownTag, string(u), All())
}

// proper noun subtype annotations, e.g. NNP-LOC
var compoundPrefixes = []string{"NNP-", "NNPS-"}

// CompoundNounPrefix starts the labels MapTag gives to compound proper noun tags.
const CompoundNounPrefix = string(Noun) + "-"

var categoryTags = map[Universal][]string{
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

// treebank is categoryTags inverted.
var treebank = invert(categoryTags)

func invert(categories map[Universal][]string) map[string]Universal {
	res := make(map[string]Universal)
	for u, tags := range categories {
		for _, tag := range tags {
			res[tag] = u
		}
	}
	return res
}

// Lookup returns the category of a plain treebank tag. Compound proper noun
// tags are not resolved here, see MapTag.
func Lookup(tag string) (Universal, bool) {
	u, ok := treebank[tag]
	return u, ok
}

// MapTag returns the coarse category for a treebank tag. It never fails:
// "NNP-<suffix>" and "NNPS-<suffix>" become "NOUN-<suffix>", known tags map
// to their category and everything else maps to X.
//
// The suffix is everything after the first hyphen, kept as is, so
// "NNP-ORG-GOV" maps to "NOUN-ORG-GOV" and not to "NOUN-GOV".
func MapTag(tag string) string {
	for _, prefix := range compoundPrefixes {
		if strings.HasPrefix(tag, prefix) {
			return CompoundNounPrefix + tag[len(prefix):]
		}
	}
	if u, ok := Lookup(tag); ok {
		return string(u)
	}
	return string(X)
}

// ValidateLabel accepts a universal category or a compound noun label as
// produced by MapTag.
func ValidateLabel(label string) error {
	if strings.HasPrefix(label, CompoundNounPrefix) {
		return nil
	}
	return Universal(label).Validate()
}
