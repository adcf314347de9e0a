package labeling

import (
	"errors"
	"fmt"

	"text2phenotype.com/postag/tagset"
	"text2phenotype.com/postag/types"
)

var ErrUnknownFunction = errors.New("unknown labeling function")

func toSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, label := range labels {
		set[label] = true
	}
	return set
}

// Gold replaces the spans of a document with one span per token whose tag is
// in allLabels, labeled with that tag.
func Gold(allLabels []string, field types.TagField) LabelingFunc {
	allowed := toSet(allLabels)
	return func(doc types.Document) (types.Document, error) {
		spans := make(types.Spans, 0, len(doc.Tokens))
		for i, token := range doc.Tokens {
			if label := token.Get(field); allowed[label] {
				spans = append(spans, types.NewTokenSpan(i, label))
			}
		}
		return doc.WithSpans(spans)
	}
}

// Treebank labels tokens by mapping their treebank tag to the universal tag
// set. Only tokens whose mapped label is in allLabels get a span; with an
// empty allow-list every token does.
func Treebank(allLabels []string) LabelingFunc {
	allowed := toSet(allLabels)
	return func(doc types.Document) (types.Document, error) {
		spans := make(types.Spans, 0, len(doc.Tokens))
		for i, token := range doc.Tokens {
			label := tagset.MapTag(token.Tag)
			if len(allowed) > 0 && !allowed[label] {
				continue
			}
			spans = append(spans, types.NewTokenSpan(i, label))
		}
		return doc.WithSpans(spans)
	}
}

// Universal gives every token exactly one span with its universal label.
func Universal() LabelingFunc {
	return Treebank(nil)
}

// ByName builds a labeling function from its configuration name.
func ByName(name string, labels []string, field types.TagField) (LabelingFunc, error) {
	switch name {
	case types.GoldLabeling:
		return Gold(labels, field), nil
	case types.TreebankLabeling:
		return Treebank(labels), nil
	case types.UniversalLabeling:
		return Universal(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, name)
}

// Summarize counts the gold labels of docs. Tokens whose tag is not in
// allLabels are counted as X.
func Summarize(docs []types.Document, allLabels []string, field types.TagField) types.Summary {
	allowed := toSet(allLabels)
	summary := types.Summary{
		Documents: len(docs),
		Labels:    make(map[string]int, len(allowed)),
	}
	for _, doc := range docs {
		summary.Tokens += len(doc.Tokens)
		summary.Spans += len(doc.Spans)
		for _, token := range doc.Tokens {
			if label := token.Get(field); allowed[label] {
				summary.Labels[label]++
				continue
			}
			summary.Other++
		}
	}
	return summary
}
