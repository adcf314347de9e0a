package types

import (
	"fmt"

	"text2phenotype.com/postag/utils"
)

// Span labels the token range [Begin, End) of a document.
type Span struct {
	Begin int    `json:"begin"`
	End   int    `json:"end"`
	Label string `json:"label"`
}

func NewTokenSpan(index int, label string) Span {
	return Span{Begin: index, End: index + 1, Label: label}
}

func (span Span) Len() int {
	return span.End - span.Begin
}

func (span Span) GetHashCode() uint64 {
	key := fmt.Sprintf("%d_%d_%s", span.Begin, span.End, span.Label)
	return utils.HashString(key)
}

type Spans []Span

func (spans Spans) Len() int {
	return len(spans)
}

func (spans Spans) Less(i int, j int) bool {
	if spans[i].Begin == spans[j].Begin {
		if spans[i].End == spans[j].End {
			return spans[i].Label < spans[j].Label
		}
		return spans[i].End < spans[j].End
	}
	return spans[i].Begin < spans[j].Begin
}

func (spans Spans) Swap(i int, j int) {
	spans[i], spans[j] = spans[j], spans[i]
}

// Unique drops repeated spans, keeping the first occurrence.
func (spans Spans) Unique() Spans {
	seen := make(map[uint64]bool, len(spans))
	res := make(Spans, 0, len(spans))
	for _, span := range spans {
		h := span.GetHashCode()
		if seen[h] {
			continue
		}
		seen[h] = true
		res = append(res, span)
	}
	return res
}
