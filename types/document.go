package types

import (
	"errors"
	"fmt"
)

var ErrSpanOutOfRange = errors.New("span out of document range")

type Document struct {
	ID     string  `json:"id"`
	Text   string  `json:"text,omitempty"`
	Tokens []Token `json:"tokens"`
	Spans  Spans   `json:"spans"`
}

func (doc Document) Clone() Document {
	res := Document{ID: doc.ID, Text: doc.Text}
	if doc.Tokens != nil {
		res.Tokens = make([]Token, len(doc.Tokens))
		copy(res.Tokens, doc.Tokens)
	}
	if doc.Spans != nil {
		res.Spans = make(Spans, len(doc.Spans))
		copy(res.Spans, doc.Spans)
	}
	return res
}

// WithSpans returns a copy of doc whose span set is exactly spans, with
// repeated spans collapsed. Spans already on doc are discarded.
func (doc Document) WithSpans(spans Spans) (Document, error) {
	for _, span := range spans {
		if span.Begin < 0 || span.End > len(doc.Tokens) || span.Begin >= span.End {
			return doc, fmt.Errorf(
				"%w: [%d, %d) in document %q with %d tokens",
				ErrSpanOutOfRange, span.Begin, span.End, doc.ID, len(doc.Tokens))
		}
	}
	res := doc.Clone()
	res.Spans = spans.Unique()
	return res, nil
}
