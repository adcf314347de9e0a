// Package labeling applies labeling functions to documents.
package labeling

import (
	"fmt"

	"text2phenotype.com/postag/types"
)

// LabelingFunc takes a document and returns the labeled version of it. The
// argument must not be modified in place.
type LabelingFunc func(doc types.Document) (types.Document, error)

// Error reports which document and which function stopped TagAll.
type Error struct {
	Document   int
	DocumentID string
	Function   int
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf(
		"labeling function #%d failed on document #%d (%q): %s",
		e.Function, e.Document, e.DocumentID, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// TagAll runs every labeling function over every document. For each document
// the functions run in order and each one gets the result of the previous
// one. The first error aborts the whole pass.
func TagAll(docs []types.Document, lfs []LabelingFunc) ([]types.Document, error) {
	res := make([]types.Document, len(docs))
	copy(res, docs)
	for i, doc := range res {
		for j, lf := range lfs {
			var err error
			doc, err = lf(doc)
			if err != nil {
				return nil, &Error{Document: i, DocumentID: res[i].ID, Function: j, Err: err}
			}
		}
		res[i] = doc
	}
	return res, nil
}
