package types

import (
	"fmt"
	"strings"
)

// TagField selects which tag of a token a labeling pass reads.
type TagField string

const (
	// TagFieldPos is the coarse tag shipped with the corpus (UPOS).
	TagFieldPos TagField = "pos"
	// TagFieldTag is the fine-grained treebank tag (XPOS).
	TagFieldTag TagField = "tag"
)

func ParseTagField(s string) (TagField, error) {
	switch TagField(strings.ToLower(s)) {
	case "", TagFieldPos:
		return TagFieldPos, nil
	case TagFieldTag:
		return TagFieldTag, nil
	}
	return "", fmt.Errorf("unknown tag field %q", s)
}

type Token struct {
	// position of the token in its document, starting at 0
	Index int    `json:"index"`
	Text  string `json:"text"`
	Lemma string `json:"lemma,omitempty"`
	Pos   string `json:"pos"`
	Tag   string `json:"tag"`
}

func (token Token) Get(field TagField) string {
	if field == TagFieldTag {
		return token.Tag
	}
	return token.Pos
}
