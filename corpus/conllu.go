package corpus

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"

	"text2phenotype.com/postag/types"
)

const (
	conlluFieldSeparator = "\t"
	conlluNumFields      = 10
	conlluEmpty          = "_"

	sentIDComment = "# sent_id = "
	textComment   = "# text = "
)

// DecodeCoNLLU reads a CoNLL-U treebank. Every sentence becomes a document.
// Multiword token ranges and empty nodes are skipped, so token indexes follow
// the syntactic words.
func DecodeCoNLLU(data []byte) ([]types.Document, error) {
	var docs []types.Document
	var current types.Document
	inSentence := false

	flush := func() {
		if !inSentence {
			return
		}
		if current.ID == "" {
			current.ID = fmt.Sprintf("sent-%d", len(docs)+1)
		}
		if current.Tokens == nil {
			current.Tokens = []types.Token{}
		}
		docs = append(docs, current)
		current = types.Document{}
		inSentence = false
	}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		switch {
		case strings.TrimSpace(line) == "":
			flush()
		case strings.HasPrefix(line, "#"):
			inSentence = true
			if strings.HasPrefix(line, sentIDComment) {
				current.ID = strings.TrimSpace(strings.TrimPrefix(line, sentIDComment))
			} else if strings.HasPrefix(line, textComment) {
				current.Text = strings.TrimPrefix(line, textComment)
			}
		default:
			inSentence = true
			fields := strings.Split(line, conlluFieldSeparator)
			if len(fields) != conlluNumFields {
				return nil, fmt.Errorf(
					"%w: line %d: expected %d fields, got %d",
					ErrMalformed, lineNo, conlluNumFields, len(fields))
			}
			// multiword token ranges (1-2) and empty nodes (1.1)
			if strings.ContainsAny(fields[0], "-.") {
				continue
			}
			current.Tokens = append(current.Tokens, types.Token{
				Index: len(current.Tokens),
				Text:  fields[1],
				Lemma: conlluValue(fields[2]),
				Pos:   conlluValue(fields[3]),
				Tag:   conlluValue(fields[4]),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	flush()

	return docs, nil
}

func conlluValue(field string) string {
	if field == conlluEmpty {
		return ""
	}
	return field
}
