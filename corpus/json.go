package corpus

import (
	"encoding/json"
	"fmt"

	"text2phenotype.com/postag/types"
)

// DecodeJSON reads a JSON array of documents. Spans in the input are dropped
// and token indexes are set from their position.
func DecodeJSON(data []byte) ([]types.Document, error) {
	var docs []types.Document
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, err)
	}
	for i := range docs {
		if docs[i].ID == "" {
			docs[i].ID = fmt.Sprintf("doc-%d", i+1)
		}
		if docs[i].Tokens == nil {
			docs[i].Tokens = []types.Token{}
		}
		for j := range docs[i].Tokens {
			docs[i].Tokens[j].Index = j
		}
		docs[i].Spans = nil
	}
	return docs, nil
}
