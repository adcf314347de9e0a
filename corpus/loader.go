package corpus

import (
	"github.com/rs/zerolog"

	"text2phenotype.com/postag/labeling"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/types"
)

// AllDocuments disables truncation in LoadDataSplit.
const AllDocuments = -1

type Loader struct {
	reader    Reader
	field     types.TagField
	posLogger zerolog.Logger
}

func NewLoader(reader Reader, field types.TagField) *Loader {
	return &Loader{
		reader:    reader,
		field:     field,
		posLogger: logger.NewLogger("Loader"),
	}
}

// LoadDataSplit reads a split, keeps its first subset documents (all of them
// when subset is negative) and replaces the annotations of each document with
// gold spans for the tokens whose tag is in allLabels.
func (loader *Loader) LoadDataSplit(split string, allLabels []string, subset int) ([]types.Document, error) {
	docs, err := loader.reader.Read(split)
	if err != nil {
		return nil, err
	}
	total := len(docs)
	if subset >= 0 && subset < len(docs) {
		docs = docs[:subset]
	}

	docs, err = labeling.TagAll(docs, []labeling.LabelingFunc{labeling.Gold(allLabels, loader.field)})
	if err != nil {
		return nil, err
	}

	loader.posLogger.Debug().
		Str("split", split).
		Int("read", total).
		Interface("summary", labeling.Summarize(docs, allLabels, loader.field)).
		Msg("Loaded data split")
	return docs, nil
}
