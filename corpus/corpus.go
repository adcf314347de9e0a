// Package corpus reads annotated corpus splits and attaches gold POS spans.
package corpus

import (
	"errors"
	"fmt"
	"path"

	"text2phenotype.com/postag/types"
)

var (
	ErrMalformed     = errors.New("malformed corpus file")
	ErrUnknownFormat = errors.New("unknown corpus format")
)

// Decoder turns the content of a corpus file into documents.
type Decoder func(data []byte) ([]types.Document, error)

var decoders = map[string]Decoder{
	types.FormatCoNLLU: DecodeCoNLLU,
	types.FormatJSON:   DecodeJSON,
}

func DecoderFor(format string) (Decoder, error) {
	decode, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return decode, nil
}

// Reader reads every document of a named split.
type Reader interface {
	Read(split string) ([]types.Document, error)
}

// Corpus is a dataset stored as <root>/<dataset>/<split>.<format>.
type Corpus struct {
	Root    string
	Dataset string
	Format  string
	source  Source
	decode  Decoder
}

func New(root string, dataset string, format string, source Source) (*Corpus, error) {
	decode, err := DecoderFor(format)
	if err != nil {
		return nil, err
	}
	return &Corpus{
		Root:    root,
		Dataset: dataset,
		Format:  format,
		source:  source,
		decode:  decode,
	}, nil
}

func (c *Corpus) Path(split string) string {
	return path.Join(c.Root, c.Dataset, fmt.Sprintf("%s.%s", split, c.Format))
}

// Read fetches and decodes the whole split at once.
func (c *Corpus) Read(split string) ([]types.Document, error) {
	splitPath := c.Path(split)
	data, err := c.source.Fetch(splitPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read split %q from %s: %w", split, splitPath, err)
	}
	docs, err := c.decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode split %q from %s: %w", split, splitPath, err)
	}
	return docs, nil
}
