package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"

	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/labeling"
	"text2phenotype.com/postag/logger"
	"text2phenotype.com/postag/types"
)

var ErrUnknownConfiguration = errors.New("unknown configuration")

type Request struct {
	Tid    string `json:"tid"`
	Config string `json:"config"`
	// Split and Subset override the configuration when set.
	Split  string `json:"split,omitempty"`
	Subset *int   `json:"subset,omitempty"`
}

type Pipeline func(request Request) (types.TaggingResponse, error)

type Params struct {
	CorpusRoot     string                `json:"corpus_root"`
	Source         corpus.Source         `json:"-"`
	Configurations []types.Configuration `json:"configurations"`
}

type tagger struct {
	cfg    types.Configuration
	field  types.TagField
	loader *corpus.Loader
	lfs    []labeling.LabelingFunc
}

func newTagger(params Params, cfg types.Configuration) (*tagger, error) {
	field, err := types.ParseTagField(cfg.TagField)
	if err != nil {
		return nil, err
	}
	reader, err := corpus.New(params.CorpusRoot, cfg.Dataset, cfg.Format, params.Source)
	if err != nil {
		return nil, err
	}
	lfs := make([]labeling.LabelingFunc, 0, len(cfg.LabelingFunctions))
	for _, name := range cfg.LabelingFunctions {
		lf, err := labeling.ByName(name, cfg.Labels, field)
		if err != nil {
			return nil, err
		}
		lfs = append(lfs, lf)
	}
	return &tagger{
		cfg:    cfg,
		field:  field,
		loader: corpus.NewLoader(reader, field),
		lfs:    lfs,
	}, nil
}

func (t *tagger) subset(request Request) int {
	switch {
	case request.Subset != nil && *request.Subset >= 0:
		return *request.Subset
	case request.Subset != nil:
		return corpus.AllDocuments
	case t.cfg.Subset != nil:
		return *t.cfg.Subset
	}
	return corpus.AllDocuments
}

// New prepares a tagger for every configuration. It fails if any of them
// names an unknown corpus format, tag field or labeling function. Corpus
// files are read from the local disk unless params.Source is set.
func New(params Params) (Pipeline, error) {
	if params.Source == nil {
		params.Source = corpus.FileSource{}
	}
	posLogger := logger.NewLogger("Tagging pipeline")
	errLogger := posLogger.With().Caller().Logger()
	posLogger.Info().
		Interface("params", params).
		Msg("Starting tagging pipeline (see parameters in 'params' field)")

	taggers := make(map[string]*tagger, len(params.Configurations))
	for _, cfg := range params.Configurations {
		t, err := newTagger(params, cfg)
		if err != nil {
			errLogger.Err(err).
				Interface("configuration", cfg).
				Msg("Failed to create tagger")
			return nil, fmt.Errorf("configuration %q: %w", cfg.Name, err)
		}
		taggers[cfg.Name] = t
	}

	return func(request Request) (types.TaggingResponse, error) {
		reqLogger := posLogger.With().
			Str("tid", request.Tid).
			Str("config", request.Config).
			Logger()

		t, ok := taggers[request.Config]
		if !ok {
			return types.TaggingResponse{}, fmt.Errorf("%w: %q", ErrUnknownConfiguration, request.Config)
		}
		split := request.Split
		if split == "" {
			split = t.cfg.Split
		}
		reqLogger.Info().Str("split", split).Msg("Started tagging")

		docs, err := t.loader.LoadDataSplit(split, t.cfg.Labels, t.subset(request))
		if err != nil {
			return types.TaggingResponse{}, err
		}
		docs, err = labeling.TagAll(docs, t.lfs)
		if err != nil {
			return types.TaggingResponse{}, err
		}

		summary := labeling.Summarize(docs, t.cfg.Labels, t.field)
		reqLogger.Info().
			Int("documents", summary.Documents).
			Int("spans", summary.Spans).
			Msg("Finished tagging")
		return types.TaggingResponse{
			Tid:       request.Tid,
			Config:    request.Config,
			Split:     split,
			Documents: docs,
			Summary:   summary,
		}, nil
	}, nil
}

func Render(response types.TaggingResponse) ([]byte, error) {
	return json.Marshal(response)
}
