package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"text2phenotype.com/postag/corpus"
	"text2phenotype.com/postag/pipeline"
	"text2phenotype.com/postag/types"
)

const devCoNLLU = `# sent_id = d1
1	Hi	hi	INTJ	UH	_	0	root	_	_

# sent_id = d2
1	Go	go	VERB	VB	_	0	root	_	_

# sent_id = d3
1	Stop	stop	VERB	VB	_	0	root	_	_
`

func TestWithoutFlag(t *testing.T) {
	require.Equal(
		t,
		[]string{"-config", "gold", "-subset=3"},
		withoutFlag([]string{"-supervise", "-config", "gold", "--supervise=true", "-subset=3"}, "supervise"),
	)
	require.Empty(t, withoutFlag(nil, "supervise"))
}

func TestFlagInt(t *testing.T) {
	newFlags := func() (*flag.FlagSet, *int) {
		flags := flag.NewFlagSet("postag", flag.ContinueOnError)
		return flags, flags.Int("subset", corpus.AllDocuments, "")
	}

	flags, subset := newFlags()
	require.NoError(t, flags.Parse(nil))
	require.Nil(t, flagInt(flags, "subset", *subset))

	flags, subset = newFlags()
	require.NoError(t, flags.Parse([]string{"-subset", "2"}))
	require.Equal(t, 2, *flagInt(flags, "subset", *subset))

	flags, subset = newFlags()
	require.NoError(t, flags.Parse([]string{"-subset=-1"}))
	require.Equal(t, corpus.AllDocuments, *flagInt(flags, "subset", *subset))
}

func onceTestPipeline(t *testing.T) pipeline.Pipeline {
	t.Helper()
	root := t.TempDir()
	cfgDir := filepath.Join(root, "configs")
	corpusDir := filepath.Join(root, "corpus", types.DefaultDataset)
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.MkdirAll(corpusDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(corpusDir, "dev.conllu"), []byte(devCoNLLU), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(cfgDir, "first.yaml"), []byte("split: dev\nsubset: 1\nlabels: [VERB]\n"), 0o644))

	cfgs, err := types.LoadConfigurations(cfgDir)
	require.NoError(t, err)
	ppln, err := pipeline.New(pipeline.Params{
		CorpusRoot:     filepath.Join(root, "corpus"),
		Configurations: cfgs,
	})
	require.NoError(t, err)
	return ppln
}

func TestRunOnceSubset(t *testing.T) {
	ppln := onceTestPipeline(t)
	intPtr := func(i int) *int { return &i }

	for _, tc := range []struct {
		name   string
		subset *int
		ids    []string
	}{
		{name: "configuration subset", subset: nil, ids: []string{"d1"}},
		{name: "explicit subset", subset: intPtr(2), ids: []string{"d1", "d2"}},
		{name: "all documents", subset: intPtr(corpus.AllDocuments), ids: []string{"d1", "d2", "d3"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, runOnce(&out, ppln, "first", "", tc.subset))

			var resp types.TaggingResponse
			require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
			require.Equal(t, "cli", resp.Tid)
			require.Equal(t, "dev", resp.Split)
			ids := make([]string, 0, len(resp.Documents))
			for _, doc := range resp.Documents {
				ids = append(ids, doc.ID)
			}
			require.Equal(t, tc.ids, ids)
		})
	}

	err := runOnce(&bytes.Buffer{}, ppln, "missing", "", nil)
	require.True(t, errors.Is(err, pipeline.ErrUnknownConfiguration))
}
