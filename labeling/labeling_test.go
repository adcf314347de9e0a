package labeling

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"text2phenotype.com/postag/types"
)

func testDocs() []types.Document {
	return []types.Document{
		{
			ID: "s1",
			Tokens: []types.Token{
				{Index: 0, Text: "The", Pos: "DET", Tag: "DT"},
				{Index: 1, Text: "dog", Pos: "NOUN", Tag: "NN"},
				{Index: 2, Text: "barked", Pos: "VERB", Tag: "VBD"},
				{Index: 3, Text: ".", Pos: "PUNCT", Tag: "."},
			},
			Spans: types.Spans{{Begin: 0, End: 4, Label: "SENT"}},
		},
		{
			ID: "s2",
			Tokens: []types.Token{
				{Index: 0, Text: "Paris", Pos: "PROPN", Tag: "NNP"},
				{Index: 1, Text: "wins", Pos: "VERB", Tag: "VBZ"},
				{Index: 2, Text: "lol", Pos: "INTJ", Tag: "UH"},
				{Index: 3, Text: "@x", Pos: "SYM", Tag: "ADD"},
			},
		},
	}
}

func appendLabel(label string) LabelingFunc {
	return func(doc types.Document) (types.Document, error) {
		spans := append(types.Spans{}, doc.Spans...)
		spans = append(spans, types.Span{Begin: 0, End: 1, Label: label})
		return doc.WithSpans(spans)
	}
}

func TestTagAllWithoutFunctions(t *testing.T) {
	docs := testDocs()
	res, err := TagAll(docs, nil)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(testDocs(), res))

	res, err = TagAll(nil, []LabelingFunc{Universal()})
	require.NoError(t, err)
	require.Empty(t, res)
}

func TestTagAllAppliesFunctionsInOrder(t *testing.T) {
	res, err := TagAll(testDocs(), []LabelingFunc{appendLabel("f"), appendLabel("g")})
	require.NoError(t, err)
	for _, doc := range res {
		labels := make([]string, 0, len(doc.Spans))
		for _, span := range doc.Spans {
			labels = append(labels, span.Label)
		}
		require.Equal(t, "f", labels[len(labels)-2])
		require.Equal(t, "g", labels[len(labels)-1])
	}

	// f then g: gold overwritten by universal keeps only universal spans
	res, err = TagAll(testDocs(), []LabelingFunc{Gold([]string{"DET"}, types.TagFieldPos), Universal()})
	require.NoError(t, err)
	require.Len(t, res[0].Spans, 4)

	// g then f: universal overwritten by gold keeps only gold spans
	res, err = TagAll(testDocs(), []LabelingFunc{Universal(), Gold([]string{"DET"}, types.TagFieldPos)})
	require.NoError(t, err)
	require.Equal(t, types.Spans{types.NewTokenSpan(0, "DET")}, res[0].Spans)
}

func TestTagAllDoesNotMutateInput(t *testing.T) {
	docs := testDocs()
	_, err := TagAll(docs, []LabelingFunc{Universal()})
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(testDocs(), docs))
}

func TestTagAllStopsOnFirstError(t *testing.T) {
	cause := errors.New("lf failed")
	calls := map[string]int{}
	failing := func(doc types.Document) (types.Document, error) {
		calls["failing:"+doc.ID]++
		if doc.ID == "s1" {
			return doc, cause
		}
		return doc, nil
	}
	after := func(doc types.Document) (types.Document, error) {
		calls["after:"+doc.ID]++
		return doc, nil
	}

	res, err := TagAll(testDocs(), []LabelingFunc{failing, after})
	require.Nil(t, res)
	require.True(t, errors.Is(err, cause))

	var lfErr *Error
	require.True(t, errors.As(err, &lfErr))
	require.Equal(t, 0, lfErr.Document)
	require.Equal(t, "s1", lfErr.DocumentID)
	require.Equal(t, 0, lfErr.Function)
	require.Equal(t, map[string]int{"failing:s1": 1}, calls)
}

func TestGold(t *testing.T) {
	docs, err := TagAll(testDocs(), []LabelingFunc{Gold([]string{"DET", "VERB", "ADP"}, types.TagFieldPos)})
	require.NoError(t, err)
	require.Equal(t, types.Spans{
		types.NewTokenSpan(0, "DET"),
		types.NewTokenSpan(2, "VERB"),
	}, docs[0].Spans)
	require.Equal(t, types.Spans{types.NewTokenSpan(1, "VERB")}, docs[1].Spans)

	docs, err = TagAll(testDocs(), []LabelingFunc{Gold([]string{"NNP"}, types.TagFieldTag)})
	require.NoError(t, err)
	require.Empty(t, docs[0].Spans)
	require.Equal(t, types.Spans{types.NewTokenSpan(0, "NNP")}, docs[1].Spans)

	docs, err = TagAll(testDocs(), []LabelingFunc{Gold([]string{"AUX"}, types.TagFieldPos)})
	require.NoError(t, err)
	for _, doc := range docs {
		require.Empty(t, doc.Spans)
	}
}

func TestUniversalLabelsEveryTokenOnce(t *testing.T) {
	docs, err := TagAll(testDocs(), []LabelingFunc{Universal()})
	require.NoError(t, err)
	for _, doc := range docs {
		require.Len(t, doc.Spans, len(doc.Tokens))
		for i, span := range doc.Spans {
			require.Equal(t, types.NewTokenSpan(i, span.Label), span)
		}
	}
	want := []string{"PROPN", "VERB", "INTJ", "X"}
	for i, span := range docs[1].Spans {
		require.Equal(t, want[i], span.Label)
	}
}

func TestTreebankAllowList(t *testing.T) {
	docs, err := TagAll(testDocs(), []LabelingFunc{Treebank([]string{"NOUN", "PUNC"})})
	require.NoError(t, err)
	require.Equal(t, types.Spans{
		types.NewTokenSpan(1, "NOUN"),
		types.NewTokenSpan(3, "PUNC"),
	}, docs[0].Spans)
	require.Empty(t, docs[1].Spans)
}

func TestByName(t *testing.T) {
	for _, name := range []string{types.GoldLabeling, types.TreebankLabeling, types.UniversalLabeling} {
		lf, err := ByName(name, []string{"DET"}, types.TagFieldPos)
		require.NoError(t, err)
		require.NotNil(t, lf)
	}
	_, err := ByName("crf", nil, types.TagFieldPos)
	require.True(t, errors.Is(err, ErrUnknownFunction))
}

func TestSummarize(t *testing.T) {
	docs, err := TagAll(testDocs(), []LabelingFunc{Gold([]string{"DET", "VERB"}, types.TagFieldPos)})
	require.NoError(t, err)

	summary := Summarize(docs, []string{"DET", "VERB"}, types.TagFieldPos)
	require.Equal(t, types.Summary{
		Documents: 2,
		Tokens:    8,
		Spans:     3,
		Labels:    map[string]int{"DET": 1, "VERB": 2},
		Other:     5,
	}, summary)
}
