package utils

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashStringsSeparatesItems(t *testing.T) {
	require.NotEqual(t, HashStrings("ab", "c"), HashStrings("a", "bc"))
	require.Equal(t, HashStrings("train", "DET"), HashStrings("train", "DET"))
	require.Equal(t, HashString("DET"), HashString("DET"))
}

func TestReadSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.txt")
	require.NoError(t, os.WriteFile(path, []byte("# coarse labels\nDET\n\n NOUN \nDET\n"), 0o644))

	set, err := ReadSet(path)
	require.NoError(t, err)
	require.Equal(t, map[string]bool{"DET": true, "NOUN": true}, set)

	_, err = ReadSet(filepath.Join(t.TempDir(), "missing.txt"))
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestRecoverWithError(t *testing.T) {
	run := func() (err error) {
		defer RecoverWithError(&err)
		panic("boom")
	}
	err := run()
	require.EqualError(t, err, "recovered from panic: boom")
}
