package corpus

import (
	"os"
)

// Source fetches the raw content of a corpus file.
type Source interface {
	Fetch(path string) ([]byte, error)
}

// FileSource reads corpus files from the local disk.
type FileSource struct{}

func (FileSource) Fetch(path string) ([]byte, error) {
	return os.ReadFile(path)
}
