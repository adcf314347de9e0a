package utils

import (
	"bufio"
	"os"
	"strings"

	"github.com/twmb/murmur3"
)

func HashString(s string) uint64 {
	hash := murmur3.New64()
	_, err := hash.Write([]byte(s))
	if err != nil {
		panic(err)
	}
	return hash.Sum64()
}

// HashStrings hashes the strings as one sequence. Each item is followed by a
// zero byte so that ["ab", "c"] and ["a", "bc"] differ.
func HashStrings(ss ...string) uint64 {
	hash := murmur3.New64()
	for _, s := range ss {
		if _, err := hash.Write([]byte(s)); err != nil {
			panic(err)
		}
		if _, err := hash.Write([]byte{0}); err != nil {
			panic(err)
		}
	}
	return hash.Sum64()
}

// ReadSet reads a newline separated list. Blank lines and lines starting
// with '#' are skipped.
func ReadSet(filePath string) (map[string]bool, error) {
	lines, err := ReadList(filePath)
	if err != nil {
		return nil, err
	}
	result := make(map[string]bool, len(lines))
	for _, line := range lines {
		result[line] = true
	}
	return result, nil
}

func ReadList(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)

	var result []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		result = append(result, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
