package search

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

//go:embed stopwords_english.txt
var englishStopwords []byte

// ErrEmptyStopwords is returned when a stop-word source contains no words.
var ErrEmptyStopwords = errors.New("stop-word set is empty")

// StopwordSet is an immutable set of lowercase words removed during normalization.
type StopwordSet struct {
	words  map[string]struct{}
	digest string
}

// DefaultStopwords returns the embedded English stop-word list.
func DefaultStopwords() (*StopwordSet, error) {
	return ReadStopwords(bytes.NewReader(englishStopwords))
}

// ReadStopwordsFile loads a stop-word list from disk.
func ReadStopwordsFile(path string) (*StopwordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stop-word file: %w", err)
	}
	defer f.Close()
	return ReadStopwords(f)
}

// ReadStopwords parses one word per line. Blank lines and lines starting
// with '#' are skipped.
func ReadStopwords(r io.Reader) (*StopwordSet, error) {
	words := make(map[string]struct{})
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stop words: %w", err)
	}
	if len(words) == 0 {
		return nil, ErrEmptyStopwords
	}
	return &StopwordSet{words: words, digest: digestWords(words)}, nil
}

// NewStopwordSet builds a set from an explicit word list.
func NewStopwordSet(list []string) (*StopwordSet, error) {
	return ReadStopwords(strings.NewReader(strings.Join(list, "\n")))
}

// Contains reports whether w is a stop word.
func (s *StopwordSet) Contains(w string) bool {
	_, ok := s.words[w]
	return ok
}

// Len returns the number of words in the set.
func (s *StopwordSet) Len() int {
	return len(s.words)
}

// Digest identifies the set independently of the order it was read in.
func (s *StopwordSet) Digest() string {
	return s.digest
}

func digestWords(words map[string]struct{}) string {
	sorted := make([]string, 0, len(words))
	for w := range words {
		sorted = append(sorted, w)
	}
	sort.Strings(sorted)

	h := sha256.New()
	for _, w := range sorted {
		h.Write([]byte(w))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}
