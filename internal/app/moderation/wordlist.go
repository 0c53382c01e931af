package moderation

import (
	"bufio"
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed default_wordlist.txt
var defaultWordList string

// Source yields the words a Filter is built from.
type Source interface {
	// Name identifies the source in logs.
	Name() string

	// Load returns the current word list.
	Load(ctx context.Context) ([]string, error)
}

// ParseWordList reads one word or phrase per line. Blank lines and lines starting with
// '#' are skipped.
func ParseWordList(r io.Reader) ([]string, error) {
	var words []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return words, nil
}

// BuiltinSource serves the word list compiled into the binary.
type BuiltinSource struct{}

func (BuiltinSource) Name() string { return "builtin" }

func (BuiltinSource) Load(_ context.Context) ([]string, error) {
	return ParseWordList(strings.NewReader(defaultWordList))
}

// FileSource reads the word list from a local file.
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file:" + s.Path }

func (s FileSource) Load(_ context.Context) ([]string, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word list %s: %w", s.Path, err)
	}
	defer f.Close()

	return ParseWordList(f)
}

// LoadFilter builds a Filter from src.
func LoadFilter(ctx context.Context, src Source) (*Filter, error) {
	words, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load word list from %s: %w", src.Name(), err)
	}

	return NewFilter(words)
}

// Refresh reloads f from src, keeping the current list when loading fails.
func (f *Filter) Refresh(ctx context.Context, src Source) error {
	words, err := src.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load word list from %s: %w", src.Name(), err)
	}

	return f.Reload(words)
}
