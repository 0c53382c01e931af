package moderation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// The dictionary uses words that are easy to embed inside innocent ones ("hell" in "hello").
var testDictionary = []string{"badger", "hell", "snake oil"}

func TestFilter_IsProfane(t *testing.T) {
	req := require.New(t)
	f, err := NewFilter(testDictionary)
	req.NoError(err)

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "plain word", input: "what the hell", want: true},
		{name: "uppercase", input: "WHAT THE HELL", want: true},
		{name: "trailing punctuation", input: "go to hell!", want: true},
		{name: "leading punctuation", input: "(badger) spotted", want: true},
		{name: "substitutions", input: "b4dg3r", want: true},
		{name: "dotted letters", input: "a B.A.D.G.E.R appears", want: true},
		{name: "phrase across spaces", input: "selling  snake \t oil today", want: true},
		{name: "embedded in longer word", input: "hello there", want: false},
		{name: "prefix of longer word", input: "badgers are cute", want: false},
		{name: "phrase broken up", input: "snake and oil", want: false},
		{name: "clean text", input: "hello", want: false},
		{name: "empty", input: "", want: false},
		{name: "only noise", input: "... !!! ???", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, f.IsProfane(tt.input), "input=%q", tt.input)
		})
	}
}

func TestFilter_EmptyListAcceptsEverything(t *testing.T) {
	req := require.New(t)

	f, err := NewFilter([]string{"", "  ", "..."})

	req.NoError(err)
	req.Zero(f.Size())
	req.False(f.IsProfane("anything at all"))
}

func TestFilter_DeduplicatesNormalizedWords(t *testing.T) {
	f, err := NewFilter([]string{"Badger", "badger", "b4dger"})

	require.NoError(t, err)
	require.Equal(t, 1, f.Size())
}

func TestFilter_Reload(t *testing.T) {
	req := require.New(t)
	f, err := NewFilter([]string{"badger"})
	req.NoError(err)
	req.True(f.IsProfane("badger"))

	// When the list is swapped
	req.NoError(f.Reload([]string{"weasel"}))

	// Then only the new words match
	req.False(f.IsProfane("badger"))
	req.True(f.IsProfane("weasel"))
}

func TestFilter_ConcurrentReadsDuringReload(t *testing.T) {
	f, err := NewFilter([]string{"badger"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				_ = f.IsProfane("a badger walks in")
			}
		}()
	}
	for range 20 {
		require.NoError(t, f.Reload([]string{"badger", "weasel"}))
	}
	wg.Wait()
}

func TestBuiltinSource(t *testing.T) {
	req := require.New(t)

	f, err := LoadFilter(context.Background(), BuiltinSource{})

	req.NoError(err)
	req.Positive(f.Size())
	req.True(f.IsProfane("well shit"))
	req.False(f.IsProfane("hello"))
	req.False(f.IsProfane("Scunthorpe United"))
}

func TestParseWordList(t *testing.T) {
	words, err := ParseWordList(strings.NewReader("# comment\n\n badger \nsnake oil\n#another\n"))

	require.NoError(t, err)
	require.Equal(t, []string{"badger", "snake oil"}, words)
}

func TestFileSource(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "words.txt")
	req.NoError(os.WriteFile(path, []byte("weasel\n"), 0o600))

	f, err := LoadFilter(context.Background(), FileSource{Path: path})

	req.NoError(err)
	req.True(f.IsProfane("you weasel"))
}

func TestFileSource_Missing(t *testing.T) {
	_, err := LoadFilter(context.Background(), FileSource{Path: filepath.Join(t.TempDir(), "nope.txt")})

	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Load(context.Context) ([]string, error) {
	return nil, errors.New("backend down")
}

func TestFilter_RefreshKeepsListOnFailure(t *testing.T) {
	req := require.New(t)
	f, err := NewFilter([]string{"badger"})
	req.NoError(err)

	req.Error(f.Refresh(context.Background(), failingSource{}))
	req.True(f.IsProfane("badger"))
}
