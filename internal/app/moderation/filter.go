/*
Package moderation implements the relay's content filter.

A Filter answers IsProfane for chat text using an Aho-Corasick automaton built from a word
list. Text and words are normalized the same way before matching: common character
substitutions are undone, punctuation inside words is dropped and whitespace becomes a
single word boundary. A word only matches as a whole word, so "hello" never matches "hell".
*/
package moderation

import (
	"cmp"
	"fmt"
	"slices"
	"sync/atomic"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"chatrelay/internal/pkg/logx"
)

const boundary = ' '

// automaton is an immutable compiled word list.
type automaton struct {
	machine *goahocorasick.Machine
	size    int
}

// Filter is a concurrency-safe profanity predicate whose word list can be swapped at runtime.
type Filter struct {
	current atomic.Pointer[automaton]
	logger  zerolog.Logger
}

// NewFilter compiles words into a Filter. An empty list yields a filter that accepts everything.
func NewFilter(words []string) (*Filter, error) {
	f := &Filter{logger: logx.Component("moderation")}
	if err := f.Reload(words); err != nil {
		return nil, err
	}
	return f, nil
}

// Reload compiles words and atomically replaces the active automaton.
// On error the previous automaton stays active.
func (f *Filter) Reload(words []string) error {
	a, err := compile(words)
	if err != nil {
		return err
	}

	f.current.Store(a)
	f.logger.Info().Int("words", a.size).Msg("Content filter loaded.")
	return nil
}

// Size returns the number of distinct normalized words in the active list.
func (f *Filter) Size() int {
	return f.current.Load().size
}

// IsProfane reports whether text contains a listed word as a whole word.
func (f *Filter) IsProfane(text string) bool {
	a := f.current.Load()
	if a == nil || a.machine == nil {
		return false
	}

	norm := normalize(text)
	if len(norm) == 0 {
		return false
	}

	for _, term := range a.machine.MultiPatternSearch(norm, false) {
		start := term.Pos
		end := start + len(term.Word)
		if start < 0 || end > len(norm) {
			continue
		}
		if (start == 0 || norm[start-1] == boundary) && (end == len(norm) || norm[end] == boundary) {
			return true
		}
	}
	return false
}

func compile(words []string) (*automaton, error) {
	patterns := lo.Uniq(lo.FilterMap(words, func(word string, _ int) (string, bool) {
		norm := string(normalize(word))
		return norm, norm != ""
	}))

	if len(patterns) == 0 {
		return &automaton{}, nil
	}

	slices.SortFunc(patterns, cmp.Compare[string])

	keywords := lo.Map(patterns, func(p string, _ int) []rune {
		return []rune(p)
	})

	m := new(goahocorasick.Machine)
	if err := m.Build(keywords); err != nil {
		return nil, fmt.Errorf("failed to build content filter automaton: %w", err)
	}

	return &automaton{machine: m, size: len(patterns)}, nil
}

// normalize lowers s, undoes character substitutions, drops punctuation and symbols and
// collapses whitespace runs into one boundary rune. Leading and trailing boundaries are trimmed.
func normalize(s string) []rune {
	out := make([]rune, 0, len(s))
	pendingBoundary := false

	for _, r := range s {
		r = simplifyRune(r)

		switch {
		case unicode.IsSpace(r):
			pendingBoundary = len(out) > 0
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingBoundary {
				out = append(out, boundary)
				pendingBoundary = false
			}
			out = append(out, unicode.ToLower(r))
		}
	}
	return out
}

// simplifyRune maps common substitution characters back to letters.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}
