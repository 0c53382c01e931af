package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectBlockedWords = `SELECT word FROM blocked_words ORDER BY word`

// Querier is the subset of pgxpool.Pool used to read the word list.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Querier = (*pgxpool.Pool)(nil)

// WordListSource reads the content filter word list from the blocked_words table.
type WordListSource struct {
	DB Querier
}

func (s WordListSource) Name() string { return "postgres:blocked_words" }

// Load returns every blocked word.
func (s WordListSource) Load(ctx context.Context) ([]string, error) {
	rows, err := s.DB.Query(ctx, selectBlockedWords)
	if err != nil {
		return nil, fmt.Errorf("failed to query blocked words: %w", err)
	}

	words, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan blocked words: %w", err)
	}
	return words, nil
}
