package storage

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	objects map[string][]byte
}

func (m memoryStorage) Download(_ context.Context, key string) ([]byte, error) {
	body, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return body, nil
}

func (m memoryStorage) GetObjectMetadata(_ context.Context, key string) (map[string]string, error) {
	body, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("%s: %w", key, ErrObjectNotFound)
	}
	return map[string]string{"Content-Length": fmt.Sprint(len(body))}, nil
}

func TestWordListSource_Load(t *testing.T) {
	req := require.New(t)
	src := WordListSource{
		Storage: memoryStorage{objects: map[string][]byte{
			"moderation/wordlist.txt": []byte("# managed list\nbadger\n\nweasel\n"),
		}},
		Key: "moderation/wordlist.txt",
	}

	words, err := src.Load(context.Background())

	req.NoError(err)
	req.Equal([]string{"badger", "weasel"}, words)
	req.Equal("s3:moderation/wordlist.txt", src.Name())
}

func TestWordListSource_MissingObject(t *testing.T) {
	src := WordListSource{Storage: memoryStorage{}, Key: "absent.txt"}

	_, err := src.Load(context.Background())

	require.ErrorIs(t, err, ErrObjectNotFound)
}

func TestWordListSource_TooLarge(t *testing.T) {
	src := WordListSource{
		Storage: memoryStorage{objects: map[string][]byte{
			"big.txt": bytes.Repeat([]byte("a"), MaxWordListSize+1),
		}},
		Key: "big.txt",
	}

	_, err := src.Load(context.Background())

	require.ErrorContains(t, err, "limit")
}
