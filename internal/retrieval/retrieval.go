// Package retrieval implements the document retrieval core: a TF-IDF
// vector space over the policy corpus and cosine-similarity ranking of
// queries against it.
package retrieval

import (
	"context"
	"errors"
	"fmt"
)

// Common errors
var (
	ErrMalformedDocument = errors.New("retrieval: document content is not valid UTF-8")
)

// Document is a policy document as supplied by the document store.
// Documents are treated as read-only snapshots for the duration of one
// index build.
type Document struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Match is one ranked retrieval result. Score is a cosine similarity
// in [0, 1].
type Match struct {
	Document
	Score float64 `json:"relevance_score"`
}

// DocumentSource supplies the full corpus snapshot for an index build.
// The store package implements this over SQLite.
type DocumentSource interface {
	ListDocuments(ctx context.Context) ([]Document, error)
}

// Error wraps errors with operation context.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("retrieval.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
