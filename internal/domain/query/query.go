// Package query holds validated search and chat requests.
package query

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/techstore/catalogqa/internal/domain"
)

// Request limits.
const (
	// MaxQueryLength is the maximum query length in characters.
	MaxQueryLength = 1000

	DefaultSearchTopK = 5
	MaxSearchTopK     = 20
	DefaultChatTopK   = 3
	MaxChatTopK       = 10

	// MaxPoolSize caps how many candidates are ever requested from the store.
	MaxPoolSize = 50
)

// Query is a validated user question with its result bound.
type Query struct {
	text string
	topK int
}

// NewSearch validates a /search request. topK == 0 selects the default.
func NewSearch(text string, topK int) (Query, error) {
	return newQuery(text, topK, DefaultSearchTopK, MaxSearchTopK)
}

// NewChat validates a /chat request. topK == 0 selects the default.
func NewChat(text string, topK int) (Query, error) {
	return newQuery(text, topK, DefaultChatTopK, MaxChatTopK)
}

// NewPool builds an internal retrieval request that may exceed the public
// search bound, up to MaxPoolSize.
func NewPool(text string, size int) (Query, error) {
	if size > MaxPoolSize {
		size = MaxPoolSize
	}
	return newQuery(text, size, DefaultSearchTopK, MaxPoolSize)
}

func newQuery(text string, topK, def, limit int) (Query, error) {
	if strings.TrimSpace(text) == "" {
		return Query{}, fmt.Errorf("%w: query is required", domain.ErrInvalidQuery)
	}
	if utf8.RuneCountInString(text) > MaxQueryLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidQuery, MaxQueryLength)
	}
	if topK == 0 {
		topK = def
	}
	if topK < 1 || topK > limit {
		return Query{}, fmt.Errorf("%w: top_k must be between 1 and %d, got %d",
			domain.ErrInvalidQuery, limit, topK)
	}
	return Query{text: text, topK: topK}, nil
}

// Text returns the raw query text.
func (q Query) Text() string { return q.text }

// TopK returns the number of results requested.
func (q Query) TopK() int { return q.topK }
