package chat

import (
	"context"

	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/query"
)

// searcher is the retrieval stage consumed by chat.
type searcher interface {
	Search(ctx context.Context, q query.Query) ([]candidate.Candidate, error)
}
