package catalogqa

import "github.com/techstore/catalogqa/internal/domain/candidate"

// Hit is one retrieved catalog chunk.
type Hit struct {
	ID string
	// ProductID is zero when the chunk carries no product id.
	ProductID  int64
	ChunkIndex int
	// Score is the vector similarity, higher is closer.
	Score float64
	// RerankScore is set only when a reranker scored this chunk.
	RerankScore  *float64
	Name         string
	Brand        string
	CategoryName string
	// Price is zero when unknown.
	Price    float64
	ImageURL string
	Document string
	// Metadata holds stored fields beyond the ones above.
	Metadata map[string]string
}

// Answer is a chat reply with the products it was composed from.
type Answer struct {
	Text   string
	Intent string
	// OutOfDomain is set when the question was refused; Label names the category.
	OutOfDomain bool
	Label       string
	Context     []Hit
}

func toHits(cs []candidate.Candidate) []Hit {
	out := make([]Hit, len(cs))
	for i, c := range cs {
		m := c.Metadata()
		h := Hit{
			ID:           c.ID(),
			ChunkIndex:   m.ChunkIndex,
			Score:        c.Similarity(),
			Name:         m.Name,
			Brand:        m.Brand,
			CategoryName: m.CategoryName,
			Price:        m.Price,
			ImageURL:     m.ImageURL,
			Document:     c.Document(),
			Metadata:     m.Extra,
		}
		if pid, ok := c.ProductID(); ok {
			h.ProductID = pid
		}
		if s, ok := c.RerankScore(); ok {
			h.RerankScore = &s
		}
		out[i] = h
	}
	return out
}
