// Package candidate models one retrieved catalog chunk as it moves through
// the query pipeline.
package candidate

import "maps"

// Metadata keys written by the catalog indexer.
const (
	KeyProductID    = "product_id"
	KeyName         = "name"
	KeyBrand        = "brand"
	KeyCategoryName = "category_name"
	KeyPrice        = "price"
	KeyImageURL     = "image_url"
	KeyUseCase      = "use_case"
	KeyUSP          = "usp"
	KeySpecText     = "spec_text"
	KeyChunkIndex   = "chunk_index"
)

// Metadata is the product data stored next to a chunk.
type Metadata struct {
	ProductID    int64
	HasProductID bool
	Name         string
	Brand        string
	CategoryName string
	Price        float64
	ImageURL     string
	UseCase      string
	USP          string
	SpecText     string
	ChunkIndex   int
	// Extra keeps store fields this package does not model.
	Extra map[string]string
}

// Candidate is a single retrieval hit. Stages never mutate it; they derive copies.
type Candidate struct {
	id          string
	document    string
	metadata    Metadata
	similarity  float64
	rerankScore float64
	reranked    bool
}

// New creates a candidate. similarity is already in "higher is closer" form.
// meta.Extra is copied.
func New(id, document string, meta Metadata, similarity float64) Candidate {
	meta.Extra = maps.Clone(meta.Extra)
	return Candidate{id: id, document: document, metadata: meta, similarity: similarity}
}

// ID returns the chunk identifier.
func (c Candidate) ID() string { return c.id }

// Document returns the chunk text.
func (c Candidate) Document() string { return c.document }

// Metadata returns a copy of the product metadata.
func (c Candidate) Metadata() Metadata {
	m := c.metadata
	m.Extra = maps.Clone(m.Extra)
	return m
}

// Similarity returns the vector similarity.
func (c Candidate) Similarity() float64 { return c.similarity }

// RerankScore returns the cross-encoder score and whether one was assigned.
func (c Candidate) RerankScore() (float64, bool) { return c.rerankScore, c.reranked }

// WithRerankScore returns a copy carrying the given rerank score.
func (c Candidate) WithRerankScore(score float64) Candidate {
	c.rerankScore = score
	c.reranked = true
	return c
}

// ProductID returns the owning product id, if the chunk carries one.
func (c Candidate) ProductID() (int64, bool) {
	return c.metadata.ProductID, c.metadata.HasProductID
}

// Name returns the product name.
func (c Candidate) Name() string { return c.metadata.Name }

// CategoryName returns the product category.
func (c Candidate) CategoryName() string { return c.metadata.CategoryName }

// SpecText returns the specification text, falling back to the chunk text
// when the indexer stored none.
func (c Candidate) SpecText() string {
	if c.metadata.SpecText != "" {
		return c.metadata.SpecText
	}
	return c.document
}

// Price returns the listed price; zero means unknown.
func (c Candidate) Price() float64 { return c.metadata.Price }

// IDs lists candidate identifiers in order.
func IDs(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.id
	}
	return out
}
