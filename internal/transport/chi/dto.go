package chi

import (
	"strconv"

	"github.com/techstore/catalogqa/internal/domain/candidate"
)

// ErrorCode is the machine-readable error kind in ErrorResponse.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeValidationFailed       ErrorCode = "validation_failed"
	ErrorCodeRateLimited            ErrorCode = "rate_limited"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeVectorStoreUnavailable ErrorCode = "vector_store_unavailable"
	ErrorCodeNotFound               ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed       ErrorCode = "method_not_allowed"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// QueryRequest is the body of POST /search and POST /chat.
// A nil TopK selects the endpoint default.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

// SearchResponse is the body of a successful POST /search.
type SearchResponse struct {
	Success bool         `json:"success"`
	Results []ResultItem `json:"results"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Answer      string       `json:"answer"`
	Intent      string       `json:"intent"`
	OutOfDomain bool         `json:"out_of_domain,omitempty"`
	Label       string       `json:"label,omitempty"`
	Context     []ResultItem `json:"context"`
}

// ResultItem is one retrieved chunk.
type ResultItem struct {
	ID           string            `json:"id"`
	ProductID    *int64            `json:"product_id,omitempty"`
	ChunkIndex   int               `json:"chunk_index"`
	Score        float64           `json:"score"`
	RerankScore  *float64          `json:"rerank_score,omitempty"`
	Name         string            `json:"name,omitempty"`
	Brand        string            `json:"brand,omitempty"`
	CategoryName string            `json:"category_name,omitempty"`
	Price        *float64          `json:"price"`
	ImageURL     string            `json:"image_url,omitempty"`
	Document     string            `json:"document"`
	Metadata     map[string]string `json:"metadata"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func resultItems(cs []candidate.Candidate) []ResultItem {
	items := make([]ResultItem, len(cs))
	for i, c := range cs {
		items[i] = resultItem(c)
	}
	return items
}

func resultItem(c candidate.Candidate) ResultItem {
	m := c.Metadata()
	item := ResultItem{
		ID:           c.ID(),
		ChunkIndex:   m.ChunkIndex,
		Score:        c.Similarity(),
		Name:         m.Name,
		Brand:        m.Brand,
		CategoryName: m.CategoryName,
		ImageURL:     m.ImageURL,
		Document:     c.Document(),
		Metadata:     metadataMap(m),
	}
	if pid, ok := c.ProductID(); ok {
		item.ProductID = &pid
	}
	if s, ok := c.RerankScore(); ok {
		item.RerankScore = &s
	}
	if m.Price > 0 {
		p := m.Price
		item.Price = &p
	}
	return item
}

// metadataMap renders every stored field back under its store key.
func metadataMap(m candidate.Metadata) map[string]string {
	out := make(map[string]string, len(m.Extra)+10)
	for k, v := range m.Extra {
		out[k] = v
	}
	set := func(k, v string) {
		if v != "" {
			out[k] = v
		}
	}
	if m.HasProductID {
		out[candidate.KeyProductID] = strconv.FormatInt(m.ProductID, 10)
	}
	set(candidate.KeyName, m.Name)
	set(candidate.KeyBrand, m.Brand)
	set(candidate.KeyCategoryName, m.CategoryName)
	if m.Price > 0 {
		out[candidate.KeyPrice] = strconv.FormatFloat(m.Price, 'f', -1, 64)
	}
	set(candidate.KeyImageURL, m.ImageURL)
	set(candidate.KeyUseCase, m.UseCase)
	set(candidate.KeyUSP, m.USP)
	set(candidate.KeySpecText, m.SpecText)
	out[candidate.KeyChunkIndex] = strconv.Itoa(m.ChunkIndex)
	return out
}
