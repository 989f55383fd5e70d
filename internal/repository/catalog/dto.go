package catalog

import (
	"strconv"
	"strings"

	"github.com/techstore/catalogqa/internal/db"
	"github.com/techstore/catalogqa/internal/domain/candidate"
	"github.com/techstore/catalogqa/internal/domain/product"
)

// Hash fields besides the metadata keys.
const (
	FieldDocument = "document"
	FieldVector   = "vector"
)

// returnFields are fetched with every KNN hit.
var returnFields = []string{
	FieldDocument,
	candidate.KeyProductID,
	candidate.KeyName,
	candidate.KeyBrand,
	candidate.KeyCategoryName,
	candidate.KeyPrice,
	candidate.KeyImageURL,
	candidate.KeyUseCase,
	candidate.KeyUSP,
	candidate.KeySpecText,
	candidate.KeyChunkIndex,
}

// entryToCandidate decodes a search hit. Malformed numeric fields are
// treated as absent rather than failing the whole query.
func entryToCandidate(e db.SearchEntry, keyPrefix string) candidate.Candidate {
	f := e.Fields
	meta := candidate.Metadata{
		Name:         f[candidate.KeyName],
		Brand:        f[candidate.KeyBrand],
		CategoryName: f[candidate.KeyCategoryName],
		ImageURL:     f[candidate.KeyImageURL],
		UseCase:      f[candidate.KeyUseCase],
		USP:          f[candidate.KeyUSP],
		SpecText:     f[candidate.KeySpecText],
	}
	if v, err := strconv.ParseInt(f[candidate.KeyProductID], 10, 64); err == nil {
		meta.ProductID = v
		meta.HasProductID = true
	}
	if v, err := strconv.ParseFloat(f[candidate.KeyPrice], 64); err == nil && v > 0 {
		meta.Price = v
	}
	if v, err := strconv.Atoi(f[candidate.KeyChunkIndex]); err == nil {
		meta.ChunkIndex = v
	}

	for k, v := range f {
		if isKnownField(k) {
			continue
		}
		if meta.Extra == nil {
			meta.Extra = make(map[string]string)
		}
		meta.Extra[k] = v
	}

	id := strings.TrimPrefix(e.Key, keyPrefix)
	return candidate.New(id, f[FieldDocument], meta, e.Score)
}

func isKnownField(name string) bool {
	for _, f := range returnFields {
		if f == name {
			return true
		}
	}
	return name == FieldVector
}

// chunkToHash encodes a chunk and its embedding for HSET.
func chunkToHash(c product.Chunk, vector []float32) map[string]string {
	p := c.Product
	m := map[string]string{
		FieldDocument:             c.Text,
		FieldVector:               db.VectorBytes(vector),
		candidate.KeyProductID:    strconv.FormatInt(p.ProductID, 10),
		candidate.KeyName:         p.Name,
		candidate.KeyChunkIndex:   strconv.Itoa(c.Index),
		candidate.KeyBrand:        p.Brand,
		candidate.KeyCategoryName: p.CategoryName,
		candidate.KeyImageURL:     p.ImageURL,
		candidate.KeyUseCase:      p.UseCase,
		candidate.KeyUSP:          p.USP,
		candidate.KeySpecText:     p.SpecText(),
	}
	if p.Price != nil {
		m[candidate.KeyPrice] = strconv.FormatFloat(*p.Price, 'f', -1, 64)
	}
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}
