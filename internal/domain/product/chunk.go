package product

import "fmt"

// Chunk is one embeddable slice of a product's content.
type Chunk struct {
	ID      string
	Index   int
	Text    string
	Product *Product
}

// ChunkID formats the stable chunk identifier.
func ChunkID(productID int64, index int) string {
	return fmt.Sprintf("p%d_c%d", productID, index)
}

// Split cuts text into windows of size runes that overlap by overlap runes.
// Every window after the first starts at least one rune after the previous one.
func Split(text string, size, overlap int) []string {
	if text == "" {
		return nil
	}
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	runes := []rune(text)
	n := len(runes)
	var out []string
	for start := 0; start < n; {
		end := min(n, start+size)
		out = append(out, string(runes[start:end]))
		if end == n {
			break
		}
		start = max(end-overlap, start+1)
	}
	return out
}

// Chunks splits the product's content into chunks with ids p{id}_c{index}.
func (p *Product) Chunks(size, overlap int) []Chunk {
	texts := Split(p.Content(), size, overlap)
	out := make([]Chunk, 0, len(texts))
	for i, t := range texts {
		out = append(out, Chunk{ID: ChunkID(p.ProductID, i), Index: i, Text: t, Product: p})
	}
	return out
}
