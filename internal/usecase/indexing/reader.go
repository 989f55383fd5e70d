package indexing

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/techstore/catalogqa/internal/domain/product"
)

// maxLineBytes bounds one JSONL record.
const maxLineBytes = 4 << 20

// BadLineFunc receives records that were skipped. line is 1-based.
type BadLineFunc func(line int, err error)

// ReadProducts decodes an exported products JSONL stream. Blank lines are
// ignored; undecodable or invalid records are reported to onBad and skipped.
func ReadProducts(r io.Reader, onBad BadLineFunc) ([]product.Product, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineBytes)

	var (
		out  []product.Product
		line int
	)
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}

		var p product.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			report(onBad, line, fmt.Errorf("decode: %w", err))
			continue
		}
		if err := p.Validate(); err != nil {
			report(onBad, line, err)
			continue
		}
		out = append(out, p)
	}
	if err := sc.Err(); err != nil {
		return out, fmt.Errorf("read products at line %d: %w", line+1, err)
	}
	return out, nil
}

func report(onBad BadLineFunc, line int, err error) {
	if onBad != nil {
		onBad(line, err)
	}
}
