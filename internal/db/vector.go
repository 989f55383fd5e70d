package db

import (
	"encoding/binary"
	"math"
)

// VectorBytes encodes v as little-endian FLOAT32, the layout FT indexes expect
// both in hash fields and in query PARAMS.
func VectorBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
