package vectorindex

import (
	"math"

	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/errs"
)

// FlatThreshold is the vector count below which the flat encoding is
// preferred over usearch, per spec.md §4.11 ("flat is used when
// count is below a threshold or when the platform lacks ANN support").
// Wax has no usearch binding (see DESIGN.md), so flat is always used
// regardless of count; the threshold is kept as the documented decision
// point for a future ANN backend.
const FlatThreshold = 4096

// FlatPayload is the raw columnar body of a flat-encoded vec_index_v1
// segment: dim*count float32 values, row-major by vector, followed by a
// parallel frame_id array and its own count prefix.
type FlatPayload struct {
	Dim      uint32
	Vectors  [][]float32 // len == Header.VectorCount, each len == Dim
	FrameIDs []uint64    // parallel to Vectors
}

// Encode serializes the payload: dim*count*4 raw float32 bytes followed
// by a u64 count prefix and count*8 bytes of frame IDs, per spec.md
// §4.11.
func (p FlatPayload) Encode() []byte {
	enc := codec.NewEncoder(len(p.Vectors)*int(p.Dim)*4 + 8 + len(p.FrameIDs)*8)

	for _, v := range p.Vectors {
		for _, f := range v {
			enc.PutU32(math.Float32bits(f))
		}
	}

	enc.PutU64(uint64(len(p.FrameIDs)))
	for _, id := range p.FrameIDs {
		enc.PutU64(id)
	}

	return enc.Bytes()
}

// DecodeFlatPayload parses a FlatPayload previously produced by Encode,
// given the dim and vector count from the segment header.
func DecodeFlatPayload(data []byte, dim uint32, vectorCount uint64) (FlatPayload, error) {
	dec := codec.NewDecoder(data)

	vectors := make([][]float32, 0, vectorCount)
	for i := uint64(0); i < vectorCount; i++ {
		v := make([]float32, dim)
		for j := uint32(0); j < dim; j++ {
			v[j] = math.Float32frombits(dec.U32())
		}
		vectors = append(vectors, v)
	}

	n := dec.Count()
	ids := make([]uint64, 0, n)
	for i := uint64(0); i < n; i++ {
		ids = append(ids, dec.U64())
	}

	if err := dec.Finalize(); err != nil {
		return FlatPayload{}, err
	}
	if n != vectorCount {
		return FlatPayload{}, errs.InvalidSegment("vec_index_v1", "frame_id array length does not match vector_count")
	}

	return FlatPayload{Dim: dim, Vectors: vectors, FrameIDs: ids}, nil
}
