package vectorindex

import (
	"sort"

	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

// Segment is a fully decoded vec_index_v1 segment. UsearchPayload is set
// (and Flat left nil) when Header.Encoding is format.VectorEncodingUsearch
// — Wax carries that payload opaquely (see DESIGN.md's ANN discussion)
// and cannot search it without an external ANN library, so Search
// returns an error for usearch segments rather than silently degrading.
type Segment struct {
	Header         Header
	Flat           *FlatPayload
	UsearchPayload []byte
}

// BuildFlat constructs a flat-encoded Segment from dense vectors and
// their parallel frame IDs, normalizing for cosine similarity when
// normalize is true.
func BuildFlat(similarity format.VectorSimilarity, dim uint32, vectors [][]float32, frameIDs []uint64, normalize bool) (Segment, error) {
	if len(vectors) != len(frameIDs) {
		return Segment{}, errs.Encoding("vector and frame_id arrays have different lengths")
	}

	stored := vectors
	if normalize && similarity == format.SimilarityCosine {
		stored = make([][]float32, len(vectors))
		for i, v := range vectors {
			stored[i] = Normalize(v)
		}
	}

	payload := FlatPayload{Dim: dim, Vectors: stored, FrameIDs: frameIDs}
	body := payload.Encode()

	return Segment{
		Header: Header{
			Encoding:    format.VectorEncodingFlat,
			Similarity:  similarity,
			Dim:         dim,
			VectorCount: uint64(len(vectors)),
			PayloadLen:  uint64(len(body)),
		},
		Flat: &payload,
	}, nil
}

// Bytes serializes the segment: its 36-byte header followed by the
// payload (flat's encoded form, or the opaque usearch blob verbatim).
func (s Segment) Bytes() []byte {
	var body []byte
	if s.Flat != nil {
		body = s.Flat.Encode()
	} else {
		body = s.UsearchPayload
	}

	out := make([]byte, 0, HeaderSize+len(body))
	out = append(out, s.Header.Bytes()...)
	out = append(out, body...)
	return out
}

// Parse decodes a vec_index_v1 segment's header and payload.
func Parse(data []byte) (Segment, error) {
	if len(data) < HeaderSize {
		return Segment{}, errs.InvalidSegment("vec_index_v1", "shorter than fixed header")
	}

	h, err := ParseHeader(data[:HeaderSize])
	if err != nil {
		return Segment{}, err
	}

	body := data[HeaderSize:]
	if uint64(len(body)) != h.PayloadLen {
		return Segment{}, errs.InvalidSegment("vec_index_v1", "payload_len does not match segment size")
	}

	switch h.Encoding {
	case format.VectorEncodingFlat:
		flat, err := DecodeFlatPayload(body, h.Dim, h.VectorCount)
		if err != nil {
			return Segment{}, err
		}
		return Segment{Header: h, Flat: &flat}, nil
	case format.VectorEncodingUsearch:
		return Segment{Header: h, UsearchPayload: body}, nil
	default:
		return Segment{}, errs.InvalidSegment("vec_index_v1", "unknown vector encoding")
	}
}

// Hit is one scored candidate from Search.
type Hit struct {
	FrameID uint64
	Score   float64
}

// Search scores every vector in a flat segment against query, returning
// the topK best by Score, ties broken by ascending frame_id.
func (s Segment) Search(query []float32, topK int) ([]Hit, error) {
	if s.Flat == nil {
		return nil, errs.InvalidSegment("vec_index_v1", "search against an opaque usearch payload is not supported")
	}

	hits := make([]Hit, 0, len(s.Flat.Vectors))
	for i, v := range s.Flat.Vectors {
		hits = append(hits, Hit{FrameID: s.Flat.FrameIDs[i], Score: Score(s.Header.Similarity, query, v)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].FrameID < hits[j].FrameID
	})

	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}
