// Package format defines the small enum types and on-disk magic constants
// shared by every layer of the MV2S file format: compression kind, segment
// kind, frame kind, WAL record kind, vector encoding/similarity, and
// structured fact value kind. None of these types carry behavior beyond
// validation and string rendering; the packages that own the bytes
// (headerpage, wal, toc, footer, frame, vectorindex, structured) import
// format rather than re-declare these constants.
package format

import "fmt"

// SpecVersion is (major<<8)|minor for the MV2S v1.0 on-disk format.
const SpecVersion uint16 = 0x0100

// Magic byte sequences as they appear on disk, little-endian throughout
// the rest of the format.
var (
	MagicHeader               = [4]byte{'M', 'V', '2', 'S'}
	MagicFooter               = [8]byte{'M', 'V', '2', 'S', 'F', 'O', 'O', 'T'}
	MagicVecSegment           = [4]byte{'M', 'V', '2', 'V'}
	MagicWALRecord            = [8]byte{'M', 'V', '2', 'S', 'W', 'A', 'L', 'R'}
	MagicFramePageSegment     = [4]byte{'M', 'V', '2', 'P'}
	MagicTextIndexSegment     = [4]byte{'M', 'V', '2', 'X'}
	MagicStructuredSegment    = [4]byte{'M', 'V', '2', 'K'}
)

// CompressionType identifies the algorithm used to compress a payload.
type CompressionType uint8

const (
	CompressionNone    CompressionType = 0x1
	CompressionLZFSE   CompressionType = 0x2
	CompressionLZ4     CompressionType = 0x3
	CompressionDeflate CompressionType = 0x4
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZFSE:
		return "lzfse"
	case CompressionLZ4:
		return "lz4"
	case CompressionDeflate:
		return "deflate"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// Valid reports whether c is one of the four defined compression kinds.
func (c CompressionType) Valid() bool {
	switch c {
	case CompressionNone, CompressionLZFSE, CompressionLZ4, CompressionDeflate:
		return true
	default:
		return false
	}
}

// SegmentKind identifies the kind of self-described slab a TOC entry
// points at.
type SegmentKind uint8

const (
	SegmentFramePage            SegmentKind = 0x1
	SegmentTextIndexV1          SegmentKind = 0x2
	SegmentVecIndexV1           SegmentKind = 0x3
	SegmentStructuredSnapshotV1 SegmentKind = 0x4
)

func (k SegmentKind) String() string {
	switch k {
	case SegmentFramePage:
		return "frame_page"
	case SegmentTextIndexV1:
		return "text_index_v1"
	case SegmentVecIndexV1:
		return "vec_index_v1"
	case SegmentStructuredSnapshotV1:
		return "structured_snapshot_v1"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

func (k SegmentKind) Valid() bool {
	switch k {
	case SegmentFramePage, SegmentTextIndexV1, SegmentVecIndexV1, SegmentStructuredSnapshotV1:
		return true
	default:
		return false
	}
}

// FrameKind identifies the content kind carried by a frame's payload.
type FrameKind uint8

const (
	FrameText               FrameKind = 0x1
	FrameImageDerivedText   FrameKind = 0x2
	FrameStructuredEvidence FrameKind = 0x3
	FrameTombstone          FrameKind = 0x4
)

func (k FrameKind) String() string {
	switch k {
	case FrameText:
		return "text"
	case FrameImageDerivedText:
		return "image_derived_text"
	case FrameStructuredEvidence:
		return "structured_evidence"
	case FrameTombstone:
		return "tombstone"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// WALRecordKind identifies the kind of a WAL record body.
type WALRecordKind uint8

const (
	RecordFrameWrite          WALRecordKind = 0x1
	RecordFrameTombstone      WALRecordKind = 0x2
	RecordStructuredMutation  WALRecordKind = 0x3
	RecordSecondaryIndexDirty WALRecordKind = 0x4
	RecordCheckpointMark      WALRecordKind = 0x5
)

func (k WALRecordKind) String() string {
	switch k {
	case RecordFrameWrite:
		return "frame_write"
	case RecordFrameTombstone:
		return "frame_tombstone"
	case RecordStructuredMutation:
		return "structured_mutation"
	case RecordSecondaryIndexDirty:
		return "secondary_index_dirty"
	case RecordCheckpointMark:
		return "checkpoint_mark"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// VectorEncoding identifies how a vec_index_v1 segment's payload is laid out.
type VectorEncoding uint8

const (
	VectorEncodingFlat    VectorEncoding = 0x1
	VectorEncodingUsearch VectorEncoding = 0x2
)

func (e VectorEncoding) String() string {
	switch e {
	case VectorEncodingFlat:
		return "flat"
	case VectorEncodingUsearch:
		return "usearch"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(e))
	}
}

// VectorSimilarity identifies the distance/similarity metric a vector
// segment was built for.
type VectorSimilarity uint8

const (
	SimilarityCosine       VectorSimilarity = 0x1
	SimilarityL2           VectorSimilarity = 0x2
	SimilarityInnerProduct VectorSimilarity = 0x3
)

func (s VectorSimilarity) String() string {
	switch s {
	case SimilarityCosine:
		return "cosine"
	case SimilarityL2:
		return "l2"
	case SimilarityInnerProduct:
		return "inner_product"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// FactValueKind identifies the tagged-union variant of a structured
// FactValue.
type FactValueKind uint8

const (
	FactValueString    FactValueKind = 0x1
	FactValueInt64     FactValueKind = 0x2
	FactValueFloat64   FactValueKind = 0x3
	FactValueBool      FactValueKind = 0x4
	FactValueBytes     FactValueKind = 0x5
	FactValueTimeMs    FactValueKind = 0x6
	FactValueEntityRef FactValueKind = 0x7
)

func (k FactValueKind) String() string {
	switch k {
	case FactValueString:
		return "string"
	case FactValueInt64:
		return "int64"
	case FactValueFloat64:
		return "float64"
	case FactValueBool:
		return "bool"
	case FactValueBytes:
		return "bytes"
	case FactValueTimeMs:
		return "time_ms"
	case FactValueEntityRef:
		return "entity_ref"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// EdgeDirection selects which side of a structured fact's subject/object
// pair get_edges traverses.
type EdgeDirection uint8

const (
	EdgeOutgoing EdgeDirection = 0x1
	EdgeIncoming EdgeDirection = 0x2
	EdgeBoth     EdgeDirection = 0x3
)

func (d EdgeDirection) String() string {
	switch d {
	case EdgeOutgoing:
		return "outgoing"
	case EdgeIncoming:
		return "incoming"
	case EdgeBoth:
		return "both"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(d))
	}
}

// SearchMode selects the retrieval lane(s) a search query runs through.
type SearchMode uint8

const (
	SearchModeText   SearchMode = 0x1
	SearchModeVector SearchMode = 0x2
	SearchModeHybrid SearchMode = 0x3
)

func (m SearchMode) String() string {
	switch m {
	case SearchModeText:
		return "text"
	case SearchModeVector:
		return "vector"
	case SearchModeHybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}
