// Package wal implements the write-ahead log described in spec.md §4.6:
// an append-only, optionally wrapping region of records, each hashed and
// seq-numbered, replayed forward from the last checkpoint with torn-tail
// detection.
//
// No teacher package covers this (mebo has no WAL — it encodes one
// immutable blob at a time). The record-header shape and replay loop are
// built directly from spec.md §4.6, informed architecturally (not
// copied) by other_examples/bagaswh-prometheus/wal.go's record-framing
// idiom and ClusterCockpit-cc-backend's walCheckpoint.go checkpoint-
// position bookkeeping.
package wal

import (
	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/codec"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/format"
)

// MaxBodyLen is the body size cap named in spec.md §4.6.
const MaxBodyLen = 16 << 20

// HeaderSize is the fixed size of a WAL record header.
//
// spec.md describes a "48-byte fixed header" carrying magic, seq, kind,
// body_len, body_sha256, and prev_seq — but a full 8-byte magic + 8-byte
// seq + 1-byte kind + 4-byte body_len + 8-byte prev_seq + a full 32-byte
// SHA-256 body hash cannot fit in 48 bytes (that's 61 bytes minimum). The
// spec's own Checksum component (§4.2) requires SHA-256, not a truncated
// hash, for "WAL record bodies," so HeaderSize is fixed at 64 bytes here
// — the number in spec.md is treated as an approximate legacy figure,
// not a literal layout constraint to reverse-engineer (see DESIGN.md).
const HeaderSize = 64

// RecordHeader is the fixed-size header preceding every WAL record body.
type RecordHeader struct {
	Seq         uint64
	Kind        format.WALRecordKind
	BodyLen     uint32
	PrevSeq     uint64
	BodySHA256  [checksum.Size]byte
}

// Bytes serializes h into a HeaderSize-byte buffer.
func (h RecordHeader) Bytes() []byte {
	enc := codec.NewEncoder(HeaderSize)
	enc.PutRawBytes(format.MagicWALRecord[:])
	enc.PutU64(h.Seq)
	enc.PutU8(uint8(h.Kind))
	enc.PutRawBytes(make([]byte, 3)) // reserved padding
	enc.PutU32(h.BodyLen)
	enc.PutU64(h.PrevSeq)
	enc.PutRawBytes(h.BodySHA256[:])

	buf := enc.Bytes()
	if len(buf) < HeaderSize {
		padded := make([]byte, HeaderSize)
		copy(padded, buf)
		return padded
	}
	return buf
}

// ParseRecordHeader decodes a HeaderSize-byte buffer.
func ParseRecordHeader(data []byte) (RecordHeader, error) {
	if len(data) != HeaderSize {
		return RecordHeader{}, errs.Encoding("wal record header has wrong size")
	}

	dec := codec.NewDecoder(data)
	magic := dec.RawBytes(8)
	if dec.Err() != nil || string(magic) != string(format.MagicWALRecord[:]) {
		return RecordHeader{}, errs.InvalidSegment("wal_record", "bad magic")
	}

	h := RecordHeader{}
	h.Seq = dec.U64()
	h.Kind = format.WALRecordKind(dec.U8())
	_ = dec.RawBytes(3)
	h.BodyLen = dec.U32()
	h.PrevSeq = dec.U64()
	copy(h.BodySHA256[:], dec.RawBytes(checksum.Size))

	if err := dec.Finalize(); err != nil {
		return RecordHeader{}, err
	}
	if h.BodyLen > MaxBodyLen {
		return RecordHeader{}, errs.Encoding("wal record body_len exceeds 16 MiB cap")
	}

	return h, nil
}

// Record is a fully decoded WAL record: header plus body.
type Record struct {
	Header RecordHeader
	Body   []byte
}

// TotalLen returns the on-disk size of the record (header + body).
func (r Record) TotalLen() int64 {
	return int64(HeaderSize) + int64(len(r.Body))
}

// NewRecord builds a Record with a freshly computed body hash.
func NewRecord(seq, prevSeq uint64, kind format.WALRecordKind, body []byte) (Record, error) {
	if len(body) > MaxBodyLen {
		return Record{}, errs.Encoding("wal record body exceeds 16 MiB cap")
	}

	return Record{
		Header: RecordHeader{
			Seq:        seq,
			Kind:       kind,
			BodyLen:    uint32(len(body)),
			PrevSeq:    prevSeq,
			BodySHA256: checksum.Sum256(body),
		},
		Body: body,
	}, nil
}

// Verify checks that the record's body matches its header's hash, seq,
// and prev_seq linkage against the expected previous seq.
func (r Record) Verify(expectedPrevSeq uint64) error {
	if r.Header.PrevSeq != expectedPrevSeq {
		return errs.WALTorn(r.Header.Seq)
	}
	if r.Header.Seq != expectedPrevSeq+1 {
		return errs.WALTorn(r.Header.Seq)
	}
	if !checksum.Verify(r.Body, r.Header.BodySHA256) {
		return errs.WALTorn(r.Header.Seq)
	}
	return nil
}
