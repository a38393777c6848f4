package wal

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/format"
)

func TestRecordHeaderRoundTrip(t *testing.T) {
	rec, err := NewRecord(1, 0, format.RecordFrameWrite, []byte("payload"))
	require.NoError(t, err)

	b := rec.Header.Bytes()
	require.Len(t, b, HeaderSize)

	got, err := ParseRecordHeader(b)
	require.NoError(t, err)
	require.Equal(t, rec.Header, got)
}

func TestParseRecordHeaderRejectsWrongSize(t *testing.T) {
	_, err := ParseRecordHeader(make([]byte, HeaderSize-1))
	require.Error(t, err)
}

func TestParseRecordHeaderRejectsBadMagic(t *testing.T) {
	rec, err := NewRecord(1, 0, format.RecordFrameWrite, []byte("x"))
	require.NoError(t, err)
	b := rec.Header.Bytes()
	b[0] ^= 0xFF
	_, err = ParseRecordHeader(b)
	require.Error(t, err)
}

func TestParseRecordHeaderRejectsOversizedBodyLen(t *testing.T) {
	rec, err := NewRecord(1, 0, format.RecordFrameWrite, []byte("x"))
	require.NoError(t, err)
	h := rec.Header
	h.BodyLen = MaxBodyLen + 1
	_, err = ParseRecordHeader(h.Bytes())
	require.Error(t, err)
}

func TestNewRecordRejectsOversizedBody(t *testing.T) {
	_, err := NewRecord(1, 0, format.RecordFrameWrite, make([]byte, MaxBodyLen+1))
	require.Error(t, err)
}

func TestVerifySucceedsOnCorrectChain(t *testing.T) {
	rec, err := NewRecord(5, 4, format.RecordFrameWrite, []byte("body"))
	require.NoError(t, err)
	require.NoError(t, rec.Verify(4))
}

func TestVerifyFailsOnBrokenPrevSeq(t *testing.T) {
	rec, err := NewRecord(5, 3, format.RecordFrameWrite, []byte("body"))
	require.NoError(t, err)
	require.Error(t, rec.Verify(4))
}

func TestVerifyFailsOnSeqGap(t *testing.T) {
	rec := Record{Header: RecordHeader{Seq: 7, PrevSeq: 4, BodySHA256: checksum.Sum256(nil)}}
	require.Error(t, rec.Verify(4))
}

func TestVerifyFailsOnTamperedBody(t *testing.T) {
	rec, err := NewRecord(2, 1, format.RecordFrameWrite, []byte("original"))
	require.NoError(t, err)
	rec.Body = []byte("tampered!")
	require.Error(t, rec.Verify(1))
}

func TestTotalLen(t *testing.T) {
	rec, err := NewRecord(1, 0, format.RecordFrameWrite, []byte("12345"))
	require.NoError(t, err)
	require.Equal(t, int64(HeaderSize+5), rec.TotalLen())
}
