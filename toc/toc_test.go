package toc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/format"
)

func sampleTOC() TOC {
	return TOC{
		Entries: []Entry{
			{Kind: format.SegmentFramePage, Offset: 8192, Length: 1024, Checksum: checksum.Sum256([]byte("frames"))},
			{Kind: format.SegmentTextIndexV1, Offset: 9216, Length: 256, Checksum: checksum.Sum256([]byte("text"))},
			{Kind: format.SegmentVecIndexV1, Offset: 9472, Length: 512, Checksum: checksum.Sum256([]byte("vectors"))},
			{Kind: format.SegmentStructuredSnapshotV1, Offset: 9984, Length: 128, Checksum: checksum.Sum256([]byte("facts"))},
		},
	}
}

func TestTOCRoundTrip(t *testing.T) {
	want := sampleTOC()
	got, err := Parse(want.Bytes())
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestTOCEmptyRoundTrip(t *testing.T) {
	want := TOC{}
	got, err := Parse(want.Bytes())
	require.NoError(t, err)
	require.Empty(t, got.Entries)
}

func TestTOCChecksumMatchesTrailer(t *testing.T) {
	tc := sampleTOC()
	b := tc.Bytes()
	var trailer [checksum.Size]byte
	copy(trailer[:], b[len(b)-checksum.Size:])
	require.Equal(t, trailer, tc.Checksum())
}

func TestParseRejectsBadMagic(t *testing.T) {
	tc := sampleTOC()
	b := tc.Bytes()
	b[0] = 'X'
	_, err := Parse(b)
	require.Error(t, err)
}

func TestParseRejectsCorruptedChecksum(t *testing.T) {
	tc := sampleTOC()
	b := tc.Bytes()
	b[len(b)-1] ^= 0xFF
	_, err := Parse(b)
	require.Error(t, err)
}

func TestParseRejectsTruncatedBody(t *testing.T) {
	tc := sampleTOC()
	b := tc.Bytes()
	_, err := Parse(b[:len(b)-5])
	require.Error(t, err)
}

func TestParseRejectsUnknownSegmentKind(t *testing.T) {
	tc := TOC{Entries: []Entry{{Kind: format.SegmentKind(0xFE), Offset: 0, Length: 0}}}
	_, err := Parse(tc.Bytes())
	require.Error(t, err)
}

func TestBySegmentKind(t *testing.T) {
	tc := sampleTOC()
	frames := tc.BySegmentKind(format.SegmentFramePage)
	require.Len(t, frames, 1)
	require.Equal(t, uint64(8192), frames[0].Offset)

	require.Empty(t, TOC{}.BySegmentKind(format.SegmentFramePage))
}
