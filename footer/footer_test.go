package footer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/fileio"
	"github.com/waxmem/wax/toc"
)

func sampleFooter() Footer {
	return Footer{
		Generation:      3,
		TOCOffset:       8192,
		TOCLen:          128,
		TOCSha256:       checksum.Sum256([]byte("toc body")),
		WALCommittedSeq: 42,
	}
}

func TestFooterRoundTrip(t *testing.T) {
	want := sampleFooter()
	b := want.Bytes()
	require.Len(t, b, Size)

	got, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestParseRejectsWrongSize(t *testing.T) {
	_, err := Parse(make([]byte, Size-1))
	require.Error(t, err)
}

func TestParseRejectsBadMagic(t *testing.T) {
	b := sampleFooter().Bytes()
	b[0] ^= 0xFF
	_, err := Parse(b)
	require.Error(t, err)
}

func TestParseRejectsImplausibleTOCLen(t *testing.T) {
	f := sampleFooter()
	f.TOCLen = MaxTOCBytes + 1
	_, err := Parse(f.Bytes())
	require.Error(t, err)
}

func writeFileAt(t *testing.T, f *fileio.File, data []byte, offset int64) {
	t.Helper()
	require.NoError(t, f.WriteAllAt(data, offset))
}

func TestScanFindsValidFooter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.mv2s")
	f, err := fileio.Open(path, true)
	require.NoError(t, err)
	defer f.Close()

	tc := toc.TOC{Entries: nil}
	tocBytes := tc.Bytes()
	tocOffset := int64(4096)
	writeFileAt(t, f, tocBytes, tocOffset)

	ftr := Footer{
		Generation:      1,
		TOCOffset:       uint64(tocOffset),
		TOCLen:          uint64(len(tocBytes)),
		TOCSha256:       tc.Checksum(),
		WALCommittedSeq: 0,
	}
	footerOffset := tocOffset + int64(len(tocBytes))
	writeFileAt(t, f, ftr.Bytes(), footerOffset)
	require.NoError(t, f.Truncate(footerOffset+int64(Size)))

	cand, err := Scan(f)
	require.NoError(t, err)
	require.Equal(t, uint64(1), cand.Footer.Generation)
	require.Equal(t, footerOffset, cand.Offset)
}

func TestScanPicksHighestGeneration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.mv2s")
	f, err := fileio.Open(path, true)
	require.NoError(t, err)
	defer f.Close()

	tc := toc.TOC{Entries: nil}
	tocBytes := tc.Bytes()
	tocOffset := int64(4096)
	writeFileAt(t, f, tocBytes, tocOffset)

	olderFooterOffset := tocOffset + int64(len(tocBytes))
	older := Footer{Generation: 1, TOCOffset: uint64(tocOffset), TOCLen: uint64(len(tocBytes)), TOCSha256: tc.Checksum()}
	writeFileAt(t, f, older.Bytes(), olderFooterOffset)

	newerFooterOffset := olderFooterOffset + int64(Size)
	newer := Footer{Generation: 2, TOCOffset: uint64(tocOffset), TOCLen: uint64(len(tocBytes)), TOCSha256: tc.Checksum()}
	writeFileAt(t, f, newer.Bytes(), newerFooterOffset)
	require.NoError(t, f.Truncate(newerFooterOffset+int64(Size)))

	cand, err := Scan(f)
	require.NoError(t, err)
	require.Equal(t, uint64(2), cand.Footer.Generation)
	require.Equal(t, newerFooterOffset, cand.Offset)
}

func TestScanFailsOnEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.mv2s")
	f, err := fileio.Open(path, true)
	require.NoError(t, err)
	defer f.Close()

	_, err = Scan(f)
	require.Error(t, err)
}

func TestScanSkipsFooterWithBadTOCChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.mv2s")
	f, err := fileio.Open(path, true)
	require.NoError(t, err)
	defer f.Close()

	tc := toc.TOC{Entries: nil}
	tocBytes := tc.Bytes()
	tocOffset := int64(4096)
	writeFileAt(t, f, tocBytes, tocOffset)

	ftr := Footer{
		Generation: 1,
		TOCOffset:  uint64(tocOffset),
		TOCLen:     uint64(len(tocBytes)),
		TOCSha256:  checksum.Sum256([]byte("wrong")),
	}
	footerOffset := tocOffset + int64(len(tocBytes))
	writeFileAt(t, f, ftr.Bytes(), footerOffset)
	require.NoError(t, f.Truncate(footerOffset+int64(Size)))

	_, err = Scan(f)
	require.Error(t, err)
}
