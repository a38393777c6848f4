package headerpage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/fileio"
)

func samplePage() Page {
	return Page{
		HeaderPageGeneration: 1,
		FileGeneration:       1,
		FooterOffset:         8192,
		WALOffset:            8192,
		WALSize:              1 << 20,
		WALWritePos:          8192,
		WALCheckpointPos:     8192,
		WALCommittedSeq:      0,
		TOCChecksum:          checksum.Sum256([]byte("empty toc")),
	}
}

func TestPageRoundTrip(t *testing.T) {
	want := samplePage()
	b := want.Bytes()
	require.Len(t, b, PageSize)

	got, err := Parse(b)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestParseRejectsWrongSize(t *testing.T) {
	_, err := Parse(make([]byte, PageSize-1))
	require.Error(t, err)
}

func TestParseRejectsBadMagic(t *testing.T) {
	b := samplePage().Bytes()
	b[0] ^= 0xFF
	_, err := Parse(b)
	require.Error(t, err)
}

func TestParseRejectsTamperedChecksum(t *testing.T) {
	b := samplePage().Bytes()
	b[bodySize] ^= 0xFF
	_, err := Parse(b)
	require.Error(t, err)
}

func TestSelectPicksHigherGeneration(t *testing.T) {
	a := Candidate{Page: Page{HeaderPageGeneration: 3}, Valid: true}
	b := Candidate{Page: Page{HeaderPageGeneration: 5}, Valid: true}

	got, ok := Select(a, b)
	require.True(t, ok)
	require.Equal(t, uint64(5), got.HeaderPageGeneration)

	got, ok = Select(b, a)
	require.True(t, ok)
	require.Equal(t, uint64(5), got.HeaderPageGeneration)
}

func TestSelectTieBreaksToA(t *testing.T) {
	a := Candidate{Page: Page{HeaderPageGeneration: 4, FooterOffset: 111}, Valid: true}
	b := Candidate{Page: Page{HeaderPageGeneration: 4, FooterOffset: 222}, Valid: true}

	got, ok := Select(a, b)
	require.True(t, ok)
	require.Equal(t, uint64(111), got.FooterOffset)
}

func TestSelectFallsBackToValidPage(t *testing.T) {
	a := Candidate{Valid: false}
	b := Candidate{Page: Page{HeaderPageGeneration: 1}, Valid: true}

	got, ok := Select(a, b)
	require.True(t, ok)
	require.Equal(t, uint64(1), got.HeaderPageGeneration)
}

func TestSelectFailsWhenNeitherValid(t *testing.T) {
	_, ok := Select(Candidate{}, Candidate{})
	require.False(t, ok)
}

func TestWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.mv2s")
	f, err := fileio.Open(path, true)
	require.NoError(t, err)
	defer f.Close()

	want := samplePage()
	require.NoError(t, Write(f, want))

	got, err := Read(f)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestReadRecoversFromCorruptedPageA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.mv2s")
	f, err := fileio.Open(path, true)
	require.NoError(t, err)
	defer f.Close()

	want := samplePage()
	require.NoError(t, Write(f, want))

	garbage := make([]byte, PageSize)
	require.NoError(t, f.WriteAllAt(garbage, OffsetA))

	got, err := Read(f)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestReadFailsWhenBothPagesCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.mv2s")
	f, err := fileio.Open(path, true)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, f.Truncate(2*PageSize))

	_, err = Read(f)
	require.Error(t, err)
}
