package footer

import (
	"bytes"

	"github.com/waxmem/wax/checksum"
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/fileio"
	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/toc"
)

// Candidate is a footer found during a backward scan together with the
// file offset its magic began at and the TOC it was validated against.
type Candidate struct {
	Footer Footer
	Offset int64
	TOC    toc.TOC
}

// Scan implements spec.md §4.8: read up to MaxScanBytes from the end of
// the file, find every byte position where format.MagicFooter occurs,
// and validate each as a candidate by re-reading its referenced TOC and
// checking the trailing SHA-256. Among valid candidates it returns the
// one with the highest generation, ties broken by highest
// wal_committed_seq, then by largest offset. If no candidate validates,
// it returns errs.InvalidFooter.
func Scan(f *fileio.File) (Candidate, error) {
	size, err := f.Size()
	if err != nil {
		return Candidate{}, err
	}

	scanLen := int64(MaxScanBytes)
	if scanLen > size {
		scanLen = size
	}
	start := size - scanLen

	tail := make([]byte, scanLen)
	if err := f.ReadExactlyAt(tail, start); err != nil {
		return Candidate{}, err
	}

	var best Candidate
	found := false

	searchFrom := 0
	for {
		idx := bytes.Index(tail[searchFrom:], format.MagicFooter[:])
		if idx < 0 {
			break
		}
		pos := searchFrom + idx
		searchFrom = pos + 1

		if pos+Size > len(tail) {
			continue
		}

		ftr, err := Parse(tail[pos : pos+Size])
		if err != nil {
			continue
		}

		if ftr.TOCOffset+ftr.TOCLen > uint64(size) {
			continue
		}

		tocBuf := make([]byte, ftr.TOCLen)
		if err := f.ReadExactlyAt(tocBuf, int64(ftr.TOCOffset)); err != nil {
			continue
		}

		var gotSum [checksum.Size]byte
		if len(tocBuf) < checksum.Size {
			continue
		}
		copy(gotSum[:], tocBuf[len(tocBuf)-checksum.Size:])
		if gotSum != ftr.TOCSha256 {
			continue
		}

		decodedTOC, err := toc.Parse(tocBuf)
		if err != nil {
			continue
		}

		cand := Candidate{Footer: ftr, Offset: start + int64(pos), TOC: decodedTOC}
		if !found || better(cand, best) {
			best = cand
			found = true
		}
	}

	if !found {
		return Candidate{}, errs.InvalidFooter("no valid footer found in scan window")
	}

	return best, nil
}

// better reports whether a should replace b as the current best
// candidate, applying spec.md §4.8's tie-break chain.
func better(a, b Candidate) bool {
	if a.Footer.Generation != b.Footer.Generation {
		return a.Footer.Generation > b.Footer.Generation
	}
	if a.Footer.WALCommittedSeq != b.Footer.WALCommittedSeq {
		return a.Footer.WALCommittedSeq > b.Footer.WALCommittedSeq
	}
	return a.Offset > b.Offset
}
