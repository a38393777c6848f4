package headerpage

import (
	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/fileio"
)

// Write stages both header pages for p, writing page A first (with its
// own fsync) then page B (with its own fsync), per spec.md §4.5's
// torn-write-safe protocol: a crash between the two writes leaves at
// least one page intact and self-consistent.
func Write(f *fileio.File, p Page) error {
	page := p.Bytes()

	if err := f.WriteAllAt(page, OffsetA); err != nil {
		return err
	}
	if err := f.Fsync(); err != nil {
		return err
	}

	if err := f.WriteAllAt(page, OffsetB); err != nil {
		return err
	}
	if err := f.Fsync(); err != nil {
		return err
	}

	return nil
}

// Read loads both pages and applies the selection rule, returning
// errs.ErrCorruptedHeader if neither page verifies.
func Read(f *fileio.File) (Page, error) {
	bufA := make([]byte, PageSize)
	bufB := make([]byte, PageSize)

	errA := f.ReadExactlyAt(bufA, OffsetA)
	errB := f.ReadExactlyAt(bufB, OffsetB)

	var candA, candB Candidate
	if errA == nil {
		if pa, err := Parse(bufA); err == nil {
			candA = Candidate{Page: pa, Valid: true}
		}
	}
	if errB == nil {
		if pb, err := Parse(bufB); err == nil {
			candB = Candidate{Page: pb, Valid: true}
		}
	}

	page, ok := Select(candA, candB)
	if !ok {
		return Page{}, errs.ErrCorruptedHeader
	}

	return page, nil
}
