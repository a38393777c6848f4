package main

import (
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/waxmem/wax/errs"
	"github.com/waxmem/wax/wax"
)

// dbFlag is the --db path every subcommand accepts; defaults to
// wax.db in the current directory, matching an embeddable single-file
// store's "just works" expectation.
func dbFlag(fs *flag.FlagSet) *string {
	return fs.String("db", "wax.db", "path to the MV2S store file")
}

// openStore opens path and maps any failure to the spec.md §6 exit
// code taxonomy, printing a one-line diagnostic to stderr.
func openStore(path string, opts ...wax.Option) (*wax.Store, int) {
	s, err := wax.Open(path, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wax: %v\n", err)
		return nil, exitCodeFor(err)
	}
	return s, exitSuccess
}

// exitCodeFor maps an errs taxonomy error to spec.md §6's exit codes.
func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrLocked):
		return exitLocked
	case errors.Is(err, errs.ErrCorruptedHeader):
		return exitDataError
	default:
		var invFooter *errs.InvalidFooterError
		var invTOC *errs.InvalidTOCError
		var invSeg *errs.InvalidSegmentError
		if errors.As(err, &invFooter) || errors.As(err, &invTOC) || errors.As(err, &invSeg) {
			return exitDataError
		}
		return exitInternal
	}
}
