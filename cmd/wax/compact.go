package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

func runCompact(args []string) int {
	fs := flag.NewFlagSet("compact", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	db := dbFlag(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	s, code := openStore(*db)
	if s == nil {
		return code
	}
	defer s.Close()

	if err := s.Compact(); err != nil {
		fmt.Fprintf(os.Stderr, "wax: %v\n", err)
		return exitCodeFor(err)
	}

	fmt.Println("compacted")
	return exitSuccess
}
