package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

func runFlush(args []string) int {
	fs := flag.NewFlagSet("flush", flag.ContinueOnError)
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

	if err := s.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "wax: %v\n", err)
		return exitCodeFor(err)
	}

	fmt.Println("flushed")
	return exitSuccess
}
