package main

import (
	"context"
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/wax"
)

func runIngest(args []string) int {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	db := dbFlag(fs)
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: wax ingest [--db path] <file>")
		return exitUsage
	}

	body, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "wax: %v\n", err)
		return exitUsage
	}

	s, code := openStore(*db)
	if s == nil {
		return code
	}
	defer s.Close()

	id, err := s.Remember(context.Background(), wax.RememberInput{
		Kind:        format.FrameText,
		Text:        string(body),
		CreatedAtMs: time.Now().UnixMilli(),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "wax: %v\n", err)
		return exitCodeFor(err)
	}

	if err := s.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "wax: %v\n", err)
		return exitCodeFor(err)
	}

	fmt.Printf("remembered frame %d\n", id)
	return exitSuccess
}
