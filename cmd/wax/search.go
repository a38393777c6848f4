package main

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/waxmem/wax/format"
	"github.com/waxmem/wax/wax"
)

func runSearch(args []string) int {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	db := dbFlag(fs)
	mode := fs.String("mode", "hybrid", "search mode: text|vector|hybrid")
	topK := fs.Int("top-k", 10, "maximum number of hits to return")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: wax search [--db path] [--mode text|vector|hybrid] [--top-k N] <query>")
		return exitUsage
	}

	var searchMode format.SearchMode
	switch *mode {
	case "text":
		searchMode = format.SearchModeText
	case "vector":
		searchMode = format.SearchModeVector
	case "hybrid":
		searchMode = format.SearchModeHybrid
	default:
		fmt.Fprintf(os.Stderr, "wax: unknown --mode %q\n", *mode)
		return exitUsage
	}

	s, code := openStore(*db)
	if s == nil {
		return code
	}
	defer s.Close()

	hits, err := s.Search(context.Background(), wax.SearchRequest{
		Query: fs.Arg(0),
		Mode:  searchMode,
		TopK:  *topK,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "wax: %v\n", err)
		return exitCodeFor(err)
	}

	for _, h := range hits {
		f, err := s.Recall(h.FrameID)
		if err != nil {
			fmt.Printf("%d\t%.4f\t<unavailable>\n", h.FrameID, h.Score)
			continue
		}
		fmt.Printf("%d\t%.4f\t%s\n", h.FrameID, h.Score, truncate(string(f.PayloadBytes), 120))
	}
	return exitSuccess
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
