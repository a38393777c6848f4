// Command wax is the minimal CLI surface spec.md §6 names — ingest,
// search, stats, flush, compact — kept deliberately thin: "the real
// surface is the library; CLI is external and only calls these entry
// points." Flag parsing follows calvinalkan-agent-task's
// internal/cli/command.go convention (one file per subcommand, pflag
// instead of the stdlib flag package), scaled down to this package's
// five verbs.
package main

import (
	"fmt"
	"os"
)

// Exit codes from spec.md §6.
const (
	exitSuccess   = 0
	exitUsage     = 64
	exitDataError = 65
	exitLocked    = 66
	exitInternal  = 70
)

type subcommand struct {
	name  string
	short string
	run   func(args []string) int
}

var subcommands = []subcommand{
	{"ingest", "ingest <file> — remember the file's text as one frame", runIngest},
	{"search", "search <query> [--mode text|vector|hybrid] [--top-k N] — hybrid retrieval", runSearch},
	{"stats", "stats — print runtime_stats()", runStats},
	{"flush", "flush — durably commit staged writes", runFlush},
	{"compact", "compact — rewrite the file, dropping tombstones", runCompact},
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return exitUsage
	}

	for _, sc := range subcommands {
		if sc.name == args[0] {
			return sc.run(args[1:])
		}
	}

	fmt.Fprintf(os.Stderr, "wax: unknown command %q\n", args[0])
	printUsage()
	return exitUsage
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: wax <command> [flags]")
	fmt.Fprintln(os.Stderr, "commands:")
	for _, sc := range subcommands {
		fmt.Fprintln(os.Stderr, "  "+sc.short)
	}
}
