package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"
)

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
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

	st := s.Stats()
	fmt.Printf("session_id:             %s\n", st.SessionID)
	fmt.Printf("file_generation:        %d\n", st.FileGeneration)
	fmt.Printf("header_page_generation: %d\n", st.HeaderPageGeneration)
	fmt.Printf("wal_write_pos:          %d\n", st.WALWritePos)
	fmt.Printf("wal_checkpoint_pos:     %d\n", st.WALCheckpointPos)
	fmt.Printf("wal_committed_seq:      %d\n", st.WALCommittedSeq)
	fmt.Printf("frame_count:            %d\n", st.FrameCount)
	fmt.Printf("indexed_doc_count:      %d\n", st.IndexedDocCount)
	fmt.Printf("vector_count:           %d\n", st.VectorCount)
	fmt.Printf("fact_count:             %d\n", st.FactCount)
	fmt.Printf("staged_frame_count:     %d\n", st.StagedFrameCount)
	return exitSuccess
}
