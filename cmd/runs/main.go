package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/teatak/subword/store"
)

func main() {
	dbPath := flag.String("db", "data/subword.db", "SQLite database written by train -db")
	limit := flag.Int("n", 20, "Number of runs to show")
	vocabs := flag.Bool("vocabs", false, "List stored vocabularies instead of runs")
	flag.Parse()

	st, err := store.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()
	ctx := context.Background()

	if *vocabs {
		names, err := st.Vocabularies(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing vocabularies: %v\n", err)
			os.Exit(1)
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	runs, err := st.RecentRuns(ctx, *limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading runs: %v\n", err)
		os.Exit(1)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tVOCAB\tTARGET\tSIZE\tMERGES\tWORDS\tMODE\tELAPSED\tINPUT")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%s\t%v\t%s\n",
			r.ID, r.Time.Format(time.DateTime), r.Vocab, r.TargetSize, r.VocabSize,
			r.Merges, r.Words, r.MergeMode, r.Elapsed, r.Input)
	}
	w.Flush()
}
