package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/decision-field/internal/engine"
	"github.com/danielpatrickdp/decision-field/internal/replay"
	"github.com/danielpatrickdp/decision-field/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to decision_field.db (DB mode)")
	fixturePath := flag.String("fixture", "", "path to fixture JSON (fixture mode)")
	vocabPath := flag.String("vocabulary", "", "vocabulary YAML (defaults to the embedded one)")
	limit := flag.Int("limit", 1000, "audit at most N most recent fields (DB mode)")
	flag.Parse()

	if (*dbPath == "" && *fixturePath == "") || (*dbPath != "" && *fixturePath != "") {
		fmt.Fprintln(os.Stderr, "usage: replay --db path/to/decision_field.db [--limit N] [--vocabulary path]")
		fmt.Fprintln(os.Stderr, "       replay --fixture path/to/fixture.json [--vocabulary path]")
		os.Exit(2)
	}

	vocab, err := engine.LoadVocabulary(*vocabPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load vocabulary: %v\n", err)
		os.Exit(2)
	}
	col := engine.NewCollapser(vocab)

	var cases []replay.Case
	if *fixturePath != "" {
		f, err := replay.LoadFixture(*fixturePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load fixture: %v\n", err)
			os.Exit(2)
		}
		cases = f.ToCases()
	} else {
		st, err := store.NewStore(*dbPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open db: %v\n", err)
			os.Exit(2)
		}
		defer st.Close()
		cases, err = replay.LoadCases(context.Background(), st, *limit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load collapses: %v\n", err)
			os.Exit(2)
		}
	}

	if len(cases) == 0 {
		fmt.Fprintln(os.Stderr, "no collapsed fields found")
		os.Exit(2)
	}
	os.Exit(printComparison(replay.AuditAll(cases, col)))
}

// #endregion main

// #region output

// printComparison outputs a comparison table and returns the exit code.
func printComparison(results []replay.AuditResult) int {
	fmt.Printf("%-36s| %-28s| %-28s| %s\n", "Field", "Recorded", "Replayed", "Status")
	fmt.Printf("%-36s+%-29s+%-29s+%s\n",
		"------------------------------------", "-----------------------------", "-----------------------------", "----------------")

	for _, r := range results {
		fmt.Printf("%-36s| %-28s| %-28s| %s\n", r.FieldID, r.RecordedLabel, r.ReplayedLabel, r.Status)
	}

	s := replay.Summarize(results)
	fmt.Printf("\nSummary: %d total, %d match, %d selection drift, %d synthesis drift, %d missing outcome\n",
		s.Total, s.Matches, s.SelectionDrift, s.SynthesisDrift, s.MissingOutcome)

	if s.Matches != s.Total {
		return 1
	}
	return 0
}

// #endregion output
