package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/decision-field/internal/replay"
	"github.com/danielpatrickdp/decision-field/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to decision_field.db")
	last := flag.Int("last", 20, "export collapses among the N most recent fields")
	outPath := flag.String("out", "", "output fixture JSON path")
	description := flag.String("description", "", "fixture description")
	flag.Parse()

	if *dbPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: fixture-export --db path/to/db --out path/to/fixture.json [--last N] [--description text]")
		os.Exit(2)
	}

	if err := run(*dbPath, *last, *outPath, *description); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region export

func run(dbPath string, last int, outPath, description string) error {
	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	cases, err := replay.LoadCases(context.Background(), st, last)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		return fmt.Errorf("no collapsed fields among the last %d", last)
	}
	if description == "" {
		description = fmt.Sprintf("Exported from %s: %d recorded collapses", dbPath, len(cases))
	}

	if err := replay.WriteFixture(outPath, replay.NewFixture(description, cases)); err != nil {
		return err
	}
	fmt.Printf("wrote %d cases to %s\n", len(cases), outPath)
	return nil
}

// #endregion export
