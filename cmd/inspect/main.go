package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/danielpatrickdp/decision-field/internal/logging"
	"github.com/danielpatrickdp/decision-field/internal/store"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to decision_field.db")
	last := flag.Int("last", 20, "show N most recent fields")
	field := flag.String("field", "", "show single field detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/decision_field.db [--last N] [--field id] [--json]")
		os.Exit(2)
	}

	st, err := store.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	ctx := context.Background()
	if *field != "" {
		err = runDetailMode(ctx, st, *field, *jsonOut)
	} else {
		err = runListMode(ctx, st, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	FieldID   string  `json:"field_id"`
	Title     string  `json:"title"`
	Status    string  `json:"status"`
	Intuition float64 `json:"intuition_weight"`
	Outcomes  int     `json:"outcomes"`
	Selected  string  `json:"selected,omitempty"`
	CreatedAt string  `json:"created_at"`
}

func runListMode(ctx context.Context, st *store.Store, last int, jsonOut bool) error {
	fields, err := st.ListAllFields(ctx, last)
	if err != nil {
		return err
	}
	if len(fields) == 0 {
		fmt.Fprintln(os.Stderr, "no fields found")
		return nil
	}

	rows := make([]listRow, len(fields))
	for i, f := range fields {
		recs, err := st.ListOutcomes(ctx, f.ID)
		if err != nil {
			return err
		}
		c, err := st.GetCollapse(ctx, f.ID)
		if err != nil {
			return err
		}
		rows[i] = listRow{
			FieldID:   f.ID,
			Title:     f.Title,
			Status:    string(f.Status),
			Intuition: f.IntuitionWeight,
			Outcomes:  len(recs),
			Selected:  selectedLabel(recs, c),
			CreatedAt: f.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	if jsonOut {
		return printJSON(rows)
	}
	fmt.Printf("%-36s  %-10s  %5s  %4s  %-28s  %s\n", "Field", "Status", "IW", "N", "Selected", "Time")
	fmt.Printf("%-36s+-%-10s+-%5s+-%4s+-%-28s+-%s\n",
		"------------------------------------", "----------", "-----", "----", "----------------------------", "--------------------")
	for _, r := range rows {
		fmt.Printf("%-36s  %-10s  %5.2f  %4d  %-28s  %s\n",
			r.FieldID, r.Status, r.Intuition, r.Outcomes, truncate(r.Selected, 28), r.CreatedAt)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

type detailView struct {
	Field    store.Field           `json:"field"`
	Outcomes []store.OutcomeRecord `json:"outcomes"`
	Collapse *store.Collapse       `json:"collapse,omitempty"`
	Selected string                `json:"selected,omitempty"`
	Events   []logging.FieldEvent  `json:"events"`
}

func runDetailMode(ctx context.Context, st *store.Store, fieldID string, jsonOut bool) error {
	f, err := st.LookupField(ctx, fieldID)
	if err != nil {
		return fmt.Errorf("field %s: %w", fieldID, err)
	}
	recs, err := st.ListOutcomes(ctx, fieldID)
	if err != nil {
		return err
	}
	c, err := st.GetCollapse(ctx, fieldID)
	if err != nil {
		return err
	}
	events, err := logging.ListEvents(ctx, st.DB(), fieldID)
	if err != nil {
		return err
	}

	v := detailView{Field: f, Outcomes: recs, Collapse: c, Selected: selectedLabel(recs, c), Events: events}
	if jsonOut {
		return printJSON(v)
	}

	fmt.Printf("Field:      %s\n", f.ID)
	fmt.Printf("Title:      %s\n", f.Title)
	fmt.Printf("Status:     %s\n", f.Status)
	fmt.Printf("Intuition:  %.2f\n", f.IntuitionWeight)
	fmt.Printf("Created:    %s\n\n", f.CreatedAt.Format("2006-01-02T15:04:05Z"))

	fmt.Printf("%-28s  %7s  %6s  %15s  %8s\n", "Outcome", "P", "Impact", "Interval", "Surprise")
	for _, r := range recs {
		marker := " "
		if c != nil && r.ID == c.SelectedOutcomeID {
			marker = "*"
		}
		fmt.Printf("%s%-27s  %7.4f  %6d  [%.4f,%.4f]  %8.4f\n", marker,
			truncate(r.Label, 27), r.Probability, r.ImpactScore, r.ConfidenceLower, r.ConfidenceUpper, r.SurpriseScore)
	}

	if c != nil {
		fmt.Printf("\nCollapsed at %s (data %.2f / intuition %.2f)\n",
			c.CollapsedAt.Format("2006-01-02T15:04:05Z"), c.DataWeight, c.IntuitionWeight)
	}

	fmt.Printf("\nEvents:\n")
	for _, ev := range events {
		line := fmt.Sprintf("  %s  %-18s", ev.CreatedAt.Format("2006-01-02T15:04:05Z"), ev.EventType)
		if ev.Reason != "" {
			line += "  " + ev.Reason
		}
		fmt.Println(line)
	}
	return nil
}

// #endregion detail-mode

// #region helpers

func selectedLabel(recs []store.OutcomeRecord, c *store.Collapse) string {
	if c == nil {
		return ""
	}
	for _, r := range recs {
		if r.ID == c.SelectedOutcomeID {
			return r.Label
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion helpers
