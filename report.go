package main

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/stsysd/tenderbook/aggregate"
	"github.com/stsysd/tenderbook/client"
	"github.com/stsysd/tenderbook/db"
	"github.com/stsysd/tenderbook/engine"
	"github.com/stsysd/tenderbook/store"
)

func reportCmd(flags *globalFlags) *cobra.Command {
	var serverURL string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print budget utilization and payment progress",
		Long: "Print budget utilization and payment progress. Reads the local data directory " +
			"unless --server points at a running tenderbook server.",
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := loadView(cmd.Context(), flags, serverURL)
			if err != nil {
				return fmt.Errorf("read all: %w", err)
			}
			return writeReport(cmd.OutOrStdout(), view)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "", "Base URL of a tenderbook server (e.g. http://localhost:8080)")
	return cmd
}

// loadView はサーバー、またはローカルのデータディレクトリから全データを読み込みます。
func loadView(ctx context.Context, flags *globalFlags, serverURL string) (*engine.View, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if serverURL != "" {
		return client.New(client.Config{BaseURL: serverURL}).ReadAll(ctx)
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}
	sqliteStore, err := store.NewSQLiteStore(cfg.DataDir, db.Migrate)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	defer sqliteStore.Close()
	return engine.New(sqliteStore).ReadAll(ctx)
}

// writeReport は分析結果を表形式で出力します。
func writeReport(out io.Writer, view *engine.View) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "revision %d\n\n", view.Revision)

	// 科目別
	fmt.Fprintln(tw, "CATEGORY\tTOTAL\tUSED\tREMAINING\t")
	writeUsage(tw, view.Analysis.Categories, view.Analysis.Orphans.Categories)
	fmt.Fprintln(tw)

	// 建議人別
	fmt.Fprintln(tw, "SUGGESTER\tTOTAL\tUSED\tREMAINING\t")
	writeUsage(tw, view.Analysis.Suggesters, view.Analysis.Orphans.Suggesters)
	fmt.Fprintln(tw)

	// 標案別
	fmt.Fprintln(tw, "CASE\tSTATUS\tAWARDED\tPAID\tPROGRESS\tLINKED\t")
	for _, s := range view.CaseSummaries {
		mark := ""
		if s.Progress.Overpaid {
			mark = " (overpaid)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.1f%%%s\t%d\t\n",
			s.Case.Name, s.Case.Status, s.Case.AwardedTotal, s.Progress.Paid,
			s.Progress.Percent, mark, len(s.Linked))
	}

	if len(view.Unassigned) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "UNASSIGNED PROJECT\tCATEGORY\tAMOUNT\t")
		for _, line := range view.Unassigned {
			fmt.Fprintf(tw, "%s\t%s\t%d\t\n", line.Name, line.Category, line.Amount)
		}
	}

	if len(view.Divergences) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "DIVERGENT PROJECT\tFIELDS\t")
		for _, d := range view.Divergences {
			fmt.Fprintf(tw, "%s\t%s\t\n", d.Name, strings.Join(d.Fields, ", "))
		}
	}
	return tw.Flush()
}

func writeUsage(w io.Writer, usage map[string]aggregate.Usage, orphans map[string]int64) {
	for _, name := range slices.Sorted(maps.Keys(usage)) {
		u := usage[name]
		mark := ""
		if u.OverBudget() {
			mark = " !"
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%d%s\t\n", name, u.Total, u.Used, u.Remaining(), mark)
	}
	for _, name := range slices.Sorted(maps.Keys(orphans)) {
		fmt.Fprintf(w, "%s (not configured)\t-\t%d\t-\t\n", name, orphans[name])
	}
}
