package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/radar989/crits/internal/store"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent lookups from the history database",
	RunE:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyLimit, "limit", 25, "Maximum number of entries to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	config := GetConfig()

	st, err := store.NewStore(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open lookup history: %w", err)
	}
	defer st.Close()

	entries, err := st.RecentLookups(cmd.Context(), historyLimit)
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No lookups recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tVALUE\tKIND\tOUTCOME")
	for _, entry := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
			entry.Value,
			entry.Kind,
			describeOutcome(entry),
		)
	}
	return w.Flush()
}

func describeOutcome(entry store.LookupEntry) string {
	switch {
	case entry.Error != "":
		return "error: " + entry.Error
	case entry.Miss:
		return "miss"
	case entry.Matches > 0:
		return fmt.Sprintf("%d match(es)", entry.Matches)
	}
	return "skipped"
}
