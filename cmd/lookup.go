package cmd

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/radar989/crits/internal/classify"
	"github.com/radar989/crits/internal/crits"
	"github.com/radar989/crits/internal/store"
)

var (
	lookupTimeout  time.Duration
	lookupInsecure bool
	lookupNoRecord bool
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <value>...",
	Short: "Look up indicators against the CRITs server",
	Long: `Classify the given values into typed indicators and resolve them
against the CRITs server in one batch. Results are printed as JSON.

Values whose type is not recognized, or whose type is disabled via the
lookup toggles, are skipped silently. A record with "data": null means the
value was looked up and the repository holds nothing for it.

Examples:
  # Look up an IP and a domain
  crits-lookup lookup 1.2.3.4 evil.example.com

  # Look up a hash without recording history
  crits-lookup lookup --no-record d41d8cd98f00b204e9800998ecf8427e`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	lookupCmd.Flags().DurationVar(&lookupTimeout, "timeout", 30*time.Second, "HTTP timeout per request")
	lookupCmd.Flags().BoolVar(&lookupInsecure, "insecure-tls", false, "Skip TLS certificate verification")
	lookupCmd.Flags().BoolVar(&lookupNoRecord, "no-record", false, "Do not record this batch in the lookup history")
}

func runLookup(cmd *cobra.Command, args []string) error {
	logger := log.New(os.Stderr, "[crits-lookup] ", log.LstdFlags)
	config := GetConfig()

	indicators := classify.Batch(args)
	for _, indicator := range indicators {
		if indicator.Kind() == "unknown" {
			logger.Printf("Skipping unrecognized value: %s", indicator.Value)
		}
	}

	getter := crits.NewHTTPGetter(crits.HTTPOptions{
		Timeout:   lookupTimeout,
		VerifyTLS: !lookupInsecure,
	})
	service := crits.NewService(getter, logger)

	results, lookupErr := service.Lookup(cmd.Context(), indicators, config.CRITs)

	if !lookupNoRecord {
		recordHistory(cmd, logger, config.Database.Path, indicators, results, lookupErr)
	}

	if lookupErr != nil {
		return lookupErr
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	fmt.Fprintf(os.Stderr, "%d result(s)\n", len(results))
	return nil
}

// recordHistory saves the batch outcome; failures are logged, never fatal.
func recordHistory(cmd *cobra.Command, logger *log.Logger, dbPath string, indicators []crits.Indicator, results []crits.LookupResult, lookupErr error) {
	st, err := store.NewStore(dbPath)
	if err != nil {
		logger.Printf("Lookup history unavailable: %v", err)
		return
	}
	defer st.Close()

	if err := st.RecordBatch(cmd.Context(), "", indicators, results, lookupErr); err != nil {
		logger.Printf("Failed to record lookup history: %v", err)
	}
}
