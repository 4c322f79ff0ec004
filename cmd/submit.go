package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/radar989/crits/internal/bus"
	"github.com/radar989/crits/internal/classify"
)

// submitCmd represents the submit command
var submitCmd = &cobra.Command{
	Use:   "submit <value>...",
	Short: "Publish a lookup request onto the bus",
	Long: `Classify the given values and publish them as one lookup request on
the Redis requests stream, to be resolved by a running worker (see serve).
Prints the request ID; the reply appears on the results stream.

Example:
  crits-lookup submit --redis redis://localhost:6379 1.2.3.4 evil.example.com`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	logger := log.New(os.Stderr, "[crits-lookup] ", log.LstdFlags)
	config := GetConfig()

	if config.Redis.URL == "" {
		return fmt.Errorf("submit requires a Redis URL (--redis or redis.url in the config file)")
	}

	b := bus.NewBus(config.Redis.URL, logger)
	defer b.Close()

	if err := b.HealthCheck(cmd.Context()); err != nil {
		return fmt.Errorf("bus health check failed: %w", err)
	}

	req := bus.LookupRequest{
		RequestID:  uuid.New().String(),
		Indicators: classify.Batch(args),
		Timestamp:  time.Now().Unix(),
	}

	if err := b.PublishRequest(cmd.Context(), req); err != nil {
		return err
	}

	fmt.Println(req.RequestID)
	return nil
}
