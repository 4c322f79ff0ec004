package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/radar989/crits/internal/bus"
	"github.com/radar989/crits/internal/crits"
	"github.com/radar989/crits/internal/store"
)

var (
	serveGroup    string
	serveConsumer string
	serveLogFile  string
	serveTimeout  time.Duration
	serveInsecure bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a lookup worker consuming requests from the bus",
	Long: `Start a headless worker that consumes lookup requests from the Redis
requests stream, resolves each batch against the CRITs server, and publishes
the outcome to the results stream.

The worker runs until interrupted (Ctrl+C). Each request is answered with
either a full result list or a single error, never both. Batch outcomes are
recorded in the lookup history.

Examples:
  # Consume from a local Redis
  crits-lookup serve --redis redis://localhost:6379

  # Run a second consumer in the same group
  crits-lookup serve --redis redis://localhost:6379 --consumer worker-2`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveGroup, "group", "crits-lookup", "Redis consumer group name")
	serveCmd.Flags().StringVar(&serveConsumer, "consumer", "worker-1", "Consumer name within the group")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Log to this file instead of stderr")
	serveCmd.Flags().DurationVar(&serveTimeout, "timeout", 30*time.Second, "HTTP timeout per request")
	serveCmd.Flags().BoolVar(&serveInsecure, "insecure-tls", false, "Skip TLS certificate verification")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	logger, closeLog, err := serveLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	config := GetConfig()
	if err := config.CRITs.Validate(); err != nil {
		logger.Printf("Warning: %v (requests will fail until configured)", err)
	}

	// Hot-reload: the connection parameters are re-read from viper per
	// request, so a config file edit takes effect without a restart.
	viper.WatchConfig()
	viper.OnConfigChange(func(e fsnotify.Event) {
		logger.Printf("Config file changed: %s", e.Name)
	})

	b := bus.NewBus(config.Redis.URL, logger)
	defer b.Close()

	if err := b.HealthCheck(ctx); err != nil {
		return fmt.Errorf("bus health check failed: %w", err)
	}

	st, err := store.NewStore(config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open lookup history: %w", err)
	}
	defer st.Close()

	getter := crits.NewHTTPGetter(crits.HTTPOptions{
		Timeout:   serveTimeout,
		VerifyTLS: !serveInsecure,
	})
	service := crits.NewService(getter, logger)

	logger.Printf("Worker starting (group=%s, consumer=%s)", serveGroup, serveConsumer)

	handler := func(ctx context.Context, req bus.LookupRequest) error {
		started := time.Now()
		cfg := GetConfig().CRITs

		results, lookupErr := service.Lookup(ctx, req.Indicators, cfg)

		reply := bus.LookupReply{
			RequestID: req.RequestID,
			Timestamp: time.Now().Unix(),
		}
		if lookupErr != nil {
			reply.Error = lookupErr.Error()
			logger.Printf("Request %s failed after %v: %v", req.RequestID, time.Since(started), lookupErr)
		} else {
			reply.Results = results
			logger.Printf("Request %s resolved %d result(s) in %v", req.RequestID, len(results), time.Since(started))
		}

		if err := st.RecordBatch(ctx, req.RequestID, req.Indicators, results, lookupErr); err != nil {
			logger.Printf("Failed to record history for request %s: %v", req.RequestID, err)
		}

		return b.PublishReply(ctx, reply)
	}

	err = b.ReadRequests(ctx, serveGroup, serveConsumer, handler)
	if err == context.Canceled {
		logger.Printf("Worker stopped")
		return nil
	}
	return err
}

// serveLogger builds the worker logger, optionally file-backed.
func serveLogger() (*log.Logger, func(), error) {
	if serveLogFile == "" {
		return log.New(os.Stderr, "[crits-lookup] ", log.LstdFlags), func() {}, nil
	}

	f, err := os.OpenFile(serveLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return log.New(f, "[crits-lookup] ", log.LstdFlags), func() { f.Close() }, nil
}
