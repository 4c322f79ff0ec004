package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/radar989/crits/internal/crits"
)

var (
	cfgFile  string
	hostname string
	username string
	apiKey   string
	redisURL string
	dbPath   string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "crits-lookup",
	Short: "CRITs threat-intelligence lookup adapter",
	Long: `crits-lookup resolves indicators (IP addresses, file hashes, domains)
against a CRITs threat-intelligence repository and returns normalized,
display-ready result records.

Features:
- One-shot indicator lookups from the command line
- Worker mode consuming lookup requests from Redis Streams
- SQLite-backed lookup history
- Fail-fast batch semantics: a batch either fully succeeds or fails`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.crits-lookup.yaml)")
	rootCmd.PersistentFlags().StringVar(&hostname, "hostname", "", "CRITs server hostname, e.g. https://crits.example.com")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "CRITs username")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "CRITs API key")
	rootCmd.PersistentFlags().StringVar(&redisURL, "redis", "", "Redis connection URL for bus mode (empty disables the bus)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "./data/crits-lookup.db", "SQLite lookup history path")
	rootCmd.PersistentFlags().Bool("lookup-ips", true, "Enable IP address lookups")
	rootCmd.PersistentFlags().Bool("lookup-hashes", true, "Enable file hash lookups")
	rootCmd.PersistentFlags().Bool("lookup-domains", true, "Enable domain lookups")

	// Bind flags to viper
	viper.BindPFlag("crits.hostname", rootCmd.PersistentFlags().Lookup("hostname"))
	viper.BindPFlag("crits.username", rootCmd.PersistentFlags().Lookup("username"))
	viper.BindPFlag("crits.api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	viper.BindPFlag("redis.url", rootCmd.PersistentFlags().Lookup("redis"))
	viper.BindPFlag("database.path", rootCmd.PersistentFlags().Lookup("db"))
	viper.BindPFlag("lookup.ips", rootCmd.PersistentFlags().Lookup("lookup-ips"))
	viper.BindPFlag("lookup.hashes", rootCmd.PersistentFlags().Lookup("lookup-hashes"))
	viper.BindPFlag("lookup.domains", rootCmd.PersistentFlags().Lookup("lookup-domains"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".crits-lookup" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".crits-lookup")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// Set defaults
	viper.SetDefault("database.path", "./data/crits-lookup.db")
	viper.SetDefault("redis.url", "")
	viper.SetDefault("lookup.ips", true)
	viper.SetDefault("lookup.hashes", true)
	viper.SetDefault("lookup.domains", true)
}

// Config aggregates the resolved runtime configuration
type Config struct {
	CRITs    crits.Config
	Redis    RedisConfig
	Database DatabaseConfig
}

// RedisConfig holds Redis bus configuration
type RedisConfig struct {
	URL string
}

// DatabaseConfig holds lookup history configuration
type DatabaseConfig struct {
	Path string
}

// GetConfig returns the current configuration values
func GetConfig() Config {
	return Config{
		CRITs: crits.Config{
			Hostname:      viper.GetString("crits.hostname"),
			Username:      viper.GetString("crits.username"),
			APIKey:        viper.GetString("crits.api_key"),
			LookupIPs:     viper.GetBool("lookup.ips"),
			LookupHashes:  viper.GetBool("lookup.hashes"),
			LookupDomains: viper.GetBool("lookup.domains"),
		},
		Redis: RedisConfig{
			URL: viper.GetString("redis.url"),
		},
		Database: DatabaseConfig{
			Path: viper.GetString("database.path"),
		},
	}
}
