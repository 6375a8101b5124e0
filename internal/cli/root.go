// Package cli provides the Cobra CLI commands for lambdahunt.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tmeurs/lambdahunt/internal/config"
	"github.com/tmeurs/lambdahunt/internal/lambda"
	"github.com/tmeurs/lambdahunt/internal/logging"
)

// Version information set at build time
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Global flags
var (
	output  string
	envFile string
	verbose int
)

// showVersion tracks if --version was requested
var showVersion bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lambdahunt",
	Short: "Hunt and launch Lambda Cloud GPU instances",
	Long: `lambdahunt - acquire ephemeral GPU instances from Lambda Cloud

List the instance-type catalog, launch and terminate instances, and hunt:
poll the capacity endpoint until a requested type becomes available
somewhere, then launch it and wait for a connectable address.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// verbose is a count: 0 = default, 1 = -v, 2+ = -vv
		cfg := logging.Config{
			LogFile:       "lambdahunt.log",
			Verbosity:     verbose,
			ConsoleOutput: verbose > 0,
		}
		if err := logging.Init(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to initialize logging: %v\n", err)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Close()
	},
	Run: func(cmd *cobra.Command, args []string) {
		jsonOutput := IsJSONOutput()

		if showVersion {
			if jsonOutput {
				PrintJSON(map[string]string{
					"version": Version,
					"commit":  Commit,
					"date":    Date,
				})
			} else {
				fmt.Printf("lambdahunt %s (commit: %s, built: %s)\n", Version, Commit, Date)
			}
			return
		}

		// Bare invocation validates the credential.
		_, client, err := setupClient()
		if err != nil {
			fail(err)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		if err := client.ValidateCredential(ctx); err != nil {
			if jsonOutput {
				PrintJSONError(fmt.Errorf("failed to validate API key: %w", err))
			} else {
				fmt.Fprintf(os.Stderr, "Failed to validate API key: %v\n", err)
			}
			os.Exit(1)
		}

		if jsonOutput {
			PrintJSON(map[string]string{"status": "ok"})
		} else {
			fmt.Println("API key is valid")
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&output, "output", "text", "Output format: text, json")
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Path to .env file (default .env)")
	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "Verbose logging (-v for info, -vv for debug)")

	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}

// SetVersion sets the version information for the version command
func SetVersion(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}

// setupClient loads configuration and builds the API client. Missing
// credentials are a fatal startup error.
func setupClient() (*config.Config, *lambda.Client, error) {
	log := logging.Get()

	cfg, warnings, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	for _, w := range warnings {
		log.Warn().Msg(w)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	client, err := lambda.NewClient(cfg.APIKey)
	if err != nil {
		return nil, nil, err
	}
	return cfg, client, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	return ctx, cancel
}

// fail reports a fatal error in the selected output format and exits.
func fail(err error) {
	logging.Get().Error().Err(err).Msg("Command failed")
	if IsJSONOutput() {
		PrintJSONError(err)
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
