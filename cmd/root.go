package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"cheatmc/internal/config"
	"cheatmc/internal/loader"
	"cheatmc/internal/logger"
)

var (
	trials    int
	seed      int64
	workers   int
	delimiter string
	logLevel  string

	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "cheatmc",
	Short: "Cheater co-occurrence analysis for game logs",
	Long: `Quantify whether cheater co-occurrence in multiplayer game logs exceeds
chance: cheaters clustering on the same teams, victims of cheaters who later
cheat, and observers of cheaters who later cheat. Every statistic is compared
against randomized null worlds with a percentile confidence interval.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		applyEnvDefaults(cmd)
		log = logger.New(logLevel)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&trials, "trials", "n", 20, "number of randomized trials")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 42, "master seed for trial randomization")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 1, "trials evaluated in parallel")
	rootCmd.PersistentFlags().StringVar(&delimiter, "delimiter", "\t", "field delimiter in input files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")

	rootCmd.AddCommand(teamsCmd)
	rootCmd.AddCommand(victimsCmd)
	rootCmd.AddCommand(observersCmd)
	rootCmd.AddCommand(inspectCmd)
}

// applyEnvDefaults replaces the built-in defaults with .env/environment
// values for every flag the user did not set explicitly.
func applyEnvDefaults(cmd *cobra.Command) {
	cfg := config.Load(logger.New(logLevel))
	flags := cmd.Flags()
	if !flags.Changed("trials") {
		trials = cfg.Trials
	}
	if !flags.Changed("seed") {
		seed = cfg.Seed
	}
	if !flags.Changed("workers") {
		workers = cfg.Workers
	}
	if !flags.Changed("delimiter") {
		delimiter = cfg.Delimiter
	}
	if !flags.Changed("log-level") {
		logLevel = cfg.LogLevel
	}
}

func loaderOptions() loader.Options {
	return loader.Options{Delimiter: config.ParseDelimiter(delimiter)}
}
