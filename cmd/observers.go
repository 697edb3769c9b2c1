package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cheatmc/internal/model"
	"cheatmc/internal/montecarlo"
	"cheatmc/internal/report"
	"cheatmc/internal/stat"
)

var minCheaterKills int

// observersCmd is the cobra command for the observer-contagion hypothesis.
var observersCmd = &cobra.Command{
	Use:   "observers <kills.txt> <cheaters.txt>",
	Short: "Do players who observe cheaters start cheating more than chance?",
	Long: `Count the distinct accounts that shared a match with an actively cheating
player and whose own cheating starts strictly after that match, then compare
against worlds where the observed cheat intervals are reassigned to random
accounts. Victims of cheating are excluded so the population stays disjoint
from the victims statistic.`,
	Args: cobra.ExactArgs(2),
	RunE: runObservers,
}

func init() {
	observersCmd.Flags().IntVar(&minCheaterKills, "min-cheater-kills", 0,
		"require observed cheaters to kill at least this many distinct victims in the match")
}

func runObservers(cmd *cobra.Command, args []string) error {
	matches, cheaters, shuffler, err := loadKillPipeline(args[0], args[1])
	if err != nil {
		return err
	}
	opts := stat.ObserverOptions{MinCheaterKills: minCheaterKills}

	res, err := montecarlo.Run(
		montecarlo.Config{Trials: trials, Seed: seed, Workers: workers, Logger: log},
		cheaters,
		shuffler.Generate,
		func(world model.CheaterSet) []float64 {
			return []float64{float64(stat.CountObservers(matches, world, opts))}
		},
	)
	if err != nil {
		return fmt.Errorf("run trials: %w", err)
	}

	report.PrintCountReport(os.Stdout, "Observers of Cheaters Who Later Cheat", res)
	return nil
}
