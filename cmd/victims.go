package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cheatmc/internal/loader"
	"cheatmc/internal/model"
	"cheatmc/internal/montecarlo"
	"cheatmc/internal/nullworld"
	"cheatmc/internal/report"
	"cheatmc/internal/stat"
)

// victimsCmd is the cobra command for the victim-contagion hypothesis.
var victimsCmd = &cobra.Command{
	Use:   "victims <kills.txt> <cheaters.txt>",
	Short: "Do victims of cheaters start cheating more than chance?",
	Long: `Count the distinct accounts killed by an actively cheating player whose own
cheating starts strictly after that kill, then compare against worlds where
the observed cheat intervals are reassigned to random accounts.`,
	Args: cobra.ExactArgs(2),
	RunE: runVictims,
}

func runVictims(cmd *cobra.Command, args []string) error {
	matches, cheaters, shuffler, err := loadKillPipeline(args[0], args[1])
	if err != nil {
		return err
	}

	res, err := montecarlo.Run(
		montecarlo.Config{Trials: trials, Seed: seed, Workers: workers, Logger: log},
		cheaters,
		shuffler.Generate,
		func(world model.CheaterSet) []float64 {
			return []float64{float64(stat.CountVictims(matches, world))}
		},
	)
	if err != nil {
		return fmt.Errorf("run trials: %w", err)
	}

	report.PrintCountReport(os.Stdout, "Victims of Cheaters Who Later Cheat", res)
	return nil
}

// loadKillPipeline loads the two tables shared by the victim and observer
// commands and builds the label shuffler over them.
func loadKillPipeline(killsPath, cheatersPath string) ([]model.MatchKills, model.CheaterSet, *nullworld.LabelShuffler, error) {
	opts := loaderOptions()
	kills, err := loader.LoadKills(killsPath, opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load kills: %w", err)
	}
	records, err := loader.LoadCheaters(cheatersPath, opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load cheaters: %w", err)
	}

	matches := model.GroupKills(kills)
	shuffler, err := nullworld.NewLabelShuffler(records, kills)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build label shuffler: %w", err)
	}

	log.Info().
		Int("kills", len(kills)).
		Int("matches", len(matches)).
		Int("cheaters", len(records)).
		Msg("tables loaded")

	return matches, model.NewCheaterSet(records), shuffler, nil
}
