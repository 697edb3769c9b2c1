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

// teamsCmd is the cobra command for the team-clustering hypothesis.
var teamsCmd = &cobra.Command{
	Use:   "teams <team_ids.txt> <cheaters.txt>",
	Short: "Do cheaters end up on the same teams more than chance?",
	Long: `Bucket every (match, team) pair by how many of its members appear in the
cheater roster, then compare the real histogram against worlds where team
labels are shuffled within each match.`,
	Args: cobra.ExactArgs(2),
	RunE: runTeams,
}

func runTeams(cmd *cobra.Command, args []string) error {
	opts := loaderOptions()
	rows, err := loader.LoadTeams(args[0], opts)
	if err != nil {
		return fmt.Errorf("load teams: %w", err)
	}
	records, err := loader.LoadCheaters(args[1], opts)
	if err != nil {
		return fmt.Errorf("load cheaters: %w", err)
	}
	cheaters := model.NewCheaterSet(records)

	log.Info().
		Int("assignments", len(rows)).
		Int("cheaters", len(cheaters)).
		Msg("tables loaded")

	k := stat.MaxTeamSize(rows)
	shuffler := nullworld.NewTeamShuffler(rows)

	res, err := montecarlo.Run(
		montecarlo.Config{Trials: trials, Seed: seed, Workers: workers, Logger: log},
		rows,
		shuffler.Generate,
		func(world []model.TeamAssignment) []float64 {
			return histToFloats(stat.TeamHistogram(world, cheaters, k))
		},
	)
	if err != nil {
		return fmt.Errorf("run trials: %w", err)
	}

	report.PrintTeamReport(os.Stdout, res)
	return nil
}

func histToFloats(hist []int) []float64 {
	out := make([]float64, len(hist))
	for i, n := range hist {
		out[i] = float64(n)
	}
	return out
}
