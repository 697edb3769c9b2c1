package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cheatmc/internal/loader"
	"cheatmc/internal/model"
	"cheatmc/internal/report"
)

// inspectCmd is the cobra command for a quick look at the three input tables.
var inspectCmd = &cobra.Command{
	Use:   "inspect <cheaters.txt> <kills.txt> <team_ids.txt>",
	Short: "Show a high-level overview of the input files",
	Long: `Display aggregate statistics about the three input tables: record counts,
date ranges, match and account cardinalities, and the team size breakdown.`,
	Args: cobra.ExactArgs(3),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	opts := loaderOptions()
	records, err := loader.LoadCheaters(args[0], opts)
	if err != nil {
		return fmt.Errorf("load cheaters: %w", err)
	}
	kills, err := loader.LoadKills(args[1], opts)
	if err != nil {
		return fmt.Errorf("load kills: %w", err)
	}
	rows, err := loader.LoadTeams(args[2], opts)
	if err != nil {
		return fmt.Errorf("load teams: %w", err)
	}

	report.PrintOverview(os.Stdout, buildOverview(records, kills, rows))
	return nil
}

func buildOverview(records []model.CheatRecord, kills []model.KillEvent, rows []model.TeamAssignment) report.Overview {
	ov := report.Overview{
		Cheaters: len(records),
		Kills:    len(kills),
		TeamRows: len(rows),
	}

	for _, r := range records {
		if ov.EarliestStart.IsZero() || r.CheatStart.Before(ov.EarliestStart) {
			ov.EarliestStart = r.CheatStart
		}
		if r.BanDate.After(ov.LatestBan) {
			ov.LatestBan = r.BanDate
		}
	}

	killMatches := make(map[string]bool)
	for _, k := range kills {
		killMatches[k.MatchID] = true
		if ov.FirstKill.IsZero() || k.Time.Before(ov.FirstKill) {
			ov.FirstKill = k.Time
		}
		if k.Time.After(ov.LastKill) {
			ov.LastKill = k.Time
		}
	}
	ov.KillMatches = len(killMatches)
	ov.KillAccounts = len(model.KillAccounts(kills))

	teamMatches := make(map[string]bool)
	teamAccounts := make(map[string]bool)
	type matchTeam struct{ match, team string }
	sizes := make(map[matchTeam]int)
	for _, r := range rows {
		teamMatches[r.MatchID] = true
		teamAccounts[r.AccountID] = true
		sizes[matchTeam{r.MatchID, r.TeamID}]++
	}
	ov.TeamMatches = len(teamMatches)
	ov.TeamAccounts = len(teamAccounts)

	ov.TeamSizes = make(map[int]int)
	for _, n := range sizes {
		ov.TeamSizes[n]++
	}
	return ov
}
