package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"cheatmc/internal/montecarlo"
)

// PrintTeamReport writes the team-clustering comparison: one row per
// cheaters-per-team bucket, real count next to the null distribution.
// Rows where the real count falls outside the null 95% CI are marked "*".
func PrintTeamReport(w io.Writer, res *montecarlo.Result) {
	fmt.Fprintf(w, "\n=== Cheaters per Team ===\n\n")
	fmt.Fprintf(w, "  Trials : %d\n\n", len(res.Samples))

	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
	table.Header(" ", "CHEATERS", "REAL TEAMS", "NULL MEAN", "95% CI")

	outliers := 0
	for i := range res.Real {
		marker := " "
		if res.Real[i] < res.Lower[i] || res.Real[i] > res.Upper[i] {
			marker = "*"
			outliers++
		}
		table.Append(
			marker,
			strconv.Itoa(i),
			fmt.Sprintf("%.0f", res.Real[i]),
			fmt.Sprintf("%.2f", res.Mean[i]),
			fmt.Sprintf("[%.2f, %.2f]", res.Lower[i], res.Upper[i]),
		)
	}
	table.Render()

	if outliers > 0 {
		fmt.Fprintf(w, "\nRows marked * fall outside the null 95%% CI.\n")
	}
}

// PrintCountReport writes a single-count comparison, used by the victim and
// observer pipelines.
func PrintCountReport(w io.Writer, title string, res *montecarlo.Result) {
	fmt.Fprintf(w, "\n=== %s ===\n\n", title)
	fmt.Fprintf(w, "  Real count : %.0f\n", res.Real[0])
	fmt.Fprintf(w, "  Null mean  : %.2f\n", res.Mean[0])
	fmt.Fprintf(w, "  95%% CI     : [%.2f, %.2f]\n", res.Lower[0], res.Upper[0])
	fmt.Fprintf(w, "  Trials     : %d\n", len(res.Samples))

	switch {
	case res.Real[0] > res.Upper[0]:
		fmt.Fprintf(w, "\n  Real count is above the null interval.\n")
	case res.Real[0] < res.Lower[0]:
		fmt.Fprintf(w, "\n  Real count is below the null interval.\n")
	}
}

// Overview summarizes the three input tables for the inspect command.
type Overview struct {
	Cheaters      int
	EarliestStart time.Time
	LatestBan     time.Time

	Kills        int
	KillMatches  int
	KillAccounts int
	FirstKill    time.Time
	LastKill     time.Time

	TeamRows     int
	TeamMatches  int
	TeamAccounts int
	TeamSizes    map[int]int // team size -> number of teams
}

// PrintOverview writes the dataset overview.
func PrintOverview(w io.Writer, ov Overview) {
	fmt.Fprintf(w, "\n=== Dataset Overview ===\n\n")
	fmt.Fprintf(w, "  Cheaters       : %d\n", ov.Cheaters)
	fmt.Fprintf(w, "  Cheat interval : %s → %s\n", fmtDay(ov.EarliestStart), fmtDay(ov.LatestBan))
	fmt.Fprintf(w, "  Kills          : %d\n", ov.Kills)
	fmt.Fprintf(w, "  Kill matches   : %d\n", ov.KillMatches)
	fmt.Fprintf(w, "  Kill accounts  : %d\n", ov.KillAccounts)
	fmt.Fprintf(w, "  Kill window    : %s → %s\n", fmtTime(ov.FirstKill), fmtTime(ov.LastKill))
	fmt.Fprintf(w, "  Team rows      : %d\n", ov.TeamRows)
	fmt.Fprintf(w, "  Team matches   : %d\n", ov.TeamMatches)
	fmt.Fprintf(w, "  Team accounts  : %d\n", ov.TeamAccounts)

	if len(ov.TeamSizes) == 0 {
		return
	}
	sizes := make([]int, 0, len(ov.TeamSizes))
	for size := range ov.TeamSizes {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)

	fmt.Fprintf(w, "\n--- Team Sizes ---\n\n")
	table := tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	table.Header("SIZE", "TEAMS")
	for _, size := range sizes {
		table.Append(strconv.Itoa(size), strconv.Itoa(ov.TeamSizes[size]))
	}
	table.Render()
}

func fmtDay(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02")
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}
	return t.Format("2006-01-02 15:04:05")
}
