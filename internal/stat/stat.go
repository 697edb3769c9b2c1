package stat

import (
	"time"

	"cheatmc/internal/model"
)

type teamKey struct {
	match, team string
}

// MaxTeamSize returns the largest team size in the assignment table. A team
// can never hold more cheaters than members, and the shuffled worlds keep
// team sizes intact, so this fixes a histogram width on which real and trial
// vectors align.
func MaxTeamSize(rows []model.TeamAssignment) int {
	sizes := make(map[teamKey]int)
	largest := 0
	for _, r := range rows {
		k := teamKey{r.MatchID, r.TeamID}
		sizes[k]++
		if sizes[k] > largest {
			largest = sizes[k]
		}
	}
	return largest
}

// TeamHistogram buckets every (match, team) pair by how many of its members
// appear in the cheater roster. Membership is all that counts here, not
// activity windows. The result has maxCheaters+1 slots; a team with more
// cheaters than the cap lands in the top slot.
func TeamHistogram(rows []model.TeamAssignment, cheaters model.CheaterSet, maxCheaters int) []int {
	counts := make(map[teamKey]int)
	for _, r := range rows {
		k := teamKey{r.MatchID, r.TeamID}
		n := counts[k]
		if cheaters.Contains(r.AccountID) {
			n++
		}
		counts[k] = n
	}

	hist := make([]int, maxCheaters+1)
	for _, n := range counts {
		if n > maxCheaters {
			n = maxCheaters
		}
		hist[n]++
	}
	return hist
}

// CountVictims counts distinct accounts killed at least once by an actively
// cheating killer and whose own cheating starts strictly after the day of
// such a kill. A self-kill can never qualify: an active killer's start is on
// or before the kill day, which rules out a strictly-later start for the
// same account.
func CountVictims(matches []model.MatchKills, cheaters model.CheaterSet) int {
	return len(victimSet(matches, cheaters))
}

// victimSet collects the qualifying victims. CountObservers needs the set
// itself to keep the two populations disjoint.
func victimSet(matches []model.MatchKills, cheaters model.CheaterSet) map[string]bool {
	set := make(map[string]bool)
	for _, m := range matches {
		for _, k := range m.Kills {
			if set[k.VictimID] {
				continue
			}
			if !cheaters.ActiveAt(k.KillerID, k.Time) {
				continue
			}
			if cheaters.StartsAfter(k.VictimID, k.Time) {
				set[k.VictimID] = true
			}
		}
	}
	return set
}

// ObserverOptions tune who counts as having observed cheating.
type ObserverOptions struct {
	// MinCheaterKills requires the observed cheater to have killed at least
	// this many distinct victims within the match. 0 means the presence of
	// any actively cheating participant is enough.
	MinCheaterKills int
}

// CountObservers counts distinct accounts that shared a match with an
// actively cheating participant and whose own cheating starts strictly after
// the day of the match's last kill. Presence in a match means appearing in
// its kill log as killer or victim. Accounts in the victim set are excluded
// so the two populations stay disjoint.
//
// Observing oneself never qualifies and needs no explicit check: an account
// active during the match has started by the match's last day, which rules
// out a strictly-later start.
func CountObservers(matches []model.MatchKills, cheaters model.CheaterSet, opts ObserverOptions) int {
	victims := victimSet(matches, cheaters)
	counted := make(map[string]bool)
	for _, m := range matches {
		active := activeCheatersIn(m, cheaters, opts.MinCheaterKills)
		if len(active) == 0 {
			continue
		}
		end := m.End()
		for _, k := range m.Kills {
			for _, id := range [2]string{k.KillerID, k.VictimID} {
				if counted[id] || victims[id] {
					continue
				}
				if cheaters.StartsAfter(id, end) {
					counted[id] = true
				}
			}
		}
	}
	return len(counted)
}

// activeCheatersIn returns the match participants who count as observed
// cheaters. With minKills == 0 that is anyone actively cheating on a day the
// match's kills cover; otherwise the account must also have killed at least
// minKills distinct victims in the match while active.
func activeCheatersIn(m model.MatchKills, cheaters model.CheaterSet, minKills int) map[string]bool {
	if minKills > 0 {
		victimsOf := make(map[string]map[string]bool)
		for _, k := range m.Kills {
			if !cheaters.ActiveAt(k.KillerID, k.Time) {
				continue
			}
			if victimsOf[k.KillerID] == nil {
				victimsOf[k.KillerID] = make(map[string]bool)
			}
			victimsOf[k.KillerID][k.VictimID] = true
		}
		active := make(map[string]bool)
		for killer, vs := range victimsOf {
			if len(vs) >= minKills {
				active[killer] = true
			}
		}
		return active
	}

	// Kills are in timestamp order, so the distinct days arrive ascending.
	var days []time.Time
	for _, k := range m.Kills {
		d := model.Day(k.Time)
		if len(days) == 0 || d.After(days[len(days)-1]) {
			days = append(days, d)
		}
	}

	active := make(map[string]bool)
	for _, k := range m.Kills {
		for _, id := range [2]string{k.KillerID, k.VictimID} {
			if active[id] {
				continue
			}
			for _, d := range days {
				if cheaters.ActiveAt(id, d) {
					active[id] = true
					break
				}
			}
		}
	}
	return active
}
