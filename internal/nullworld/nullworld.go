package nullworld

import (
	"fmt"
	"math/rand"
	"sort"

	"cheatmc/internal/model"
)

// TeamShuffler builds counterfactual assignment tables with team labels
// permuted within each match. The account column never moves, so per match
// the account set, the team-size multiset, and the match set all survive
// every draw; only who-plays-with-whom changes.
type TeamShuffler struct {
	matches []matchColumns
	total   int
}

// matchColumns holds one match's assignment rows split into parallel columns.
type matchColumns struct {
	matchID  string
	accounts []string
	teams    []string
}

// NewTeamShuffler groups the assignment table by match. Matches are kept in
// sorted order and rows in input order, so a given rng always draws the same
// world.
func NewTeamShuffler(rows []model.TeamAssignment) *TeamShuffler {
	byMatch := make(map[string][]model.TeamAssignment)
	for _, r := range rows {
		byMatch[r.MatchID] = append(byMatch[r.MatchID], r)
	}

	ids := make([]string, 0, len(byMatch))
	for id := range byMatch {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	s := &TeamShuffler{matches: make([]matchColumns, 0, len(ids)), total: len(rows)}
	for _, id := range ids {
		group := byMatch[id]
		mc := matchColumns{
			matchID:  id,
			accounts: make([]string, len(group)),
			teams:    make([]string, len(group)),
		}
		for i, r := range group {
			mc.accounts[i] = r.AccountID
			mc.teams[i] = r.TeamID
		}
		s.matches = append(s.matches, mc)
	}
	return s
}

// Generate returns the assignment table of one randomized world.
func (s *TeamShuffler) Generate(rng *rand.Rand) []model.TeamAssignment {
	out := make([]model.TeamAssignment, 0, s.total)
	shuffled := make([]string, 0)
	for _, mc := range s.matches {
		shuffled = append(shuffled[:0], mc.teams...)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		for i, account := range mc.accounts {
			out = append(out, model.TeamAssignment{
				MatchID:   mc.matchID,
				AccountID: account,
				TeamID:    shuffled[i],
			})
		}
	}
	return out
}

// LabelShuffler builds counterfactual cheater indexes by handing the observed
// cheating intervals to random accounts drawn from the kill log. The interval
// count and the (start, ban) pairs survive every draw; only the labels move.
type LabelShuffler struct {
	intervals []model.CheatRecord
	pool      []string
}

// NewLabelShuffler captures the interval multiset and the candidate account
// pool. Intervals are sorted by their original account and the pool is
// sorted, so a given rng always draws the same world. Fails when the pool
// cannot host every interval.
func NewLabelShuffler(cheaters []model.CheatRecord, kills []model.KillEvent) (*LabelShuffler, error) {
	intervals := make([]model.CheatRecord, len(cheaters))
	copy(intervals, cheaters)
	sort.Slice(intervals, func(i, j int) bool { return intervals[i].AccountID < intervals[j].AccountID })

	pool := model.KillAccounts(kills)
	if len(pool) < len(intervals) {
		return nil, fmt.Errorf("account pool too small: %d accounts for %d cheat intervals", len(pool), len(intervals))
	}
	return &LabelShuffler{intervals: intervals, pool: pool}, nil
}

// Generate returns the cheater index of one randomized world.
func (s *LabelShuffler) Generate(rng *rand.Rand) model.CheaterSet {
	perm := rng.Perm(len(s.pool))
	world := make(model.CheaterSet, len(s.intervals))
	for i, iv := range s.intervals {
		iv.AccountID = s.pool[perm[i]]
		world[iv.AccountID] = iv
	}
	return world
}
