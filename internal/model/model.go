package model

import (
	"sort"
	"time"
)

// ---- Input tables ----

// CheatRecord is one row of the cheater roster: when the account started
// cheating and when it was banned. Both dates are day-granular, stored as
// UTC midnight. The activity interval is half-open: [CheatStart, BanDate).
type CheatRecord struct {
	AccountID  string
	CheatStart time.Time
	BanDate    time.Time
}

// ActiveAt reports whether the record covers the day of t.
func (r CheatRecord) ActiveAt(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.CheatStart) && d.Before(r.BanDate)
}

// KillEvent is one row of the kill log.
type KillEvent struct {
	MatchID  string
	KillerID string
	VictimID string
	Time     time.Time
}

// TeamAssignment places one account on one team within one match.
type TeamAssignment struct {
	MatchID   string
	AccountID string
	TeamID    string
}

// Day reduces t to UTC midnight. Cheat intervals are day-granular, so every
// comparison against a kill timestamp goes through this first.
func Day(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// ---- Cheater index ----

// CheaterSet indexes cheat records by account for O(1) lookups during
// statistic evaluation.
type CheaterSet map[string]CheatRecord

// NewCheaterSet indexes records by account. The loader rejects duplicate
// accounts before they get here; a later record would overwrite an earlier
// one.
func NewCheaterSet(records []CheatRecord) CheaterSet {
	s := make(CheaterSet, len(records))
	for _, r := range records {
		s[r.AccountID] = r
	}
	return s
}

// Contains reports whether the account ever cheats.
func (s CheaterSet) Contains(accountID string) bool {
	_, ok := s[accountID]
	return ok
}

// ActiveAt reports whether the account is actively cheating on the day of t.
// Accounts without a record are never active.
func (s CheaterSet) ActiveAt(accountID string, t time.Time) bool {
	r, ok := s[accountID]
	return ok && r.ActiveAt(t)
}

// StartOf returns the account's cheat-start date.
func (s CheaterSet) StartOf(accountID string) (time.Time, bool) {
	r, ok := s[accountID]
	return r.CheatStart, ok
}

// StartsAfter reports whether the account begins cheating strictly after the
// day of t. False for accounts that never cheat and for same-day starts.
func (s CheaterSet) StartsAfter(accountID string, t time.Time) bool {
	r, ok := s[accountID]
	return ok && r.CheatStart.After(Day(t))
}

// Records returns the set's records sorted by account.
func (s CheaterSet) Records() []CheatRecord {
	out := make([]CheatRecord, 0, len(s))
	for _, r := range s {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

// ---- Derived kill views ----

// MatchKills is the kill log of a single match in timestamp order.
type MatchKills struct {
	MatchID string
	Kills   []KillEvent
}

// End returns the timestamp of the last kill, the closest thing the log has
// to a match end.
func (m MatchKills) End() time.Time {
	return m.Kills[len(m.Kills)-1].Time
}

// GroupKills splits the kill log per match. Matches come out sorted by id
// and kills sorted by timestamp within each match, so downstream iteration
// order never depends on map ordering.
func GroupKills(kills []KillEvent) []MatchKills {
	byMatch := make(map[string][]KillEvent)
	for _, k := range kills {
		byMatch[k.MatchID] = append(byMatch[k.MatchID], k)
	}

	ids := make([]string, 0, len(byMatch))
	for id := range byMatch {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]MatchKills, 0, len(ids))
	for _, id := range ids {
		ks := byMatch[id]
		sort.SliceStable(ks, func(i, j int) bool { return ks[i].Time.Before(ks[j].Time) })
		out = append(out, MatchKills{MatchID: id, Kills: ks})
	}
	return out
}

// KillAccounts returns the distinct accounts appearing in the kill log as
// killer or victim, sorted.
func KillAccounts(kills []KillEvent) []string {
	seen := make(map[string]bool, len(kills))
	for _, k := range kills {
		seen[k.KillerID] = true
		seen[k.VictimID] = true
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
