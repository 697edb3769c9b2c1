package stat

import (
	"math/rand"
	"reflect"
	"testing"
	"time"

	"cheatmc/internal/model"
	"cheatmc/internal/nullworld"
)

func utcDay(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// kt builds a kill timestamp on the fixture day, 2019-02-22.
func kt(hh, mm int) time.Time {
	return time.Date(2019, 2, 22, hh, mm, 0, 0, time.UTC)
}

func mk(match, killer, victim string, at time.Time) model.KillEvent {
	return model.KillEvent{MatchID: match, KillerID: killer, VictimID: victim, Time: at}
}

// ---- Team histogram tests ----

func testRows() []model.TeamAssignment {
	return []model.TeamAssignment{
		{MatchID: "m-1", AccountID: "acc-1", TeamID: "t-1"},
		{MatchID: "m-1", AccountID: "acc-2", TeamID: "t-1"},
		{MatchID: "m-1", AccountID: "acc-3", TeamID: "t-2"},
		{MatchID: "m-1", AccountID: "acc-4", TeamID: "t-2"},
		{MatchID: "m-2", AccountID: "acc-1", TeamID: "t-1"},
		{MatchID: "m-2", AccountID: "acc-3", TeamID: "t-1"},
		{MatchID: "m-2", AccountID: "acc-5", TeamID: "t-1"},
		{MatchID: "m-2", AccountID: "acc-6", TeamID: "t-2"},
	}
}

func TestMaxTeamSize(t *testing.T) {
	if got := MaxTeamSize(testRows()); got != 3 {
		t.Errorf("MaxTeamSize: want 3, got %d", got)
	}
	if got := MaxTeamSize(nil); got != 0 {
		t.Errorf("MaxTeamSize(nil): want 0, got %d", got)
	}
}

// TestTeamHistogram: four teams, cheaters acc-1 and acc-3. Teams with no
// cheater still land in bucket 0.
func TestTeamHistogram(t *testing.T) {
	cheaters := model.NewCheaterSet([]model.CheatRecord{
		{AccountID: "acc-1", CheatStart: utcDay(2019, 1, 1), BanDate: utcDay(2019, 2, 1)},
		{AccountID: "acc-3", CheatStart: utcDay(2019, 1, 1), BanDate: utcDay(2019, 2, 1)},
	})

	got := TeamHistogram(testRows(), cheaters, 3)
	// m-1/t-1 and m-1/t-2 hold one cheater each, m-2/t-1 holds two,
	// m-2/t-2 holds none.
	want := []int{1, 2, 1, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TeamHistogram: want %v, got %v", want, got)
	}
}

// TestTeamHistogram_CapsAtTopBucket: counts above maxCheaters collapse into
// the last slot.
func TestTeamHistogram_CapsAtTopBucket(t *testing.T) {
	cheaters := model.NewCheaterSet([]model.CheatRecord{
		{AccountID: "acc-1", CheatStart: utcDay(2019, 1, 1), BanDate: utcDay(2019, 2, 1)},
		{AccountID: "acc-3", CheatStart: utcDay(2019, 1, 1), BanDate: utcDay(2019, 2, 1)},
	})

	got := TeamHistogram(testRows(), cheaters, 1)
	want := []int{1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TeamHistogram capped: want %v, got %v", want, got)
	}
}

// TestTeamHistogram_MembershipNotActivity: a cheater whose interval is long
// past still counts toward its team's bucket.
func TestTeamHistogram_MembershipNotActivity(t *testing.T) {
	rows := []model.TeamAssignment{
		{MatchID: "m-1", AccountID: "acc-1", TeamID: "t-1"},
		{MatchID: "m-1", AccountID: "acc-2", TeamID: "t-2"},
	}
	cheaters := model.NewCheaterSet([]model.CheatRecord{
		{AccountID: "acc-1", CheatStart: utcDay(2001, 1, 1), BanDate: utcDay(2001, 1, 2)},
	})

	got := TeamHistogram(rows, cheaters, 1)
	want := []int{1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TeamHistogram: want %v, got %v", want, got)
	}
}

// TestTeamHistogram_PairOnSameTeam: one match, two teams of two, both
// cheaters on the same team.
func TestTeamHistogram_PairOnSameTeam(t *testing.T) {
	rows := []model.TeamAssignment{
		{MatchID: "m-1", AccountID: "acc-1", TeamID: "t-1"},
		{MatchID: "m-1", AccountID: "acc-2", TeamID: "t-1"},
		{MatchID: "m-1", AccountID: "acc-3", TeamID: "t-2"},
		{MatchID: "m-1", AccountID: "acc-4", TeamID: "t-2"},
	}
	cheaters := model.NewCheaterSet([]model.CheatRecord{
		{AccountID: "acc-1", CheatStart: utcDay(2019, 1, 1), BanDate: utcDay(2019, 2, 1)},
		{AccountID: "acc-2", CheatStart: utcDay(2019, 1, 1), BanDate: utcDay(2019, 2, 1)},
	})

	got := TeamHistogram(rows, cheaters, MaxTeamSize(rows))
	want := []int{1, 0, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TeamHistogram: want %v, got %v", want, got)
	}
}

// TestTeamHistogram_StableUnderShuffle: a shuffled world yields a histogram
// with the same width and the same team total, whatever the draw.
func TestTeamHistogram_StableUnderShuffle(t *testing.T) {
	rows := testRows()
	cheaters := model.NewCheaterSet([]model.CheatRecord{
		{AccountID: "acc-1", CheatStart: utcDay(2019, 1, 1), BanDate: utcDay(2019, 2, 1)},
		{AccountID: "acc-3", CheatStart: utcDay(2019, 1, 1), BanDate: utcDay(2019, 2, 1)},
	})
	k := MaxTeamSize(rows)
	base := TeamHistogram(rows, cheaters, k)

	for seed := int64(0); seed < 10; seed++ {
		world := nullworld.NewTeamShuffler(rows).Generate(rand.New(rand.NewSource(seed)))
		hist := TeamHistogram(world, cheaters, k)
		if len(hist) != len(base) {
			t.Fatalf("seed %d: want width %d, got %d", seed, len(base), len(hist))
		}
		total, baseTotal := 0, 0
		for i := range hist {
			total += hist[i]
			baseTotal += base[i]
		}
		if total != baseTotal {
			t.Errorf("seed %d: want %d teams in total, got %d", seed, baseTotal, total)
		}
	}
}

// ---- Victim tests ----

// Accounts for the kill-log scenarios. The fixture day is 2019-02-22;
// activeKiller is cheating on it, bannedKiller no longer is.
const (
	activeKiller  = "active-killer"
	bannedKiller  = "banned-killer"
	lateStarter   = "late-starter"   // starts 2019-02-23
	earlyStarter  = "early-starter"  // started 2019-02-21
	sameDay       = "same-day"       // starts 2019-02-22
	cleanPlayer   = "clean-player"   // no record
	futureStarter = "future-starter" // starts 2019-03-01
)

func scenarioCheaters() model.CheaterSet {
	return model.NewCheaterSet([]model.CheatRecord{
		{AccountID: activeKiller, CheatStart: utcDay(2019, 2, 1), BanDate: utcDay(2019, 3, 1)},
		{AccountID: bannedKiller, CheatStart: utcDay(2019, 1, 1), BanDate: utcDay(2019, 2, 1)},
		{AccountID: lateStarter, CheatStart: utcDay(2019, 2, 23), BanDate: utcDay(2019, 3, 23)},
		{AccountID: earlyStarter, CheatStart: utcDay(2019, 2, 21), BanDate: utcDay(2019, 3, 21)},
		{AccountID: sameDay, CheatStart: utcDay(2019, 2, 22), BanDate: utcDay(2019, 3, 22)},
		{AccountID: futureStarter, CheatStart: utcDay(2019, 3, 1), BanDate: utcDay(2019, 4, 1)},
	})
}

// TestCountVictims: only a victim of an actively cheating killer whose own
// start is strictly later counts, once, however often they die.
func TestCountVictims(t *testing.T) {
	kills := []model.KillEvent{
		mk("m-1", activeKiller, lateStarter, kt(12, 0)),
		mk("m-1", activeKiller, lateStarter, kt(12, 5)), // same victim again
		mk("m-1", activeKiller, earlyStarter, kt(12, 10)),
		mk("m-1", activeKiller, sameDay, kt(12, 15)),
		mk("m-1", activeKiller, cleanPlayer, kt(12, 20)),
		mk("m-1", bannedKiller, futureStarter, kt(12, 25)),
		mk("m-2", activeKiller, lateStarter, kt(18, 0)), // dedup across matches
	}

	got := CountVictims(model.GroupKills(kills), scenarioCheaters())
	if got != 1 {
		t.Errorf("CountVictims: want 1 (only %s), got %d", lateStarter, got)
	}
}

// TestCountVictims_SelfKill: an active killer dying to itself can never
// qualify.
func TestCountVictims_SelfKill(t *testing.T) {
	kills := []model.KillEvent{
		mk("m-1", activeKiller, activeKiller, kt(12, 0)),
	}

	if got := CountVictims(model.GroupKills(kills), scenarioCheaters()); got != 0 {
		t.Errorf("CountVictims: want 0, got %d", got)
	}
}

func TestCountVictims_NoActiveKillers(t *testing.T) {
	kills := []model.KillEvent{
		mk("m-1", cleanPlayer, lateStarter, kt(12, 0)),
		mk("m-1", bannedKiller, lateStarter, kt(12, 5)),
	}

	if got := CountVictims(model.GroupKills(kills), scenarioCheaters()); got != 0 {
		t.Errorf("CountVictims: want 0, got %d", got)
	}
}

// ---- Observer tests ----

const (
	bystander1 = "bystander-1" // starts 2019-02-23, merely present
	bystander2 = "bystander-2" // starts 2019-02-22, merely present
	bystander3 = "bystander-3" // starts 2019-02-25, present only in a clean match
)

// observerScenario returns kills where activeKiller cheats in m-1 while
// bystanders are present, plus a cheater-free m-2.
//
//	m-1: activeKiller kills lateStarter and cleanPlayer; cleanPlayer kills
//	     bystander-1 and bystander-2. Last kill 12:30.
//	m-2: cleanPlayer kills bystander-3. No active cheater present.
func observerScenario() ([]model.MatchKills, model.CheaterSet) {
	kills := []model.KillEvent{
		mk("m-1", activeKiller, lateStarter, kt(12, 0)),
		mk("m-1", activeKiller, cleanPlayer, kt(12, 5)),
		mk("m-1", cleanPlayer, bystander1, kt(12, 20)),
		mk("m-1", cleanPlayer, bystander2, kt(12, 30)),
		mk("m-2", cleanPlayer, bystander3, kt(13, 0)),
	}
	records := scenarioCheaters().Records()
	records = append(records,
		model.CheatRecord{AccountID: bystander1, CheatStart: utcDay(2019, 2, 23), BanDate: utcDay(2019, 3, 23)},
		model.CheatRecord{AccountID: bystander2, CheatStart: utcDay(2019, 2, 22), BanDate: utcDay(2019, 3, 22)},
		model.CheatRecord{AccountID: bystander3, CheatStart: utcDay(2019, 2, 25), BanDate: utcDay(2019, 3, 25)},
	)
	return model.GroupKills(kills), model.NewCheaterSet(records)
}

// TestCountObservers: bystander-1 is present with an active cheater and
// starts the next day. lateStarter is excluded as a qualifying victim,
// bystander-2 starts the same day, and bystander-3 never shares a match
// with an active cheater.
func TestCountObservers(t *testing.T) {
	matches, cheaters := observerScenario()

	got := CountObservers(matches, cheaters, ObserverOptions{})
	if got != 1 {
		t.Errorf("CountObservers: want 1 (only %s), got %d", bystander1, got)
	}
}

// TestCountObservers_DisjointFromVictims: the qualifying victim would also
// qualify by presence but must not be double-counted.
func TestCountObservers_DisjointFromVictims(t *testing.T) {
	matches, cheaters := observerScenario()

	victims := CountVictims(matches, cheaters)
	observers := CountObservers(matches, cheaters, ObserverOptions{})
	if victims != 1 || observers != 1 {
		t.Errorf("want 1 victim and 1 observer, got %d and %d", victims, observers)
	}
}

// TestCountObservers_MinCheaterKills: activeKiller has two distinct victims
// in m-1, so a threshold of 2 keeps the match and 3 drops it.
func TestCountObservers_MinCheaterKills(t *testing.T) {
	matches, cheaters := observerScenario()

	if got := CountObservers(matches, cheaters, ObserverOptions{MinCheaterKills: 2}); got != 1 {
		t.Errorf("threshold 2: want 1, got %d", got)
	}
	if got := CountObservers(matches, cheaters, ObserverOptions{MinCheaterKills: 3}); got != 0 {
		t.Errorf("threshold 3: want 0, got %d", got)
	}
}

// TestCountObservers_RepeatKillsDoNotSatisfyThreshold: three kills of the
// same victim are one distinct victim.
func TestCountObservers_RepeatKillsDoNotSatisfyThreshold(t *testing.T) {
	kills := []model.KillEvent{
		mk("m-1", activeKiller, cleanPlayer, kt(12, 0)),
		mk("m-1", activeKiller, cleanPlayer, kt(12, 5)),
		mk("m-1", activeKiller, cleanPlayer, kt(12, 10)),
		mk("m-1", cleanPlayer, bystander1, kt(12, 20)),
	}
	records := scenarioCheaters().Records()
	records = append(records,
		model.CheatRecord{AccountID: bystander1, CheatStart: utcDay(2019, 2, 23), BanDate: utcDay(2019, 3, 23)},
	)
	matches := model.GroupKills(kills)
	cheaters := model.NewCheaterSet(records)

	if got := CountObservers(matches, cheaters, ObserverOptions{MinCheaterKills: 2}); got != 0 {
		t.Errorf("threshold 2 with repeat kills: want 0, got %d", got)
	}
	if got := CountObservers(matches, cheaters, ObserverOptions{MinCheaterKills: 1}); got != 1 {
		t.Errorf("threshold 1: want 1, got %d", got)
	}
}
