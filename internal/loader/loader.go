package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"cheatmc/internal/model"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "2006-01-02 15:04:05"
)

// Options control how the flat files are read.
type Options struct {
	// Delimiter separates fields within a line. Empty means tab.
	Delimiter string
}

func (o Options) delimiter() string {
	if o.Delimiter == "" {
		return "\t"
	}
	return o.Delimiter
}

// ParseError reports a malformed row with enough context to find it.
type ParseError struct {
	File string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// LoadCheaters reads the cheater roster: account_id, cheat_start_date,
// ban_date per line. Duplicate accounts and inverted intervals are rejected;
// the first bad row aborts the load.
func LoadCheaters(path string, opts Options) ([]model.CheatRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cheaters file: %w", err)
	}
	defer f.Close()

	var records []model.CheatRecord
	seen := make(map[string]int)
	err = scanLines(f, func(line int, raw string) error {
		fields := strings.Split(raw, opts.delimiter())
		if len(fields) != 3 {
			return &ParseError{File: path, Line: line, Err: fmt.Errorf("want 3 fields, got %d", len(fields))}
		}
		start, err := time.ParseInLocation(dateLayout, fields[1], time.UTC)
		if err != nil {
			return &ParseError{File: path, Line: line, Err: fmt.Errorf("cheat start: %w", err)}
		}
		ban, err := time.ParseInLocation(dateLayout, fields[2], time.UTC)
		if err != nil {
			return &ParseError{File: path, Line: line, Err: fmt.Errorf("ban date: %w", err)}
		}
		if ban.Before(start) {
			return &ParseError{File: path, Line: line, Err: fmt.Errorf("ban date %s before cheat start %s", fields[2], fields[1])}
		}
		if prev, ok := seen[fields[0]]; ok {
			return &ParseError{File: path, Line: line, Err: fmt.Errorf("account %s already defined on line %d", fields[0], prev)}
		}
		seen[fields[0]] = line
		records = append(records, model.CheatRecord{AccountID: fields[0], CheatStart: start, BanDate: ban})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// LoadKills reads the kill log: match_id, killer_id, victim_id, timestamp
// per line. Timestamps may carry fractional seconds.
func LoadKills(path string, opts Options) ([]model.KillEvent, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open kills file: %w", err)
	}
	defer f.Close()

	var kills []model.KillEvent
	err = scanLines(f, func(line int, raw string) error {
		fields := strings.Split(raw, opts.delimiter())
		if len(fields) != 4 {
			return &ParseError{File: path, Line: line, Err: fmt.Errorf("want 4 fields, got %d", len(fields))}
		}
		ts, err := time.ParseInLocation(timeLayout, fields[3], time.UTC)
		if err != nil {
			return &ParseError{File: path, Line: line, Err: fmt.Errorf("timestamp: %w", err)}
		}
		kills = append(kills, model.KillEvent{
			MatchID:  fields[0],
			KillerID: fields[1],
			VictimID: fields[2],
			Time:     ts,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return kills, nil
}

// LoadTeams reads the team assignment table: match_id, account_id, team_id
// per line.
func LoadTeams(path string, opts Options) ([]model.TeamAssignment, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open teams file: %w", err)
	}
	defer f.Close()

	var rows []model.TeamAssignment
	err = scanLines(f, func(line int, raw string) error {
		fields := strings.Split(raw, opts.delimiter())
		if len(fields) != 3 {
			return &ParseError{File: path, Line: line, Err: fmt.Errorf("want 3 fields, got %d", len(fields))}
		}
		rows = append(rows, model.TeamAssignment{
			MatchID:   fields[0],
			AccountID: fields[1],
			TeamID:    fields[2],
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// scanLines feeds non-blank lines to fn with 1-based line numbers and stops
// at the first error.
func scanLines(r io.Reader, fn func(line int, raw string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for sc.Scan() {
		line++
		raw := sc.Text()
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if err := fn(line, raw); err != nil {
			return err
		}
	}
	return sc.Err()
}
