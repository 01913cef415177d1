// Package schedule decides which fixture the betting run should target and
// when a fixture is inside its betting window. All wall-clock decisions go
// through an injected clock so runs can be replayed at a fixed instant.
package schedule

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tencric/cricbet/internal/pkg/clock"
	"github.com/tencric/cricbet/internal/pkg/config"
	"github.com/tencric/cricbet/internal/pkg/models"
)

// State is a fixture's position relative to its betting window.
type State int

const (
	StateUpcoming State = iota
	StateLive
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUpcoming:
		return "upcoming"
	case StateLive:
		return "live"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ErrNoCurrentMatch means no fixture is live or starting within the
// lookahead horizon.
var ErrNoCurrentMatch = errors.New("no current match within betting horizon")

// AmbiguousMatchError means several fixtures compete for the same betting
// window and the scheduler cannot pick one on its own. The operator must
// disambiguate with an explicit event id.
type AmbiguousMatchError struct {
	Candidates []models.Match
}

func (e *AmbiguousMatchError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, m := range e.Candidates {
		names[i] = m.Name
	}
	return fmt.Sprintf("multiple concurrent matches, pass an explicit event id: %s", strings.Join(names, "; "))
}

// Scheduler owns betting-window arithmetic and fixture selection.
type Scheduler struct {
	cfg *config.SchedulerConfig
	clk clock.Clock
	loc *time.Location
}

func New(cfg *config.SchedulerConfig, clk clock.Clock) *Scheduler {
	if clk == nil {
		clk = clock.System()
	}
	return &Scheduler{cfg: cfg, clk: clk, loc: loadLocation(cfg.Timezone)}
}

// loadLocation resolves the configured timezone, falling back to a fixed
// IST offset when the tz database is unavailable on the host.
func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		slog.Warn("Timezone database unavailable, using fixed IST offset", "timezone", name, "error", err)
		return time.FixedZone("IST", 5*3600+1800)
	}
	return loc
}

// Location exposes the scheduler's timezone for display formatting.
func (s *Scheduler) Location() *time.Location {
	return s.loc
}

// Now returns the current instant in the scheduler's timezone.
func (s *Scheduler) Now() time.Time {
	return s.clk.Now().In(s.loc)
}

// StateAt classifies a fixture at instant now. The betting window runs
// from the start time through start + betting_window inclusive.
func (s *Scheduler) StateAt(match models.Match, now time.Time) State {
	start := match.StartTime
	end := start.Add(s.cfg.BettingWindow)
	switch {
	case now.Before(start):
		return StateUpcoming
	case now.After(end):
		return StateClosed
	default:
		return StateLive
	}
}

// CurrentMatch picks the fixture the run should act on: a live one if any,
// otherwise the next one starting within the lookahead horizon. Fixtures
// without a usable start time are ignored. When more than one fixture is
// live at once the choice is not the scheduler's to make and an
// AmbiguousMatchError is returned.
func (s *Scheduler) CurrentMatch(matches []models.Match) (models.Match, error) {
	now := s.clk.Now()

	var live []models.Match
	var upcoming []models.Match
	for _, m := range matches {
		if m.StartTime.IsZero() {
			continue
		}
		switch s.StateAt(m, now) {
		case StateLive:
			live = append(live, m)
		case StateUpcoming:
			if m.StartTime.Sub(now) <= s.cfg.Lookahead {
				upcoming = append(upcoming, m)
			}
		}
	}

	if len(live) == 1 {
		slog.Info("Selected live match", "match", live[0].Name, "event_id", live[0].EventID)
		return live[0], nil
	}
	if len(live) > 1 {
		return models.Match{}, &AmbiguousMatchError{Candidates: live}
	}

	if len(upcoming) == 0 {
		return models.Match{}, ErrNoCurrentMatch
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].StartTime.Before(upcoming[j].StartTime)
	})
	// Distinct start times resolve by order; simultaneous kickoffs cannot
	// be resolved by time alone.
	if len(upcoming) > 1 && upcoming[1].StartTime.Equal(upcoming[0].StartTime) {
		var simultaneous []models.Match
		for _, m := range upcoming {
			if m.StartTime.Equal(upcoming[0].StartTime) {
				simultaneous = append(simultaneous, m)
			}
		}
		return models.Match{}, &AmbiguousMatchError{Candidates: simultaneous}
	}
	next := upcoming[0]
	slog.Info("Selected upcoming match",
		"match", next.Name,
		"starts_in", next.StartTime.Sub(now).Round(time.Minute).String())
	return next, nil
}

// DeriveDailyMatches fills in start times for fixtures the sportsbook
// lists without one, using the tournament's canonical kickoff slots:
// one evening match on weekdays, an afternoon and an evening match on
// weekends. Derived entries are flagged as estimated and deduplicated
// against fixtures that already carry a real start time, treating
// reversed team pairs as the same fixture.
func (s *Scheduler) DeriveDailyMatches(listed []models.Match) []models.Match {
	now := s.Now()
	weekend := now.Weekday() == time.Saturday || now.Weekday() == time.Sunday

	var slots []time.Time
	if weekend {
		slots = append(slots,
			s.slotToday(now, s.cfg.WeekendEarlyStart),
			s.slotToday(now, s.cfg.WeekendLateStart))
	} else {
		slots = append(slots, s.slotToday(now, s.cfg.WeekdayStart))
	}

	timed := make(map[string]bool)
	var out []models.Match
	for _, m := range listed {
		if !m.StartTime.IsZero() {
			timed[models.PairKey(m.Name)] = true
			out = append(out, m)
		}
	}

	slotIdx := 0
	for _, m := range listed {
		if !m.StartTime.IsZero() {
			continue
		}
		if timed[models.PairKey(m.Name)] {
			continue
		}
		if slotIdx >= len(slots) {
			break
		}
		m.StartTime = slots[slotIdx]
		m.IsEstimatedTime = true
		timed[models.PairKey(m.Name)] = true
		out = append(out, m)
		slotIdx++

		slog.Info("Derived start time for match",
			"match", m.Name,
			"start_time", m.StartTime.Format("2006-01-02 15:04 MST"))
	}

	return out
}

// slotToday builds today's instant for an "HH:MM" kickoff slot in the
// scheduler's timezone.
func (s *Scheduler) slotToday(now time.Time, hhmm string) time.Time {
	hour, minute := parseHHMM(hhmm)
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, s.loc)
}

func parseHHMM(v string) (int, int) {
	parts := strings.SplitN(v, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	hour, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	minute, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0
	}
	return hour, minute
}
