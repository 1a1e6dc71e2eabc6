package pipeline

import "sort"

// Standings answers cumulative championship points "before round N". It is
// built once from a snapshot and never mutated, so concurrent readers need no
// locking.
type Standings struct {
	seasons map[int]*seasonTotals
}

// seasonTotals holds the totals after each completed round, in round order.
type seasonTotals struct {
	rounds  []int
	drivers []map[string]float64
	teams   []map[string]float64
}

// NewStandings sums race points round by round. Weekends without race
// results contribute nothing; malformed records are skipped.
func NewStandings(snap *Snapshot) *Standings {
	s := &Standings{seasons: make(map[int]*seasonTotals)}
	for _, w := range snap.Weekends() {
		if !w.HasRace {
			continue
		}
		st, ok := s.seasons[w.Season]
		if !ok {
			st = &seasonTotals{}
			s.seasons[w.Season] = st
		}

		drivers := make(map[string]float64)
		teams := make(map[string]float64)
		if n := len(st.rounds); n > 0 {
			copyInto(drivers, st.drivers[n-1])
			copyInto(teams, st.teams[n-1])
		}
		for _, r := range w.Race {
			if !r.Valid() || r.Record.Points <= 0 {
				continue
			}
			drivers[r.Record.DriverCode] += r.Record.Points
			if r.Record.Team != "" {
				teams[r.Record.Team] += r.Record.Points
			}
		}

		st.rounds = append(st.rounds, w.Round)
		st.drivers = append(st.drivers, drivers)
		st.teams = append(st.teams, teams)
	}
	return s
}

// DriverPointsBefore returns each driver's points from rounds strictly
// before round of the same season. Drivers without points are absent.
func (s *Standings) DriverPointsBefore(season, round int) map[string]float64 {
	return s.before(season, round, func(st *seasonTotals, i int) map[string]float64 { return st.drivers[i] })
}

// ConstructorPointsBefore is DriverPointsBefore keyed by team.
func (s *Standings) ConstructorPointsBefore(season, round int) map[string]float64 {
	return s.before(season, round, func(st *seasonTotals, i int) map[string]float64 { return st.teams[i] })
}

func (s *Standings) before(season, round int, pick func(*seasonTotals, int) map[string]float64) map[string]float64 {
	out := make(map[string]float64)
	st, ok := s.seasons[season]
	if !ok {
		return out
	}
	// index of the first completed round >= round
	i := sort.SearchInts(st.rounds, round)
	if i == 0 {
		return out
	}
	copyInto(out, pick(st, i-1))
	return out
}

func copyInto(dst, src map[string]float64) {
	for k, v := range src {
		dst[k] = v
	}
}
