package pipeline

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

type finish struct {
	season  int
	round   int
	circuit CircuitID
	pos     float64
}

// Form computes historical finishing statistics. Every query only looks at
// races strictly before the season or round it is asked about.
type Form struct {
	byDriver map[string][]finish
}

// NewForm indexes every valid race result per driver in chronological order.
func NewForm(snap *Snapshot) *Form {
	f := &Form{byDriver: make(map[string][]finish)}
	for _, w := range snap.Weekends() {
		if !w.HasRace {
			continue
		}
		for _, r := range w.Race {
			if !r.Valid() {
				continue
			}
			d := r.Record.DriverCode
			f.byDriver[d] = append(f.byDriver[d], finish{
				season:  w.Season,
				round:   w.Round,
				circuit: w.Circuit,
				pos:     float64(r.Finish),
			})
		}
	}
	return f
}

// AvgFinishAtCircuit is the driver's mean finish at circuit over the
// lookbackYears seasons before season. DNFs count as DNFPosition.
func (f *Form) AvgFinishAtCircuit(driver string, circuit CircuitID, season, lookbackYears int) Maybe[float64] {
	var xs []float64
	for _, h := range f.byDriver[driver] {
		if h.season >= season {
			break
		}
		if h.season >= season-lookbackYears && h.circuit == circuit {
			xs = append(xs, h.pos)
		}
	}
	if len(xs) == 0 {
		return None[float64]()
	}
	return Some(stat.Mean(xs, nil))
}

// AvgFinishTrailing is the driver's mean finish over their last window races
// before (season, round), spanning earlier seasons when needed. Fewer races
// than window is fine.
func (f *Form) AvgFinishTrailing(driver string, season, round, window int) Maybe[float64] {
	hist := f.byDriver[driver]
	end := sort.Search(len(hist), func(i int) bool {
		h := hist[i]
		return h.season > season || (h.season == season && h.round >= round)
	})
	start := end - window
	if start < 0 {
		start = 0
	}
	if window <= 0 || end == start {
		return None[float64]()
	}
	xs := make([]float64, 0, end-start)
	for _, h := range hist[start:end] {
		xs = append(xs, h.pos)
	}
	return Some(stat.Mean(xs, nil))
}
