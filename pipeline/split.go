package pipeline

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	SplitTrain      Split = "train"
	SplitValidation Split = "validation"
	SplitTest       Split = "test"
)

// Split is the partition a row belongs to.
type Split string

var splitOrder = []Split{SplitTrain, SplitValidation, SplitTest}

// ErrSeasonOutOfRange is returned for a season outside every split.
var ErrSeasonOutOfRange = errors.New("season outside configured splits")

// SeasonRange is an inclusive range of seasons.
type SeasonRange struct {
	From int
	To   int
}

func (r SeasonRange) Contains(season int) bool { return season >= r.From && season <= r.To }

func (r SeasonRange) String() string {
	if r.From == r.To {
		return strconv.Itoa(r.From)
	}
	return fmt.Sprintf("%d-%d", r.From, r.To)
}

// ParseSeasonRange accepts "2023" or "2019-2022".
func ParseSeasonRange(s string) (SeasonRange, error) {
	from, to, found := strings.Cut(strings.TrimSpace(s), "-")
	a, err := strconv.Atoi(strings.TrimSpace(from))
	if err != nil {
		return SeasonRange{}, fmt.Errorf("invalid season range %q", s)
	}
	b := a
	if found {
		if b, err = strconv.Atoi(strings.TrimSpace(to)); err != nil {
			return SeasonRange{}, fmt.Errorf("invalid season range %q", s)
		}
	}
	if b < a {
		return SeasonRange{}, fmt.Errorf("invalid season range %q: end before start", s)
	}
	return SeasonRange{From: a, To: b}, nil
}

// SplitPlan assigns whole seasons to splits.
type SplitPlan struct {
	Train      SeasonRange
	Validation SeasonRange
	Test       SeasonRange
}

func DefaultSplitPlan() SplitPlan {
	return SplitPlan{
		Train:      SeasonRange{From: 2019, To: 2022},
		Validation: SeasonRange{From: 2023, To: 2023},
		Test:       SeasonRange{From: 2024, To: 2024},
	}
}

func (p SplitPlan) ranges() map[Split]SeasonRange {
	return map[Split]SeasonRange{SplitTrain: p.Train, SplitValidation: p.Validation, SplitTest: p.Test}
}

// Validate checks that ranges are well formed and pairwise disjoint.
func (p SplitPlan) Validate() error {
	rs := p.ranges()
	for _, s := range splitOrder {
		r := rs[s]
		if r.From <= 0 || r.To < r.From {
			return fmt.Errorf("invalid %s seasons %s", s, r)
		}
	}
	for i, a := range splitOrder {
		for _, b := range splitOrder[i+1:] {
			ra, rb := rs[a], rs[b]
			if ra.From <= rb.To && rb.From <= ra.To {
				return fmt.Errorf("%s seasons %s overlap %s seasons %s", a, ra, b, rb)
			}
		}
	}
	return nil
}

// Assign returns the split of season.
func (p SplitPlan) Assign(season int) (Split, error) {
	rs := p.ranges()
	for _, s := range splitOrder {
		if rs[s].Contains(season) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %d", ErrSeasonOutOfRange, season)
}

// Seasons lists every covered season in ascending order.
func (p SplitPlan) Seasons() []int {
	var out []int
	first, last := p.First(), p.Last()
	for s := first; s <= last; s++ {
		if _, err := p.Assign(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func (p SplitPlan) First() int { return min(p.Train.From, p.Validation.From, p.Test.From) }

func (p SplitPlan) Last() int { return max(p.Train.To, p.Validation.To, p.Test.To) }
