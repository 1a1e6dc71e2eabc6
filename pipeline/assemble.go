// Package pipeline builds the point-in-time driver/race feature table.
//
// Every cross-race statistic attached to a race reads only races strictly
// before it; session features read only that weekend's own sessions. All
// inputs come from an immutable Snapshot loaded up front, so assembling is a
// pure function of the snapshot and the Config.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

// Config holds the assembly settings.
type Config struct {
	Splits           SplitPlan
	TrailingWindow   int
	LookbackYears    int
	Imputation       ImputationPolicy
	Sentinel         float64
	PracticeSessions []models.SessionType
	Workers          int
}

func DefaultConfig() Config {
	return Config{
		Splits:           DefaultSplitPlan(),
		TrailingWindow:   5,
		LookbackYears:    3,
		Imputation:       ImputeSentinel,
		Sentinel:         -1,
		PracticeSessions: []models.SessionType{models.SessionFP3},
		Workers:          4,
	}
}

func (c Config) Validate() error {
	if err := c.Splits.Validate(); err != nil {
		return err
	}
	if c.TrailingWindow < 1 {
		return fmt.Errorf("trailing window must be at least 1, got %d", c.TrailingWindow)
	}
	if c.LookbackYears < 1 {
		return fmt.Errorf("lookback years must be at least 1, got %d", c.LookbackYears)
	}
	if _, err := ParseImputationPolicy(string(c.Imputation)); err != nil {
		return err
	}
	// every feature is >= 0, so a negative marker can never collide
	if math.IsNaN(c.Sentinel) || c.Sentinel >= 0 {
		return fmt.Errorf("imputation sentinel must be negative, got %v", c.Sentinel)
	}
	if len(c.PracticeSessions) == 0 {
		return errors.New("at least one practice session is required")
	}
	for _, t := range c.PracticeSessions {
		if !t.IsPractice() {
			return fmt.Errorf("%q is not a practice session", t)
		}
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// minRoundsPerSeason is the shortest championship calendar there has been.
const minRoundsPerSeason = 7

// HistorySeasons lists the seasons a snapshot must cover: every split season
// plus enough earlier seasons for both the circuit lookback and a full
// trailing window before the first one.
func (c Config) HistorySeasons() []int {
	back := max(c.LookbackYears, (c.TrailingWindow+minRoundsPerSeason-1)/minRoundsPerSeason)
	var out []int
	for s := c.Splits.First() - back; s <= c.Splits.Last(); s++ {
		out = append(out, s)
	}
	return out
}

// Assembler turns a Snapshot into a feature Table.
type Assembler struct {
	cfg    Config
	tracks *TrackClassifier
	logger *slog.Logger
}

type Option func(*Assembler)

func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = l
	}
}

func NewAssembler(cfg Config, tracks *TrackClassifier, opts ...Option) (*Assembler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}
	if tracks == nil {
		return nil, errors.New("track classifier is required")
	}
	a := &Assembler{
		cfg:    cfg,
		tracks: tracks,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func (a *Assembler) Config() Config { return a.cfg }

// draft is a row whose optional features are not yet imputed.
type draft struct {
	row    Row
	values [numOptional]Maybe[float64]
}

type seasonOutput struct {
	drafts       []draft
	excluded     []ExcludedRow
	skipped      []SkippedRace
	unclassified []string
}

// Build assembles the feature table. Seasons are processed in parallel; each
// worker only reads the snapshot and the prefix structures derived from it.
func (a *Assembler) Build(ctx context.Context, snap *Snapshot) (*Table, error) {
	seasons := a.cfg.Splits.Seasons()
	standings := NewStandings(snap)
	form := NewForm(snap)

	out := make([]seasonOutput, len(seasons))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, season := range seasons {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			split, err := a.cfg.Splits.Assign(season)
			if err != nil {
				return err
			}
			out[i] = a.assembleSeason(snap, standings, form, season, split)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := newManifest(a.cfg.Imputation, a.cfg.Sentinel)
	var drafts []draft
	unclassified := make(map[string]bool)
	for _, o := range out {
		drafts = append(drafts, o.drafts...)
		m.ExcludedRows = append(m.ExcludedRows, o.excluded...)
		m.SkippedRaces = append(m.SkippedRaces, o.skipped...)
		for _, c := range o.unclassified {
			unclassified[c] = true
		}
	}
	for c := range unclassified {
		m.UnclassifiedCircuits = append(m.UnclassifiedCircuits, c)
	}
	sort.Strings(m.UnclassifiedCircuits)
	for _, c := range m.UnclassifiedCircuits {
		a.logger.Warn("circuit not in track table, using default", "circuit", c, "track_type", a.tracks.Default())
	}
	m.MissingSessions = append(m.MissingSessions, snap.Missing...)
	m.MissingSeasons = append(m.MissingSeasons, snap.MissingSeasons...)

	fill, fallbacks := fillValues(a.cfg.Imputation, a.cfg.Sentinel, drafts)
	for i, f := range optionalFeatures {
		m.FillValues[f] = fill[i]
	}
	m.FillFallbacks = fallbacks
	if len(fallbacks) > 0 {
		a.logger.Warn("no training values for features, using sentinel", "features", fallbacks)
	}

	rows := make([]Row, 0, len(drafts))
	for _, d := range drafts {
		r := d.row
		var vals [numOptional]float64
		for i, v := range d.values {
			x, ok := v.Get()
			if !ok {
				x = fill[i]
				r.Imputed = append(r.Imputed, optionalFeatures[i])
				m.ImputedPerSplit[r.Split][optionalFeatures[i]]++
			}
			vals[i] = x
		}
		r.QualifyingPosition = vals[idxQualifying]
		r.PracticePaceGap = vals[idxPaceGap]
		r.AvgFinishAtCircuit = vals[idxCircuit]
		r.AvgFinishTrailing = vals[idxTrailing]
		m.RowsPerSplit[r.Split]++
		rows = append(rows, r)
	}
	m.Rows = len(rows)

	a.logger.Info("feature table assembled",
		"rows", m.Rows,
		"train", m.RowsPerSplit[SplitTrain],
		"validation", m.RowsPerSplit[SplitValidation],
		"test", m.RowsPerSplit[SplitTest],
		"excluded", len(m.ExcludedRows),
		"skipped_races", len(m.SkippedRaces),
		"missing_sessions", len(m.MissingSessions),
	)
	return &Table{Rows: rows, Manifest: m}, nil
}

func (a *Assembler) assembleSeason(snap *Snapshot, standings *Standings, form *Form, season int, split Split) seasonOutput {
	var o seasonOutput
	seen := make(map[CircuitID]bool)

	for _, w := range snap.Season(season) {
		if !w.HasRace || len(w.Race) == 0 {
			o.skipped = append(o.skipped, SkippedRace{Season: season, Round: w.Round, Reason: "race results unavailable"})
			a.logger.Debug("skipping race without results", "season", season, "round", w.Round)
			continue
		}

		trackType, known := a.tracks.Lookup(w.Circuit)
		if !known {
			trackType = a.tracks.Default()
			if !seen[w.Circuit] {
				seen[w.Circuit] = true
				o.unclassified = append(o.unclassified, string(w.Circuit))
			}
		}
		gaps := PracticePaceGaps(w.PracticeLaps)
		wet := WetRace(w.Weather)
		driverPts := standings.DriverPointsBefore(season, w.Round)
		teamPts := standings.ConstructorPointsBefore(season, w.Round)

		results := append([]Result(nil), w.Race...)
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Record.DriverCode < results[j].Record.DriverCode
		})

		for _, res := range results {
			driver := res.Record.DriverCode
			if !res.Valid() {
				o.excluded = append(o.excluded, ExcludedRow{Season: season, Round: w.Round, Driver: driver, Reason: res.Err.Error()})
				continue
			}
			if err := qualifyingError(w.Qualifying, driver); err != nil {
				o.excluded = append(o.excluded, ExcludedRow{Season: season, Round: w.Round, Driver: driver, Reason: "qualifying: " + err.Error()})
				continue
			}

			d := draft{row: Row{
				Season:                  season,
				Round:                   w.Round,
				Circuit:                 w.Circuit,
				Driver:                  driver,
				Team:                    res.Record.Team,
				TrackType:               trackType,
				WetRace:                 wet,
				DriverPointsBefore:      driverPts[driver],
				ConstructorPointsBefore: teamPts[res.Record.Team],
				Label:                   res.Finish,
				Split:                   split,
			}}
			d.values[idxQualifying] = QualifyingPosition(w.Qualifying, driver)
			d.values[idxPaceGap] = PracticePaceGap(gaps, driver)
			d.values[idxCircuit] = form.AvgFinishAtCircuit(driver, w.Circuit, season, a.cfg.LookbackYears)
			d.values[idxTrailing] = form.AvgFinishTrailing(driver, season, w.Round, a.cfg.TrailingWindow)
			o.drafts = append(o.drafts, d)
		}
	}
	return o
}
