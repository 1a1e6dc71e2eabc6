package pipeline

// ExcludedRow is a driver/race row dropped because its record was malformed.
type ExcludedRow struct {
	Season int    `json:"season"`
	Round  int    `json:"round"`
	Driver string `json:"driver"`
	Reason string `json:"reason"`
}

// SkippedRace is a race with no usable results.
type SkippedRace struct {
	Season int    `json:"season"`
	Round  int    `json:"round"`
	Reason string `json:"reason"`
}

// Manifest is the audit record of one run.
type Manifest struct {
	RunID           string                    `json:"run_id,omitempty"`
	Policy          ImputationPolicy          `json:"imputation_policy"`
	Sentinel        float64                   `json:"sentinel"`
	FillValues      map[Feature]float64       `json:"fill_values"`
	FillFallbacks   []Feature                 `json:"fill_fallbacks,omitempty"`
	Rows            int                       `json:"rows"`
	RowsPerSplit    map[Split]int             `json:"rows_per_split"`
	ImputedPerSplit map[Split]map[Feature]int `json:"imputed_per_split"`

	ExcludedRows         []ExcludedRow    `json:"excluded_rows"`
	SkippedRaces         []SkippedRace    `json:"skipped_races"`
	MissingSessions      []MissingSession `json:"missing_sessions"`
	MissingSeasons       []int            `json:"missing_seasons,omitempty"`
	UnclassifiedCircuits []string         `json:"unclassified_circuits"`
}

func newManifest(policy ImputationPolicy, sentinel float64) Manifest {
	m := Manifest{
		Policy:               policy,
		Sentinel:             sentinel,
		FillValues:           make(map[Feature]float64),
		RowsPerSplit:         make(map[Split]int),
		ImputedPerSplit:      make(map[Split]map[Feature]int),
		ExcludedRows:         []ExcludedRow{},
		SkippedRaces:         []SkippedRace{},
		MissingSessions:      []MissingSession{},
		UnclassifiedCircuits: []string{},
	}
	for _, s := range splitOrder {
		m.RowsPerSplit[s] = 0
		m.ImputedPerSplit[s] = make(map[Feature]int)
		for _, f := range optionalFeatures {
			m.ImputedPerSplit[s][f] = 0
		}
	}
	return m
}

// Imputed is the total count of filled values for one feature.
func (m Manifest) Imputed(f Feature) int {
	n := 0
	for _, per := range m.ImputedPerSplit {
		n += per[f]
	}
	return n
}
