package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitAssign(t *testing.T) {
	p := DefaultSplitPlan()
	tests := []struct {
		season int
		want   Split
	}{
		{2019, SplitTrain},
		{2020, SplitTrain},
		{2022, SplitTrain},
		{2023, SplitValidation},
		{2024, SplitTest},
	}
	for _, tt := range tests {
		got, err := p.Assign(tt.season)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "season %d", tt.season)
	}

	for _, season := range []int{2018, 2025} {
		_, err := p.Assign(season)
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrSeasonOutOfRange))
	}
}

func TestSplitPlanSeasons(t *testing.T) {
	require.Equal(t, []int{2019, 2020, 2021, 2022, 2023, 2024}, DefaultSplitPlan().Seasons())

	gappy := SplitPlan{
		Train:      SeasonRange{From: 2014, To: 2015},
		Validation: SeasonRange{From: 2018, To: 2018},
		Test:       SeasonRange{From: 2020, To: 2020},
	}
	require.NoError(t, gappy.Validate())
	require.Equal(t, []int{2014, 2015, 2018, 2020}, gappy.Seasons())
}

func TestSplitPlanValidate(t *testing.T) {
	require.NoError(t, DefaultSplitPlan().Validate())

	overlap := DefaultSplitPlan()
	overlap.Validation = SeasonRange{From: 2022, To: 2023}
	require.Error(t, overlap.Validate())

	inverted := DefaultSplitPlan()
	inverted.Test = SeasonRange{From: 2025, To: 2024}
	require.Error(t, inverted.Validate())

	require.Error(t, SplitPlan{}.Validate())
}

func TestParseSeasonRange(t *testing.T) {
	r, err := ParseSeasonRange("2019-2022")
	require.NoError(t, err)
	require.Equal(t, SeasonRange{From: 2019, To: 2022}, r)

	r, err = ParseSeasonRange(" 2023 ")
	require.NoError(t, err)
	require.Equal(t, SeasonRange{From: 2023, To: 2023}, r)
	require.Equal(t, "2023", r.String())

	for _, bad := range []string{"", "abc", "2022-", "2024-2023"} {
		_, err := ParseSeasonRange(bad)
		require.Error(t, err, bad)
	}
}
