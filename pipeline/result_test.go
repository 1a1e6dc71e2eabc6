package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

func TestParseFinish(t *testing.T) {
	tests := []struct {
		in         string
		want       int
		classified bool
		wantErr    bool
	}{
		{"1", 1, true, false},
		{" 20 ", 20, true, false},
		{"R", DNFPosition, false, false},
		{"dnf", DNFPosition, false, false},
		{"DSQ", DNFPosition, false, false},
		{"NC", DNFPosition, false, false},
		{"0", 0, false, true},
		{"21", 0, false, true},
		{"P3", 0, false, true},
		{"", 0, false, true},
	}
	for _, tt := range tests {
		got, classified, err := ParseFinish(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			require.True(t, errors.Is(err, ErrMalformedRecord))
			continue
		}
		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
		require.Equal(t, tt.classified, classified, tt.in)
	}
}

func TestParseResultsMarksMalformed(t *testing.T) {
	got := parseResults([]models.ResultRecord{
		{DriverCode: "VER", Position: "1", Points: 25},
		{DriverCode: "", Position: "2", Points: 18},
		{DriverCode: "VER", Position: "3", Points: 15},
		{DriverCode: "HAM", Position: "4", Points: -1},
		{DriverCode: "LEC", Position: "5", Points: math.NaN()},
		{DriverCode: "NOR", Position: "R"},
	})

	require.Len(t, got, 6)
	require.True(t, got[0].Valid())
	for _, i := range []int{1, 2, 3, 4} {
		require.ErrorIs(t, got[i].Err, ErrMalformedRecord, "record %d", i)
	}
	require.True(t, got[5].Valid())
	require.Equal(t, DNFPosition, got[5].Finish)
}
