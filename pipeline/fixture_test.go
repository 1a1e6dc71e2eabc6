package pipeline

import (
	"fmt"
	"time"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
	"github.com/roronoazoero/ML-Project-F1-prediction-2025/store"
)

var (
	fixtureDrivers  = []string{"AAA", "BBB", "CCC", "DDD"}
	fixtureTeams    = map[string]string{"AAA": "Red", "BBB": "Red", "CCC": "Blue", "DDD": "Blue"}
	fixtureCircuits = []string{"Monaco", "Silverstone", "Melbourne", "Nowhere Ring"}
	fixturePoints   = []float64{25, 18, 15, 12}
)

func res(driver, team, pos string, pts float64) models.ResultRecord {
	return models.ResultRecord{Session: models.SessionRace, DriverCode: driver, Team: team, Position: pos, Points: pts}
}

func weekend(season, round int, circuit string, race ...models.ResultRecord) *Weekend {
	return &Weekend{
		Season:      season,
		Round:       round,
		CircuitName: circuit,
		Circuit:     NewCircuitID(circuit),
		Race:        parseResults(race),
		HasRace:     true,
	}
}

// fixtureStore generates seasons with four rounds each. Every season round 2
// has DDD retiring, and CCC skips qualifying in round 3.
func fixtureStore(from, to int) *store.Memory {
	return fixtureStoreWith(from, to, nil)
}

// fixtureStoreWith lets edit rewrite race results before they are stored.
func fixtureStoreWith(from, to int, edit func(*models.ResultRecord)) *store.Memory {
	return fixtureStoreEdits(from, to, edit, nil)
}

// fixtureStoreEdits takes separate hooks for race and qualifying results.
// Either may be nil.
func fixtureStoreEdits(from, to int, race, quali func(*models.ResultRecord)) *store.Memory {
	mem := store.NewMemory()
	for season := from; season <= to; season++ {
		for round := 1; round <= len(fixtureCircuits); round++ {
			addFixtureRound(mem, season, round, race, quali)
		}
	}
	return mem
}

func addFixtureRound(mem *store.Memory, season, round int, edit, editQuali func(*models.ResultRecord)) {
	mem.AddEvent(models.Event{
		Season:  season,
		Round:   round,
		Circuit: fixtureCircuits[round-1],
		Name:    fmt.Sprintf("Round %d", round),
	})
	n := len(fixtureDrivers)
	for i, d := range fixtureDrivers {
		place := (i+round+season)%n + 1
		pos, pts := fmt.Sprint(place), fixturePoints[place-1]
		if round == 2 && d == "DDD" {
			pos, pts = "R", 0
		}
		race := models.ResultRecord{
			Season: season, Round: round, Session: models.SessionRace,
			DriverCode: d, Team: fixtureTeams[d], Position: pos, Points: pts,
		}
		if edit != nil {
			edit(&race)
		}
		mem.AddResults(race)

		if !(round == 3 && d == "CCC") {
			q := models.ResultRecord{
				Season: season, Round: round, Session: models.SessionQualifying,
				DriverCode: d, Team: fixtureTeams[d], Position: fmt.Sprint((i+round)%n + 1),
			}
			if editQuali != nil {
				editQuali(&q)
			}
			mem.AddResults(q)
		}

		mem.AddLaps(
			models.LapRecord{Season: season, Round: round, Session: models.SessionFP3, DriverCode: d, LapNumber: 1, LapTimeMs: 70000, PitOut: true},
			models.LapRecord{Season: season, Round: round, Session: models.SessionFP3, DriverCode: d, LapNumber: 2, LapTimeMs: int64(80000 + 100*((i+round)%n))},
		)
	}
	rain := 0.0
	if round == 1 {
		rain = 0.4
	}
	mem.AddWeather(models.WeatherSample{
		Season: season, Round: round, Session: models.SessionRace,
		TS: time.Date(season, time.March, round, 14, 0, 0, 0, time.UTC), Rainfall: rain,
	})
}
