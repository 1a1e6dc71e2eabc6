package store

import (
	"context"
	"sort"
	"sync"

	"github.com/roronoazoero/ML-Project-F1-prediction-2025/models"
)

// Memory is an in-process Source, used for fixtures and tests.
type Memory struct {
	mu      sync.RWMutex
	events  map[int][]models.Event
	results map[models.SessionKey][]models.ResultRecord
	laps    map[models.SessionKey][]models.LapRecord
	weather map[models.SessionKey][]models.WeatherSample
}

func NewMemory() *Memory {
	return &Memory{
		events:  make(map[int][]models.Event),
		results: make(map[models.SessionKey][]models.ResultRecord),
		laps:    make(map[models.SessionKey][]models.LapRecord),
		weather: make(map[models.SessionKey][]models.WeatherSample),
	}
}

func (m *Memory) AddEvent(e models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.Season] = append(m.events[e.Season], e)
}

func (m *Memory) AddResults(rs ...models.ResultRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range rs {
		m.results[r.Key()] = append(m.results[r.Key()], r)
	}
}

func (m *Memory) AddLaps(ls ...models.LapRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range ls {
		k := models.SessionKey{Season: l.Season, Round: l.Round, Type: l.Session}
		m.laps[k] = append(m.laps[k], l)
	}
}

func (m *Memory) AddWeather(ws ...models.WeatherSample) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range ws {
		k := models.SessionKey{Season: w.Season, Round: w.Round, Type: w.Session}
		m.weather[k] = append(m.weather[k], w)
	}
}

func (m *Memory) Events(_ context.Context, season int) ([]models.Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	evs, ok := m.events[season]
	if !ok {
		return nil, ErrSessionNotFound
	}
	out := append([]models.Event(nil), evs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Round < out[j].Round })
	return out, nil
}

func (m *Memory) Results(_ context.Context, key models.SessionKey) ([]models.ResultRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rs, ok := m.results[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return append([]models.ResultRecord(nil), rs...), nil
}

func (m *Memory) Laps(_ context.Context, key models.SessionKey) ([]models.LapRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ls, ok := m.laps[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return append([]models.LapRecord(nil), ls...), nil
}

func (m *Memory) Weather(_ context.Context, key models.SessionKey) ([]models.WeatherSample, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ws, ok := m.weather[key]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return append([]models.WeatherSample(nil), ws...), nil
}
