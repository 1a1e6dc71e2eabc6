package models

import "fmt"

const (
	SessionFP1        SessionType = "FP1"
	SessionFP2        SessionType = "FP2"
	SessionFP3        SessionType = "FP3"
	SessionQualifying SessionType = "Q"
	SessionRace       SessionType = "R"
)

// SessionType identifies one session of a race weekend.
type SessionType string

func (t SessionType) Valid() bool {
	switch t {
	case SessionFP1, SessionFP2, SessionFP3, SessionQualifying, SessionRace:
		return true
	}
	return false
}

func (t SessionType) IsPractice() bool {
	return t == SessionFP1 || t == SessionFP2 || t == SessionFP3
}

// SessionKey identifies one retrievable session.
type SessionKey struct {
	Season int         `json:"season"`
	Round  int         `json:"round"`
	Type   SessionType `json:"session"`
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%d-%02d-%s", k.Season, k.Round, k.Type)
}

// Event is one calendar entry. Circuit is the name used for track-type and
// circuit-history lookups.
type Event struct {
	Season  int    `gorm:"column:season;primaryKey" json:"season"`
	Round   int    `gorm:"column:round;primaryKey" json:"round"`
	Circuit string `gorm:"column:circuit" json:"circuit"`
	Name    string `gorm:"column:name" json:"name"`
}

func (Event) TableName() string { return "events" }
