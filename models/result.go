package models

// ResultRecord is one driver's classification in a session. Position is kept
// exactly as published: a number for classified drivers or a status code
// such as "R", "DNF" or "DSQ".
type ResultRecord struct {
	Season     int         `gorm:"column:season;primaryKey" json:"season"`
	Round      int         `gorm:"column:round;primaryKey" json:"round"`
	Session    SessionType `gorm:"column:session;primaryKey" json:"session"`
	DriverCode string      `gorm:"column:driver_code;primaryKey" json:"driver_code"`
	Team       string      `gorm:"column:team" json:"team"`
	Position   string      `gorm:"column:position" json:"position"`
	Points     float64     `gorm:"column:points" json:"points"`
}

func (ResultRecord) TableName() string { return "session_results" }

func (r ResultRecord) Key() SessionKey {
	return SessionKey{Season: r.Season, Round: r.Round, Type: r.Session}
}
