package models

import "time"

type CompetencyPolicyMode string

const (
	PolicyNone  CompetencyPolicyMode = "NONE"
	PolicyWarn  CompetencyPolicyMode = "WARN"
	PolicyBlock CompetencyPolicyMode = "BLOCK"
)

// CompetencyPolicy задаётся на уровне лиги (сезона) и передаётся в движок
// как параметр, а не читается из глобального состояния.
type CompetencyPolicy struct {
	Tolerance int                  `json:"tolerance"`
	Mode      CompetencyPolicyMode `json:"mode"`
}

type League struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Season       string    `json:"season"`
	RCSTolerance int       `json:"rcs_tolerance"`
	RCSPolicy    string    `json:"rcs_policy"`
	CreatedAt    time.Time `json:"created_at"`
}

// Policy возвращает политику компетентности лиги. Неизвестное значение
// режима трактуется как NONE.
func (l *League) Policy() CompetencyPolicy {
	mode := CompetencyPolicyMode(l.RCSPolicy)
	switch mode {
	case PolicyNone, PolicyWarn, PolicyBlock:
	default:
		mode = PolicyNone
	}
	return CompetencyPolicy{Tolerance: l.RCSTolerance, Mode: mode}
}

type Group struct {
	ID       int    `json:"id"`
	LeagueID int    `json:"league_id"`
	Name     string `json:"name"`
}

type Matchday struct {
	ID      int        `json:"id"`
	GroupID int        `json:"group_id"`
	Number  int        `json:"number"`
	Date    *time.Time `json:"date,omitempty"`
}
