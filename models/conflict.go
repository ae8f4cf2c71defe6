package models

import "time"

type ConflictKind string

const (
	ConflictRecentTeam ConflictKind = "recent_team"
	ConflictSchedule   ConflictKind = "schedule"
	ConflictSameDay    ConflictKind = "same_day"
)

// CrewConflict описывает одно найденное пересечение: судья из заявки уже
// занят в другом матче.
type CrewConflict struct {
	Kind           ConflictKind `json:"kind"`
	RefereeID      int          `json:"referee_id"`
	Role           CrewRole     `json:"role"`
	MatchID        int          `json:"match_id"`
	MatchdayNumber int          `json:"matchday_number"`
	Kickoff        *time.Time   `json:"kickoff,omitempty"`
	HomeTeamID     int          `json:"home_team_id"`
	AwayTeamID     int          `json:"away_team_id"`
}

// CompetencyEvaluation — производная оценка для слота главного судьи,
// нигде не сохраняется.
type CompetencyEvaluation struct {
	Difficulty     int                  `json:"difficulty"`
	Competency     int                  `json:"competency"`
	Tolerance      int                  `json:"tolerance"`
	Policy         CompetencyPolicyMode `json:"policy"`
	BelowThreshold bool                 `json:"below_threshold"`
}
