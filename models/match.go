package models

import "time"

type MatchStatus string

const (
	MatchScheduled  MatchStatus = "scheduled"
	MatchInProgress MatchStatus = "in_progress"
	MatchCompleted  MatchStatus = "completed"
	MatchCanceled   MatchStatus = "canceled"
)

type Match struct {
	ID       int `json:"id"`
	LeagueID int `json:"league_id"`
	GroupID  int `json:"group_id"`
	// MatchdayID — ссылка на тур; MatchdayNumber денормализован для
	// оконных проверок ротации.
	MatchdayID     int         `json:"matchday_id"`
	MatchdayNumber int         `json:"matchday_number"`
	HomeTeamID     int         `json:"home_team_id"`
	AwayTeamID     int         `json:"away_team_id"`
	Kickoff        *time.Time  `json:"kickoff,omitempty"`
	Status         MatchStatus `json:"status"`

	// Слоты бригады: на каждый слот либо id судьи, либо внешняя метка,
	// никогда оба сразу.
	RefereeID           *int    `json:"referee_id,omitempty"`
	RefereeLabel        *string `json:"referee_label,omitempty"`
	Assistant1ID        *int    `json:"assistant_1_id,omitempty"`
	Assistant1Label     *string `json:"assistant_1_label,omitempty"`
	Assistant2ID        *int    `json:"assistant_2_id,omitempty"`
	Assistant2Label     *string `json:"assistant_2_label,omitempty"`
	FourthOfficialID    *int    `json:"fourth_official_id,omitempty"`
	FourthOfficialLabel *string `json:"fourth_official_label,omitempty"`
	AssessorID          *int    `json:"assessor_id,omitempty"`
	AssessorLabel       *string `json:"assessor_label,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	UpdatedBy *int       `json:"updated_by,omitempty"`
}

// Slot собирает значение слота из пары nullable-колонок.
func (m *Match) Slot(role CrewRole) SlotAssignee {
	var id *int
	var label *string
	switch role {
	case RoleCentral:
		id, label = m.RefereeID, m.RefereeLabel
	case RoleAssistant1:
		id, label = m.Assistant1ID, m.Assistant1Label
	case RoleAssistant2:
		id, label = m.Assistant2ID, m.Assistant2Label
	case RoleFourthOfficial:
		id, label = m.FourthOfficialID, m.FourthOfficialLabel
	case RoleAssessor:
		id, label = m.AssessorID, m.AssessorLabel
	}
	if id != nil {
		return RealReferee(*id)
	}
	if label != nil && *label != "" {
		return ExternalLabel(*label)
	}
	return SlotAssignee{}
}

// RoleOf возвращает роль, в которой судья занят в этом матче, если занят.
func (m *Match) RoleOf(refereeID int) (CrewRole, bool) {
	for _, role := range []CrewRole{RoleCentral, RoleAssistant1, RoleAssistant2, RoleFourthOfficial, RoleAssessor} {
		if id, ok := m.Slot(role).RefereeID(); ok && id == refereeID {
			return role, true
		}
	}
	return "", false
}
