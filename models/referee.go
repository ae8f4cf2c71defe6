package models

import "time"

type RefereeStatus string

const (
	RefereeAvailable RefereeStatus = "available"
	RefereeDoubtful  RefereeStatus = "doubtful"
	RefereeInjured   RefereeStatus = "injured"
)

// RefereeTier — классификация опыта судьи. Канонические значения хранятся
// в верхнем регистре; легаси-значения нормализуются перед маппингом.
type RefereeTier string

const (
	TierIneligible        RefereeTier = "INELIGIBLE"
	TierDebutant          RefereeTier = "DEBUTANT"
	TierDeveloping        RefereeTier = "DEVELOPING"
	TierExperienced       RefereeTier = "EXPERIENCED"
	TierHighlyExperienced RefereeTier = "HIGHLY_EXPERIENCED"
)

type Referee struct {
	ID        int           `json:"id"`
	LeagueID  int           `json:"league_id"`
	FirstName string        `json:"first_name"`
	LastName  string        `json:"last_name"`
	Email     *string       `json:"email,omitempty"`
	Status    RefereeStatus `json:"status"`
	Tier      RefereeTier   `json:"tier"`
	Zones     []string      `json:"zones"`
	// AllowedRoles ограничивает роли, на которые судья может назначаться
	// автоматикой; ручные назначения движок не ограничивает.
	AllowedRoles []string `json:"allowed_roles"`
	CanAssess    bool     `json:"can_assess"`
	// CompetencyOverride, если задан, имеет приоритет над значением,
	// выведенным из Tier (только для слота главного судьи).
	CompetencyOverride *int      `json:"competency_override,omitempty"`
	PhotoKey           *string   `json:"-"`
	PhotoURL           *string   `json:"photo_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

func (r *Referee) FullName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}
