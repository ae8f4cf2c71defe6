package services

import (
	"log/slog"
	"strings"

	"github.com/leaguedesk/officiating-system/models"
)

// Числовые оценки компетентности по ярусам опыта. INELIGIBLE сознательно
// не имеет оценки: такие судьи исключены из автоматических пулов.
var tierCompetency = map[models.RefereeTier]int{
	models.TierDebutant:          1,
	models.TierDeveloping:        2,
	models.TierExperienced:       3,
	models.TierHighlyExperienced: 4,
}

// TierToCompetency возвращает оценку компетентности для яруса или nil,
// если ярус не участвует в оценке (INELIGIBLE, неизвестное значение).
// Легаси-значения нормализуются к верхнему регистру перед поиском.
func TierToCompetency(tier models.RefereeTier) *int {
	normalized := normalizeTier(tier)
	if normalized == models.TierIneligible {
		return nil
	}
	if score, ok := tierCompetency[normalized]; ok {
		return &score
	}
	return nil
}

// CompetencyToTier — приблизительное обратное отображение для UI.
func CompetencyToTier(score int) *models.RefereeTier {
	var tier models.RefereeTier
	switch {
	case score >= 4:
		tier = models.TierHighlyExperienced
	case score >= 3:
		tier = models.TierExperienced
	case score >= 2:
		tier = models.TierDeveloping
	case score >= 1:
		tier = models.TierDebutant
	default:
		return nil
	}
	return &tier
}

func normalizeTier(tier models.RefereeTier) models.RefereeTier {
	raw := strings.ToUpper(strings.TrimSpace(string(tier)))
	raw = strings.ReplaceAll(raw, "-", "_")
	raw = strings.ReplaceAll(raw, " ", "_")
	return models.RefereeTier(raw)
}

// refereeCompetency — итоговая оценка судьи для слота главного судьи:
// числовой override на судье имеет приоритет над ярусом. Неопознанный
// ярус — сигнал качества данных, а не ошибка.
func refereeCompetency(ref *models.Referee, logger *slog.Logger) *int {
	if ref.CompetencyOverride != nil {
		v := *ref.CompetencyOverride
		return &v
	}
	score := TierToCompetency(ref.Tier)
	if score == nil && normalizeTier(ref.Tier) != models.TierIneligible && logger != nil {
		logger.Warn("unrecognized referee tier",
			slog.Int("referee_id", ref.ID),
			slog.String("tier", string(ref.Tier)))
	}
	return score
}

// EvaluateCompetency сравнивает компетентность с сложностью матча при
// заданной политике. Политика передаётся параметром на каждый вызов.
// Отсутствующая оценка компетентности считается нулевой.
func EvaluateCompetency(difficulty int, competency *int, policy models.CompetencyPolicy) *models.CompetencyEvaluation {
	score := 0
	if competency != nil {
		score = *competency
	}
	return &models.CompetencyEvaluation{
		Difficulty:     difficulty,
		Competency:     score,
		Tolerance:      policy.Tolerance,
		Policy:         policy.Mode,
		BelowThreshold: score+policy.Tolerance < difficulty,
	}
}
