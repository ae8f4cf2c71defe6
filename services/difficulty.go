package services

import (
	"context"
	"fmt"

	"github.com/leaguedesk/officiating-system/models"
	"github.com/leaguedesk/officiating-system/repositories"
)

// DifficultyProvider поставляет оценку сложности матча. Движок назначений
// её только потребляет; расчёт живёт у коллаборатора.
type DifficultyProvider interface {
	MatchDifficulty(ctx context.Context, match *models.Match) (int, error)
}

type teamDifficultyProvider struct {
	teamRepo repositories.TeamRepository
}

func NewTeamDifficultyProvider(teamRepo repositories.TeamRepository) DifficultyProvider {
	return &teamDifficultyProvider{teamRepo: teamRepo}
}

// MatchDifficulty выводит сложность из классификаций двух команд:
// максимум двух значений, плюс единица, когда обе команды из верхних
// категорий (такие пары требуют самых опытных бригад).
func (p *teamDifficultyProvider) MatchDifficulty(ctx context.Context, match *models.Match) (int, error) {
	home, err := p.teamRepo.GetByID(ctx, match.HomeTeamID)
	if err != nil {
		return 0, fmt.Errorf("difficulty: home team %d: %w", match.HomeTeamID, err)
	}
	away, err := p.teamRepo.GetByID(ctx, match.AwayTeamID)
	if err != nil {
		return 0, fmt.Errorf("difficulty: away team %d: %w", match.AwayTeamID, err)
	}

	difficulty := home.Classification
	if away.Classification > difficulty {
		difficulty = away.Classification
	}
	if home.Classification >= 4 && away.Classification >= 4 {
		difficulty++
	}
	return difficulty, nil
}
