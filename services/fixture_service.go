package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/leaguedesk/officiating-system/cache"
	"github.com/leaguedesk/officiating-system/models"
	"github.com/leaguedesk/officiating-system/repositories"
)

// FixturePairing — одна пара тура, результат генератора до записи в базу.
type FixturePairing struct {
	MatchdayNumber int `json:"matchday_number"`
	HomeTeamID     int `json:"home_team_id"`
	AwayTeamID     int `json:"away_team_id"`
}

type FixtureService interface {
	// GenerateRoundRobin создаёт полный однокруговой календарь группы:
	// туры и матчи пишутся одной транзакцией.
	GenerateRoundRobin(ctx context.Context, leagueID, groupID int) ([]FixturePairing, error)
}

type fixtureService struct {
	db           *sql.DB
	teamRepo     repositories.TeamRepository
	matchdayRepo repositories.MatchdayRepository
	matchRepo    repositories.MatchRepository
	readCache    *cache.Cache
	logger       *slog.Logger
}

func NewFixtureService(
	db *sql.DB,
	teamRepo repositories.TeamRepository,
	matchdayRepo repositories.MatchdayRepository,
	matchRepo repositories.MatchRepository,
	readCache *cache.Cache,
	logger *slog.Logger,
) FixtureService {
	return &fixtureService{
		db:           db,
		teamRepo:     teamRepo,
		matchdayRepo: matchdayRepo,
		matchRepo:    matchRepo,
		readCache:    readCache,
		logger:       logger,
	}
}

func (s *fixtureService) GenerateRoundRobin(ctx context.Context, leagueID, groupID int) ([]FixturePairing, error) {
	teams, err := s.teamRepo.ListByGroup(ctx, leagueID, groupID)
	if err != nil {
		return nil, fmt.Errorf("fixtures: team list for group %d: %w", groupID, err)
	}
	teamIDs := make([]int, len(teams))
	for i, t := range teams {
		teamIDs[i] = t.ID
	}

	pairings, err := RoundRobinPairings(teamIDs)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("fixtures: begin tx: %w", err)
	}

	if err := s.persistPairings(ctx, tx, leagueID, groupID, pairings); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && s.logger != nil {
			s.logger.Error("fixtures: rollback failed", slog.Any("error", rbErr))
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("fixtures: commit tx: %w", err)
	}

	if s.readCache != nil {
		s.readCache.InvalidateTenant(leagueID)
	}
	if s.logger != nil {
		s.logger.Info("fixtures generated",
			slog.Int("league_id", leagueID),
			slog.Int("group_id", groupID),
			slog.Int("matches", len(pairings)))
	}
	return pairings, nil
}

func (s *fixtureService) persistPairings(ctx context.Context, tx repositories.SQLExecutor, leagueID, groupID int, pairings []FixturePairing) error {
	matchdayIDs := make(map[int]int)
	for _, p := range pairings {
		mdID, ok := matchdayIDs[p.MatchdayNumber]
		if !ok {
			md := &models.Matchday{GroupID: groupID, Number: p.MatchdayNumber}
			if err := s.matchdayRepo.Create(ctx, tx, md); err != nil {
				return fmt.Errorf("fixtures: create matchday %d: %w", p.MatchdayNumber, err)
			}
			matchdayIDs[p.MatchdayNumber] = md.ID
			mdID = md.ID
		}

		match := &models.Match{
			LeagueID:       leagueID,
			GroupID:        groupID,
			MatchdayID:     mdID,
			MatchdayNumber: p.MatchdayNumber,
			HomeTeamID:     p.HomeTeamID,
			AwayTeamID:     p.AwayTeamID,
			Status:         models.MatchScheduled,
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return fmt.Errorf("fixtures: create match %d vs %d: %w", p.HomeTeamID, p.AwayTeamID, err)
		}
	}
	return nil
}

// RoundRobinPairings строит однокруговой календарь методом круга: при
// нечётном числе команд добавляется пустышка, её соперник в туре отдыхает.
// Для чётного n — n-1 туров по n/2 матчей, у каждой команды ровно одна
// игра в туре.
func RoundRobinPairings(teamIDs []int) ([]FixturePairing, error) {
	if len(teamIDs) < 2 {
		return nil, ErrFixtureNotEnoughTeams
	}

	const bye = 0
	ids := make([]int, len(teamIDs))
	copy(ids, teamIDs)
	if len(ids)%2 != 0 {
		ids = append(ids, bye)
	}

	n := len(ids)
	rounds := n - 1
	pairings := make([]FixturePairing, 0, rounds*n/2)

	for round := 0; round < rounds; round++ {
		for i := 0; i < n/2; i++ {
			home, away := ids[i], ids[n-1-i]
			if home == bye || away == bye {
				continue
			}
			// Чередуем хозяев, чтобы никто не играл дома весь круг подряд.
			if round%2 == 1 {
				home, away = away, home
			}
			pairings = append(pairings, FixturePairing{
				MatchdayNumber: round + 1,
				HomeTeamID:     home,
				AwayTeamID:     away,
			})
		}
		// Поворот круга: первый элемент зафиксирован.
		last := ids[n-1]
		copy(ids[2:], ids[1:n-1])
		ids[1] = last
	}
	return pairings, nil
}
