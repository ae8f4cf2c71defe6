package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/leaguedesk/officiating-system/cache"
	"github.com/leaguedesk/officiating-system/models"
	"github.com/leaguedesk/officiating-system/repositories"
)

type MatchService interface {
	ListByMatchday(ctx context.Context, leagueID, matchdayID int) ([]*models.Match, error)
	GetByPath(ctx context.Context, leagueID, groupID, matchdayID, matchID int) (*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	readCache *cache.Cache
}

func NewMatchService(matchRepo repositories.MatchRepository, readCache *cache.Cache) MatchService {
	return &matchService{matchRepo: matchRepo, readCache: readCache}
}

// ListByMatchday — read-through: список матчей тура кэшируется по ключу
// тенанта и сбрасывается коммитом бригады.
func (s *matchService) ListByMatchday(ctx context.Context, leagueID, matchdayID int) ([]*models.Match, error) {
	key := cache.TenantKey(leagueID, "matchday", fmt.Sprintf("%d", matchdayID))
	if s.readCache != nil {
		if cached, ok := s.readCache.Get(key); ok {
			if matches, ok := cached.([]*models.Match); ok {
				return matches, nil
			}
		}
	}

	matches, err := s.matchRepo.ListByMatchday(ctx, leagueID, matchdayID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for matchday %d: %w", matchdayID, err)
	}

	if s.readCache != nil {
		s.readCache.Set(key, matches, cache.DefaultTTL)
	}
	return matches, nil
}

func (s *matchService) GetByPath(ctx context.Context, leagueID, groupID, matchdayID, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByPath(ctx, leagueID, groupID, matchdayID, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}
