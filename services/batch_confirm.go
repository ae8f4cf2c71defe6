package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leaguedesk/officiating-system/models"
	"github.com/leaguedesk/officiating-system/repositories"
	"golang.org/x/sync/errgroup"
)

// batchPrefetchLimit ограничивает параллелизм чтения целевых матчей.
const batchPrefetchLimit = 4

// ConfirmCrews — доверенный быстрый путь: пары с машинно-предложенными
// бригадами коммитятся после минимальных структурных проверок. Детекторы
// конфликтов, доступность и компетентность здесь сознательно НЕ
// выполняются — вызывающие не должны полагаться на гарантии полного
// пайплайна для батч-подтверждённых бригад. Непрошедшие пары молча
// пропускаются; все прошедшие записываются одной транзакцией.
func (s *assignmentService) ConfirmCrews(ctx context.Context, leagueID, actorID int, pairs []CrewConfirmation) (int, error) {
	if len(pairs) == 0 {
		return 0, ErrEmptyBatch
	}

	// Структурный отсев: три основных слота заняты, реальные id не
	// повторяются.
	candidates := make([]CrewConfirmation, 0, len(pairs))
	for _, pair := range pairs {
		crew := pair.Crew
		if crew.Central.IsZero() || crew.Assistant1.IsZero() || crew.Assistant2.IsZero() {
			continue
		}
		if hasDuplicateIDs(crew.CoreRefereeIDs()) {
			continue
		}
		candidates = append(candidates, pair)
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	// Предзагрузка целевых матчей параллельно; пары с матчами вне лиги
	// отбрасываются так же молча, как и структурно невалидные.
	matches := make([]*models.Match, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchPrefetchLimit)
	for i, pair := range candidates {
		i, pair := i, pair
		g.Go(func() error {
			m, err := s.matchRepo.GetByIDInLeague(gctx, leagueID, pair.MatchID)
			if err != nil {
				if errors.Is(err, repositories.ErrMatchNotFound) {
					return nil
				}
				return fmt.Errorf("batch confirm: match %d lookup: %w", pair.MatchID, err)
			}
			matches[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("batch confirm: begin tx: %w", err)
	}

	committed := 0
	for i, pair := range candidates {
		if matches[i] == nil {
			continue
		}
		if err := s.commitCrew(ctx, tx, matches[i], &pair.Crew, actorID); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && s.logger != nil {
				s.logger.Error("batch confirm: rollback failed", slog.Any("error", rbErr))
			}
			return 0, err
		}
		committed++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("batch confirm: commit tx: %w", err)
	}

	// Кэш инвалидируется один раз на весь батч.
	if s.readCache != nil {
		s.readCache.InvalidateTenant(leagueID)
	}
	if s.hub != nil && committed > 0 {
		s.hub.BroadcastCrewUpdated(leagueID, map[string]interface{}{
			"batch":     true,
			"committed": committed,
		})
	}

	if s.logger != nil {
		s.logger.Info("batch crew confirmation",
			slog.Int("league_id", leagueID),
			slog.Int("submitted", len(pairs)),
			slog.Int("committed", committed))
	}
	return committed, nil
}
