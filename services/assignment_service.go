package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/leaguedesk/officiating-system/cache"
	"github.com/leaguedesk/officiating-system/models"
	"github.com/leaguedesk/officiating-system/repositories"
)

// recentTeamLookback — размер окна ротации в турах, текущий тур включён:
// судья, работавший с одной из команд в последних четырёх турах
// лиги/группы, считается "недавним".
const recentTeamLookback = 4

type AssignmentCode string

const (
	CodeOK                     AssignmentCode = "OK"
	CodeOKWithWarning          AssignmentCode = "OK_WITH_WARNING"
	CodeMissingParams          AssignmentCode = "MISSING_PARAMS"
	CodeDuplicateReferees      AssignmentCode = "DUPLICATE_REFEREES"
	CodeMatchNotFound          AssignmentCode = "MATCH_NOT_FOUND"
	CodeRefereeNotAvailable    AssignmentCode = "REFEREE_NOT_AVAILABLE"
	CodeRecentTeamConflict     AssignmentCode = "RECENT_TEAM_CONFLICT"
	CodeScheduleConflict       AssignmentCode = "SCHEDULE_CONFLICT"
	CodeSameDayConflict        AssignmentCode = "SAME_DAY_CONFLICT"
	CodeRCSBelowThresholdBlock AssignmentCode = "RCS_BELOW_THRESHOLD_BLOCK"
)

func (c AssignmentCode) Success() bool {
	return c == CodeOK || c == CodeOKWithWarning
}

// MatchPath — полный иерархический путь матча в рамках тенанта.
type MatchPath struct {
	LeagueID   int
	GroupID    int
	MatchdayID int
	MatchID    int
}

type AssignCrewInput struct {
	Path MatchPath
	Crew models.CrewProposal
	// Флаги осознанного подтверждения: ротация и занятость в тот же день
	// могут быть приняты человеком. Конфликт точного времени начала
	// не переопределяется никогда.
	IgnoreRecentTeam bool
	IgnoreSameDay    bool
	ActorID          int
}

// AssignmentResult — типизированный исход прохода по гардам. Любой отказ
// несёт доказательства, достаточные для человекочитаемого объяснения.
type AssignmentResult struct {
	Code                  AssignmentCode               `json:"code"`
	UnavailableRefereeIDs []int                        `json:"unavailable_referee_ids,omitempty"`
	Conflicts             []models.CrewConflict        `json:"conflicts,omitempty"`
	Evaluation            *models.CompetencyEvaluation `json:"evaluation,omitempty"`
}

// CrewConfirmation — одна пара матч/бригада батч-подтверждения.
type CrewConfirmation struct {
	MatchID int                 `json:"match_id"`
	Crew    models.CrewProposal `json:"crew"`
}

// CrewBroadcaster уведомляет подписчиков лиги об изменении бригады.
type CrewBroadcaster interface {
	BroadcastCrewUpdated(leagueID int, payload interface{})
}

// CrewNotifier рассылает назначенной бригаде уведомления (best effort).
type CrewNotifier interface {
	NotifyCrewAssigned(ctx context.Context, match *models.Match, referees []*models.Referee) error
}

type AssignmentService interface {
	// AssignCrew прогоняет заявку через полный набор гардов и при успехе
	// коммитит бригаду. Отказ гарда — это значение результата, не ошибка.
	AssignCrew(ctx context.Context, input AssignCrewInput) (*AssignmentResult, error)
	// ConfirmCrews — батч-путь со сниженными гарантиями: только
	// структурные проверки, детекторы конфликтов не выполняются.
	ConfirmCrews(ctx context.Context, leagueID, actorID int, pairs []CrewConfirmation) (int, error)
}

type assignmentService struct {
	db          *sql.DB // для транзакции батч-подтверждения
	matchRepo   repositories.MatchRepository
	refereeRepo repositories.RefereeRepository
	leagueRepo  repositories.LeagueRepository
	difficulty  DifficultyProvider
	readCache   *cache.Cache
	hub         CrewBroadcaster
	notifier    CrewNotifier
	logger      *slog.Logger
}

func NewAssignmentService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	refereeRepo repositories.RefereeRepository,
	leagueRepo repositories.LeagueRepository,
	difficulty DifficultyProvider,
	readCache *cache.Cache,
	hub CrewBroadcaster,
	notifier CrewNotifier,
	logger *slog.Logger,
) AssignmentService {
	return &assignmentService{
		db:          db,
		matchRepo:   matchRepo,
		refereeRepo: refereeRepo,
		leagueRepo:  leagueRepo,
		difficulty:  difficulty,
		readCache:   readCache,
		hub:         hub,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *assignmentService) AssignCrew(ctx context.Context, input AssignCrewInput) (*AssignmentResult, error) {
	crew := &input.Crew

	// 1. Обязательные слоты: главный и оба ассистента.
	if crew.Central.IsZero() || crew.Assistant1.IsZero() || crew.Assistant2.IsZero() {
		return &AssignmentResult{Code: CodeMissingParams}, nil
	}

	// 2. Дубликаты только среди реальных идентификаторов трёх основных
	// ролей; внешние метки могут повторяться.
	coreIDs := crew.CoreRefereeIDs()
	if hasDuplicateIDs(coreIDs) {
		return &AssignmentResult{Code: CodeDuplicateReferees}, nil
	}

	// 3. Матч существует и принадлежит заявленному тенанту.
	match, err := s.matchRepo.GetByPath(ctx, input.Path.LeagueID, input.Path.GroupID, input.Path.MatchdayID, input.Path.MatchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return &AssignmentResult{Code: CodeMatchNotFound}, nil
		}
		return nil, fmt.Errorf("assignment: match lookup: %w", err)
	}

	// 4. Доступность каждого реального судьи основных ролей. Удалённая
	// запись справочника — не ошибка, а непройденный гард.
	referees := make(map[int]*models.Referee, len(coreIDs))
	var unavailable []int
	for _, id := range coreIDs {
		ref, lookupErr := s.refereeRepo.GetByID(ctx, id)
		if lookupErr != nil {
			if errors.Is(lookupErr, repositories.ErrRefereeNotFound) {
				unavailable = append(unavailable, id)
				continue
			}
			return nil, fmt.Errorf("assignment: referee lookup %d: %w", id, lookupErr)
		}
		referees[id] = ref
		if ref.Status != models.RefereeAvailable {
			unavailable = append(unavailable, id)
		}
	}
	if len(unavailable) > 0 {
		return &AssignmentResult{Code: CodeRefereeNotAvailable, UnavailableRefereeIDs: unavailable}, nil
	}

	// 5. Ротация: недавняя работа с одной из команд. Переопределяется
	// флагом после ручного подтверждения.
	if !input.IgnoreRecentTeam {
		conflicts, detectErr := s.findRecentTeamConflicts(ctx, match, coreIDs)
		if detectErr != nil {
			return nil, detectErr
		}
		if len(conflicts) > 0 {
			return &AssignmentResult{Code: CodeRecentTeamConflict, Conflicts: conflicts}, nil
		}
	}

	// 6. Точное совпадение времени начала — жёсткая блокировка: человек
	// не может быть в двух местах одновременно.
	if match.Kickoff != nil {
		conflicts, detectErr := s.findScheduleConflicts(ctx, match, coreIDs)
		if detectErr != nil {
			return nil, detectErr
		}
		if len(conflicts) > 0 {
			return &AssignmentResult{Code: CodeScheduleConflict, Conflicts: conflicts}, nil
		}
	}

	// 7. Занятость в тот же календарный день; учитываются также
	// четвёртый судья и инспектор из заявки.
	if match.Kickoff != nil && !input.IgnoreSameDay {
		conflicts, detectErr := s.findSameDayConflicts(ctx, match, crew.AllRefereeIDs())
		if detectErr != nil {
			return nil, detectErr
		}
		if len(conflicts) > 0 {
			return &AssignmentResult{Code: CodeSameDayConflict, Conflicts: conflicts}, nil
		}
	}

	// 8. Компетентность против сложности — только для реального судьи в
	// слоте главного.
	var evaluation *models.CompetencyEvaluation
	if centralID, ok := crew.Central.RefereeID(); ok {
		evaluation, err = s.evaluateCentral(ctx, match, referees[centralID])
		if err != nil {
			return nil, err
		}
		if evaluation != nil && evaluation.BelowThreshold && evaluation.Policy == models.PolicyBlock {
			return &AssignmentResult{Code: CodeRCSBelowThresholdBlock, Evaluation: evaluation}, nil
		}
	}

	// Все гарды пройдены — коммитим.
	if err := s.commitCrew(ctx, nil, match, crew, input.ActorID); err != nil {
		return nil, err
	}
	s.afterCommit(ctx, match, crew)

	if evaluation != nil && evaluation.BelowThreshold && evaluation.Policy == models.PolicyWarn {
		return &AssignmentResult{Code: CodeOKWithWarning, Evaluation: evaluation}, nil
	}
	return &AssignmentResult{Code: CodeOK, Evaluation: evaluation}, nil
}

// findRecentTeamConflicts ищет судей заявки, уже работавших с одной из
// команд матча в окне [n-3, n] того же дивизиона.
func (s *assignmentService) findRecentTeamConflicts(ctx context.Context, match *models.Match, refereeIDs []int) ([]models.CrewConflict, error) {
	if len(refereeIDs) == 0 {
		return nil, nil
	}
	from := match.MatchdayNumber - (recentTeamLookback - 1)
	others, err := s.matchRepo.ListByTeamsInWindow(ctx,
		match.LeagueID, match.GroupID,
		from, match.MatchdayNumber,
		match.HomeTeamID, match.AwayTeamID,
		match.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("assignment: recent-team scan: %w", err)
	}
	return collectConflicts(models.ConflictRecentTeam, others, refereeIDs), nil
}

// findScheduleConflicts ищет другие матчи лиги с идентичным временем
// начала, где любой из судей уже занимает слот.
func (s *assignmentService) findScheduleConflicts(ctx context.Context, match *models.Match, refereeIDs []int) ([]models.CrewConflict, error) {
	if len(refereeIDs) == 0 {
		return nil, nil
	}
	others, err := s.matchRepo.ListAtKickoff(ctx, match.LeagueID, *match.Kickoff, match.ID, refereeIDs)
	if err != nil {
		return nil, fmt.Errorf("assignment: schedule scan: %w", err)
	}
	return collectConflicts(models.ConflictSchedule, others, refereeIDs), nil
}

// findSameDayConflicts сравнивает только календарную дату начала.
func (s *assignmentService) findSameDayConflicts(ctx context.Context, match *models.Match, refereeIDs []int) ([]models.CrewConflict, error) {
	if len(refereeIDs) == 0 {
		return nil, nil
	}
	others, err := s.matchRepo.ListOnDate(ctx, match.LeagueID, *match.Kickoff, match.ID, refereeIDs)
	if err != nil {
		return nil, fmt.Errorf("assignment: same-day scan: %w", err)
	}
	return collectConflicts(models.ConflictSameDay, others, refereeIDs), nil
}

func collectConflicts(kind models.ConflictKind, matches []*models.Match, refereeIDs []int) []models.CrewConflict {
	conflicts := make([]models.CrewConflict, 0)
	for _, m := range matches {
		for _, id := range refereeIDs {
			role, ok := m.RoleOf(id)
			if !ok {
				continue
			}
			conflicts = append(conflicts, models.CrewConflict{
				Kind:           kind,
				RefereeID:      id,
				Role:           role,
				MatchID:        m.ID,
				MatchdayNumber: m.MatchdayNumber,
				Kickoff:        m.Kickoff,
				HomeTeamID:     m.HomeTeamID,
				AwayTeamID:     m.AwayTeamID,
			})
		}
	}
	return conflicts
}

func (s *assignmentService) evaluateCentral(ctx context.Context, match *models.Match, central *models.Referee) (*models.CompetencyEvaluation, error) {
	league, err := s.leagueRepo.GetByID(ctx, match.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("assignment: league policy lookup: %w", err)
	}
	difficulty, err := s.difficulty.MatchDifficulty(ctx, match)
	if err != nil {
		return nil, fmt.Errorf("assignment: difficulty lookup: %w", err)
	}
	return EvaluateCompetency(difficulty, refereeCompetency(central, s.logger), league.Policy()), nil
}

// commitCrew применяет бригаду к матчу. Гардовый прогон и коммит не
// обёрнуты одной транзакцией: между проверкой и записью другой запрос
// может успеть закоммитить конфликтующую бригаду. Коммит изолирован за
// интерфейсом репозитория, так что строгая реализация подменяется без
// изменения гардов.
func (s *assignmentService) commitCrew(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, crew *models.CrewProposal, actorID int) error {
	update := repositories.CrewUpdate{
		Central:        crew.Central,
		Assistant1:     crew.Assistant1,
		Assistant2:     crew.Assistant2,
		FourthOfficial: crew.FourthOfficial,
		Assessor:       crew.Assessor,
		UpdatedBy:      actorID,
	}
	if err := s.matchRepo.UpdateCrew(ctx, exec, match.ID, update); err != nil {
		return fmt.Errorf("assignment: crew commit for match %d: %w", match.ID, err)
	}
	return nil
}

// afterCommit инвалидирует зависимые read-кэши тенанта и уведомляет
// подписчиков. Ошибки уведомлений не влияют на исход коммита.
func (s *assignmentService) afterCommit(ctx context.Context, match *models.Match, crew *models.CrewProposal) {
	if s.readCache != nil {
		s.readCache.InvalidateTenant(match.LeagueID)
	}
	if s.hub != nil {
		s.hub.BroadcastCrewUpdated(match.LeagueID, map[string]interface{}{
			"match_id":    match.ID,
			"matchday_id": match.MatchdayID,
			"crew":        crew,
		})
	}
	if s.notifier != nil {
		referees, err := s.refereeRepo.ListByIDs(ctx, crew.AllRefereeIDs())
		if err == nil {
			err = s.notifier.NotifyCrewAssigned(ctx, match, referees)
		}
		if err != nil && s.logger != nil {
			s.logger.Warn("crew notification failed",
				slog.Int("match_id", match.ID),
				slog.Any("error", err))
		}
	}
}

func hasDuplicateIDs(ids []int) bool {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
