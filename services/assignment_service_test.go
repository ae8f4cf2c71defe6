package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leaguedesk/officiating-system/models"
	"github.com/leaguedesk/officiating-system/repositories"
)

// --- фейки репозиториев для тестов пайплайна ---

type fakeMatchRepo struct {
	matches map[int]*models.Match
	// последний применённый коммит, для проверок записи
	updates map[int]repositories.CrewUpdate
}

func newFakeMatchRepo(matches ...*models.Match) *fakeMatchRepo {
	repo := &fakeMatchRepo{
		matches: make(map[int]*models.Match),
		updates: make(map[int]repositories.CrewUpdate),
	}
	for _, m := range matches {
		repo.matches[m.ID] = m
	}
	return repo
}

func (r *fakeMatchRepo) GetByPath(_ context.Context, leagueID, groupID, matchdayID, matchID int) (*models.Match, error) {
	m, ok := r.matches[matchID]
	if !ok || m.LeagueID != leagueID || m.GroupID != groupID || m.MatchdayID != matchdayID {
		return nil, repositories.ErrMatchNotFound
	}
	return m, nil
}

func (r *fakeMatchRepo) GetByIDInLeague(_ context.Context, leagueID, matchID int) (*models.Match, error) {
	m, ok := r.matches[matchID]
	if !ok || m.LeagueID != leagueID {
		return nil, repositories.ErrMatchNotFound
	}
	return m, nil
}

func (r *fakeMatchRepo) ListByMatchday(_ context.Context, leagueID, matchdayID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.matches {
		if m.LeagueID == leagueID && m.MatchdayID == matchdayID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListByTeamsInWindow(_ context.Context, leagueID, groupID, fromNumber, toNumber, homeTeamID, awayTeamID, excludeMatchID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.matches {
		if m.ID == excludeMatchID || m.LeagueID != leagueID || m.GroupID != groupID {
			continue
		}
		if m.MatchdayNumber < fromNumber || m.MatchdayNumber > toNumber {
			continue
		}
		if m.HomeTeamID == homeTeamID || m.HomeTeamID == awayTeamID ||
			m.AwayTeamID == homeTeamID || m.AwayTeamID == awayTeamID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListAtKickoff(_ context.Context, leagueID int, kickoff time.Time, excludeMatchID int, refereeIDs []int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.matches {
		if m.ID == excludeMatchID || m.LeagueID != leagueID || m.Kickoff == nil {
			continue
		}
		if !m.Kickoff.Equal(kickoff) {
			continue
		}
		if anyRefereeAssigned(m, refereeIDs) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) ListOnDate(_ context.Context, leagueID int, day time.Time, excludeMatchID int, refereeIDs []int) ([]*models.Match, error) {
	var out []*models.Match
	y, mo, d := day.Date()
	for _, m := range r.matches {
		if m.ID == excludeMatchID || m.LeagueID != leagueID || m.Kickoff == nil {
			continue
		}
		my, mmo, md := m.Kickoff.Date()
		if my != y || mmo != mo || md != d {
			continue
		}
		if anyRefereeAssigned(m, refereeIDs) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMatchRepo) UpdateCrew(_ context.Context, _ repositories.SQLExecutor, matchID int, update repositories.CrewUpdate) error {
	m, ok := r.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.RefereeID, m.RefereeLabel = slotColumns(update.Central)
	m.Assistant1ID, m.Assistant1Label = slotColumns(update.Assistant1)
	m.Assistant2ID, m.Assistant2Label = slotColumns(update.Assistant2)
	if update.FourthOfficial.Present {
		m.FourthOfficialID, m.FourthOfficialLabel = slotColumns(update.FourthOfficial.Value)
	}
	if update.Assessor.Present {
		m.AssessorID, m.AssessorLabel = slotColumns(update.Assessor.Value)
	}
	now := time.Now()
	m.UpdatedAt = &now
	m.UpdatedBy = &update.UpdatedBy
	r.updates[matchID] = update
	return nil
}

func (r *fakeMatchRepo) Create(_ context.Context, _ repositories.SQLExecutor, match *models.Match) error {
	match.ID = len(r.matches) + 1
	r.matches[match.ID] = match
	return nil
}

func slotColumns(slot models.SlotAssignee) (*int, *string) {
	if id, ok := slot.RefereeID(); ok {
		return &id, nil
	}
	if label, ok := slot.Label(); ok {
		return nil, &label
	}
	return nil, nil
}

func anyRefereeAssigned(m *models.Match, refereeIDs []int) bool {
	for _, id := range refereeIDs {
		if _, ok := m.RoleOf(id); ok {
			return true
		}
	}
	return false
}

type fakeRefereeRepo struct {
	referees map[int]*models.Referee
}

func newFakeRefereeRepo(referees ...*models.Referee) *fakeRefereeRepo {
	repo := &fakeRefereeRepo{referees: make(map[int]*models.Referee)}
	for _, ref := range referees {
		repo.referees[ref.ID] = ref
	}
	return repo
}

func (r *fakeRefereeRepo) GetByID(_ context.Context, id int) (*models.Referee, error) {
	ref, ok := r.referees[id]
	if !ok {
		return nil, repositories.ErrRefereeNotFound
	}
	return ref, nil
}

func (r *fakeRefereeRepo) ListByLeague(_ context.Context, leagueID int) ([]*models.Referee, error) {
	var out []*models.Referee
	for _, ref := range r.referees {
		if ref.LeagueID == leagueID {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (r *fakeRefereeRepo) ListByIDs(_ context.Context, ids []int) ([]*models.Referee, error) {
	var out []*models.Referee
	for _, id := range ids {
		if ref, ok := r.referees[id]; ok {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (r *fakeRefereeRepo) UpdatePhotoKey(_ context.Context, refereeID int, photoKey *string) error {
	ref, ok := r.referees[refereeID]
	if !ok {
		return repositories.ErrRefereeNotFound
	}
	ref.PhotoKey = photoKey
	return nil
}

type fakeLeagueRepo struct {
	league *models.League
}

func (r *fakeLeagueRepo) GetByID(_ context.Context, id int) (*models.League, error) {
	if r.league == nil || r.league.ID != id {
		return nil, repositories.ErrLeagueNotFound
	}
	return r.league, nil
}

func (r *fakeLeagueRepo) GetGroup(_ context.Context, leagueID, groupID int) (*models.Group, error) {
	return &models.Group{ID: groupID, LeagueID: leagueID}, nil
}

type fixedDifficulty int

func (d fixedDifficulty) MatchDifficulty(context.Context, *models.Match) (int, error) {
	return int(d), nil
}

// --- сборка тестового окружения ---

type assignmentFixture struct {
	matchRepo   *fakeMatchRepo
	refereeRepo *fakeRefereeRepo
	leagueRepo  *fakeLeagueRepo
	service     *assignmentService
}

func newAssignmentFixture(t *testing.T, difficulty int, league *models.League, matches []*models.Match, referees []*models.Referee) *assignmentFixture {
	t.Helper()
	matchRepo := newFakeMatchRepo(matches...)
	refereeRepo := newFakeRefereeRepo(referees...)
	leagueRepo := &fakeLeagueRepo{league: league}
	svc := NewAssignmentService(
		nil,
		matchRepo,
		refereeRepo,
		leagueRepo,
		fixedDifficulty(difficulty),
		nil,
		nil,
		nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return &assignmentFixture{
		matchRepo:   matchRepo,
		refereeRepo: refereeRepo,
		leagueRepo:  leagueRepo,
		service:     svc.(*assignmentService),
	}
}

func availableReferee(id int, tier models.RefereeTier) *models.Referee {
	return &models.Referee{
		ID:        id,
		LeagueID:  1,
		FirstName: "Ref",
		LastName:  "Test",
		Status:    models.RefereeAvailable,
		Tier:      tier,
	}
}

func testLeague(policy string, tolerance int) *models.League {
	return &models.League{ID: 1, Name: "Test League", RCSPolicy: policy, RCSTolerance: tolerance}
}

func scheduledMatch(id, matchdayID, matchdayNumber, homeID, awayID int, kickoff *time.Time) *models.Match {
	return &models.Match{
		ID:             id,
		LeagueID:       1,
		GroupID:        1,
		MatchdayID:     matchdayID,
		MatchdayNumber: matchdayNumber,
		HomeTeamID:     homeID,
		AwayTeamID:     awayID,
		Kickoff:        kickoff,
		Status:         models.MatchScheduled,
	}
}

func kickoffAt(day int, hour int) *time.Time {
	t := time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
	return &t
}

func fullCrew(central, a1, a2 int) models.CrewProposal {
	return models.CrewProposal{
		Central:    models.RealReferee(central),
		Assistant1: models.RealReferee(a1),
		Assistant2: models.RealReferee(a2),
	}
}

func defaultPath() MatchPath {
	return MatchPath{LeagueID: 1, GroupID: 1, MatchdayID: 8, MatchID: 100}
}

// --- тесты пайплайна ---

func TestAssignCrew_Success(t *testing.T) {
	match := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 15))
	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0),
		[]*models.Match{match},
		[]*models.Referee{
			availableReferee(1, models.TierExperienced),
			availableReferee(2, models.TierDeveloping),
			availableReferee(3, models.TierDeveloping),
		})

	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{
		Path: defaultPath(), Crew: fullCrew(1, 2, 3), ActorID: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, CodeOK, result.Code)
	assert.True(t, result.Code.Success())

	// Коммит дошёл до матча
	require.NotNil(t, match.RefereeID)
	assert.Equal(t, 1, *match.RefereeID)
	require.NotNil(t, match.UpdatedBy)
	assert.Equal(t, 42, *match.UpdatedBy)
}

func TestAssignCrew_SuccessIsIdempotent(t *testing.T) {
	match := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 15))
	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0),
		[]*models.Match{match},
		[]*models.Referee{
			availableReferee(1, models.TierExperienced),
			availableReferee(2, models.TierDeveloping),
			availableReferee(3, models.TierDeveloping),
		})

	input := AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 2, 3), ActorID: 42}
	first, err := fx.service.AssignCrew(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, CodeOK, first.Code)

	// Повторная подача того же состава: судьи уже стоят на этом матче, но
	// детекторы исключают целевой матч из скана, поэтому исход тот же.
	second, err := fx.service.AssignCrew(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, CodeOK, second.Code)
}

func TestAssignCrew_MissingCoreSlot(t *testing.T) {
	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0), nil, nil)

	crew := fullCrew(1, 2, 3)
	crew.Assistant2 = models.SlotAssignee{}
	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: crew})
	require.NoError(t, err)
	assert.Equal(t, CodeMissingParams, result.Code)
}

func TestAssignCrew_DuplicateRefereesShortCircuits(t *testing.T) {
	// Матча с таким id нет, но гард дубликатов стоит раньше поиска матча.
	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0), nil, nil)

	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 1, 3)})
	require.NoError(t, err)
	assert.Equal(t, CodeDuplicateReferees, result.Code)
}

func TestAssignCrew_ExternalLabelsMayRepeat(t *testing.T) {
	match := scheduledMatch(100, 8, 8, 10, 20, nil)
	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0),
		[]*models.Match{match},
		[]*models.Referee{availableReferee(1, models.TierExperienced)})

	crew := models.CrewProposal{
		Central:    models.RealReferee(1),
		Assistant1: models.ExternalLabel("Guest A"),
		Assistant2: models.ExternalLabel("Guest A"),
	}
	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: crew})
	require.NoError(t, err)
	assert.Equal(t, CodeOK, result.Code)
	require.NotNil(t, match.Assistant2Label)
	assert.Equal(t, "Guest A", *match.Assistant2Label)
}

func TestAssignCrew_MatchNotFound(t *testing.T) {
	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0), nil,
		[]*models.Referee{
			availableReferee(1, models.TierExperienced),
			availableReferee(2, models.TierDeveloping),
			availableReferee(3, models.TierDeveloping),
		})

	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 2, 3)})
	require.NoError(t, err)
	assert.Equal(t, CodeMatchNotFound, result.Code)
}

func TestAssignCrew_WrongTenantPathIsNotFound(t *testing.T) {
	match := scheduledMatch(100, 8, 8, 10, 20, nil)
	match.LeagueID = 2 // матч другой лиги
	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0),
		[]*models.Match{match},
		[]*models.Referee{
			availableReferee(1, models.TierExperienced),
			availableReferee(2, models.TierDeveloping),
			availableReferee(3, models.TierDeveloping),
		})

	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 2, 3)})
	require.NoError(t, err)
	assert.Equal(t, CodeMatchNotFound, result.Code)
}

func TestAssignCrew_UnavailableAndMissingReferees(t *testing.T) {
	match := scheduledMatch(100, 8, 8, 10, 20, nil)
	injured := availableReferee(2, models.TierDeveloping)
	injured.Status = models.RefereeInjured
	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0),
		[]*models.Match{match},
		[]*models.Referee{
			availableReferee(1, models.TierExperienced),
			injured,
			// судьи 3 нет в справочнике вовсе
		})

	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 2, 3)})
	require.NoError(t, err)
	assert.Equal(t, CodeRefereeNotAvailable, result.Code)
	assert.ElementsMatch(t, []int{2, 3}, result.UnavailableRefereeIDs)
	assert.Nil(t, match.RefereeID)
}

func TestAssignCrew_RecentTeamWindowBoundary(t *testing.T) {
	// Судья 1 работал с командой 10 в туре 5. Для матча тура 8 окно
	// [5, 8] — конфликт есть; для тура 9 окно [6, 9] — конфликта нет.
	past := scheduledMatch(50, 5, 5, 10, 30, kickoffAt(1, 15))
	id := 1
	past.RefereeID = &id

	referees := []*models.Referee{
		availableReferee(1, models.TierExperienced),
		availableReferee(2, models.TierDeveloping),
		availableReferee(3, models.TierDeveloping),
	}

	t.Run("inside window fires", func(t *testing.T) {
		target := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 15))
		fx := newAssignmentFixture(t, 3, testLeague("NONE", 0), []*models.Match{past, target}, referees)

		result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 2, 3)})
		require.NoError(t, err)
		assert.Equal(t, CodeRecentTeamConflict, result.Code)
		require.Len(t, result.Conflicts, 1)
		conflict := result.Conflicts[0]
		assert.Equal(t, models.ConflictRecentTeam, conflict.Kind)
		assert.Equal(t, 1, conflict.RefereeID)
		assert.Equal(t, models.RoleCentral, conflict.Role)
		assert.Equal(t, 50, conflict.MatchID)
		assert.Equal(t, 5, conflict.MatchdayNumber)
	})

	t.Run("outside window does not fire", func(t *testing.T) {
		target := scheduledMatch(100, 9, 9, 10, 20, kickoffAt(21, 15))
		fx := newAssignmentFixture(t, 3, testLeague("NONE", 0), []*models.Match{past, target}, referees)

		result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{
			Path: MatchPath{LeagueID: 1, GroupID: 1, MatchdayID: 9, MatchID: 100},
			Crew: fullCrew(1, 2, 3),
		})
		require.NoError(t, err)
		assert.Equal(t, CodeOK, result.Code)
	})

	t.Run("override flag skips the guard", func(t *testing.T) {
		target := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 15))
		fx := newAssignmentFixture(t, 3, testLeague("NONE", 0), []*models.Match{past, target}, referees)

		result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{
			Path: defaultPath(), Crew: fullCrew(1, 2, 3), IgnoreRecentTeam: true,
		})
		require.NoError(t, err)
		assert.Equal(t, CodeOK, result.Code)
	})
}

func TestAssignCrew_ScheduleConflictNeverOverridable(t *testing.T) {
	sameKickoff := kickoffAt(14, 15)
	other := scheduledMatch(51, 8, 8, 30, 40, sameKickoff)
	id := 2
	other.Assistant1ID = &id

	target := scheduledMatch(100, 8, 8, 10, 20, sameKickoff)
	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0),
		[]*models.Match{other, target},
		[]*models.Referee{
			availableReferee(1, models.TierExperienced),
			availableReferee(2, models.TierDeveloping),
			availableReferee(3, models.TierDeveloping),
		})

	// Оба флага подтверждения выставлены — конфликт времени всё равно блокирует.
	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{
		Path:             defaultPath(),
		Crew:             fullCrew(1, 2, 3),
		IgnoreRecentTeam: true,
		IgnoreSameDay:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, CodeScheduleConflict, result.Code)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, models.ConflictSchedule, result.Conflicts[0].Kind)
	assert.Equal(t, 2, result.Conflicts[0].RefereeID)
	assert.Equal(t, models.RoleAssistant1, result.Conflicts[0].Role)
	assert.Nil(t, target.RefereeID)
}

func TestAssignCrew_SameDayConflict(t *testing.T) {
	// Тот же день, другое время: конфликт дня, но не расписания.
	other := scheduledMatch(51, 8, 8, 30, 40, kickoffAt(14, 11))
	id := 3
	other.AssessorID = &id

	target := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 17))
	referees := []*models.Referee{
		availableReferee(1, models.TierExperienced),
		availableReferee(2, models.TierDeveloping),
		availableReferee(3, models.TierDeveloping),
	}

	t.Run("blocks without override", func(t *testing.T) {
		fx := newAssignmentFixture(t, 3, testLeague("NONE", 0), []*models.Match{other, target}, referees)

		result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 2, 3)})
		require.NoError(t, err)
		assert.Equal(t, CodeSameDayConflict, result.Code)
		require.Len(t, result.Conflicts, 1)
		assert.Equal(t, models.ConflictSameDay, result.Conflicts[0].Kind)
		assert.Equal(t, models.RoleAssessor, result.Conflicts[0].Role)
	})

	t.Run("override commits", func(t *testing.T) {
		fx := newAssignmentFixture(t, 3, testLeague("NONE", 0), []*models.Match{other, target}, referees)

		result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{
			Path: defaultPath(), Crew: fullCrew(1, 2, 3), IgnoreSameDay: true,
		})
		require.NoError(t, err)
		assert.Equal(t, CodeOK, result.Code)
	})
}

func TestAssignCrew_SameDayIncludesOptionalSlots(t *testing.T) {
	// Судья 4 занят в тот же день и подан четвёртым судьёй — детектор
	// учитывает и опциональные слоты заявки.
	other := scheduledMatch(51, 8, 8, 30, 40, kickoffAt(14, 11))
	id := 4
	other.RefereeID = &id

	target := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 17))
	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0),
		[]*models.Match{other, target},
		[]*models.Referee{
			availableReferee(1, models.TierExperienced),
			availableReferee(2, models.TierDeveloping),
			availableReferee(3, models.TierDeveloping),
			availableReferee(4, models.TierDeveloping),
		})

	crew := fullCrew(1, 2, 3)
	crew.FourthOfficial = models.OptionalSlot{Present: true, Value: models.RealReferee(4)}
	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: crew})
	require.NoError(t, err)
	assert.Equal(t, CodeSameDayConflict, result.Code)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, 4, result.Conflicts[0].RefereeID)
}

func TestAssignCrew_CompetencyBlockAndWarn(t *testing.T) {
	referees := []*models.Referee{
		availableReferee(1, models.TierDebutant), // компетентность 1
		availableReferee(2, models.TierDeveloping),
		availableReferee(3, models.TierDeveloping),
	}

	t.Run("block policy refuses and does not write", func(t *testing.T) {
		match := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 15))
		fx := newAssignmentFixture(t, 4, testLeague("BLOCK", 1), []*models.Match{match}, referees)

		result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 2, 3)})
		require.NoError(t, err)
		assert.Equal(t, CodeRCSBelowThresholdBlock, result.Code)
		require.NotNil(t, result.Evaluation)
		assert.True(t, result.Evaluation.BelowThreshold)
		assert.Equal(t, 4, result.Evaluation.Difficulty)
		assert.Equal(t, 1, result.Evaluation.Competency)
		assert.Nil(t, match.RefereeID)
	})

	t.Run("warn policy commits with warning code", func(t *testing.T) {
		match := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 15))
		fx := newAssignmentFixture(t, 4, testLeague("WARN", 1), []*models.Match{match}, referees)

		result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 2, 3)})
		require.NoError(t, err)
		assert.Equal(t, CodeOKWithWarning, result.Code)
		assert.True(t, result.Code.Success())
		require.NotNil(t, match.RefereeID)
		assert.Equal(t, 1, *match.RefereeID)
	})

	t.Run("none policy commits silently", func(t *testing.T) {
		match := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 15))
		fx := newAssignmentFixture(t, 4, testLeague("NONE", 1), []*models.Match{match}, referees)

		result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 2, 3)})
		require.NoError(t, err)
		assert.Equal(t, CodeOK, result.Code)
	})
}

func TestAssignCrew_ExternalCentralSkipsCompetency(t *testing.T) {
	match := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 15))
	fx := newAssignmentFixture(t, 5, testLeague("BLOCK", 0),
		[]*models.Match{match},
		[]*models.Referee{
			availableReferee(2, models.TierDebutant),
			availableReferee(3, models.TierDebutant),
		})

	crew := models.CrewProposal{
		Central:    models.ExternalLabel("FIFA Referee"),
		Assistant1: models.RealReferee(2),
		Assistant2: models.RealReferee(3),
	}
	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: crew})
	require.NoError(t, err)
	assert.Equal(t, CodeOK, result.Code)
	assert.Nil(t, result.Evaluation)
}

func TestAssignCrew_OptionalSlotTriState(t *testing.T) {
	match := scheduledMatch(100, 8, 8, 10, 20, kickoffAt(14, 15))
	existing := 9
	match.FourthOfficialID = &existing

	fx := newAssignmentFixture(t, 3, testLeague("NONE", 0),
		[]*models.Match{match},
		[]*models.Referee{
			availableReferee(1, models.TierExperienced),
			availableReferee(2, models.TierDeveloping),
			availableReferee(3, models.TierDeveloping),
		})

	// Поле отсутствует в заявке — хранимое значение не трогаем.
	result, err := fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: fullCrew(1, 2, 3)})
	require.NoError(t, err)
	require.Equal(t, CodeOK, result.Code)
	require.NotNil(t, match.FourthOfficialID)
	assert.Equal(t, 9, *match.FourthOfficialID)

	// Явный null — слот очищается.
	crew := fullCrew(1, 2, 3)
	crew.FourthOfficial = models.OptionalSlot{Present: true}
	result, err = fx.service.AssignCrew(context.Background(), AssignCrewInput{Path: defaultPath(), Crew: crew})
	require.NoError(t, err)
	require.Equal(t, CodeOK, result.Code)
	assert.Nil(t, match.FourthOfficialID)
	assert.Nil(t, match.FourthOfficialLabel)
}
