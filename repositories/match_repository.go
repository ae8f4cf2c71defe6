package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/leaguedesk/officiating-system/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchInvalidTeam    = errors.New("match team conflict or invalid")
	ErrMatchInvalidReferee = errors.New("match crew referee conflict or invalid")
)

// CrewUpdate — данные коммита бригады. Три основных слота записываются
// всегда; опциональные слоты записываются только при Present=true, иначе
// сохранённое значение не трогается.
type CrewUpdate struct {
	Central        models.SlotAssignee
	Assistant1     models.SlotAssignee
	Assistant2     models.SlotAssignee
	FourthOfficial models.OptionalSlot
	Assessor       models.OptionalSlot
	UpdatedBy      int
}

type MatchRepository interface {
	GetByPath(ctx context.Context, leagueID, groupID, matchdayID, matchID int) (*models.Match, error)
	GetByIDInLeague(ctx context.Context, leagueID, matchID int) (*models.Match, error)
	ListByMatchday(ctx context.Context, leagueID, matchdayID int) ([]*models.Match, error)
	// ListByTeamsInWindow — матчи той же лиги/группы с номером тура в
	// [fromNumber, toNumber], где играет любая из двух команд, кроме
	// самого целевого матча.
	ListByTeamsInWindow(ctx context.Context, leagueID, groupID, fromNumber, toNumber int, homeTeamID, awayTeamID, excludeMatchID int) ([]*models.Match, error)
	// ListAtKickoff — другие матчи лиги с тем же временем начала, где
	// любой из судей занимает любой слот.
	ListAtKickoff(ctx context.Context, leagueID int, kickoff time.Time, excludeMatchID int, refereeIDs []int) ([]*models.Match, error)
	// ListOnDate — то же, но сравнивается только календарная дата.
	ListOnDate(ctx context.Context, leagueID int, day time.Time, excludeMatchID int, refereeIDs []int) ([]*models.Match, error)
	UpdateCrew(ctx context.Context, exec SQLExecutor, matchID int, update CrewUpdate) error
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

const matchColumns = `
	id, league_id, group_id, matchday_id, matchday_number,
	home_team_id, away_team_id, kickoff, status,
	referee_id, referee_label, assistant_1_id, assistant_1_label,
	assistant_2_id, assistant_2_label, fourth_official_id, fourth_official_label,
	assessor_id, assessor_label, created_at, updated_at, updated_by`

func scanMatch(row interface{ Scan(dest ...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	err := row.Scan(
		&m.ID, &m.LeagueID, &m.GroupID, &m.MatchdayID, &m.MatchdayNumber,
		&m.HomeTeamID, &m.AwayTeamID, &m.Kickoff, &m.Status,
		&m.RefereeID, &m.RefereeLabel, &m.Assistant1ID, &m.Assistant1Label,
		&m.Assistant2ID, &m.Assistant2Label, &m.FourthOfficialID, &m.FourthOfficialLabel,
		&m.AssessorID, &m.AssessorLabel, &m.CreatedAt, &m.UpdatedAt, &m.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) GetByPath(ctx context.Context, leagueID, groupID, matchdayID, matchID int) (*models.Match, error) {
	// Полный иерархический путь заодно проверяет принадлежность матча
	// заявленному тенанту.
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE id = $1 AND league_id = $2 AND group_id = $3 AND matchday_id = $4`

	m, err := scanMatch(r.db.QueryRowContext(ctx, query, matchID, leagueID, groupID, matchdayID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by path %d/%d/%d/%d: %w", leagueID, groupID, matchdayID, matchID, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByIDInLeague(ctx context.Context, leagueID, matchID int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE id = $1 AND league_id = $2`

	m, err := scanMatch(r.db.QueryRowContext(ctx, query, matchID, leagueID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d in league %d: %w", matchID, leagueID, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) ListByMatchday(ctx context.Context, leagueID, matchdayID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE league_id = $1 AND matchday_id = $2
		ORDER BY kickoff ASC NULLS LAST, id ASC`

	return r.queryMatches(ctx, query, leagueID, matchdayID)
}

func (r *postgresMatchRepository) ListByTeamsInWindow(ctx context.Context, leagueID, groupID, fromNumber, toNumber int, homeTeamID, awayTeamID, excludeMatchID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE league_id = $1 AND group_id = $2
		  AND matchday_number BETWEEN $3 AND $4
		  AND id <> $5
		  AND (home_team_id = ANY($6) OR away_team_id = ANY($6))
		ORDER BY matchday_number ASC, id ASC`

	teams := pq.Array([]int64{int64(homeTeamID), int64(awayTeamID)})
	return r.queryMatches(ctx, query, leagueID, groupID, fromNumber, toNumber, excludeMatchID, teams)
}

func (r *postgresMatchRepository) ListAtKickoff(ctx context.Context, leagueID int, kickoff time.Time, excludeMatchID int, refereeIDs []int) ([]*models.Match, error) {
	if len(refereeIDs) == 0 {
		return []*models.Match{}, nil
	}
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE league_id = $1 AND kickoff = $2 AND id <> $3
		  AND (referee_id = ANY($4) OR assistant_1_id = ANY($4) OR assistant_2_id = ANY($4)
		       OR fourth_official_id = ANY($4) OR assessor_id = ANY($4))
		ORDER BY id ASC`

	return r.queryMatches(ctx, query, leagueID, kickoff, excludeMatchID, refereeIDArray(refereeIDs))
}

func (r *postgresMatchRepository) ListOnDate(ctx context.Context, leagueID int, day time.Time, excludeMatchID int, refereeIDs []int) ([]*models.Match, error) {
	if len(refereeIDs) == 0 {
		return []*models.Match{}, nil
	}
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE league_id = $1 AND kickoff IS NOT NULL AND kickoff::date = $2::date AND id <> $3
		  AND (referee_id = ANY($4) OR assistant_1_id = ANY($4) OR assistant_2_id = ANY($4)
		       OR fourth_official_id = ANY($4) OR assessor_id = ANY($4))
		ORDER BY kickoff ASC, id ASC`

	return r.queryMatches(ctx, query, leagueID, day, excludeMatchID, refereeIDArray(refereeIDs))
}

func (r *postgresMatchRepository) UpdateCrew(ctx context.Context, exec SQLExecutor, matchID int, update CrewUpdate) error {
	executor := r.getExecutor(exec)

	query := `
		UPDATE matches SET
			referee_id = $1, referee_label = $2,
			assistant_1_id = $3, assistant_1_label = $4,
			assistant_2_id = $5, assistant_2_label = $6,
			updated_at = NOW(), updated_by = $7`

	args := []interface{}{}
	centralID, centralLabel := slotColumns(update.Central)
	a1ID, a1Label := slotColumns(update.Assistant1)
	a2ID, a2Label := slotColumns(update.Assistant2)
	args = append(args, centralID, centralLabel, a1ID, a1Label, a2ID, a2Label, update.UpdatedBy)

	argID := 8
	if update.FourthOfficial.Present {
		id, label := slotColumns(update.FourthOfficial.Value)
		query += fmt.Sprintf(", fourth_official_id = $%d, fourth_official_label = $%d", argID, argID+1)
		args = append(args, id, label)
		argID += 2
	}
	if update.Assessor.Present {
		id, label := slotColumns(update.Assessor.Value)
		query += fmt.Sprintf(", assessor_id = $%d, assessor_label = $%d", argID, argID+1)
		args = append(args, id, label)
		argID += 2
	}

	query += fmt.Sprintf(" WHERE id = $%d", argID)
	args = append(args, matchID)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches
			(league_id, group_id, matchday_id, matchday_number, home_team_id, away_team_id, kickoff, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.LeagueID,
		match.GroupID,
		match.MatchdayID,
		match.MatchdayNumber,
		match.HomeTeamID,
		match.AwayTeamID,
		match.Kickoff,
		match.Status,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) queryMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

// slotColumns разворачивает значение слота в пару nullable-колонок:
// ровно одна из них не NULL для занятого слота.
func slotColumns(slot models.SlotAssignee) (*int, *string) {
	if id, ok := slot.RefereeID(); ok {
		return &id, nil
	}
	if label, ok := slot.Label(); ok {
		return nil, &label
	}
	return nil, nil
}

func refereeIDArray(ids []int) interface{} {
	arr := make([]int64, len(ids))
	for i, id := range ids {
		arr[i] = int64(id)
	}
	return pq.Array(arr)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_home_team_id_fkey", "matches_away_team_id_fkey":
				return ErrMatchInvalidTeam
			case "matches_referee_id_fkey", "matches_assistant_1_id_fkey", "matches_assistant_2_id_fkey",
				"matches_fourth_official_id_fkey", "matches_assessor_id_fkey":
				return ErrMatchInvalidReferee
			}
		}
	}
	return err
}
