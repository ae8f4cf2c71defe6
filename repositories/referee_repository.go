package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leaguedesk/officiating-system/models"
	"github.com/lib/pq"
)

var ErrRefereeNotFound = errors.New("referee not found")

type RefereeRepository interface {
	GetByID(ctx context.Context, id int) (*models.Referee, error)
	ListByLeague(ctx context.Context, leagueID int) ([]*models.Referee, error)
	ListByIDs(ctx context.Context, ids []int) ([]*models.Referee, error)
	UpdatePhotoKey(ctx context.Context, refereeID int, photoKey *string) error
}

type postgresRefereeRepository struct {
	db *sql.DB
}

func NewPostgresRefereeRepository(db *sql.DB) RefereeRepository {
	return &postgresRefereeRepository{db: db}
}

const refereeColumns = `
	id, league_id, first_name, last_name, email, status, tier,
	zones, allowed_roles, can_assess, competency_override, photo_key, created_at`

func scanReferee(row interface{ Scan(dest ...interface{}) error }) (*models.Referee, error) {
	ref := &models.Referee{}
	err := row.Scan(
		&ref.ID, &ref.LeagueID, &ref.FirstName, &ref.LastName, &ref.Email,
		&ref.Status, &ref.Tier,
		pq.Array(&ref.Zones), pq.Array(&ref.AllowedRoles),
		&ref.CanAssess, &ref.CompetencyOverride, &ref.PhotoKey, &ref.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return ref, nil
}

func (r *postgresRefereeRepository) GetByID(ctx context.Context, id int) (*models.Referee, error) {
	query := `SELECT ` + refereeColumns + ` FROM referees WHERE id = $1`

	ref, err := scanReferee(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRefereeNotFound
		}
		return nil, fmt.Errorf("failed to scan referee by id %d: %w", id, err)
	}
	return ref, nil
}

func (r *postgresRefereeRepository) ListByLeague(ctx context.Context, leagueID int) ([]*models.Referee, error) {
	query := `SELECT ` + refereeColumns + `
		FROM referees
		WHERE league_id = $1
		ORDER BY last_name ASC, first_name ASC`

	return r.queryReferees(ctx, query, leagueID)
}

func (r *postgresRefereeRepository) ListByIDs(ctx context.Context, ids []int) ([]*models.Referee, error) {
	if len(ids) == 0 {
		return []*models.Referee{}, nil
	}
	query := `SELECT ` + refereeColumns + ` FROM referees WHERE id = ANY($1) ORDER BY id ASC`
	return r.queryReferees(ctx, query, refereeIDArray(ids))
}

func (r *postgresRefereeRepository) UpdatePhotoKey(ctx context.Context, refereeID int, photoKey *string) error {
	query := `UPDATE referees SET photo_key = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, photoKey, refereeID)
	if err != nil {
		return fmt.Errorf("failed to update photo key for referee %d: %w", refereeID, err)
	}
	return checkAffectedRows(result, ErrRefereeNotFound)
}

func (r *postgresRefereeRepository) queryReferees(ctx context.Context, query string, args ...interface{}) ([]*models.Referee, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query referees: %w", err)
	}
	defer rows.Close()

	referees := make([]*models.Referee, 0)
	for rows.Next() {
		ref, scanErr := scanReferee(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan referee row: %w", scanErr)
		}
		referees = append(referees, ref)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during referee rows iteration: %w", err)
	}
	return referees, nil
}
