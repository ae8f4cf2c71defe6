package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leaguedesk/officiating-system/models"
)

var ErrMatchdayNotFound = errors.New("matchday not found")

type MatchdayRepository interface {
	GetByID(ctx context.Context, id int) (*models.Matchday, error)
	Create(ctx context.Context, exec SQLExecutor, matchday *models.Matchday) error
	ListByGroup(ctx context.Context, groupID int) ([]*models.Matchday, error)
}

type postgresMatchdayRepository struct {
	db *sql.DB
}

func NewPostgresMatchdayRepository(db *sql.DB) MatchdayRepository {
	return &postgresMatchdayRepository{db: db}
}

func (r *postgresMatchdayRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchdayRepository) GetByID(ctx context.Context, id int) (*models.Matchday, error) {
	query := `SELECT id, group_id, number, date FROM matchdays WHERE id = $1`

	md := &models.Matchday{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&md.ID, &md.GroupID, &md.Number, &md.Date)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchdayNotFound
		}
		return nil, fmt.Errorf("failed to scan matchday by id %d: %w", id, err)
	}
	return md, nil
}

func (r *postgresMatchdayRepository) Create(ctx context.Context, exec SQLExecutor, matchday *models.Matchday) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matchdays (group_id, number, date)
		VALUES ($1, $2, $3)
		RETURNING id`

	return executor.QueryRowContext(ctx, query, matchday.GroupID, matchday.Number, matchday.Date).Scan(&matchday.ID)
}

func (r *postgresMatchdayRepository) ListByGroup(ctx context.Context, groupID int) ([]*models.Matchday, error) {
	query := `SELECT id, group_id, number, date FROM matchdays WHERE group_id = $1 ORDER BY number ASC`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchdays for group %d: %w", groupID, err)
	}
	defer rows.Close()

	matchdays := make([]*models.Matchday, 0)
	for rows.Next() {
		var md models.Matchday
		if scanErr := rows.Scan(&md.ID, &md.GroupID, &md.Number, &md.Date); scanErr != nil {
			return nil, fmt.Errorf("failed to scan matchday row: %w", scanErr)
		}
		matchdays = append(matchdays, &md)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during matchday rows iteration: %w", err)
	}
	return matchdays, nil
}
