package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leaguedesk/officiating-system/models"
)

var (
	ErrLeagueNotFound = errors.New("league not found")
	ErrGroupNotFound  = errors.New("group not found")
)

type LeagueRepository interface {
	GetByID(ctx context.Context, id int) (*models.League, error)
	GetGroup(ctx context.Context, leagueID, groupID int) (*models.Group, error)
}

type postgresLeagueRepository struct {
	db *sql.DB
}

func NewPostgresLeagueRepository(db *sql.DB) LeagueRepository {
	return &postgresLeagueRepository{db: db}
}

func (r *postgresLeagueRepository) GetByID(ctx context.Context, id int) (*models.League, error) {
	query := `
		SELECT id, name, season, rcs_tolerance, rcs_policy, created_at
		FROM leagues
		WHERE id = $1`

	l := &models.League{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.Season, &l.RCSTolerance, &l.RCSPolicy, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLeagueNotFound
		}
		return nil, fmt.Errorf("failed to scan league by id %d: %w", id, err)
	}
	return l, nil
}

func (r *postgresLeagueRepository) GetGroup(ctx context.Context, leagueID, groupID int) (*models.Group, error) {
	query := `SELECT id, league_id, name FROM groups WHERE id = $1 AND league_id = $2`

	g := &models.Group{}
	err := r.db.QueryRowContext(ctx, query, groupID, leagueID).Scan(&g.ID, &g.LeagueID, &g.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGroupNotFound
		}
		return nil, fmt.Errorf("failed to scan group %d in league %d: %w", groupID, leagueID, err)
	}
	return g, nil
}
