package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/leaguedesk/officiating-system/models"
)

var ErrTeamNotFound = errors.New("team not found")

type TeamRepository interface {
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByGroup(ctx context.Context, leagueID, groupID int) ([]*models.Team, error)
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `
		SELECT id, league_id, group_id, name, classification, logo_key
		FROM teams
		WHERE id = $1`

	t := &models.Team{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.LeagueID, &t.GroupID, &t.Name, &t.Classification, &t.LogoKey,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to scan team by id %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTeamRepository) ListByGroup(ctx context.Context, leagueID, groupID int) ([]*models.Team, error) {
	query := `
		SELECT id, league_id, group_id, name, classification, logo_key
		FROM teams
		WHERE league_id = $1 AND group_id = $2
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, leagueID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams for group %d: %w", groupID, err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		var t models.Team
		if scanErr := rows.Scan(&t.ID, &t.LeagueID, &t.GroupID, &t.Name, &t.Classification, &t.LogoKey); scanErr != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", scanErr)
		}
		teams = append(teams, &t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during team rows iteration: %w", err)
	}
	return teams, nil
}
