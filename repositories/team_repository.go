package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/lib/pq"
)

type postgresTeamRepository struct {
	exec SQLExecutor
}

func (r *postgresTeamRepository) CreateBatch(ctx context.Context, teams []models.Team) error {
	query := `
		INSERT INTO teams (tournament_id, name, category, play_format, city)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	for i := range teams {
		t := &teams[i]
		err := r.exec.QueryRowContext(ctx, query, t.TournamentID, t.Name, t.Category, t.PlayFormat, t.City).
			Scan(&t.ID, &t.CreatedAt)
		if err != nil {
			return handleTeamError(err)
		}
	}
	return nil
}

func (r *postgresTeamRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error) {
	query := `
		SELECT id, tournament_id, name, category, play_format, city, created_at
		FROM teams
		WHERE tournament_id = $1
		ORDER BY id ASC`
	rows, err := r.exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.TournamentID, &t.Name, &t.Category, &t.PlayFormat, &t.City, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return teams, nil
}

func handleTeamError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch {
	case pqErr.Code == "23503" && pqErr.Constraint == "teams_tournament_id_fkey":
		return ErrTournamentInvalid
	case pqErr.Code == "23505" && pqErr.Constraint == "teams_tournament_name_key":
		return ErrTeamNameConflict
	}
	return err
}
