package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/lib/pq"
)

type postgresMatchRepository struct {
	exec SQLExecutor
}

const matchColumns = `id, tournament_id, uid, home_team_id, away_team_id, round, slot, leg, phase,
	group_label, is_bye, status, result_json, winner_team_id, match_date`

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, matches []models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, uid, home_team_id, away_team_id, round, slot, leg, phase,
			 group_label, is_bye, status, result_json, winner_team_id, match_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	for i := range matches {
		m := &matches[i]
		result, err := encodeResult(m.Result)
		if err != nil {
			return err
		}
		err = r.exec.QueryRowContext(ctx, query,
			m.TournamentID, m.UID, m.HomeTeamID, m.AwayTeamID, m.Round, m.Slot, m.Leg, m.Phase,
			m.GroupLabel, m.IsBye, m.Status, result, m.WinnerTeamID, m.MatchDate,
		).Scan(&m.ID)
		if err != nil {
			return handleMatchError(err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches
		WHERE tournament_id = $1
		ORDER BY id ASC`
	rows, err := r.exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]models.Match, 0)
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) UpdateBatch(ctx context.Context, matches []models.Match) error {
	query := `
		UPDATE matches
		SET home_team_id = $1, away_team_id = $2, status = $3, result_json = $4, winner_team_id = $5, match_date = $6
		WHERE tournament_id = $7 AND uid = $8`
	for _, m := range matches {
		result, err := encodeResult(m.Result)
		if err != nil {
			return err
		}
		res, err := r.exec.ExecContext(ctx, query,
			m.HomeTeamID, m.AwayTeamID, m.Status, result, m.WinnerTeamID, m.MatchDate, m.TournamentID, m.UID)
		if err != nil {
			return handleMatchError(err)
		}
		if err := checkAffectedRows(res, ErrMatchNotFound); err != nil {
			return fmt.Errorf("%w: %s", err, m.UID)
		}
	}
	return nil
}

func scanMatch(row interface{ Scan(...interface{}) error }) (models.Match, error) {
	var (
		m          models.Match
		home, away sql.NullInt64
		winner     sql.NullInt64
		resultJSON []byte
		matchDate  sql.NullTime
	)
	err := row.Scan(&m.ID, &m.TournamentID, &m.UID, &home, &away, &m.Round, &m.Slot, &m.Leg, &m.Phase,
		&m.GroupLabel, &m.IsBye, &m.Status, &resultJSON, &winner, &matchDate)
	if err != nil {
		return models.Match{}, err
	}
	m.HomeTeamID = nullableInt(home)
	m.AwayTeamID = nullableInt(away)
	m.WinnerTeamID = nullableInt(winner)
	if matchDate.Valid {
		m.MatchDate = &matchDate.Time
	}
	if len(resultJSON) > 0 {
		var result models.MatchResult
		if err := json.Unmarshal(resultJSON, &result); err != nil {
			return models.Match{}, fmt.Errorf("%w: match %s result: %v", ErrCorruptStoredRecord, m.UID, err)
		}
		m.Result = &result
	}
	return m, nil
}

func nullableInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return models.IntPtr(int(v.Int64))
}

func encodeResult(result *models.MatchResult) (sql.NullString, error) {
	if result == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(result)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode match result: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func handleMatchError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505": // unique_violation
		return ErrMatchConflict
	case "23503": // foreign_key_violation
		switch pqErr.Constraint {
		case "matches_tournament_id_fkey":
			return ErrTournamentInvalid
		case "matches_home_team_id_fkey", "matches_away_team_id_fkey", "matches_winner_team_id_fkey":
			return ErrTeamInvalid
		}
	}
	return err
}
