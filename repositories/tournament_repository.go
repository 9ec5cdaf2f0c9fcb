package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type postgresTournamentRepository struct {
	exec SQLExecutor
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	configJSON, err := json.Marshal(t.Config)
	if err != nil {
		return fmt.Errorf("encode tournament config: %w", err)
	}
	groupsJSON, err := encodeGroups(t.Groups)
	if err != nil {
		return err
	}
	if t.Stage == "" {
		t.Stage = models.StageDraft
	}
	query := `
		INSERT INTO tournaments (name, organizer_id, config_json, stage, groups_json, start_date, champion_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	return r.exec.QueryRowContext(ctx, query,
		t.Name, t.OrganizerID, string(configJSON), t.Stage, groupsJSON, t.StartDate, t.ChampionID,
	).Scan(&t.ID, &t.CreatedAt)
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, organizer_id, config_json, stage, groups_json, start_date, champion_id, created_at
		FROM tournaments
		WHERE id = $1`

	var (
		t          models.Tournament
		configJSON []byte
		groupsJSON []byte
		champion   sql.NullInt64
		startDate  sql.NullTime
	)
	err := r.exec.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.OrganizerID, &configJSON, &t.Stage, &groupsJSON, &startDate, &champion, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}

	cfg, err := models.ParseTournamentConfig(configJSON)
	if err != nil {
		return nil, fmt.Errorf("%w: tournament %d config: %v", ErrCorruptStoredRecord, id, err)
	}
	t.Config = cfg
	if len(groupsJSON) > 0 {
		var groups models.GroupAssignment
		if err := json.Unmarshal(groupsJSON, &groups); err != nil {
			return nil, fmt.Errorf("%w: tournament %d groups: %v", ErrCorruptStoredRecord, id, err)
		}
		t.Groups = &groups
	}
	if startDate.Valid {
		t.StartDate = &startDate.Time
	}
	if champion.Valid {
		t.ChampionID = models.IntPtr(int(champion.Int64))
	}
	return &t, nil
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	groupsJSON, err := encodeGroups(t.Groups)
	if err != nil {
		return err
	}
	query := `
		UPDATE tournaments
		SET stage = $1, groups_json = $2, start_date = $3, champion_id = $4
		WHERE id = $5`
	result, err := r.exec.ExecContext(ctx, query, t.Stage, groupsJSON, t.StartDate, t.ChampionID, t.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// encodeGroups returns a NULL-able text value for the jsonb column.
func encodeGroups(groups *models.GroupAssignment) (sql.NullString, error) {
	if groups == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(groups)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode group assignment: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
