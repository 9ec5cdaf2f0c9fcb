package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

var (
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrMatchConflict       = errors.New("match uid already exists in tournament")
	ErrTournamentInvalid   = errors.New("tournament reference invalid")
	ErrTeamInvalid         = errors.New("team reference invalid")
	ErrTeamNameConflict    = errors.New("team name already used in tournament")
	ErrCorruptStoredRecord = errors.New("stored record could not be decoded")
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	// Update persists stage, groups, start date and champion.
	Update(ctx context.Context, tournament *models.Tournament) error
}

type TeamRepository interface {
	CreateBatch(ctx context.Context, teams []models.Team) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Team, error)
}

type MatchRepository interface {
	CreateBatch(ctx context.Context, matches []models.Match) error
	ListByTournament(ctx context.Context, tournamentID int) ([]models.Match, error)
	// UpdateBatch rewrites matches addressed by tournament id and uid.
	UpdateBatch(ctx context.Context, matches []models.Match) error
}

// Store groups the repositories of one backend. WithinTx runs fn against a
// store whose writes commit together or not at all.
type Store interface {
	Tournaments() TournamentRepository
	Teams() TeamRepository
	Matches() MatchRepository
	WithinTx(ctx context.Context, fn func(Store) error) error
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}
