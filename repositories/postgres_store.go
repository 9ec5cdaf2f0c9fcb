package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

type postgresStore struct {
	db   *sql.DB
	exec SQLExecutor
}

// NewPostgresStore wraps a database handle opened with the lib/pq driver.
func NewPostgresStore(db *sql.DB) Store {
	return &postgresStore{db: db, exec: db}
}

func (s *postgresStore) Tournaments() TournamentRepository {
	return &postgresTournamentRepository{exec: s.exec}
}

func (s *postgresStore) Teams() TeamRepository {
	return &postgresTeamRepository{exec: s.exec}
}

func (s *postgresStore) Matches() MatchRepository {
	return &postgresMatchRepository{exec: s.exec}
}

func (s *postgresStore) WithinTx(ctx context.Context, fn func(Store) error) (err error) {
	if _, inTx := s.exec.(*sql.Tx); inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("rollback failed: %v (original error: %v)", rbErr, err)
			}
		} else if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()
	return fn(&postgresStore{db: s.db, exec: tx})
}
