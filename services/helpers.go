package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/storage"
	"golang.org/x/sync/errgroup"
)

// Notifier pushes messages to everyone watching a tournament. *realtime.Hub
// implements it.
type Notifier interface {
	BroadcastToRoom(roomID string, message realtime.Message)
}

// Archiver stores the final picture of a tournament. *storage.SnapshotArchiver
// implements it.
type Archiver interface {
	Archive(ctx context.Context, snap storage.Snapshot) (*storage.UploadResult, error)
}

type noopNotifier struct{}

func (noopNotifier) BroadcastToRoom(string, realtime.Message) {}

// tournamentLocks gives every tournament its own writer lock. The engine
// assumes a single writer per tournament.
type tournamentLocks struct {
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func newTournamentLocks() *tournamentLocks {
	return &tournamentLocks{locks: make(map[int]*sync.Mutex)}
}

func (l *tournamentLocks) lock(tournamentID int) func() {
	l.mu.Lock()
	m, ok := l.locks[tournamentID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[tournamentID] = m
	}
	l.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// engine holds what every service needs to load, change and announce a
// tournament.
type engine struct {
	store    repositories.Store
	locks    *tournamentLocks
	notifier Notifier
	archiver Archiver
	logger   *slog.Logger
}

func newEngine(store repositories.Store, locks *tournamentLocks, notifier Notifier, archiver Archiver, logger *slog.Logger) *engine {
	if locks == nil {
		locks = newTournamentLocks()
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &engine{store: store, locks: locks, notifier: notifier, archiver: archiver, logger: logger}
}

// loadTournament reads the tournament, its teams and its matches in parallel.
func (e *engine) loadTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	var (
		tournament *models.Tournament
		teams      []models.Team
		matches    []models.Match
	)
	store := e.store
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := store.Tournaments().GetByID(gCtx, tournamentID)
		if err != nil {
			return handleRepositoryError(err, "tournament", tournamentID)
		}
		tournament = t
		return nil
	})
	g.Go(func() error {
		list, err := store.Teams().ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list teams of tournament %d: %w", tournamentID, err)
		}
		teams = list
		return nil
	})
	g.Go(func() error {
		list, err := store.Matches().ListByTournament(gCtx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to list matches of tournament %d: %w", tournamentID, err)
		}
		matches = list
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	tournament.Teams = teams
	tournament.Matches = matches
	return tournament, nil
}

// loadOwned loads a tournament and checks that the user organizes it.
func (e *engine) loadOwned(ctx context.Context, userID, tournamentID int) (*models.Tournament, error) {
	t, err := e.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.OrganizerID != userID {
		return nil, fmt.Errorf("%w: user %d does not organize tournament %d", ErrForbiddenOperation, userID, tournamentID)
	}
	return t, nil
}

func (e *engine) broadcast(tournamentID int, messageType string, payload interface{}) {
	e.notifier.BroadcastToRoom(realtime.RoomForTournament(tournamentID), realtime.Message{
		Type:    messageType,
		Payload: payload,
	})
}

func handleRepositoryError(err error, entity string, id int) error {
	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return fmt.Errorf("%w: id %d", ErrTournamentNotFound, id)
	case errors.Is(err, repositories.ErrMatchNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, repositories.ErrMatchConflict):
		return fmt.Errorf("%w: %v", ErrScheduleExists, err)
	case errors.Is(err, repositories.ErrTournamentInvalid),
		errors.Is(err, repositories.ErrTeamInvalid),
		errors.Is(err, repositories.ErrTeamNameConflict):
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	default:
		return fmt.Errorf("failed to access %s %d: %w", entity, id, err)
	}
}
