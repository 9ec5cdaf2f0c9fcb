package services

import (
	"log/slog"

	"github.com/Dosada05/tournament-engine/repositories"
)

type Dependencies struct {
	Store    repositories.Store
	Notifier Notifier
	// Archiver is optional; without it completed tournaments are not archived.
	Archiver Archiver
	Logger   *slog.Logger
}

// Services bundles the services of one process. They share a single writer
// lock per tournament.
type Services struct {
	Tournaments TournamentService
	Matches     MatchService
	Brackets    BracketService
}

func New(deps Dependencies) *Services {
	e := newEngine(deps.Store, newTournamentLocks(), deps.Notifier, deps.Archiver, deps.Logger)
	return &Services{
		Tournaments: &tournamentService{engine: e},
		Matches:     &matchService{engine: e},
		Brackets:    &bracketService{engine: e},
	}
}
