package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/repositories"
)

type SeedKnockoutInput struct {
	Seed *int64 `json:"seed,omitempty"`
}

// BracketRound is one column of the knockout bracket.
type BracketRound struct {
	Round   int            `json:"round"`
	Phase   models.Phase   `json:"phase"`
	Matches []models.Match `json:"matches"`
}

type BracketView struct {
	TournamentID int            `json:"tournament_id"`
	Rounds       []BracketRound `json:"rounds"`
	ChampionID   *int           `json:"champion_id,omitempty"`
}

type BracketService interface {
	SeedKnockout(ctx context.Context, userID, tournamentID int, input SeedKnockoutInput) ([]models.Match, error)
	GetBracket(ctx context.Context, tournamentID int) (*BracketView, error)
}

type bracketService struct {
	*engine
}

func (s *bracketService) SeedKnockout(ctx context.Context, userID, tournamentID int, input SeedKnockoutInput) ([]models.Match, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	t, err := s.loadOwned(ctx, userID, tournamentID)
	if err != nil {
		return nil, err
	}
	var rng brackets.Randomizer
	if input.Seed != nil {
		rng = brackets.NewSeededRandom(*input.Seed)
	}
	bracket, err := brackets.SeedKnockoutFromGroups(models.StateOf(t), rng)
	if err != nil {
		return nil, err
	}

	t.Stage = models.StageKnockoutSeeded
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Matches().CreateBatch(ctx, bracket); err != nil {
			return handleRepositoryError(err, "tournament", tournamentID)
		}
		if err := tx.Tournaments().Update(ctx, t); err != nil {
			return handleRepositoryError(err, "tournament", tournamentID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "knockout seeded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("matches", len(bracket)))
	s.broadcast(tournamentID, realtime.MessageBracketUpdated, bracket)
	return bracket, nil
}

func (s *bracketService) GetBracket(ctx context.Context, tournamentID int) (*BracketView, error) {
	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	byRound := make(map[int][]models.Match)
	for _, m := range t.Matches {
		if m.Phase.IsKnockout() {
			byRound[m.Round] = append(byRound[m.Round], m)
		}
	}
	if len(byRound) == 0 {
		return nil, fmt.Errorf("%w: tournament %d has no knockout bracket", ErrNotFound, tournamentID)
	}

	view := &BracketView{TournamentID: t.ID, ChampionID: t.ChampionID}
	for round, matches := range byRound {
		sort.Slice(matches, func(i, j int) bool { return matches[i].Slot < matches[j].Slot })
		view.Rounds = append(view.Rounds, BracketRound{Round: round, Phase: matches[0].Phase, Matches: matches})
	}
	sort.Slice(view.Rounds, func(i, j int) bool { return view.Rounds[i].Round < view.Rounds[j].Round })
	return view, nil
}
