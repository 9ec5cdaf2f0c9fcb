package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/repositories"
	"github.com/Dosada05/tournament-engine/storage"
)

type RecordResultInput struct {
	HomeGoals     int                 `json:"home_goals"`
	AwayGoals     int                 `json:"away_goals"`
	HomePenalties *int                `json:"home_penalties,omitempty"`
	AwayPenalties *int                `json:"away_penalties,omitempty"`
	Events        []models.MatchEvent `json:"events,omitempty"`
}

func (in RecordResultInput) result() models.MatchResult {
	return models.MatchResult{
		HomeGoals:     in.HomeGoals,
		AwayGoals:     in.AwayGoals,
		HomePenalties: in.HomePenalties,
		AwayPenalties: in.AwayPenalties,
		Events:        in.Events,
	}
}

// ResultOutcome is what recording one result changed.
type ResultOutcome struct {
	Match      models.Match           `json:"match"`
	Advanced   []models.Match         `json:"advanced,omitempty"`
	ChampionID *int                   `json:"champion_id,omitempty"`
	Stage      models.TournamentStage `json:"stage"`
}

type MatchService interface {
	RecordResult(ctx context.Context, userID, tournamentID int, matchUID string, input RecordResultInput) (*ResultOutcome, error)
	ListMatches(ctx context.Context, tournamentID int, phase models.Phase) ([]models.Match, error)
}

type matchService struct {
	*engine
}

func (s *matchService) RecordResult(ctx context.Context, userID, tournamentID int, matchUID string, input RecordResultInput) (*ResultOutcome, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	t, err := s.loadOwned(ctx, userID, tournamentID)
	if err != nil {
		return nil, err
	}
	out, err := brackets.ApplyResult(models.StateOf(t), matchUID, input.result())
	if err != nil {
		return nil, err
	}

	changed := []models.Match{out.Match}
	if out.Advancement != nil {
		changed = append(changed, out.Advancement.Updated...)
	}
	t.Matches = out.State.Matches
	done, champion, err := completion(t, out)
	if err != nil {
		return nil, err
	}
	if done {
		t.Stage = models.StageCompleted
		t.ChampionID = champion
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Matches().UpdateBatch(ctx, changed); err != nil {
			return handleRepositoryError(err, "tournament", tournamentID)
		}
		if done {
			if err := tx.Tournaments().Update(ctx, t); err != nil {
				return handleRepositoryError(err, "tournament", tournamentID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "result recorded",
		slog.Int("tournament_id", tournamentID),
		slog.String("match_uid", matchUID),
		slog.Int("home_goals", input.HomeGoals),
		slog.Int("away_goals", input.AwayGoals))

	outcome := &ResultOutcome{Match: out.Match, Advanced: changed[1:], ChampionID: t.ChampionID, Stage: t.Stage}
	s.announce(ctx, t, outcome)
	if done {
		s.finish(ctx, t)
	}
	return outcome, nil
}

func (s *matchService) announce(ctx context.Context, t *models.Tournament, outcome *ResultOutcome) {
	s.broadcast(t.ID, realtime.MessageMatchUpdated, outcome.Match)
	if outcome.Match.Phase.IsKnockout() {
		s.broadcast(t.ID, realtime.MessageBracketUpdated, append([]models.Match{outcome.Match}, outcome.Advanced...))
		return
	}
	view, err := standingsOf(t, outcome.Match.GroupLabel)
	if err != nil {
		s.logger.WarnContext(ctx, "standings not pushed", slog.Int("tournament_id", t.ID), slog.Any("error", err))
		return
	}
	s.broadcast(t.ID, realtime.MessageStandingsUpdated, view)
}

// finish announces the champion and archives the final snapshot. Archiving
// failures are logged only; the result is already committed.
func (s *matchService) finish(ctx context.Context, t *models.Tournament) {
	s.logger.InfoContext(ctx, "tournament completed", slog.Int("tournament_id", t.ID), slog.Any("champion_id", t.ChampionID))
	s.broadcast(t.ID, realtime.MessageChampion, map[string]interface{}{
		"tournament_id": t.ID,
		"champion_id":   t.ChampionID,
	})
	if s.archiver == nil {
		return
	}
	snap := storage.Snapshot{
		TournamentID: t.ID,
		Name:         t.Name,
		Format:       t.Config.Format,
		ChampionID:   t.ChampionID,
		Matches:      t.Matches,
	}
	if t.Groups != nil {
		if tables, err := brackets.ComputeGroupStandings(t.Config, *t.Groups, t.Matches); err == nil {
			snap.GroupStandings = tables
		}
	} else if table, err := brackets.ComputeStandings(t.Config, t.Teams, t.Matches, ""); err == nil {
		snap.Standings = table
	}
	res, err := s.archiver.Archive(ctx, snap)
	if err != nil {
		s.logger.ErrorContext(ctx, "snapshot archive failed", slog.Int("tournament_id", t.ID), slog.Any("error", err))
		return
	}
	s.logger.InfoContext(ctx, "snapshot archived", slog.Int("tournament_id", t.ID), slog.String("location", res.Location))
}

// completion reports whether the tournament is over after out. Knockout
// brackets end with their final; league formats end when every fixture is
// played and the table leader becomes champion. Group-only tournaments end
// without a single champion.
func completion(t *models.Tournament, out brackets.Outcome) (bool, *int, error) {
	if out.Advancement != nil {
		if out.Advancement.ChampionID != nil {
			return true, models.IntPtr(*out.Advancement.ChampionID), nil
		}
		return false, nil, nil
	}
	switch t.Config.Format {
	case models.FormatKnockout, models.FormatGroupKnockout:
		return false, nil, nil
	}
	for _, m := range t.Matches {
		if !m.IsBye && !m.Played() {
			return false, nil, nil
		}
	}
	if t.Config.Format.HasGroups() {
		return true, nil, nil
	}
	table, err := brackets.ComputeStandings(t.Config, t.Teams, t.Matches, "")
	if err != nil {
		return false, nil, err
	}
	if len(table) == 0 {
		return true, nil, nil
	}
	return true, models.IntPtr(table[0].TeamID), nil
}

func (s *matchService) ListMatches(ctx context.Context, tournamentID int, phase models.Phase) ([]models.Match, error) {
	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	if phase == "" {
		return t.Matches, nil
	}
	out := make([]models.Match, 0)
	for _, m := range t.Matches {
		if m.Phase == phase {
			out = append(out, m)
		}
	}
	if len(out) == 0 && !knownPhase(phase) {
		return nil, fmt.Errorf("%w: unknown phase %q", ErrValidationFailed, phase)
	}
	return out, nil
}

func knownPhase(p models.Phase) bool {
	switch p {
	case models.PhaseLeague, models.PhaseGroup, models.PhaseRoundOf16, models.PhaseQuarterfinal, models.PhaseSemifinal, models.PhaseFinal:
		return true
	}
	return strings.HasPrefix(string(p), "round-of-")
}
