package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/tournament-engine/brackets"
	"github.com/Dosada05/tournament-engine/models"
	"github.com/Dosada05/tournament-engine/realtime"
	"github.com/Dosada05/tournament-engine/repositories"
)

// GroupsAll asks GetStandings for every group table at once.
const GroupsAll = "all"

type TeamInput struct {
	Name       string `json:"name"`
	Category   string `json:"category,omitempty"`
	PlayFormat string `json:"play_format,omitempty"`
	City       string `json:"city,omitempty"`
}

// ConfigInput is the tournament config as an organizer submits it. Omitted
// fields keep their defaults.
type ConfigInput struct {
	Format             models.TournamentFormat `json:"format"`
	PointsForWin       *int                    `json:"points_for_win,omitempty"`
	PointsForDraw      *int                    `json:"points_for_draw,omitempty"`
	PointsForLoss      *int                    `json:"points_for_loss,omitempty"`
	AllowDraws         *bool                   `json:"allow_draws,omitempty"`
	DoubleRoundRobin   bool                    `json:"double_round_robin,omitempty"`
	QualifiersPerGroup *int                    `json:"qualifiers_per_group,omitempty"`
	GroupSize          int                     `json:"group_size,omitempty"`
	TieBreak           models.TieBreakPolicy   `json:"tie_break,omitempty"`
}

func (c ConfigInput) build() (models.TournamentConfig, error) {
	var opts []models.ConfigOption
	if c.PointsForWin != nil || c.PointsForDraw != nil || c.PointsForLoss != nil {
		win, draw, loss := 3, 1, 0
		if c.PointsForWin != nil {
			win = *c.PointsForWin
		}
		if c.PointsForDraw != nil {
			draw = *c.PointsForDraw
		}
		if c.PointsForLoss != nil {
			loss = *c.PointsForLoss
		}
		opts = append(opts, models.WithPoints(win, draw, loss))
	}
	if c.AllowDraws != nil {
		opts = append(opts, models.WithDraws(*c.AllowDraws))
	}
	if c.DoubleRoundRobin {
		opts = append(opts, models.WithDoubleRoundRobin())
	}
	if c.QualifiersPerGroup != nil {
		opts = append(opts, models.WithQualifiersPerGroup(*c.QualifiersPerGroup))
	}
	if c.GroupSize != 0 {
		opts = append(opts, models.WithGroupSize(c.GroupSize))
	}
	if c.TieBreak != "" {
		opts = append(opts, models.WithTieBreak(c.TieBreak))
	}
	return models.NewTournamentConfig(c.Format, opts...)
}

type CreateTournamentInput struct {
	Name      string      `json:"name"`
	Config    ConfigInput `json:"config"`
	Teams     []TeamInput `json:"teams"`
	StartDate *time.Time  `json:"start_date,omitempty"`
}

// GenerateScheduleInput picks the layout of the schedule. Everything is
// optional: without a candidate or assignment the format decides the groups.
type GenerateScheduleInput struct {
	Candidate  *models.ConfigurationCandidate `json:"candidate,omitempty"`
	Assignment *models.GroupAssignment        `json:"assignment,omitempty"`
	StartDate  *time.Time                     `json:"start_date,omitempty"`
	Seed       *int64                         `json:"seed,omitempty"`
}

// StandingsView holds either one table or, for GroupsAll, a table per group.
type StandingsView struct {
	TournamentID int                                     `json:"tournament_id"`
	Group        string                                  `json:"group,omitempty"`
	Standings    []models.ClassificationEntry            `json:"standings,omitempty"`
	Groups       map[string][]models.ClassificationEntry `json:"groups,omitempty"`
}

type TournamentService interface {
	ProposeConfigurations(teamCount int, hint models.FormatHint) ([]models.ConfigurationCandidate, error)
	CreateTournament(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error)
	GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error)
	GenerateSchedule(ctx context.Context, userID, tournamentID int, input GenerateScheduleInput) (*models.Tournament, error)
	GetStandings(ctx context.Context, tournamentID int, group string) (*StandingsView, error)
}

type tournamentService struct {
	*engine
}

func (s *tournamentService) ProposeConfigurations(teamCount int, hint models.FormatHint) ([]models.ConfigurationCandidate, error) {
	return brackets.ProposeConfigurations(teamCount, hint)
}

func (s *tournamentService) CreateTournament(ctx context.Context, organizerID int, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	}
	cfg, err := input.Config.build()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if len(input.Teams) < 2 {
		return nil, fmt.Errorf("%w: a tournament needs at least two teams, got %d", ErrValidationFailed, len(input.Teams))
	}
	seen := make(map[string]bool, len(input.Teams))
	for _, team := range input.Teams {
		key := strings.ToLower(strings.TrimSpace(team.Name))
		if key == "" {
			return nil, fmt.Errorf("%w: team name is required", ErrValidationFailed)
		}
		if seen[key] {
			return nil, fmt.Errorf("%w: team %q is listed twice", ErrValidationFailed, team.Name)
		}
		seen[key] = true
	}

	tournament := &models.Tournament{
		Name:        name,
		OrganizerID: organizerID,
		Config:      cfg,
		Stage:       models.StageDraft,
		StartDate:   input.StartDate,
	}
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Tournaments().Create(ctx, tournament); err != nil {
			return fmt.Errorf("failed to create tournament: %w", err)
		}
		teams := make([]models.Team, len(input.Teams))
		for i, in := range input.Teams {
			teams[i] = models.Team{
				TournamentID: tournament.ID,
				Name:         strings.TrimSpace(in.Name),
				Category:     in.Category,
				PlayFormat:   in.PlayFormat,
				City:         in.City,
			}
		}
		if err := tx.Teams().CreateBatch(ctx, teams); err != nil {
			return handleRepositoryError(err, "tournament", tournament.ID)
		}
		tournament.Teams = teams
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("format", string(cfg.Format)),
		slog.Int("teams", len(tournament.Teams)))
	return tournament, nil
}

func (s *tournamentService) GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	return s.loadTournament(ctx, tournamentID)
}

func (s *tournamentService) GenerateSchedule(ctx context.Context, userID, tournamentID int, input GenerateScheduleInput) (*models.Tournament, error) {
	unlock := s.locks.lock(tournamentID)
	defer unlock()

	t, err := s.loadOwned(ctx, userID, tournamentID)
	if err != nil {
		return nil, err
	}
	if t.Stage != models.StageDraft || len(t.Matches) > 0 {
		return nil, fmt.Errorf("%w: tournament %d is in stage %s with %d matches", ErrScheduleExists, tournamentID, t.Stage, len(t.Matches))
	}

	params := brackets.GenerateParams{
		TournamentID: t.ID,
		Config:       t.Config,
		Teams:        t.Teams,
		Groups:       input.Assignment,
		Candidate:    input.Candidate,
		StartDate:    t.StartDate,
	}
	if input.StartDate != nil {
		params.StartDate = input.StartDate
	}
	if input.Seed != nil {
		params.Rand = brackets.NewSeededRandom(*input.Seed)
	}
	schedule, err := brackets.GenerateSchedule(params)
	if err != nil {
		return nil, err
	}

	t.Groups = schedule.Groups
	t.StartDate = params.StartDate
	t.Stage = models.StageScheduled
	if t.Config.Format.HasGroups() {
		t.Stage = models.StageGroups
	}
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Matches().CreateBatch(ctx, schedule.Matches); err != nil {
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
	t.Matches = schedule.Matches

	s.logger.InfoContext(ctx, "schedule generated",
		slog.Int("tournament_id", tournamentID),
		slog.String("stage", string(t.Stage)),
		slog.Int("matches", len(schedule.Matches)))
	s.broadcast(tournamentID, realtime.MessageScheduleCreated, t.Matches)
	return t, nil
}

func (s *tournamentService) GetStandings(ctx context.Context, tournamentID int, group string) (*StandingsView, error) {
	t, err := s.loadTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}
	return standingsOf(t, group)
}

func standingsOf(t *models.Tournament, group string) (*StandingsView, error) {
	view := &StandingsView{TournamentID: t.ID, Group: group}
	if group == GroupsAll {
		if t.Groups == nil {
			return nil, fmt.Errorf("%w: tournament %d has no groups", ErrGroupNotFound, t.ID)
		}
		tables, err := brackets.ComputeGroupStandings(t.Config, *t.Groups, t.Matches)
		if err != nil {
			return nil, err
		}
		view.Groups = tables
		return view, nil
	}

	teams := t.Teams
	if group != "" {
		if t.Groups == nil {
			return nil, fmt.Errorf("%w: tournament %d has no groups", ErrGroupNotFound, t.ID)
		}
		g, ok := t.Groups.Group(group)
		if !ok {
			return nil, fmt.Errorf("%w: %q in tournament %d", ErrGroupNotFound, group, t.ID)
		}
		teams = teamsByID(t.Teams, g.TeamIDs)
	}
	table, err := brackets.ComputeStandings(t.Config, teams, t.Matches, group)
	if err != nil {
		return nil, err
	}
	view.Standings = table
	return view, nil
}

func teamsByID(teams []models.Team, ids []int) []models.Team {
	byID := make(map[int]models.Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}
	out := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		if team, ok := byID[id]; ok {
			out = append(out, team)
		}
	}
	return out
}
