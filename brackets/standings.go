package brackets

import (
	"fmt"
	"sort"

	"github.com/Dosada05/tournament-engine/models"
)

// Table accumulates results into standings. Applying the log in pieces gives
// the same table as applying it at once.
type Table struct {
	cfg     models.TournamentConfig
	group   string
	order   []int
	entries map[int]*models.ClassificationEntry
}

// NewTable starts a zeroed table for the teams. A non-empty group restricts
// the table to matches tagged with that group label.
func NewTable(cfg models.TournamentConfig, teamIDs []int, group string) *Table {
	t := &Table{
		cfg:     cfg,
		group:   group,
		order:   make([]int, 0, len(teamIDs)),
		entries: make(map[int]*models.ClassificationEntry, len(teamIDs)),
	}
	for _, id := range teamIDs {
		if _, dup := t.entries[id]; dup {
			continue
		}
		t.order = append(t.order, id)
		t.entries[id] = &models.ClassificationEntry{TeamID: id, GroupLabel: group}
	}
	return t
}

// Apply folds one match into the table. Unplayed matches, byes and matches of
// other groups are ignored; a played match naming an unknown team is an error.
func (t *Table) Apply(m models.Match) error {
	if !m.Played() || m.IsBye || m.Result == nil {
		return nil
	}
	if t.group != "" && m.GroupLabel != t.group {
		return nil
	}
	if !m.HasBothTeams() {
		return fmt.Errorf("%w: played match %s has an empty slot", ErrStateInconsistency, m.UID)
	}
	home, ok := t.entries[*m.HomeTeamID]
	if !ok {
		return fmt.Errorf("%w: match %s references team %d", ErrUnknownTeam, m.UID, *m.HomeTeamID)
	}
	away, ok := t.entries[*m.AwayTeamID]
	if !ok {
		return fmt.Errorf("%w: match %s references team %d", ErrUnknownTeam, m.UID, *m.AwayTeamID)
	}

	hg, ag := m.Result.HomeGoals, m.Result.AwayGoals
	home.Played++
	away.Played++
	home.GoalsFor += hg
	home.GoalsAgainst += ag
	away.GoalsFor += ag
	away.GoalsAgainst += hg
	home.GoalDifference = home.GoalsFor - home.GoalsAgainst
	away.GoalDifference = away.GoalsFor - away.GoalsAgainst

	switch {
	case hg > ag:
		home.Won++
		away.Lost++
		home.Points += t.cfg.PointsForWin
		away.Points += t.cfg.PointsForLoss
	case hg < ag:
		away.Won++
		home.Lost++
		away.Points += t.cfg.PointsForWin
		home.Points += t.cfg.PointsForLoss
	default:
		home.Drawn++
		away.Drawn++
		home.Points += t.cfg.PointsForDraw
		away.Points += t.cfg.PointsForDraw
	}
	return nil
}

// ApplyAll folds matches in order, stopping at the first error.
func (t *Table) ApplyAll(matches []models.Match) error {
	for _, m := range matches {
		if err := t.Apply(m); err != nil {
			return err
		}
	}
	return nil
}

// Standings returns the ranked rows: points, then goal difference, then goals
// for, all descending. Remaining ties keep the team input order.
func (t *Table) Standings() []models.ClassificationEntry {
	out := make([]models.ClassificationEntry, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, *t.entries[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// ComputeStandings recomputes a table from scratch from the match log.
func ComputeStandings(cfg models.TournamentConfig, teams []models.Team, matches []models.Match, group string) ([]models.ClassificationEntry, error) {
	table := NewTable(cfg, models.TeamIDs(teams), group)
	if err := table.ApplyAll(matches); err != nil {
		return nil, err
	}
	return table.Standings(), nil
}

// ComputeGroupStandings builds one table per group of the assignment.
func ComputeGroupStandings(cfg models.TournamentConfig, groups models.GroupAssignment, matches []models.Match) (map[string][]models.ClassificationEntry, error) {
	out := make(map[string][]models.ClassificationEntry, len(groups.Groups))
	for _, g := range groups.Groups {
		table := NewTable(cfg, g.TeamIDs, g.Label)
		for _, m := range matches {
			if m.Phase != models.PhaseGroup {
				continue
			}
			if err := table.Apply(m); err != nil {
				return nil, fmt.Errorf("group %s: %w", g.Label, err)
			}
		}
		out[g.Label] = table.Standings()
	}
	return out, nil
}
