package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type GroupStageGenerator struct{}

func NewGroupStageGenerator() Generator {
	return &GroupStageGenerator{}
}

func (g *GroupStageGenerator) Name() string {
	return "GroupStage"
}

// Generate plays every group independently. Groups come from the params, from
// the candidate's distribution, or from the best advisor candidate for the
// configured group size, in that order.
func (g *GroupStageGenerator) Generate(params GenerateParams) (Schedule, error) {
	assignment, err := resolveGroups(params)
	if err != nil {
		return Schedule{}, err
	}

	var matches []models.Match
	for _, label := range assignment.Labels() {
		group, _ := assignment.Group(label)
		for _, m := range groupFixtures(params, group) {
			m.Phase = models.PhaseGroup
			m.GroupLabel = group.Label
			m.MatchDate = jornadaDate(params.StartDate, m.Round)
			matches = append(matches, m)
		}
	}
	sortByJornada(matches)
	return Schedule{Matches: matches, Groups: &assignment}, nil
}

func groupFixtures(params GenerateParams, group models.Group) []models.Match {
	double := params.Config.DoubleRoundRobin
	var pairs [][]pairing
	switch {
	case group.Format == models.GroupTriangular && len(group.TeamIDs) == 3:
		for _, p := range triangularPairs(group.TeamIDs, double) {
			pairs = append(pairs, []pairing{p})
		}
	case group.Format == models.GroupPlayoff && len(group.TeamIDs) == 2:
		pairs = [][]pairing{{{home: group.TeamIDs[0], away: group.TeamIDs[1], leg: 1}}}
		if double {
			pairs = append(pairs, []pairing{{home: group.TeamIDs[1], away: group.TeamIDs[0], leg: 2}})
		}
	default:
		pairs = roundRobinRounds(group.TeamIDs, double)
	}

	var out []models.Match
	for r, round := range pairs {
		for slot, p := range round {
			uid := fmt.Sprintf("G%s-J%dM%d", group.Label, r+1, slot+1)
			m := newFixture(params.TournamentID, uid, p.home, p.away, r+1, slot)
			m.Leg = p.leg
			out = append(out, m)
		}
	}
	return out
}

func resolveGroups(params GenerateParams) (models.GroupAssignment, error) {
	ids := models.TeamIDs(params.Teams)
	if params.Groups != nil {
		if err := checkAssignmentCovers(*params.Groups, ids); err != nil {
			return models.GroupAssignment{}, err
		}
		return *params.Groups, nil
	}
	if params.Candidate != nil {
		return AssignGroups(ids, *params.Candidate)
	}
	candidate, ok := defaultGroupCandidate(params.Config, len(ids))
	if !ok {
		group := models.Group{Label: models.GroupLabel(0), Format: models.GroupRoundRobin, TeamIDs: ids}
		return models.GroupAssignment{Groups: []models.Group{group}}, nil
	}
	return AssignGroups(ids, candidate)
}

func defaultGroupCandidate(cfg models.TournamentConfig, n int) (models.ConfigurationCandidate, bool) {
	candidates, err := ProposeConfigurations(n, models.HintLeague)
	if err != nil {
		return models.ConfigurationCandidate{}, false
	}
	var fallback *models.ConfigurationCandidate
	for i := range candidates {
		c := candidates[i]
		if c.Format != models.FormatGroup && c.Format != models.FormatMixed {
			continue
		}
		if cfg.Format == models.FormatMixed && c.Format == models.FormatMixed {
			return c, true
		}
		if cfg.GroupSize != 0 && c.Format == models.FormatGroup && c.Groups[0].TeamCount == cfg.GroupSize {
			return c, true
		}
		if fallback == nil {
			fallback = &candidates[i]
		}
	}
	if fallback == nil {
		return models.ConfigurationCandidate{}, false
	}
	return *fallback, true
}

// checkAssignmentCovers enforces that groups and byes are a disjoint cover of the team set.
func checkAssignmentCovers(a models.GroupAssignment, ids []int) error {
	if err := checkLabels(a.Labels()); err != nil {
		return err
	}
	known := make(map[int]bool, len(ids))
	for _, id := range ids {
		known[id] = false
	}
	mark := func(id int) error {
		seen, ok := known[id]
		if !ok {
			return fmt.Errorf("%w: team %d is assigned but not in the tournament", ErrUnknownTeam, id)
		}
		if seen {
			return fmt.Errorf("%w: team %d is assigned twice", ErrStateInconsistency, id)
		}
		known[id] = true
		return nil
	}
	for _, g := range a.Groups {
		for _, id := range g.TeamIDs {
			if err := mark(id); err != nil {
				return err
			}
		}
	}
	for _, id := range a.Byes {
		if err := mark(id); err != nil {
			return err
		}
	}
	for _, id := range ids {
		if !known[id] {
			return fmt.Errorf("%w: team %d is missing from the group assignment", ErrStateInconsistency, id)
		}
	}
	return nil
}
