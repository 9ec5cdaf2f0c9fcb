package brackets

import (
	"testing"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/stretchr/testify/require"
)

func makeTeams(ids ...int) []models.Team {
	teams := make([]models.Team, len(ids))
	for i, id := range ids {
		teams[i] = models.Team{ID: id, TournamentID: 1}
	}
	return teams
}

func teamRange(n int) []models.Team {
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i + 1
	}
	return makeTeams(ids...)
}

func mustConfig(t *testing.T, format models.TournamentFormat, opts ...models.ConfigOption) models.TournamentConfig {
	t.Helper()
	cfg, err := models.NewTournamentConfig(format, opts...)
	require.NoError(t, err)
	return cfg
}

func stateFor(cfg models.TournamentConfig, teams []models.Team, matches []models.Match) models.TournamentState {
	return models.TournamentState{
		TournamentID: 1,
		Config:       cfg,
		Stage:        models.StageScheduled,
		Teams:        teams,
		Matches:      matches,
	}
}

// findPair returns the fixture between a and b in either orientation.
func findPair(t *testing.T, matches []models.Match, a, b int) models.Match {
	t.Helper()
	for _, m := range matches {
		if !m.HasBothTeams() {
			continue
		}
		h, w := *m.HomeTeamID, *m.AwayTeamID
		if (h == a && w == b) || (h == b && w == a) {
			return m
		}
	}
	t.Fatalf("no fixture between %d and %d", a, b)
	return models.Match{}
}

// play records "a ga-gb b" whichever side a is on.
func play(t *testing.T, state models.TournamentState, a int, ga, gb int, b int) models.TournamentState {
	t.Helper()
	m := findPair(t, state.Matches, a, b)
	result := models.MatchResult{HomeGoals: ga, AwayGoals: gb}
	if *m.HomeTeamID != a {
		result = models.MatchResult{HomeGoals: gb, AwayGoals: ga}
	}
	out, err := ApplyResult(state, m.UID, result)
	require.NoError(t, err)
	return out.State
}

func matchByUID(t *testing.T, matches []models.Match, uid string) models.Match {
	t.Helper()
	for _, m := range matches {
		if m.UID == uid {
			return m
		}
	}
	t.Fatalf("match %s not found", uid)
	return models.Match{}
}

// keepOrder is a Randomizer that leaves the draw as given.
type keepOrder struct{}

func (keepOrder) Shuffle(int, func(i, j int)) {}

func pens(home, away int) (*int, *int) {
	return models.IntPtr(home), models.IntPtr(away)
}
