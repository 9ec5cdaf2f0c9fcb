package brackets

import (
	"testing"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leagueState(t *testing.T, n int, opts ...models.ConfigOption) models.TournamentState {
	t.Helper()
	cfg := mustConfig(t, models.FormatLeague, opts...)
	teams := teamRange(n)
	sched, err := GenerateSchedule(GenerateParams{TournamentID: 1, Config: cfg, Teams: teams})
	require.NoError(t, err)
	return stateFor(cfg, teams, sched.Matches)
}

func entryFor(t *testing.T, rows []models.ClassificationEntry, teamID int) models.ClassificationEntry {
	t.Helper()
	for _, r := range rows {
		if r.TeamID == teamID {
			return r
		}
	}
	t.Fatalf("team %d not in standings", teamID)
	return models.ClassificationEntry{}
}

func TestStandingsAfterTwoResults(t *testing.T) {
	state := leagueState(t, 4)
	state = play(t, state, 1, 2, 1, 2)
	state = play(t, state, 3, 0, 0, 4)
	state = play(t, state, 1, 1, 1, 3)

	rows, err := ComputeStandings(state.Config, state.Teams, state.Matches, "")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	t1 := entryFor(t, rows, 1)
	assert.Equal(t, 2, t1.Played)
	assert.Equal(t, 1, t1.Won)
	assert.Equal(t, 1, t1.Drawn)
	assert.Equal(t, 0, t1.Lost)
	assert.Equal(t, 3, t1.GoalsFor)
	assert.Equal(t, 2, t1.GoalsAgainst)
	assert.Equal(t, 1, t1.GoalDifference)
	assert.Equal(t, 4, t1.Points)
	assert.Equal(t, 1, t1.Rank)

	t2 := entryFor(t, rows, 2)
	assert.Equal(t, 1, t2.Lost)
	assert.Equal(t, 0, t2.Points)

	t3 := entryFor(t, rows, 3)
	assert.Equal(t, 2, t3.Played)
	assert.Equal(t, 2, t3.Drawn)
	assert.Equal(t, 2, t3.Points)
	assert.Equal(t, 2, t3.Rank)

	t4 := entryFor(t, rows, 4)
	assert.Equal(t, 1, t4.Played)
	assert.Equal(t, 1, t4.Points)
	assert.Equal(t, 3, t4.Rank)
}

func TestStandingsTieBreaks(t *testing.T) {
	state := leagueState(t, 3)
	state = play(t, state, 1, 1, 0, 2)
	state = play(t, state, 3, 3, 0, 2)
	state = play(t, state, 1, 0, 0, 3)

	rows, err := ComputeStandings(state.Config, state.Teams, state.Matches, "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[0].TeamID, "better goal difference")
	assert.Equal(t, 1, rows[1].TeamID)
	assert.Equal(t, 2, rows[2].TeamID)
	for i, r := range rows {
		assert.Equal(t, i+1, r.Rank)
	}
}

func TestStandingsGoalsForBreaksTie(t *testing.T) {
	state := leagueState(t, 4)
	state = play(t, state, 1, 3, 2, 3)
	state = play(t, state, 2, 1, 0, 4)

	rows, err := ComputeStandings(state.Config, state.Teams, state.Matches, "")
	require.NoError(t, err)
	assert.Equal(t, 1, rows[0].TeamID)
	assert.Equal(t, 2, rows[1].TeamID)
}

func TestStandingsCustomPoints(t *testing.T) {
	state := leagueState(t, 2, models.WithPoints(2, 1, 0))
	state = play(t, state, 2, 1, 0, 1)
	rows, err := ComputeStandings(state.Config, state.Teams, state.Matches, "")
	require.NoError(t, err)
	assert.Equal(t, 2, rows[0].TeamID)
	assert.Equal(t, 2, rows[0].Points)
}

func TestStandingsIdempotentAndOrderFree(t *testing.T) {
	state := leagueState(t, 6)
	scores := [][2]int{{2, 1}, {0, 0}, {1, 3}, {4, 4}, {1, 0}, {0, 2}, {3, 1}, {1, 1}, {2, 0}}
	for i, s := range scores {
		m := state.Matches[i]
		out, err := ApplyResult(state, m.UID, models.MatchResult{HomeGoals: s[0], AwayGoals: s[1]})
		require.NoError(t, err)
		state = out.State
	}

	first, err := ComputeStandings(state.Config, state.Teams, state.Matches, "")
	require.NoError(t, err)
	second, err := ComputeStandings(state.Config, state.Teams, state.Matches, "")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	reversed := make([]models.Match, len(state.Matches))
	for i, m := range state.Matches {
		reversed[len(reversed)-1-i] = m
	}
	fromReversed, err := ComputeStandings(state.Config, state.Teams, reversed, "")
	require.NoError(t, err)
	assert.Equal(t, first, fromReversed)

	// Folding the log in two pieces matches folding it at once.
	table := NewTable(state.Config, models.TeamIDs(state.Teams), "")
	require.NoError(t, table.ApplyAll(state.Matches[:4]))
	require.NoError(t, table.ApplyAll(state.Matches[4:]))
	assert.Equal(t, first, table.Standings())
}

func TestStandingsIgnoresPendingAndByes(t *testing.T) {
	cfg := mustConfig(t, models.FormatKnockout)
	teams := teamRange(3)
	sched, err := GenerateSchedule(GenerateParams{Config: cfg, Teams: teams, Rand: keepOrder{}})
	require.NoError(t, err)

	rows, err := ComputeStandings(cfg, teams, sched.Matches, "")
	require.NoError(t, err)
	for _, r := range rows {
		assert.Zero(t, r.Played)
		assert.Zero(t, r.Points)
	}
}

func TestStandingsUnknownTeam(t *testing.T) {
	cfg := mustConfig(t, models.FormatLeague)
	m := models.Match{
		UID:        "J1M1",
		HomeTeamID: models.IntPtr(1),
		AwayTeamID: models.IntPtr(99),
		Phase:      models.PhaseLeague,
		Status:     models.MatchStatusPlayed,
		Result:     &models.MatchResult{HomeGoals: 1},
	}
	_, err := ComputeStandings(cfg, teamRange(2), []models.Match{m}, "")
	assert.ErrorIs(t, err, ErrUnknownTeam)
	assert.ErrorIs(t, err, ErrStateInconsistency)
}

func TestGroupStandings(t *testing.T) {
	cfg := mustConfig(t, models.FormatGroup, models.WithGroupSize(3))
	teams := teamRange(6)
	sched, err := GenerateSchedule(GenerateParams{Config: cfg, Teams: teams})
	require.NoError(t, err)
	require.NotNil(t, sched.Groups)
	state := stateFor(cfg, teams, sched.Matches)
	state.Groups = sched.Groups

	state = play(t, state, 1, 2, 0, 2)
	state = play(t, state, 5, 1, 0, 4)

	tables, err := ComputeGroupStandings(cfg, *state.Groups, state.Matches)
	require.NoError(t, err)
	require.Len(t, tables, 2)
	assert.Len(t, tables["A"], 3)
	assert.Equal(t, 1, tables["A"][0].TeamID)
	assert.Equal(t, "A", tables["A"][0].GroupLabel)
	assert.Equal(t, 5, tables["B"][0].TeamID)
	assert.Equal(t, 1, tables["B"][0].Played)

	onlyA, err := ComputeStandings(cfg, teams, state.Matches, "A")
	require.NoError(t, err)
	assert.Zero(t, entryFor(t, onlyA, 5).Played, "group B match counted in group A table")
	assert.Equal(t, 3, entryFor(t, onlyA, 1).Points)
}
