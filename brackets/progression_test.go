package brackets

import (
	"testing"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func knockoutState(t *testing.T, n int, opts ...models.ConfigOption) models.TournamentState {
	t.Helper()
	cfg := mustConfig(t, models.FormatKnockout, opts...)
	teams := teamRange(n)
	sched, err := GenerateSchedule(GenerateParams{TournamentID: 1, Config: cfg, Teams: teams, Rand: keepOrder{}})
	require.NoError(t, err)
	return stateFor(cfg, teams, sched.Matches)
}

func TestApplyResultAdvancesWinner(t *testing.T) {
	state := knockoutState(t, 4)

	out, err := ApplyResult(state, "KO-R1M1", models.MatchResult{HomeGoals: 2, AwayGoals: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, *out.Match.WinnerTeamID)
	require.NotNil(t, out.Advancement)
	require.NotNil(t, out.Advancement.Next)
	assert.Equal(t, "KO-R2M1", out.Advancement.Next.UID)
	assert.Equal(t, 1, *out.Advancement.Next.HomeTeamID)
	assert.Nil(t, out.Advancement.Next.AwayTeamID)
	assert.Nil(t, out.Advancement.ChampionID)

	out, err = ApplyResult(out.State, "KO-R1M2", models.MatchResult{HomeGoals: 0, AwayGoals: 1})
	require.NoError(t, err)
	final := matchByUID(t, out.State.Matches, "KO-R2M1")
	assert.Equal(t, 1, *final.HomeTeamID)
	assert.Equal(t, 4, *final.AwayTeamID)

	out, err = ApplyResult(out.State, "KO-R2M1", models.MatchResult{HomeGoals: 1, AwayGoals: 3})
	require.NoError(t, err)
	require.NotNil(t, out.Advancement.ChampionID)
	assert.Equal(t, 4, *out.Advancement.ChampionID)
	assert.Nil(t, out.Advancement.Next)
}

func TestApplyResultLeavesInputUntouched(t *testing.T) {
	state := knockoutState(t, 4)
	_, err := ApplyResult(state, "KO-R1M1", models.MatchResult{HomeGoals: 2, AwayGoals: 0})
	require.NoError(t, err)

	m := matchByUID(t, state.Matches, "KO-R1M1")
	assert.False(t, m.Played())
	assert.Nil(t, m.Result)
	assert.Nil(t, matchByUID(t, state.Matches, "KO-R2M1").HomeTeamID)
}

func TestByeCascade(t *testing.T) {
	state := knockoutState(t, 6)

	out, err := ApplyResult(state, "KO-R1M3", models.MatchResult{HomeGoals: 1, AwayGoals: 0})
	require.NoError(t, err)
	adv := out.Advancement
	require.NotNil(t, adv)
	require.Len(t, adv.Updated, 2)

	bye := adv.Updated[0]
	assert.Equal(t, "KO-R2M2", bye.UID)
	assert.True(t, bye.IsBye)
	assert.True(t, bye.Played())
	assert.Equal(t, 5, *bye.WinnerTeamID)

	final := adv.Updated[1]
	assert.Equal(t, "KO-R3M1", final.UID)
	assert.Nil(t, final.HomeTeamID)
	assert.Equal(t, 5, *final.AwayTeamID)

	assert.Equal(t, 5, *matchByUID(t, out.State.Matches, "KO-R3M1").AwayTeamID)
}

func TestThreeTeamKnockoutToChampion(t *testing.T) {
	state := knockoutState(t, 3)

	out, err := ApplyResult(state, "KO-R1M1", models.MatchResult{HomeGoals: 1, AwayGoals: 0})
	require.NoError(t, err)
	final := matchByUID(t, out.State.Matches, "KO-R2M1")
	require.True(t, final.HasBothTeams())
	assert.Equal(t, 1, *final.HomeTeamID)
	assert.Equal(t, 3, *final.AwayTeamID)

	out, err = ApplyResult(out.State, "KO-R2M1", models.MatchResult{HomeGoals: 0, AwayGoals: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, *out.Advancement.ChampionID)
}

func TestKnockoutDrawPolicies(t *testing.T) {
	state := knockoutState(t, 2)

	_, err := ApplyResult(state, "KO-R1M1", models.MatchResult{HomeGoals: 1, AwayGoals: 1})
	assert.ErrorIs(t, err, ErrInvalidResult)

	hp, ap := pens(2, 4)
	out, err := ApplyResult(state, "KO-R1M1", models.MatchResult{HomeGoals: 1, AwayGoals: 1, HomePenalties: hp, AwayPenalties: ap})
	require.NoError(t, err)
	assert.Equal(t, 2, *out.Match.WinnerTeamID)
	assert.Equal(t, 2, *out.Advancement.ChampionID)

	homeState := knockoutState(t, 2, models.WithTieBreak(models.TieBreakHomeAdvances))
	out, err = ApplyResult(homeState, "KO-R1M1", models.MatchResult{})
	require.NoError(t, err)
	assert.Equal(t, 1, *out.Match.WinnerTeamID)
}

func TestRecordResultValidation(t *testing.T) {
	state := knockoutState(t, 4)
	hp, ap := pens(3, 3)
	one := models.IntPtr(1)

	cases := []struct {
		name   string
		uid    string
		result models.MatchResult
		want   error
	}{
		{"unknown match", "KO-R9M9", models.MatchResult{}, ErrMatchNotFound},
		{"empty slots", "KO-R2M1", models.MatchResult{HomeGoals: 1}, ErrStateInconsistency},
		{"negative goals", "KO-R1M1", models.MatchResult{HomeGoals: -1}, ErrInvalidResult},
		{"penalties on a win", "KO-R1M1", models.MatchResult{HomeGoals: 2, HomePenalties: hp, AwayPenalties: ap}, ErrInvalidResult},
		{"drawn shoot-out", "KO-R1M1", models.MatchResult{HomePenalties: hp, AwayPenalties: ap}, ErrInvalidResult},
		{"half a shoot-out", "KO-R1M1", models.MatchResult{HomePenalties: one}, ErrInvalidResult},
		{"event for outsider", "KO-R1M1", models.MatchResult{HomeGoals: 1, Events: []models.MatchEvent{{Kind: models.EventGoal, TeamID: 3}}}, ErrInvalidResult},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RecordResult(state, tc.uid, tc.result)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestRecordResultTwice(t *testing.T) {
	state := knockoutState(t, 4)
	out, err := ApplyResult(state, "KO-R1M1", models.MatchResult{HomeGoals: 1})
	require.NoError(t, err)

	_, err = ApplyResult(out.State, "KO-R1M1", models.MatchResult{HomeGoals: 5})
	assert.ErrorIs(t, err, ErrResultAlreadyRecorded)
	assert.ErrorIs(t, err, ErrAlreadyAdvanced)

	_, err = AdvanceKnockout(out.State, "KO-R1M1", 1)
	assert.ErrorIs(t, err, ErrAlreadyAdvanced)
}

func TestRecordResultOnBye(t *testing.T) {
	state := knockoutState(t, 3)
	_, err := RecordResult(state, "KO-R1M2", models.MatchResult{HomeGoals: 1})
	assert.ErrorIs(t, err, ErrStateInconsistency)
}

func TestAdvanceKnockoutChecks(t *testing.T) {
	state := knockoutState(t, 4)
	_, err := AdvanceKnockout(state, "KO-R1M1", 1)
	assert.ErrorIs(t, err, ErrStateInconsistency, "not played yet")

	played, err := RecordResult(state, "KO-R1M1", models.MatchResult{HomeGoals: 1})
	require.NoError(t, err)
	next := state.WithMatches(played)
	_, err = AdvanceKnockout(next, "KO-R1M1", 2)
	assert.ErrorIs(t, err, ErrStateInconsistency, "wrong winner")

	league := leagueState(t, 2)
	played, err = RecordResult(league, "J1M1", models.MatchResult{HomeGoals: 1})
	require.NoError(t, err)
	_, err = AdvanceKnockout(league.WithMatches(played), "J1M1", *played.WinnerTeamID)
	assert.ErrorIs(t, err, ErrStateInconsistency)
}

func TestLeagueResults(t *testing.T) {
	state := leagueState(t, 2)
	out, err := ApplyResult(state, "J1M1", models.MatchResult{HomeGoals: 2, AwayGoals: 2})
	require.NoError(t, err)
	assert.Nil(t, out.Advancement)
	assert.Nil(t, out.Match.WinnerTeamID)
	assert.True(t, out.Match.Played())

	strict := leagueState(t, 2, models.WithDraws(false))
	_, err = ApplyResult(strict, "J1M1", models.MatchResult{HomeGoals: 0, AwayGoals: 0})
	assert.ErrorIs(t, err, ErrInvalidResult)

	out, err = ApplyResult(strict, "J1M1", models.MatchResult{HomeGoals: 0, AwayGoals: 1})
	require.NoError(t, err)
	assert.Equal(t, *out.Match.AwayTeamID, *out.Match.WinnerTeamID)
}

func TestWinner(t *testing.T) {
	cfg := mustConfig(t, models.FormatKnockout)
	bye := models.Match{UID: "KO-R1M2", IsBye: true, HomeTeamID: models.IntPtr(7)}
	w, err := Winner(cfg, bye)
	require.NoError(t, err)
	assert.Equal(t, 7, w)

	pending := models.Match{UID: "KO-R1M1", HomeTeamID: models.IntPtr(1), AwayTeamID: models.IntPtr(2)}
	_, err = Winner(cfg, pending)
	assert.ErrorIs(t, err, ErrStateInconsistency)
}

func groupKnockoutState(t *testing.T, n int, candidate *models.ConfigurationCandidate) models.TournamentState {
	t.Helper()
	cfg := mustConfig(t, models.FormatGroupKnockout)
	teams := teamRange(n)
	sched, err := GenerateSchedule(GenerateParams{TournamentID: 1, Config: cfg, Teams: teams, Candidate: candidate})
	require.NoError(t, err)
	state := stateFor(cfg, teams, sched.Matches)
	state.Stage = models.StageGroups
	state.Groups = sched.Groups
	return state
}

// playGroups gives every pending group match a 1-0 home win.
func playGroups(t *testing.T, state models.TournamentState) models.TournamentState {
	t.Helper()
	for _, m := range state.Matches {
		if m.Phase != models.PhaseGroup || m.Played() {
			continue
		}
		out, err := ApplyResult(state, m.UID, models.MatchResult{HomeGoals: 1})
		require.NoError(t, err)
		state = out.State
	}
	return state
}

func candidateByDescription(t *testing.T, n int, description string) *models.ConfigurationCandidate {
	t.Helper()
	candidates, err := ProposeConfigurations(n, models.HintLeague)
	require.NoError(t, err)
	for i := range candidates {
		if candidates[i].Description == description {
			return &candidates[i]
		}
	}
	t.Fatalf("no candidate %q for %d teams", description, n)
	return nil
}

func TestSeedKnockoutFromGroups(t *testing.T) {
	state := groupKnockoutState(t, 8, candidateByDescription(t, 8, "2 groups of 4"))
	state = playGroups(t, state)

	tables, err := ComputeGroupStandings(state.Config, *state.Groups, state.Matches)
	require.NoError(t, err)

	bracket, err := SeedKnockoutFromGroups(state, keepOrder{})
	require.NoError(t, err)
	require.Len(t, bracket, 3)

	semi1 := matchByUID(t, bracket, "KO-R1M1")
	semi2 := matchByUID(t, bracket, "KO-R1M2")
	assert.Equal(t, models.PhaseSemifinal, semi1.Phase)
	assert.Equal(t, tables["A"][0].TeamID, *semi1.HomeTeamID)
	assert.Equal(t, tables["A"][1].TeamID, *semi1.AwayTeamID)
	assert.Equal(t, tables["B"][0].TeamID, *semi2.HomeTeamID)
	assert.Equal(t, tables["B"][1].TeamID, *semi2.AwayTeamID)
	assert.Equal(t, models.PhaseFinal, matchByUID(t, bracket, "KO-R2M1").Phase)

	seeded := state.WithMatches(bracket...)
	_, err = SeedKnockoutFromGroups(seeded, keepOrder{})
	assert.ErrorIs(t, err, ErrKnockoutAlreadySeeded)

	state.Stage = models.StageKnockoutSeeded
	_, err = SeedKnockoutFromGroups(state, keepOrder{})
	assert.ErrorIs(t, err, ErrKnockoutAlreadySeeded)
	assert.ErrorIs(t, err, ErrAlreadyAdvanced)
}

func TestSeedKnockoutByeAndPlayoff(t *testing.T) {
	state := playGroups(t, groupKnockoutState(t, 9, candidateByDescription(t, 9, "2 groups of 4 + 1 bye")))
	bracket, err := SeedKnockoutFromGroups(state, keepOrder{})
	require.NoError(t, err)
	bye := matchByUID(t, bracket, "KO-R1M3")
	assert.True(t, bye.IsBye)
	assert.Equal(t, 9, *bye.HomeTeamID, "bye team qualifies directly")

	state = playGroups(t, groupKnockoutState(t, 6, candidateByDescription(t, 6, "1 group of 4 + 1 extra playoff")))
	bracket, err = SeedKnockoutFromGroups(state, keepOrder{})
	require.NoError(t, err)
	entrants := 0
	for _, m := range bracket {
		if m.Round != 1 {
			continue
		}
		for _, id := range []*int{m.HomeTeamID, m.AwayTeamID} {
			if id != nil {
				entrants++
			}
		}
	}
	assert.Equal(t, 3, entrants, "two from the group and the playoff winner")
	assert.Equal(t, 5, *matchByUID(t, bracket, "KO-R1M2").HomeTeamID)
}

func TestSeedKnockoutRequiresCompleteGroups(t *testing.T) {
	state := groupKnockoutState(t, 8, candidateByDescription(t, 8, "2 groups of 4"))
	_, err := SeedKnockoutFromGroups(state, keepOrder{})
	assert.ErrorIs(t, err, ErrGroupPhaseIncomplete)

	state.Groups = nil
	_, err = SeedKnockoutFromGroups(state, keepOrder{})
	assert.ErrorIs(t, err, ErrStateInconsistency)

	league := leagueState(t, 4)
	_, err = SeedKnockoutFromGroups(league, keepOrder{})
	assert.ErrorIs(t, err, ErrConfiguration)
}
