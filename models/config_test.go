package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTournamentConfigDefaults(t *testing.T) {
	cfg, err := NewTournamentConfig(FormatLeague)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.PointsForWin)
	assert.Equal(t, 1, cfg.PointsForDraw)
	assert.Equal(t, 0, cfg.PointsForLoss)
	assert.True(t, cfg.AllowDraws)
	assert.Zero(t, cfg.QualifiersPerGroup)
	assert.Equal(t, TieBreakPenalties, cfg.EffectiveTieBreak())

	cfg, err = NewTournamentConfig(FormatGroupKnockout)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.QualifiersPerGroup)
}

func TestTournamentConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		format TournamentFormat
		opts   []ConfigOption
	}{
		{"unknown format", "swiss", nil},
		{"negative points", FormatLeague, []ConfigOption{WithPoints(3, 1, -1)}},
		{"win not above draw", FormatLeague, []ConfigOption{WithPoints(1, 1, 0)}},
		{"loss above draw", FormatLeague, []ConfigOption{WithPoints(3, 0, 1)}},
		{"group size five", FormatGroup, []ConfigOption{WithGroupSize(5)}},
		{"no qualifiers", FormatGroupKnockout, []ConfigOption{WithQualifiersPerGroup(0)}},
		{"too many qualifiers", FormatGroupKnockout, []ConfigOption{WithGroupSize(3), WithQualifiersPerGroup(4)}},
		{"qualifiers outside group+knockout", FormatGroup, []ConfigOption{WithQualifiersPerGroup(2)}},
		{"double knockout", FormatKnockout, []ConfigOption{WithDoubleRoundRobin()}},
		{"unknown tie-break", FormatKnockout, []ConfigOption{WithTieBreak("coin-toss")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTournamentConfig(tc.format, tc.opts...)
			assert.ErrorIs(t, err, ErrInvalidTournamentConfig)
		})
	}
}

func TestParseTournamentConfig(t *testing.T) {
	cfg, err := ParseTournamentConfig([]byte(`{"format":"knockout","points_for_win":3,"points_for_draw":1,"points_for_loss":0,"tie_break":"home-advances"}`))
	require.NoError(t, err)
	assert.Equal(t, FormatKnockout, cfg.Format)
	assert.Equal(t, TieBreakHomeAdvances, cfg.EffectiveTieBreak())

	_, err = ParseTournamentConfig([]byte(`{"format":`))
	assert.ErrorIs(t, err, ErrInvalidTournamentConfig)

	_, err = ParseTournamentConfig([]byte(`{"format":"league","points_for_win":0,"points_for_draw":0}`))
	assert.ErrorIs(t, err, ErrInvalidTournamentConfig)
}

func TestFormatHelpers(t *testing.T) {
	assert.True(t, FormatGroup.HasGroups())
	assert.True(t, FormatGroupKnockout.HasGroups())
	assert.True(t, FormatMixed.HasGroups())
	assert.False(t, FormatLeague.HasGroups())
	assert.False(t, FormatKnockout.HasGroups())

	assert.Equal(t, HintKnockout, ParseFormatHint("knockout"))
	assert.Equal(t, HintLeague, ParseFormatHint("group"))
	assert.Equal(t, HintLeague, ParseFormatHint(""))
}

func TestViabilityTier(t *testing.T) {
	assert.Equal(t, TierGood, TierOptimal.Lower())
	assert.Equal(t, TierNotRecommended, TierNotRecommended.Lower())
	assert.Equal(t, "not-recommended", TierNotRecommended.String())

	text, err := TierAcceptable.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "acceptable", string(text))

	var tier ViabilityTier
	require.NoError(t, tier.UnmarshalText([]byte("good")))
	assert.Equal(t, TierGood, tier)
}

func TestGroupLabel(t *testing.T) {
	assert.Equal(t, "A", GroupLabel(0))
	assert.Equal(t, "Z", GroupLabel(25))
	assert.Equal(t, "AA", GroupLabel(26))
	assert.Equal(t, "AB", GroupLabel(27))
}

func TestWithMatchesCopies(t *testing.T) {
	state := TournamentState{Matches: []Match{{UID: "J1M1", HomeTeamID: IntPtr(1), AwayTeamID: IntPtr(2)}}}
	played := state.Matches[0].Clone()
	played.Status = MatchStatusPlayed
	*played.HomeTeamID = 9

	next := state.WithMatches(played, Match{UID: "J1M2"})
	require.Len(t, next.Matches, 2)
	assert.Equal(t, 1, *state.Matches[0].HomeTeamID)
	assert.Equal(t, 9, *next.Matches[0].HomeTeamID)
	assert.Equal(t, MatchStatusPlayed, next.Matches[0].Status)

	_, idx, ok := next.MatchByUID("J1M2")
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}
