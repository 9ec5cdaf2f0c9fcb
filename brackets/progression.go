package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

// Advancement reports what moving a winner forward changed. Next is the match
// that received the winner; Updated lists every match touched, including byes
// that passed the team further on. ChampionID is set once the final is decided.
type Advancement struct {
	Next       *models.Match
	Updated    []models.Match
	ChampionID *int
}

// Outcome is the result of ApplyResult: the new state plus what changed.
type Outcome struct {
	State       models.TournamentState
	Match       models.Match
	Advancement *Advancement
}

// Winner decides who went through a played match: more goals wins, then the
// penalty shoot-out, then the configured tie-break policy.
func Winner(cfg models.TournamentConfig, m models.Match) (int, error) {
	if m.IsBye && m.HomeTeamID != nil {
		return *m.HomeTeamID, nil
	}
	if !m.Played() || m.Result == nil || !m.HasBothTeams() {
		return 0, fmt.Errorf("%w: match %s has no result", ErrStateInconsistency, m.UID)
	}
	r := m.Result
	switch {
	case r.HomeGoals > r.AwayGoals:
		return *m.HomeTeamID, nil
	case r.AwayGoals > r.HomeGoals:
		return *m.AwayTeamID, nil
	case r.HasPenalties() && *r.HomePenalties > *r.AwayPenalties:
		return *m.HomeTeamID, nil
	case r.HasPenalties() && *r.AwayPenalties > *r.HomePenalties:
		return *m.AwayTeamID, nil
	case cfg.EffectiveTieBreak() == models.TieBreakHomeAdvances:
		return *m.HomeTeamID, nil
	default:
		return 0, fmt.Errorf("%w: match %s is drawn and has no shoot-out winner", ErrInvalidResult, m.UID)
	}
}

// RecordResult turns a pending fixture into a played one. The state is not
// modified; the returned match is a fresh copy.
func RecordResult(state models.TournamentState, matchUID string, result models.MatchResult) (models.Match, error) {
	m, _, ok := state.MatchByUID(matchUID)
	if !ok {
		return models.Match{}, fmt.Errorf("%w: %s", ErrMatchNotFound, matchUID)
	}
	if m.IsBye {
		return models.Match{}, fmt.Errorf("%w: %s is a bye and has no fixture", ErrStateInconsistency, matchUID)
	}
	if m.Played() {
		return models.Match{}, fmt.Errorf("%w: %s", ErrResultAlreadyRecorded, matchUID)
	}
	if !m.HasBothTeams() {
		return models.Match{}, fmt.Errorf("%w: %s still waits for its teams", ErrStateInconsistency, matchUID)
	}
	for _, id := range []int{*m.HomeTeamID, *m.AwayTeamID} {
		if !state.HasTeam(id) {
			return models.Match{}, fmt.Errorf("%w: match %s references team %d", ErrUnknownTeam, matchUID, id)
		}
	}
	if err := validateResult(state.Config, m, result); err != nil {
		return models.Match{}, err
	}

	m.Status = models.MatchStatusPlayed
	m.Result = &result
	m = m.Clone()
	m.WinnerTeamID = nil
	if winner, err := Winner(state.Config, m); err == nil {
		if m.Phase.IsKnockout() || result.HomeGoals != result.AwayGoals || result.HasPenalties() {
			m.WinnerTeamID = models.IntPtr(winner)
		}
	} else if m.Phase.IsKnockout() {
		return models.Match{}, err
	}
	return m, nil
}

func validateResult(cfg models.TournamentConfig, m models.Match, r models.MatchResult) error {
	if r.HomeGoals < 0 || r.AwayGoals < 0 {
		return fmt.Errorf("%w: goals must not be negative", ErrInvalidResult)
	}
	if (r.HomePenalties == nil) != (r.AwayPenalties == nil) {
		return fmt.Errorf("%w: both penalty scores are required", ErrInvalidResult)
	}
	drawn := r.HomeGoals == r.AwayGoals
	if r.HasPenalties() {
		if !drawn {
			return fmt.Errorf("%w: penalties only settle a drawn match", ErrInvalidResult)
		}
		if *r.HomePenalties < 0 || *r.AwayPenalties < 0 || *r.HomePenalties == *r.AwayPenalties {
			return fmt.Errorf("%w: a shoot-out needs a winner", ErrInvalidResult)
		}
	}
	if drawn && !r.HasPenalties() {
		if m.Phase.IsKnockout() && cfg.EffectiveTieBreak() == models.TieBreakPenalties {
			return fmt.Errorf("%w: knockout draw needs a penalty shoot-out", ErrInvalidResult)
		}
		if !m.Phase.IsKnockout() && !cfg.AllowDraws {
			return fmt.Errorf("%w: draws are not allowed in this tournament", ErrInvalidResult)
		}
	}
	for _, e := range r.Events {
		if !m.Involves(e.TeamID) {
			return fmt.Errorf("%w: event for team %d which is not playing %s", ErrInvalidResult, e.TeamID, m.UID)
		}
	}
	return nil
}

// AdvanceKnockout writes the winner of a finished knockout match into its
// slot of the next round. Byes reached this way pass the team on at once.
func AdvanceKnockout(state models.TournamentState, finishedUID string, winnerTeamID int) (Advancement, error) {
	finished, _, ok := state.MatchByUID(finishedUID)
	if !ok {
		return Advancement{}, fmt.Errorf("%w: %s", ErrMatchNotFound, finishedUID)
	}
	if !finished.Phase.IsKnockout() {
		return Advancement{}, fmt.Errorf("%w: %s is not a knockout match", ErrStateInconsistency, finishedUID)
	}
	if !finished.Played() {
		return Advancement{}, fmt.Errorf("%w: %s has not been played", ErrStateInconsistency, finishedUID)
	}
	winner, err := Winner(state.Config, finished)
	if err != nil {
		return Advancement{}, err
	}
	if winner != winnerTeamID {
		return Advancement{}, fmt.Errorf("%w: team %d did not win %s", ErrStateInconsistency, winnerTeamID, finishedUID)
	}

	var adv Advancement
	working := state
	current := finished
	for {
		next, found := nextKnockoutMatch(working.Matches, current)
		if !found {
			if current.Round < lastKnockoutRound(working.Matches) {
				return Advancement{}, fmt.Errorf("%w: no round %d match for slot %d", ErrStateInconsistency, current.Round+1, current.Slot/2)
			}
			adv.ChampionID = models.IntPtr(winner)
			return adv, nil
		}
		if next.Played() {
			return Advancement{}, fmt.Errorf("%w: %s is already decided", ErrAlreadyAdvanced, next.UID)
		}

		target := &next.AwayTeamID
		if current.Slot%2 == 0 {
			target = &next.HomeTeamID
		}
		if *target != nil {
			return Advancement{}, fmt.Errorf("%w: %s slot already holds team %d", ErrAlreadyAdvanced, next.UID, **target)
		}
		*target = models.IntPtr(winner)

		if next.IsBye {
			next.Status = models.MatchStatusPlayed
			next.WinnerTeamID = models.IntPtr(winner)
		}
		adv.Updated = append(adv.Updated, next.Clone())
		if adv.Next == nil {
			first := next.Clone()
			adv.Next = &first
		}
		if !next.IsBye {
			return adv, nil
		}
		working = working.WithMatches(next)
		current = next
	}
}

func nextKnockoutMatch(matches []models.Match, from models.Match) (models.Match, bool) {
	for _, m := range matches {
		if m.Phase.IsKnockout() && m.Round == from.Round+1 && m.Slot == from.Slot/2 {
			return m.Clone(), true
		}
	}
	return models.Match{}, false
}

func lastKnockoutRound(matches []models.Match) int {
	last := 0
	for _, m := range matches {
		if m.Phase.IsKnockout() && m.Round > last {
			last = m.Round
		}
	}
	return last
}

// ApplyResult records a result and, for knockout fixtures, moves the winner on.
func ApplyResult(state models.TournamentState, matchUID string, result models.MatchResult) (Outcome, error) {
	played, err := RecordResult(state, matchUID, result)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{State: state.WithMatches(played), Match: played}
	if !played.Phase.IsKnockout() {
		return out, nil
	}
	adv, err := AdvanceKnockout(out.State, played.UID, *played.WinnerTeamID)
	if err != nil {
		return Outcome{}, err
	}
	out.State = out.State.WithMatches(adv.Updated...)
	out.Advancement = &adv
	return out, nil
}

// SeedKnockoutFromGroups builds the first knockout round of a group+knockout
// tournament from the group tables. It refuses to run twice.
func SeedKnockoutFromGroups(state models.TournamentState, rng Randomizer) ([]models.Match, error) {
	if state.Config.Format != models.FormatGroupKnockout {
		return nil, fmt.Errorf("%w: format %q has no knockout stage to seed", ErrConfiguration, state.Config.Format)
	}
	if state.Stage == models.StageKnockoutSeeded || state.Stage == models.StageCompleted {
		return nil, ErrKnockoutAlreadySeeded
	}
	for _, m := range state.Matches {
		if m.Phase.IsKnockout() {
			return nil, fmt.Errorf("%w: match %s already exists", ErrKnockoutAlreadySeeded, m.UID)
		}
	}
	if state.Groups == nil {
		return nil, fmt.Errorf("%w: tournament has no group assignment", ErrStateInconsistency)
	}
	for _, m := range state.Matches {
		if m.Phase == models.PhaseGroup && !m.Played() {
			return nil, fmt.Errorf("%w: %s is still pending", ErrGroupPhaseIncomplete, m.UID)
		}
	}

	tables, err := ComputeGroupStandings(state.Config, *state.Groups, state.Matches)
	if err != nil {
		return nil, err
	}
	var qualifiers []int
	for _, label := range state.Groups.Labels() {
		group, _ := state.Groups.Group(label)
		take := state.Config.QualifiersPerGroup
		if group.Format == models.GroupPlayoff {
			take = 1
		}
		table := tables[label]
		if take > len(table) {
			take = len(table)
		}
		for _, row := range table[:take] {
			qualifiers = append(qualifiers, row.TeamID)
		}
	}
	qualifiers = append(qualifiers, state.Groups.Byes...)
	if len(qualifiers) < 2 {
		return nil, fmt.Errorf("%w: %d qualifiers cannot fill a bracket", ErrConfiguration, len(qualifiers))
	}

	if rng == nil {
		rng = GenerateParams{}.random()
	}
	rng.Shuffle(len(qualifiers), func(i, j int) {
		qualifiers[i], qualifiers[j] = qualifiers[j], qualifiers[i]
	})
	return buildBracket(state.TournamentID, qualifiers, nil), nil
}
