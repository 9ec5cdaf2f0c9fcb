package brackets

import (
	"fmt"
	"math/bits"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate draws the teams in random order and lays out the whole bracket.
func (g *SingleEliminationGenerator) Generate(params GenerateParams) (Schedule, error) {
	ids := models.TeamIDs(params.Teams)
	shuffled := append([]int(nil), ids...)
	params.random().Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return Schedule{Matches: buildBracket(params.TournamentID, shuffled, params.StartDate)}, nil
}

// buildBracket pairs entrants consecutively, round after round, until one
// slot is left. A round with an odd number of entrants gives its last entrant
// a bye: a fixture-less slot at index len/2 that passes the team on. The
// winner of slot i in round r lands in slot i/2 of round r+1, home when i is even.
//
// Teams that are known at draw time, including those with byes, are written
// straight into later rounds; every other slot starts empty.
func buildBracket(tournamentID int, entrants []int, start *time.Time) []models.Match {
	if len(entrants) < 2 {
		return nil
	}

	current := make([]*int, len(entrants))
	for i := range entrants {
		current[i] = models.IntPtr(entrants[i])
	}

	var matches []models.Match
	for round := 1; len(current) >= 2; round++ {
		phase := PhaseForEntrants(len(current))
		pairs := len(current) / 2
		next := make([]*int, 0, pairs+1)

		for slot := 0; slot < pairs; slot++ {
			m := models.Match{
				UID:          bracketUID(round, slot),
				TournamentID: tournamentID,
				HomeTeamID:   current[2*slot],
				AwayTeamID:   current[2*slot+1],
				Round:        round,
				Slot:         slot,
				Leg:          1,
				Phase:        phase,
				Status:       models.MatchStatusPending,
				MatchDate:    jornadaDate(start, round),
			}
			matches = append(matches, m)
			next = append(next, nil)
		}

		if len(current)%2 == 1 {
			bye := models.Match{
				UID:          bracketUID(round, pairs),
				TournamentID: tournamentID,
				HomeTeamID:   current[len(current)-1],
				Round:        round,
				Slot:         pairs,
				Phase:        phase,
				IsBye:        true,
				Status:       models.MatchStatusPending,
			}
			if bye.HomeTeamID != nil {
				bye.Status = models.MatchStatusPlayed
				bye.WinnerTeamID = models.IntPtr(*bye.HomeTeamID)
			}
			matches = append(matches, bye)
			var advancing *int
			if bye.WinnerTeamID != nil {
				advancing = models.IntPtr(*bye.WinnerTeamID)
			}
			next = append(next, advancing)
		}
		current = next
	}
	return matches
}

func bracketUID(round, slot int) string {
	return fmt.Sprintf("KO-R%dM%d", round, slot+1)
}

// PhaseForEntrants names a knockout round after how many teams enter it.
func PhaseForEntrants(n int) models.Phase {
	switch {
	case n <= 2:
		return models.PhaseFinal
	case n <= 4:
		return models.PhaseSemifinal
	case n <= 8:
		return models.PhaseQuarterfinal
	case n <= 16:
		return models.PhaseRoundOf16
	default:
		size := 1 << bits.Len(uint(n-1))
		return models.Phase(fmt.Sprintf("round-of-%d", size))
	}
}

// KnockoutRounds returns the number of rounds a bracket of n teams needs.
func KnockoutRounds(n int) int {
	if n < 2 {
		return 0
	}
	return bits.Len(uint(n - 1))
}
