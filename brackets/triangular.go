package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type TriangularGenerator struct{}

func NewTriangularGenerator() Generator {
	return &TriangularGenerator{}
}

func (g *TriangularGenerator) Name() string {
	return "Triangular"
}

// Generate emits the three fixtures of a 3-team tournament. Any other team
// count falls back to a plain round robin.
func (g *TriangularGenerator) Generate(params GenerateParams) (Schedule, error) {
	ids := models.TeamIDs(params.Teams)
	if len(ids) != 3 {
		return NewRoundRobinGenerator().Generate(params)
	}

	matches := make([]models.Match, 0, 6)
	for r, p := range triangularPairs(ids, params.Config.DoubleRoundRobin) {
		round := r + 1
		m := newFixture(params.TournamentID, fmt.Sprintf("J%dM1", round), p.home, p.away, round, 0)
		m.Phase = models.PhaseLeague
		m.Leg = p.leg
		m.MatchDate = jornadaDate(params.StartDate, round)
		matches = append(matches, m)
	}
	return Schedule{Matches: matches}, nil
}

// triangularPairs plays (0,1), (1,2), (0,2), one fixture per jornada.
func triangularPairs(ids []int, double bool) []pairing {
	pairs := []pairing{
		{home: ids[0], away: ids[1], leg: 1},
		{home: ids[1], away: ids[2], leg: 1},
		{home: ids[0], away: ids[2], leg: 1},
	}
	if double {
		for _, p := range pairs[:3] {
			pairs = append(pairs, pairing{home: p.away, away: p.home, leg: 2})
		}
	}
	return pairs
}
