package brackets

import (
	"fmt"

	"github.com/Dosada05/tournament-engine/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate creates a league where every team meets every other team once, or
// twice with home and away swapped when the config asks for a double round robin.
func (g *RoundRobinGenerator) Generate(params GenerateParams) (Schedule, error) {
	ids := models.TeamIDs(params.Teams)
	rounds := roundRobinRounds(ids, params.Config.DoubleRoundRobin)

	matches := make([]models.Match, 0, roundRobinMatches(len(ids)))
	for r, pairs := range rounds {
		round := r + 1
		for slot, p := range pairs {
			m := newFixture(params.TournamentID, fmt.Sprintf("J%dM%d", round, slot+1), p.home, p.away, round, slot)
			m.Phase = models.PhaseLeague
			m.Leg = p.leg
			m.MatchDate = jornadaDate(params.StartDate, round)
			matches = append(matches, m)
		}
	}
	return Schedule{Matches: matches}, nil
}

type pairing struct {
	home, away int
	leg        int
}

// roundRobinRounds applies the circle method: the first team stays put and
// the rest rotate one place per round. Odd counts get a bye slot whose
// pairings are dropped. The second leg repeats the rounds with sides swapped.
// The circle holds positions into ids; position len(ids) is the bye.
func roundRobinRounds(ids []int, double bool) [][]pairing {
	if len(ids) < 2 {
		return nil
	}
	bye := len(ids)
	circle := make([]int, len(ids), len(ids)+1)
	for i := range circle {
		circle[i] = i
	}
	if len(circle)%2 == 1 {
		circle = append(circle, bye)
	}
	size := len(circle)

	firstLeg := make([][]pairing, 0, size-1)
	for r := 0; r < size-1; r++ {
		pairs := make([]pairing, 0, size/2)
		for i := 0; i < size/2; i++ {
			hp, ap := circle[i], circle[size-1-i]
			if hp == bye || ap == bye {
				continue
			}
			home, away := ids[hp], ids[ap]
			// Alternate the fixed team's side so it is not always at home.
			if i == 0 && r%2 == 1 {
				home, away = away, home
			}
			pairs = append(pairs, pairing{home: home, away: away, leg: 1})
		}
		firstLeg = append(firstLeg, pairs)

		last := circle[size-1]
		copy(circle[2:], circle[1:size-1])
		circle[1] = last
	}

	if !double {
		return firstLeg
	}
	rounds := append([][]pairing(nil), firstLeg...)
	for _, pairs := range firstLeg {
		swapped := make([]pairing, len(pairs))
		for i, p := range pairs {
			swapped[i] = pairing{home: p.away, away: p.home, leg: 2}
		}
		rounds = append(rounds, swapped)
	}
	return rounds
}
