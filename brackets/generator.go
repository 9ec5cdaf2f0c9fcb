package brackets

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// Randomizer shuffles draws. *rand.Rand satisfies it; tests pass a seeded one.
type Randomizer interface {
	Shuffle(n int, swap func(i, j int))
}

// NewSeededRandom returns a reproducible shuffle source.
func NewSeededRandom(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

type GenerateParams struct {
	TournamentID int
	Config       models.TournamentConfig
	Teams        []models.Team
	Groups       *models.GroupAssignment
	Candidate    *models.ConfigurationCandidate
	StartDate    *time.Time
	Rand         Randomizer
}

// Schedule is the output of a generator: unplayed matches in jornada order and
// the group assignment they were drawn from, if any.
type Schedule struct {
	Matches []models.Match
	Groups  *models.GroupAssignment
}

type Generator interface {
	Generate(params GenerateParams) (Schedule, error)
	Name() string
}

// GeneratorFor picks the generator that builds the initial match list of a format.
// Group+knockout only gets its group phase here; the bracket is seeded later.
func GeneratorFor(format models.TournamentFormat) (Generator, error) {
	switch format {
	case models.FormatLeague:
		return NewRoundRobinGenerator(), nil
	case models.FormatTriangular:
		return NewTriangularGenerator(), nil
	case models.FormatKnockout:
		return NewSingleEliminationGenerator(), nil
	case models.FormatGroup, models.FormatGroupKnockout, models.FormatMixed:
		return NewGroupStageGenerator(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", ErrConfiguration, format)
	}
}

// GenerateSchedule validates the team list and runs the generator for the configured format.
func GenerateSchedule(params GenerateParams) (Schedule, error) {
	if err := params.Config.Validate(); err != nil {
		return Schedule{}, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	if err := checkDistinct(models.TeamIDs(params.Teams)); err != nil {
		return Schedule{}, err
	}
	generator, err := GeneratorFor(params.Config.Format)
	if err != nil {
		return Schedule{}, err
	}
	return generator.Generate(params)
}

func (p GenerateParams) random() Randomizer {
	if p.Rand != nil {
		return p.Rand
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// jornadaDate spaces rounds a week apart from the start date.
func jornadaDate(start *time.Time, round int) *time.Time {
	if start == nil {
		return nil
	}
	d := start.AddDate(0, 0, 7*(round-1))
	return &d
}

func newFixture(tournamentID int, uid string, home, away int, round, slot int) models.Match {
	return models.Match{
		UID:          uid,
		TournamentID: tournamentID,
		HomeTeamID:   models.IntPtr(home),
		AwayTeamID:   models.IntPtr(away),
		Round:        round,
		Slot:         slot,
		Leg:          1,
		Status:       models.MatchStatusPending,
	}
}

func sortByJornada(matches []models.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		if matches[i].GroupLabel != matches[j].GroupLabel {
			return matches[i].GroupLabel < matches[j].GroupLabel
		}
		return matches[i].Slot < matches[j].Slot
	})
}
