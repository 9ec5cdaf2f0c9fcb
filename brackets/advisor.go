package brackets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/tournament-engine/models"
)

const (
	singleGroupMin = 3
	singleGroupMax = 10
	mixedMinTeams  = 7
)

// ProposeConfigurations enumerates ways to lay out n teams, most viable first.
// Candidates with the same tier keep the order they were built in.
func ProposeConfigurations(n int, hint models.FormatHint) ([]models.ConfigurationCandidate, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: team count must not be negative, got %d", ErrConfiguration, n)
	}

	candidates := []models.ConfigurationCandidate{knockoutCandidate(n, hint)}

	if n >= singleGroupMin && n <= singleGroupMax {
		candidates = append(candidates, singleGroupCandidate(n))
	}

	if n >= 4 {
		if c, ok := uniformGroupsCandidate(n, 4); ok {
			candidates = append(candidates, c)
		}
		if c, ok := uniformGroupsCandidate(n, 3); ok {
			candidates = append(candidates, c)
		}
	}

	if n >= mixedMinTeams {
		candidates = append(candidates, mixedGroupsCandidates(n)...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Tier < candidates[j].Tier
	})
	return candidates, nil
}

func knockoutCandidate(n int, hint models.FormatHint) models.ConfigurationCandidate {
	c := models.ConfigurationCandidate{
		Format:   models.FormatKnockout,
		Leftover: models.LeftoverNone,
	}
	if n < 2 {
		c.Description = fmt.Sprintf("Knockout with %d teams is not playable", n)
		c.Tier = models.TierNotRecommended
		if n > 0 {
			c.Groups = []models.GroupDefinition{{Label: "Bracket", TeamCount: n, Format: models.GroupKnockout}}
		}
		return c
	}

	c.Tier = models.TierAcceptable
	if hint == models.HintKnockout {
		c.Tier = models.TierOptimal
	}
	c.MatchCount = n - 1

	bracketTeams := n
	if n%2 == 1 {
		c.Leftover = models.LeftoverBye
		c.Byes = 1
		bracketTeams--
		c.Tier = c.Tier.Lower()
	}
	c.Groups = []models.GroupDefinition{{Label: "Bracket", TeamCount: bracketTeams, Format: models.GroupKnockout}}
	c.Description = fmt.Sprintf("Knockout bracket for %d teams", n)
	if c.Byes > 0 {
		c.Description += " (1 bye)"
	}
	return c
}

func singleGroupCandidate(n int) models.ConfigurationCandidate {
	tier := models.TierAcceptable
	switch {
	case n <= 6:
		tier = models.TierOptimal
	case n <= 8:
		tier = models.TierGood
	}
	format := models.GroupRoundRobin
	if n == 3 {
		format = models.GroupTriangular
	}
	return models.ConfigurationCandidate{
		Format:      models.FormatLeague,
		Description: fmt.Sprintf("Single group of %d, everyone plays everyone", n),
		Groups:      []models.GroupDefinition{{Label: models.GroupLabel(0), TeamCount: n, Format: format}},
		Leftover:    models.LeftoverNone,
		Tier:        tier,
		MatchCount:  roundRobinMatches(n),
	}
}

// uniformGroupsCandidate splits n teams into groups of size and resolves the
// remainder with a bye, an extra playoff or an extra triangular group.
func uniformGroupsCandidate(n, size int) (models.ConfigurationCandidate, bool) {
	count := n / size
	remainder := n % size
	if count == 0 {
		return models.ConfigurationCandidate{}, false
	}

	sizes := make([]int, count)
	for i := range sizes {
		sizes[i] = size
	}
	c, ok := groupsCandidate(sizes, remainder)
	if !ok {
		return models.ConfigurationCandidate{}, false
	}
	c.Format = models.FormatGroup
	return c, true
}

// mixedGroupsCandidates combines groups of 4 and 3 when at most one team is left over.
func mixedGroupsCandidates(n int) []models.ConfigurationCandidate {
	var out []models.ConfigurationCandidate
	for fours := n / 4; fours >= 1; fours-- {
		rest := n - 4*fours
		threes := rest / 3
		remainder := rest % 3
		if threes < 1 || remainder > 1 {
			continue
		}
		sizes := make([]int, 0, fours+threes)
		for i := 0; i < fours; i++ {
			sizes = append(sizes, 4)
		}
		for i := 0; i < threes; i++ {
			sizes = append(sizes, 3)
		}
		c, ok := groupsCandidate(sizes, remainder)
		if !ok {
			continue
		}
		c.Format = models.FormatMixed
		out = append(out, c)
	}
	return out
}

func groupsCandidate(sizes []int, remainder int) (models.ConfigurationCandidate, bool) {
	c := models.ConfigurationCandidate{Leftover: models.LeftoverNone}
	largest := 0
	for i, size := range sizes {
		format := models.GroupRoundRobin
		if size == 3 {
			format = models.GroupTriangular
		}
		c.Groups = append(c.Groups, models.GroupDefinition{Label: models.GroupLabel(i), TeamCount: size, Format: format})
		c.MatchCount += roundRobinMatches(size)
		if size > largest {
			largest = size
		}
	}

	switch remainder {
	case 0:
	case 1:
		c.Leftover = models.LeftoverBye
		c.Byes = 1
	case 2:
		c.Leftover = models.LeftoverExtraPlayoff
		c.Groups = append(c.Groups, models.GroupDefinition{Label: models.GroupLabel(len(sizes)), TeamCount: 2, Format: models.GroupPlayoff})
		c.MatchCount++
	case 3:
		c.Leftover = models.LeftoverExtraTriangular
		c.Groups = append(c.Groups, models.GroupDefinition{Label: models.GroupLabel(len(sizes)), TeamCount: 3, Format: models.GroupTriangular})
		c.MatchCount += 3
	default:
		return models.ConfigurationCandidate{}, false
	}

	c.Tier = models.TierOptimal
	if largest > 6 {
		c.Tier = models.TierGood
	}
	// A lone group with stragglers is barely a group phase.
	if len(sizes) == 1 && remainder != 0 && remainder < 3 {
		c.Tier = models.TierAcceptable
	}
	if c.Leftover != models.LeftoverNone {
		c.Tier = c.Tier.Lower()
	}
	c.Description = describeGroups(sizes, c.Leftover, remainder)
	return c, true
}

func describeGroups(sizes []int, leftover models.LeftoverHandling, remainder int) string {
	counts := map[int]int{}
	order := []int{}
	for _, s := range sizes {
		if counts[s] == 0 {
			order = append(order, s)
		}
		counts[s]++
	}
	parts := make([]string, 0, len(order)+1)
	for _, s := range order {
		noun := "groups"
		if counts[s] == 1 {
			noun = "group"
		}
		parts = append(parts, fmt.Sprintf("%d %s of %d", counts[s], noun, s))
	}
	switch leftover {
	case models.LeftoverBye:
		parts = append(parts, fmt.Sprintf("%d bye", remainder))
	case models.LeftoverExtraPlayoff:
		parts = append(parts, "1 extra playoff")
	case models.LeftoverExtraTriangular:
		parts = append(parts, "1 extra triangular")
	}
	return strings.Join(parts, " + ")
}

func roundRobinMatches(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// AssignGroups distributes teams over a candidate's groups in list order.
// Teams left after the last group are byes.
func AssignGroups(teamIDs []int, candidate models.ConfigurationCandidate) (models.GroupAssignment, error) {
	if candidate.Format == models.FormatKnockout {
		return models.GroupAssignment{}, fmt.Errorf("%w: knockout candidates have no groups", ErrConfiguration)
	}
	if candidate.Byes < 0 {
		return models.GroupAssignment{}, fmt.Errorf("%w: negative bye count %d", ErrConfiguration, candidate.Byes)
	}
	labels := make([]string, 0, len(candidate.Groups))
	for _, def := range candidate.Groups {
		if def.TeamCount < 0 {
			return models.GroupAssignment{}, fmt.Errorf("%w: group %q has negative team count %d",
				ErrConfiguration, def.Label, def.TeamCount)
		}
		labels = append(labels, def.Label)
	}
	if err := checkLabels(labels); err != nil {
		return models.GroupAssignment{}, err
	}
	if candidate.TeamsCovered() != len(teamIDs) {
		return models.GroupAssignment{}, fmt.Errorf("%w: candidate covers %d teams, got %d",
			ErrConfiguration, candidate.TeamsCovered(), len(teamIDs))
	}
	if err := checkDistinct(teamIDs); err != nil {
		return models.GroupAssignment{}, err
	}

	var assignment models.GroupAssignment
	next := 0
	for _, def := range candidate.Groups {
		if next+def.TeamCount > len(teamIDs) {
			return models.GroupAssignment{}, fmt.Errorf("%w: group %q needs %d teams, %d left",
				ErrConfiguration, def.Label, def.TeamCount, len(teamIDs)-next)
		}
		ids := append([]int(nil), teamIDs[next:next+def.TeamCount]...)
		next += def.TeamCount
		assignment.Groups = append(assignment.Groups, models.Group{Label: def.Label, Format: def.Format, TeamIDs: ids})
	}
	assignment.Byes = append(assignment.Byes, teamIDs[next:]...)
	return assignment, nil
}

// checkLabels rejects empty or repeated group labels.
func checkLabels(labels []string) error {
	seen := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		if label == "" {
			return fmt.Errorf("%w: group without a label", ErrConfiguration)
		}
		if _, dup := seen[label]; dup {
			return fmt.Errorf("%w: group label %q used twice", ErrConfiguration, label)
		}
		seen[label] = struct{}{}
	}
	return nil
}

func checkDistinct(ids []int) error {
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: team %d listed twice", ErrStateInconsistency, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}
