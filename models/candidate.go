package models

// FormatHint tells the advisor which kind of tournament the organizer leans towards.
type FormatHint string

const (
	HintLeague   FormatHint = "league"
	HintKnockout FormatHint = "knockout"
)

// ParseFormatHint maps free-form hints onto the two families; anything that
// is not knockout-like is treated as league-like.
func ParseFormatHint(s string) FormatHint {
	switch TournamentFormat(s) {
	case FormatKnockout:
		return HintKnockout
	default:
		return HintLeague
	}
}

type ViabilityTier int

const (
	TierOptimal ViabilityTier = iota
	TierGood
	TierAcceptable
	TierNotRecommended
)

var tierNames = map[ViabilityTier]string{
	TierOptimal:        "optimal",
	TierGood:           "good",
	TierAcceptable:     "acceptable",
	TierNotRecommended: "not-recommended",
}

func (t ViabilityTier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// Lower moves the tier one step down, stopping at not-recommended.
func (t ViabilityTier) Lower() ViabilityTier {
	if t >= TierNotRecommended {
		return TierNotRecommended
	}
	return t + 1
}

func (t ViabilityTier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ViabilityTier) UnmarshalText(b []byte) error {
	for tier, name := range tierNames {
		if name == string(b) {
			*t = tier
			return nil
		}
	}
	*t = TierNotRecommended
	return nil
}

// LeftoverHandling says what happens to teams that do not fit a clean partition.
type LeftoverHandling string

const (
	LeftoverNone            LeftoverHandling = "none"
	LeftoverBye             LeftoverHandling = "bye"
	LeftoverExtraPlayoff    LeftoverHandling = "extra-playoff"
	LeftoverExtraTriangular LeftoverHandling = "extra-triangular"
)

// GroupFormat is how a single group is played.
type GroupFormat string

const (
	GroupRoundRobin GroupFormat = "round-robin"
	GroupTriangular GroupFormat = "triangular"
	GroupPlayoff    GroupFormat = "playoff"
	GroupKnockout   GroupFormat = "knockout"
)

type GroupDefinition struct {
	Label     string      `json:"label"`
	TeamCount int         `json:"team_count"`
	Format    GroupFormat `json:"format"`
}

// ConfigurationCandidate is one way to lay out a tournament for a team count.
type ConfigurationCandidate struct {
	Format      TournamentFormat  `json:"format"`
	Description string            `json:"description"`
	Groups      []GroupDefinition `json:"groups,omitempty"`
	Leftover    LeftoverHandling  `json:"leftover"`
	Byes        int               `json:"byes"`
	Tier        ViabilityTier     `json:"tier"`
	MatchCount  int               `json:"match_count"`
}

// TeamsCovered counts teams placed in groups plus teams given a bye.
func (c ConfigurationCandidate) TeamsCovered() int {
	total := c.Byes
	for _, g := range c.Groups {
		total += g.TeamCount
	}
	return total
}
