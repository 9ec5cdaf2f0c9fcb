package models

import "time"

type MatchStatus string

const (
	MatchStatusPending MatchStatus = "pending"
	MatchStatusPlayed  MatchStatus = "played"
)

// Phase tags the stage a match belongs to.
type Phase string

const (
	PhaseLeague       Phase = "league"
	PhaseGroup        Phase = "group"
	PhaseRoundOf16    Phase = "round-of-16"
	PhaseQuarterfinal Phase = "quarterfinal"
	PhaseSemifinal    Phase = "semifinal"
	PhaseFinal        Phase = "final"
)

// IsKnockout reports whether matches of this phase feed a bracket.
// Rounds larger than sixteen use "round-of-N" tags and count as knockout too.
func (p Phase) IsKnockout() bool {
	return p != PhaseLeague && p != PhaseGroup && p != ""
}

type EventKind string

const (
	EventGoal       EventKind = "goal"
	EventOwnGoal    EventKind = "own_goal"
	EventYellowCard EventKind = "yellow_card"
	EventRedCard    EventKind = "red_card"
)

// MatchEvent is an entry of the scorer/event list attached to a result.
type MatchEvent struct {
	Kind   EventKind `json:"kind"`
	TeamID int       `json:"team_id"`
	Player string    `json:"player,omitempty"`
	Minute int       `json:"minute,omitempty"`
}

type MatchResult struct {
	HomeGoals     int          `json:"home_goals"`
	AwayGoals     int          `json:"away_goals"`
	HomePenalties *int         `json:"home_penalties,omitempty"`
	AwayPenalties *int         `json:"away_penalties,omitempty"`
	Events        []MatchEvent `json:"events,omitempty"`
}

// HasPenalties reports whether a shoot-out score was entered.
func (r MatchResult) HasPenalties() bool {
	return r.HomePenalties != nil && r.AwayPenalties != nil
}

// Match is a fixture or a bracket slot. UID is unique inside a tournament and
// is what the engine addresses; ID is assigned by the store.
type Match struct {
	ID           int          `json:"id" db:"id"`
	UID          string       `json:"uid" db:"uid"`
	TournamentID int          `json:"tournament_id" db:"tournament_id"`
	HomeTeamID   *int         `json:"home_team_id,omitempty" db:"home_team_id"`
	AwayTeamID   *int         `json:"away_team_id,omitempty" db:"away_team_id"`
	Round        int          `json:"round" db:"round"`
	Slot         int          `json:"slot" db:"slot"` // 0-based position inside a knockout round
	Leg          int          `json:"leg,omitempty" db:"leg"`
	Phase        Phase        `json:"phase" db:"phase"`
	GroupLabel   string       `json:"group,omitempty" db:"group_label"`
	IsBye        bool         `json:"is_bye,omitempty" db:"is_bye"`
	Status       MatchStatus  `json:"status" db:"status"`
	Result       *MatchResult `json:"result,omitempty" db:"-"`
	WinnerTeamID *int         `json:"winner_team_id,omitempty" db:"winner_team_id"`
	MatchDate    *time.Time   `json:"match_date,omitempty" db:"match_date"`
}

func (m Match) Played() bool { return m.Status == MatchStatusPlayed }

// HasBothTeams reports whether both slots are filled.
func (m Match) HasBothTeams() bool { return m.HomeTeamID != nil && m.AwayTeamID != nil }

// Involves reports whether the team occupies one of the slots.
func (m Match) Involves(teamID int) bool {
	return (m.HomeTeamID != nil && *m.HomeTeamID == teamID) || (m.AwayTeamID != nil && *m.AwayTeamID == teamID)
}

// Clone returns a deep copy so engine callers never share pointers.
func (m Match) Clone() Match {
	c := m
	c.HomeTeamID = cloneInt(m.HomeTeamID)
	c.AwayTeamID = cloneInt(m.AwayTeamID)
	c.WinnerTeamID = cloneInt(m.WinnerTeamID)
	if m.MatchDate != nil {
		d := *m.MatchDate
		c.MatchDate = &d
	}
	if m.Result != nil {
		r := *m.Result
		r.HomePenalties = cloneInt(m.Result.HomePenalties)
		r.AwayPenalties = cloneInt(m.Result.AwayPenalties)
		if m.Result.Events != nil {
			r.Events = append([]MatchEvent(nil), m.Result.Events...)
		}
		c.Result = &r
	}
	return c
}

// IntPtr is a small helper for optional team slots.
func IntPtr(v int) *int { return &v }

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
