package models

import "time"

// TournamentStage tracks the one-way phase transitions of a tournament.
type TournamentStage string

const (
	StageDraft          TournamentStage = "draft"
	StageScheduled      TournamentStage = "scheduled"
	StageGroups         TournamentStage = "groups"
	StageKnockoutSeeded TournamentStage = "knockout-seeded"
	StageCompleted      TournamentStage = "completed"
)

type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	Config      TournamentConfig `json:"config" db:"config_json"`
	Stage       TournamentStage  `json:"stage" db:"stage"`
	Groups      *GroupAssignment `json:"groups,omitempty" db:"groups_json"`
	StartDate   *time.Time       `json:"start_date,omitempty" db:"start_date"`
	ChampionID  *int             `json:"champion_id,omitempty" db:"champion_id"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	Teams       []Team           `json:"teams,omitempty" db:"-"`
	Matches     []Match          `json:"matches,omitempty" db:"-"`
}

// TournamentState is everything the engine needs for one tournament. Engine
// functions read it and return new values; they never mutate it.
type TournamentState struct {
	TournamentID int
	Config       TournamentConfig
	Stage        TournamentStage
	Teams        []Team
	Groups       *GroupAssignment
	Matches      []Match
}

// StateOf builds the engine view of a loaded tournament.
func StateOf(t *Tournament) TournamentState {
	return TournamentState{
		TournamentID: t.ID,
		Config:       t.Config,
		Stage:        t.Stage,
		Teams:        t.Teams,
		Groups:       t.Groups,
		Matches:      t.Matches,
	}
}

// MatchByUID returns a copy of the match and its index in the log.
func (s TournamentState) MatchByUID(uid string) (Match, int, bool) {
	for i, m := range s.Matches {
		if m.UID == uid {
			return m.Clone(), i, true
		}
	}
	return Match{}, -1, false
}

// WithMatches returns a copy of the state with the given matches replaced by
// UID or appended when new.
func (s TournamentState) WithMatches(updated ...Match) TournamentState {
	next := s
	next.Matches = make([]Match, len(s.Matches))
	for i, m := range s.Matches {
		next.Matches[i] = m.Clone()
	}
	for _, u := range updated {
		replaced := false
		for i := range next.Matches {
			if next.Matches[i].UID == u.UID {
				next.Matches[i] = u.Clone()
				replaced = true
				break
			}
		}
		if !replaced {
			next.Matches = append(next.Matches, u.Clone())
		}
	}
	return next
}

// HasTeam reports whether the team belongs to the tournament.
func (s TournamentState) HasTeam(teamID int) bool {
	for _, t := range s.Teams {
		if t.ID == teamID {
			return true
		}
	}
	return false
}
