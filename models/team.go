package models

import "time"

// Team is owned by the host application; the engine only reads it.
type Team struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	Category     string    `json:"category,omitempty" db:"category"`
	PlayFormat   string    `json:"play_format,omitempty" db:"play_format"` // e.g. "F11", "F7"
	City         string    `json:"city,omitempty" db:"city"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// TeamIDs returns the identifiers of teams in input order.
func TeamIDs(teams []Team) []int {
	ids := make([]int, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	return ids
}
