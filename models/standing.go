package models

// ClassificationEntry is one row of a standings table. It is derived from the
// match log on every computation and never stored as authoritative state.
type ClassificationEntry struct {
	TeamID         int    `json:"team_id"`
	GroupLabel     string `json:"group,omitempty"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
	Rank           int    `json:"rank"`
}
