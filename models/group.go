package models

import "sort"

// Group is one labelled group with its team order.
type Group struct {
	Label   string      `json:"label"`
	Format  GroupFormat `json:"format"`
	TeamIDs []int       `json:"team_ids"`
}

// GroupAssignment partitions a tournament's teams. Byes are teams that skip
// the group phase. It is produced once and replaced, never edited, when a
// schedule is regenerated.
type GroupAssignment struct {
	Groups []Group `json:"groups"`
	Byes   []int   `json:"byes,omitempty"`
}

// Labels returns group labels in sorted order.
func (a GroupAssignment) Labels() []string {
	labels := make([]string, 0, len(a.Groups))
	for _, g := range a.Groups {
		labels = append(labels, g.Label)
	}
	sort.Strings(labels)
	return labels
}

// Group looks a group up by label.
func (a GroupAssignment) Group(label string) (Group, bool) {
	for _, g := range a.Groups {
		if g.Label == label {
			return g, true
		}
	}
	return Group{}, false
}

// GroupOf returns the label of the group containing the team.
func (a GroupAssignment) GroupOf(teamID int) (string, bool) {
	for _, g := range a.Groups {
		for _, id := range g.TeamIDs {
			if id == teamID {
				return g.Label, true
			}
		}
	}
	return "", false
}

// GroupLabel returns the label for the i-th group: A, B, ..., Z, AA, AB, ...
func GroupLabel(i int) string {
	label := ""
	for i >= 0 {
		label = string(rune('A'+i%26)) + label
		i = i/26 - 1
	}
	return label
}
