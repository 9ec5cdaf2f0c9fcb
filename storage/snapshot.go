package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// Snapshot is the archived picture of a tournament once it has a champion.
type Snapshot struct {
	TournamentID   int                                     `json:"tournament_id"`
	Name           string                                  `json:"name"`
	Format         models.TournamentFormat                 `json:"format"`
	ChampionID     *int                                    `json:"champion_id,omitempty"`
	Standings      []models.ClassificationEntry            `json:"standings,omitempty"`
	GroupStandings map[string][]models.ClassificationEntry `json:"group_standings,omitempty"`
	Matches        []models.Match                          `json:"matches"`
	ArchivedAt     time.Time                               `json:"archived_at"`
}

type SnapshotArchiver struct {
	uploader FileUploader
	now      func() time.Time
}

func NewSnapshotArchiver(uploader FileUploader) *SnapshotArchiver {
	return &SnapshotArchiver{uploader: uploader, now: time.Now}
}

// SnapshotKey is the object key a tournament's snapshot is written to.
func SnapshotKey(tournamentID int) string {
	return fmt.Sprintf("tournaments/%d/snapshot.json", tournamentID)
}

// Archive uploads the snapshot as JSON, replacing any earlier one.
func (a *SnapshotArchiver) Archive(ctx context.Context, snap Snapshot) (*UploadResult, error) {
	if snap.ArchivedAt.IsZero() {
		snap.ArchivedAt = a.now().UTC()
	}
	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot for tournament %d: %w", snap.TournamentID, err)
	}
	return a.uploader.Upload(ctx, SnapshotKey(snap.TournamentID), "application/json", bytes.NewReader(body))
}
