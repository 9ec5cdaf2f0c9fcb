package repositories

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/tournament-engine/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLeague(t *testing.T, store Store) *models.Tournament {
	t.Helper()
	cfg, err := models.NewTournamentConfig(models.FormatLeague)
	require.NoError(t, err)
	tournament := &models.Tournament{Name: "Copa Barrio", OrganizerID: 7, Config: cfg}
	require.NoError(t, store.Tournaments().Create(context.Background(), tournament))
	return tournament
}

func TestMemoryStoreTournaments(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore("")
	require.NoError(t, err)

	created := newLeague(t, store)
	assert.Equal(t, 1, created.ID)
	assert.Equal(t, models.StageDraft, created.Stage)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := store.Tournaments().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Copa Barrio", got.Name)
	assert.Equal(t, 7, got.OrganizerID)

	got.Stage = models.StageCompleted
	got.ChampionID = models.IntPtr(3)
	require.NoError(t, store.Tournaments().Update(ctx, got))

	again, err := store.Tournaments().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageCompleted, again.Stage)
	assert.Equal(t, 3, *again.ChampionID)

	_, err = store.Tournaments().GetByID(ctx, 99)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
	assert.ErrorIs(t, store.Tournaments().Update(ctx, &models.Tournament{ID: 99}), ErrTournamentNotFound)

	err = store.Tournaments().Create(ctx, &models.Tournament{Name: "bad", Config: models.TournamentConfig{Format: "swiss"}})
	assert.ErrorIs(t, err, models.ErrInvalidTournamentConfig)
}

func TestMemoryStoreTeams(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore("")
	require.NoError(t, err)
	tournament := newLeague(t, store)

	teams := []models.Team{
		{TournamentID: tournament.ID, Name: "Leones"},
		{TournamentID: tournament.ID, Name: "Tigres"},
	}
	require.NoError(t, store.Teams().CreateBatch(ctx, teams))
	assert.Equal(t, 1, teams[0].ID)
	assert.Equal(t, 2, teams[1].ID)

	list, err := store.Teams().ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Leones", list[0].Name)

	err = store.Teams().CreateBatch(ctx, []models.Team{{TournamentID: tournament.ID, Name: "leones "}})
	assert.ErrorIs(t, err, ErrTeamNameConflict)

	err = store.Teams().CreateBatch(ctx, []models.Team{{TournamentID: 42, Name: "Pumas"}})
	assert.ErrorIs(t, err, ErrTournamentInvalid)

	empty, err := store.Teams().ListByTournament(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMemoryStoreMatches(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore("")
	require.NoError(t, err)
	tournament := newLeague(t, store)

	matches := []models.Match{
		{UID: "J1M1", TournamentID: tournament.ID, HomeTeamID: models.IntPtr(1), AwayTeamID: models.IntPtr(2), Round: 1, Status: models.MatchStatusPending, Phase: models.PhaseLeague},
		{UID: "J1M2", TournamentID: tournament.ID, HomeTeamID: models.IntPtr(3), AwayTeamID: models.IntPtr(4), Round: 1, Slot: 1, Status: models.MatchStatusPending, Phase: models.PhaseLeague},
	}
	require.NoError(t, store.Matches().CreateBatch(ctx, matches))
	assert.NotZero(t, matches[0].ID)

	err = store.Matches().CreateBatch(ctx, []models.Match{{UID: "J1M1", TournamentID: tournament.ID}})
	assert.ErrorIs(t, err, ErrMatchConflict)

	played := matches[0]
	played.Status = models.MatchStatusPlayed
	played.Result = &models.MatchResult{HomeGoals: 2, AwayGoals: 1}
	played.WinnerTeamID = models.IntPtr(1)
	played.ID = 0
	require.NoError(t, store.Matches().UpdateBatch(ctx, []models.Match{played}))

	list, err := store.Matches().ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.MatchStatusPlayed, list[0].Status)
	assert.Equal(t, 2, list[0].Result.HomeGoals)
	assert.Equal(t, 1, *list[0].WinnerTeamID)
	assert.Equal(t, models.MatchStatusPending, list[1].Status)

	err = store.Matches().UpdateBatch(ctx, []models.Match{{UID: "J9M9", TournamentID: tournament.ID}})
	assert.ErrorIs(t, err, ErrMatchNotFound)

	// Returned matches are copies.
	*list[1].HomeTeamID = 99
	fresh, err := store.Matches().ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, *fresh[1].HomeTeamID)
}

func TestMemoryStoreWithinTxRollsBack(t *testing.T) {
	ctx := context.Background()
	store, err := NewMemoryStore("")
	require.NoError(t, err)
	tournament := newLeague(t, store)

	boom := errors.New("boom")
	err = store.WithinTx(ctx, func(tx Store) error {
		if err := tx.Teams().CreateBatch(ctx, []models.Team{{TournamentID: tournament.ID, Name: "Leones"}}); err != nil {
			return err
		}
		tournament.Stage = models.StageScheduled
		if err := tx.Tournaments().Update(ctx, tournament); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	teams, err := store.Teams().ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, teams)
	got, err := store.Tournaments().GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StageDraft, got.Stage)

	err = store.WithinTx(ctx, func(tx Store) error {
		return tx.Teams().CreateBatch(ctx, []models.Team{{TournamentID: tournament.ID, Name: "Leones"}})
	})
	require.NoError(t, err)
	teams, err = store.Teams().ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, teams, 1)
}

func TestMemoryStoreWithinTxCancelledContext(t *testing.T) {
	store, err := NewMemoryStore("")
	require.NoError(t, err)
	tournament := newLeague(t, store)

	ctx, cancel := context.WithCancel(context.Background())
	err = store.WithinTx(ctx, func(tx Store) error {
		cancel()
		return tx.Teams().CreateBatch(ctx, []models.Team{{TournamentID: tournament.ID, Name: "Leones"}})
	})
	assert.ErrorIs(t, err, context.Canceled)

	teams, err := store.Teams().ListByTournament(context.Background(), tournament.ID)
	require.NoError(t, err)
	assert.Empty(t, teams)
}

func TestMemoryStorePersistsToFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.json")

	store, err := NewMemoryStore(path)
	require.NoError(t, err)
	tournament := newLeague(t, store)
	require.NoError(t, store.Teams().CreateBatch(ctx, []models.Team{{TournamentID: tournament.ID, Name: "Leones"}}))
	require.NoError(t, store.Matches().CreateBatch(ctx, []models.Match{{UID: "J1M1", TournamentID: tournament.ID, Status: models.MatchStatusPending}}))

	reopened, err := NewMemoryStore(path)
	require.NoError(t, err)
	got, err := reopened.Tournaments().GetByID(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Equal(t, "Copa Barrio", got.Name)
	teams, err := reopened.Teams().ListByTournament(ctx, tournament.ID)
	require.NoError(t, err)
	assert.Len(t, teams, 1)

	// Sequences survive a restart.
	second := newLeague(t, reopened)
	assert.Equal(t, 2, second.ID)
}

func TestMemoryStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))
	_, err := NewMemoryStore(path)
	assert.ErrorIs(t, err, ErrCorruptStoredRecord)
}
