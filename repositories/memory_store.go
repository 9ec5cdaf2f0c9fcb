package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/tournament-engine/models"
)

// cacheDocument is the on-disk layout of the key-value cache: one key per
// collection, each rewritten whole on every commit.
type cacheDocument struct {
	Tournaments []models.Tournament `json:"tournaments"`
	Teams       []models.Team       `json:"teams"`
	Matches     []models.Match      `json:"matches"`
	Sequences   map[string]int      `json:"sequences"`
}

type memoryData struct {
	mu          sync.Mutex
	tournaments map[int]models.Tournament
	teams       map[int]models.Team
	matches     map[int]models.Match
	seq         map[string]int
	path        string
}

// MemoryStore is the local key-value cache backend. It keeps whole
// collections in memory and, when a path is set, writes them to a JSON file
// after every commit.
type MemoryStore struct {
	data *memoryData
	txMu *sync.Mutex
	inTx bool
}

// NewMemoryStore opens the cache. An empty path keeps everything in memory.
func NewMemoryStore(path string) (*MemoryStore, error) {
	data := &memoryData{
		tournaments: make(map[int]models.Tournament),
		teams:       make(map[int]models.Team),
		matches:     make(map[int]models.Match),
		seq:         make(map[string]int),
		path:        path,
	}
	if path != "" {
		if err := data.load(); err != nil {
			return nil, err
		}
	}
	return &MemoryStore{data: data, txMu: &sync.Mutex{}}, nil
}

func (s *MemoryStore) Tournaments() TournamentRepository { return &memoryTournaments{s} }
func (s *MemoryStore) Teams() TeamRepository             { return &memoryTeams{s} }
func (s *MemoryStore) Matches() MatchRepository          { return &memoryMatches{s} }

// WithinTx snapshots the collections, runs fn and restores the snapshot when
// fn fails. Transactions are serialized.
func (s *MemoryStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.data.mu.Lock()
	snapshot := s.data.snapshot()
	s.data.mu.Unlock()

	if err := fn(&MemoryStore{data: s.data, txMu: s.txMu, inTx: true}); err != nil {
		s.data.mu.Lock()
		s.data.restore(snapshot)
		s.data.mu.Unlock()
		return err
	}
	if err := ctx.Err(); err != nil {
		s.data.mu.Lock()
		s.data.restore(snapshot)
		s.data.mu.Unlock()
		return err
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	return s.data.flush()
}

// write runs a mutation under the data lock and flushes unless a
// transaction will flush on commit.
func (s *MemoryStore) write(fn func(d *memoryData) error) error {
	if !s.inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	if err := fn(s.data); err != nil {
		return err
	}
	if s.inTx {
		return nil
	}
	return s.data.flush()
}

func (s *MemoryStore) read(fn func(d *memoryData)) {
	s.data.mu.Lock()
	defer s.data.mu.Unlock()
	fn(s.data)
}

func (d *memoryData) next(collection string) int {
	d.seq[collection]++
	return d.seq[collection]
}

func (d *memoryData) snapshot() cacheDocument {
	doc := cacheDocument{Sequences: make(map[string]int, len(d.seq))}
	for _, t := range d.tournaments {
		doc.Tournaments = append(doc.Tournaments, cloneTournament(t))
	}
	for _, t := range d.teams {
		doc.Teams = append(doc.Teams, t)
	}
	for _, m := range d.matches {
		doc.Matches = append(doc.Matches, m.Clone())
	}
	for k, v := range d.seq {
		doc.Sequences[k] = v
	}
	sort.Slice(doc.Tournaments, func(i, j int) bool { return doc.Tournaments[i].ID < doc.Tournaments[j].ID })
	sort.Slice(doc.Teams, func(i, j int) bool { return doc.Teams[i].ID < doc.Teams[j].ID })
	sort.Slice(doc.Matches, func(i, j int) bool { return doc.Matches[i].ID < doc.Matches[j].ID })
	return doc
}

func (d *memoryData) restore(doc cacheDocument) {
	d.tournaments = make(map[int]models.Tournament, len(doc.Tournaments))
	for _, t := range doc.Tournaments {
		d.tournaments[t.ID] = t
	}
	d.teams = make(map[int]models.Team, len(doc.Teams))
	for _, t := range doc.Teams {
		d.teams[t.ID] = t
	}
	d.matches = make(map[int]models.Match, len(doc.Matches))
	for _, m := range doc.Matches {
		d.matches[m.ID] = m
	}
	d.seq = make(map[string]int, len(doc.Sequences))
	for k, v := range doc.Sequences {
		d.seq[k] = v
	}
}

func (d *memoryData) load() error {
	raw, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read cache file: %w", err)
	}
	var doc cacheDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: cache file %s: %v", ErrCorruptStoredRecord, d.path, err)
	}
	d.restore(doc)
	return nil
}

// flush writes the whole document through a temp file and a rename.
func (d *memoryData) flush() error {
	if d.path == "" {
		return nil
	}
	raw, err := json.MarshalIndent(d.snapshot(), "", "\t")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(d.path), ".cache-*.json")
	if err != nil {
		return fmt.Errorf("create cache temp file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close cache temp file: %w", err)
	}
	return os.Rename(tmp.Name(), d.path)
}

func cloneTournament(t models.Tournament) models.Tournament {
	c := t
	c.Teams = nil
	c.Matches = nil
	if t.Groups != nil {
		g := models.GroupAssignment{Byes: append([]int(nil), t.Groups.Byes...)}
		for _, grp := range t.Groups.Groups {
			grp.TeamIDs = append([]int(nil), grp.TeamIDs...)
			g.Groups = append(g.Groups, grp)
		}
		c.Groups = &g
	}
	if t.StartDate != nil {
		d := *t.StartDate
		c.StartDate = &d
	}
	if t.ChampionID != nil {
		c.ChampionID = models.IntPtr(*t.ChampionID)
	}
	return c
}

type memoryTournaments struct{ s *MemoryStore }

func (r *memoryTournaments) Create(_ context.Context, t *models.Tournament) error {
	if err := t.Config.Validate(); err != nil {
		return err
	}
	return r.s.write(func(d *memoryData) error {
		t.ID = d.next("tournaments")
		if t.Stage == "" {
			t.Stage = models.StageDraft
		}
		t.CreatedAt = time.Now().UTC()
		d.tournaments[t.ID] = cloneTournament(*t)
		return nil
	})
}

func (r *memoryTournaments) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	var (
		t  models.Tournament
		ok bool
	)
	r.s.read(func(d *memoryData) {
		t, ok = d.tournaments[id]
		t = cloneTournament(t)
	})
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return &t, nil
}

func (r *memoryTournaments) Update(_ context.Context, t *models.Tournament) error {
	return r.s.write(func(d *memoryData) error {
		stored, ok := d.tournaments[t.ID]
		if !ok {
			return ErrTournamentNotFound
		}
		stored.Stage = t.Stage
		stored.Groups = t.Groups
		stored.StartDate = t.StartDate
		stored.ChampionID = t.ChampionID
		d.tournaments[t.ID] = cloneTournament(stored)
		return nil
	})
}

type memoryTeams struct{ s *MemoryStore }

func (r *memoryTeams) CreateBatch(_ context.Context, teams []models.Team) error {
	return r.s.write(func(d *memoryData) error {
		names := make(map[string]bool)
		for _, t := range d.teams {
			names[teamNameKey(t)] = true
		}
		for i := range teams {
			if _, ok := d.tournaments[teams[i].TournamentID]; !ok {
				return ErrTournamentInvalid
			}
			key := teamNameKey(teams[i])
			if names[key] {
				return fmt.Errorf("%w: %q", ErrTeamNameConflict, teams[i].Name)
			}
			names[key] = true
		}
		for i := range teams {
			teams[i].ID = d.next("teams")
			teams[i].CreatedAt = time.Now().UTC()
			d.teams[teams[i].ID] = teams[i]
		}
		return nil
	})
}

func teamNameKey(t models.Team) string {
	return fmt.Sprintf("%d/%s", t.TournamentID, strings.ToLower(strings.TrimSpace(t.Name)))
}

func (r *memoryTeams) ListByTournament(_ context.Context, tournamentID int) ([]models.Team, error) {
	teams := make([]models.Team, 0)
	r.s.read(func(d *memoryData) {
		for _, t := range d.teams {
			if t.TournamentID == tournamentID {
				teams = append(teams, t)
			}
		}
	})
	sort.Slice(teams, func(i, j int) bool { return teams[i].ID < teams[j].ID })
	return teams, nil
}

type memoryMatches struct{ s *MemoryStore }

func (r *memoryMatches) CreateBatch(_ context.Context, matches []models.Match) error {
	return r.s.write(func(d *memoryData) error {
		for i := range matches {
			if _, ok := d.tournaments[matches[i].TournamentID]; !ok {
				return ErrTournamentInvalid
			}
			if _, found := d.findByUID(matches[i].TournamentID, matches[i].UID); found {
				return fmt.Errorf("%w: %s", ErrMatchConflict, matches[i].UID)
			}
		}
		for i := range matches {
			matches[i].ID = d.next("matches")
			d.matches[matches[i].ID] = matches[i].Clone()
		}
		return nil
	})
}

func (r *memoryMatches) ListByTournament(_ context.Context, tournamentID int) ([]models.Match, error) {
	matches := make([]models.Match, 0)
	r.s.read(func(d *memoryData) {
		for _, m := range d.matches {
			if m.TournamentID == tournamentID {
				matches = append(matches, m.Clone())
			}
		}
	})
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	return matches, nil
}

func (r *memoryMatches) UpdateBatch(_ context.Context, matches []models.Match) error {
	return r.s.write(func(d *memoryData) error {
		ids := make([]int, len(matches))
		for i, m := range matches {
			id, found := d.findByUID(m.TournamentID, m.UID)
			if !found {
				return fmt.Errorf("%w: %s", ErrMatchNotFound, m.UID)
			}
			ids[i] = id
		}
		for i, m := range matches {
			stored := d.matches[ids[i]]
			stored.HomeTeamID = m.HomeTeamID
			stored.AwayTeamID = m.AwayTeamID
			stored.Status = m.Status
			stored.Result = m.Result
			stored.WinnerTeamID = m.WinnerTeamID
			stored.MatchDate = m.MatchDate
			d.matches[ids[i]] = stored.Clone()
		}
		return nil
	})
}

func (d *memoryData) findByUID(tournamentID int, uid string) (int, bool) {
	for id, m := range d.matches {
		if m.TournamentID == tournamentID && m.UID == uid {
			return id, true
		}
	}
	return 0, false
}
