package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// TournamentFormat is the closed set of supported tournament formats.
type TournamentFormat string

const (
	FormatLeague        TournamentFormat = "league"
	FormatKnockout      TournamentFormat = "knockout"
	FormatGroup         TournamentFormat = "group"
	FormatGroupKnockout TournamentFormat = "group+knockout"
	FormatTriangular    TournamentFormat = "triangular"
	FormatMixed         TournamentFormat = "mixed"
)

// HasGroups reports whether the format plays a group phase.
func (f TournamentFormat) HasGroups() bool {
	return f == FormatGroup || f == FormatGroupKnockout || f == FormatMixed
}

func (f TournamentFormat) Valid() bool {
	switch f {
	case FormatLeague, FormatKnockout, FormatGroup, FormatGroupKnockout, FormatTriangular, FormatMixed:
		return true
	}
	return false
}

// TieBreakPolicy decides who advances from a drawn knockout fixture.
type TieBreakPolicy string

const (
	// TieBreakPenalties requires a penalty shoot-out score on drawn knockout results.
	TieBreakPenalties TieBreakPolicy = "penalties"
	// TieBreakHomeAdvances lets the home side through on a draw.
	TieBreakHomeAdvances TieBreakPolicy = "home-advances"
)

var ErrInvalidTournamentConfig = errors.New("invalid tournament config")

// TournamentConfig is read-only once the tournament is configured.
// Build it with NewTournamentConfig or call Validate after decoding.
type TournamentConfig struct {
	Format             TournamentFormat `json:"format"`
	PointsForWin       int              `json:"points_for_win"`
	PointsForDraw      int              `json:"points_for_draw"`
	PointsForLoss      int              `json:"points_for_loss"`
	AllowDraws         bool             `json:"allow_draws"`
	DoubleRoundRobin   bool             `json:"double_round_robin,omitempty"`
	QualifiersPerGroup int              `json:"qualifiers_per_group,omitempty"`
	GroupSize          int              `json:"group_size,omitempty"` // preferred: 3 or 4, 0 picks automatically
	TieBreak           TieBreakPolicy   `json:"tie_break,omitempty"`
}

// ConfigOption tweaks a TournamentConfig during construction.
type ConfigOption func(*TournamentConfig)

func WithPoints(win, draw, loss int) ConfigOption {
	return func(c *TournamentConfig) {
		c.PointsForWin, c.PointsForDraw, c.PointsForLoss = win, draw, loss
	}
}

func WithDraws(allowed bool) ConfigOption {
	return func(c *TournamentConfig) { c.AllowDraws = allowed }
}

func WithDoubleRoundRobin() ConfigOption {
	return func(c *TournamentConfig) { c.DoubleRoundRobin = true }
}

func WithQualifiersPerGroup(n int) ConfigOption {
	return func(c *TournamentConfig) { c.QualifiersPerGroup = n }
}

func WithGroupSize(n int) ConfigOption {
	return func(c *TournamentConfig) { c.GroupSize = n }
}

func WithTieBreak(p TieBreakPolicy) ConfigOption {
	return func(c *TournamentConfig) { c.TieBreak = p }
}

// NewTournamentConfig returns a validated config. Defaults are 3/1/0 points,
// draws allowed, two qualifiers per group and penalties on knockout draws.
func NewTournamentConfig(format TournamentFormat, opts ...ConfigOption) (TournamentConfig, error) {
	cfg := TournamentConfig{
		Format:        format,
		PointsForWin:  3,
		PointsForDraw: 1,
		PointsForLoss: 0,
		AllowDraws:    true,
		TieBreak:      TieBreakPenalties,
	}
	if format == FormatGroupKnockout {
		cfg.QualifiersPerGroup = 2
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return TournamentConfig{}, err
	}
	return cfg, nil
}

// Validate rejects combinations the engine cannot serve.
func (c TournamentConfig) Validate() error {
	if !c.Format.Valid() {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidTournamentConfig, c.Format)
	}
	if c.PointsForWin < 0 || c.PointsForDraw < 0 || c.PointsForLoss < 0 {
		return fmt.Errorf("%w: points must not be negative", ErrInvalidTournamentConfig)
	}
	if c.PointsForWin <= c.PointsForDraw || c.PointsForDraw < c.PointsForLoss {
		return fmt.Errorf("%w: points must satisfy win > draw >= loss (got %d/%d/%d)",
			ErrInvalidTournamentConfig, c.PointsForWin, c.PointsForDraw, c.PointsForLoss)
	}
	if c.GroupSize != 0 && c.GroupSize != 3 && c.GroupSize != 4 {
		return fmt.Errorf("%w: group size must be 3 or 4, got %d", ErrInvalidTournamentConfig, c.GroupSize)
	}
	switch c.Format {
	case FormatGroupKnockout:
		if c.QualifiersPerGroup < 1 {
			return fmt.Errorf("%w: group+knockout needs at least one qualifier per group", ErrInvalidTournamentConfig)
		}
		if c.GroupSize != 0 && c.QualifiersPerGroup > c.GroupSize {
			return fmt.Errorf("%w: %d qualifiers do not fit a group of %d", ErrInvalidTournamentConfig, c.QualifiersPerGroup, c.GroupSize)
		}
	default:
		if c.QualifiersPerGroup != 0 {
			return fmt.Errorf("%w: qualifiers per group only apply to group+knockout", ErrInvalidTournamentConfig)
		}
	}
	if c.Format == FormatKnockout && c.DoubleRoundRobin {
		return fmt.Errorf("%w: knockout cannot be played as double round robin", ErrInvalidTournamentConfig)
	}
	switch c.TieBreak {
	case "", TieBreakPenalties, TieBreakHomeAdvances:
	default:
		return fmt.Errorf("%w: unknown tie-break policy %q", ErrInvalidTournamentConfig, c.TieBreak)
	}
	return nil
}

// EffectiveTieBreak defaults an unset policy to penalties.
func (c TournamentConfig) EffectiveTieBreak() TieBreakPolicy {
	if c.TieBreak == "" {
		return TieBreakPenalties
	}
	return c.TieBreak
}

// ParseTournamentConfig decodes and validates a stored config document.
func ParseTournamentConfig(raw []byte) (TournamentConfig, error) {
	var cfg TournamentConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return TournamentConfig{}, fmt.Errorf("%w: %v", ErrInvalidTournamentConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return TournamentConfig{}, err
	}
	return cfg, nil
}
