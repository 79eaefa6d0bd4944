// file: internal/battle/battle.go
// version: 1.0.0
// guid: c7e3190b-2d84-4a6f-9b51-3e0f8d6a2c95

package battle

import (
	"errors"
	"strconv"

	ulid "github.com/oklog/ulid/v2"
)

// ErrIncomplete is returned by Compare when a slot has not been filled.
var ErrIncomplete = errors.New("battle: both sides must be selected")

// Slot identifies one side of a comparison.
type Slot int

const (
	Left Slot = iota
	Right
)

func (s Slot) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// Side is the part of a creature record the scorer needs.
type Side struct {
	Name  string
	Types []string
	Stats []int // base stats, normally six
}

// Session holds the two creatures selected for a comparison. Callers own it
// and pass it to Compare; nothing is kept in package state.
type Session struct {
	ID    string
	left  *Side
	right *Side
}

// NewSession starts an empty comparison.
func NewSession() *Session {
	return &Session{ID: ulid.Make().String()}
}

// Select fills a slot, replacing whatever was there.
func (s *Session) Select(slot Slot, side Side) {
	if slot == Left {
		s.left = &side
		return
	}
	s.right = &side
}

// Get returns the side in slot, if selected.
func (s *Session) Get(slot Slot) (Side, bool) {
	p := s.right
	if slot == Left {
		p = s.left
	}
	if p == nil {
		return Side{}, false
	}
	return *p, true
}

// Ready reports whether both slots are filled.
func (s *Session) Ready() bool {
	return s.left != nil && s.right != nil
}

// SideResult is the scored view of one side.
type SideResult struct {
	Name       string
	StatTotal  int
	Multiplier float64 // effectiveness against the opposing side's types
	Score      float64
}

// Result is the outcome of a comparison.
type Result struct {
	SessionID string
	Left      SideResult
	Right     SideResult
	Winner    string // "left", "right" or "draw"
}

// StatTotal sums base stats.
func StatTotal(stats []int) int {
	total := 0
	for _, s := range stats {
		total += s
	}
	return total
}

// Score is statTotal * multiplier with no clamping.
func Score(statTotal int, multiplier float64) float64 {
	return float64(statTotal) * multiplier
}

// Compare scores both sides of the session against each other.
func Compare(s *Session) (Result, error) {
	if s == nil || !s.Ready() {
		return Result{}, ErrIncomplete
	}

	left := score(*s.left, *s.right)
	right := score(*s.right, *s.left)

	winner := "draw"
	switch {
	case left.Score > right.Score:
		winner = Left.String()
	case right.Score > left.Score:
		winner = Right.String()
	}

	return Result{SessionID: s.ID, Left: left, Right: right, Winner: winner}, nil
}

func score(attacker, defender Side) SideResult {
	total := StatTotal(attacker.Stats)
	mult := Effectiveness(attacker.Types, defender.Types)
	return SideResult{
		Name:       attacker.Name,
		StatTotal:  total,
		Multiplier: mult,
		Score:      Score(total, mult),
	}
}

// FormatNumber renders multipliers and scores with the same fixed precision.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
