// Package model contains domain models passed between layers.
package model

// PlayerRecord is one player's feature row for a single game.
//
// The seven base stats arrive raw and are rewritten in place by normalization.
// HPPGOTSHGA is derived from the normalized HPPG and OTSHGA.
type PlayerRecord struct {
	GPG        float64 // goals per game
	HGPG       float64 // home goals per game
	FiveGPG    float64 // goals per game over the trailing five games
	TGPG       float64 // team goals per game
	OTGA       float64 // opponent total goals against
	HPPG       float64 // home power-play goals rate
	OTSHGA     float64 // opponent shots-against rate
	IsHome     float64 // 1 when playing at home, 0 otherwise
	HPPGOTSHGA float64 // interaction term HPPG * OTSHGA

	// Outcome fields, nil for pure prediction.
	Scored *float64 // >0 means the player scored
	Tims   *int     // betting-slot group 1..3
	Date   *string  // grouping key, batches are sorted by it
}

// ScoredTruthy reports whether the outcome flag is present and positive.
func (p *PlayerRecord) ScoredTruthy() bool {
	return p.Scored != nil && *p.Scored > 0
}

// Category returns the zero-based category slot and whether the record has a
// usable TIMS group.
func (p *PlayerRecord) Category() (int, bool) {
	if p.Tims == nil {
		return 0, false
	}
	if g := *p.Tims; g >= 1 && g <= Categories {
		return g - 1, true
	}
	return 0, false
}

// Categories is the number of TIMS groups picked per date.
const Categories = 3

// SameDate reports whether two grouping keys are equal. Two absent keys match.
func SameDate(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// ClonePlayers returns a copy of the batch so callers keep ownership of theirs.
// Optional fields are shared; they are never written through.
func ClonePlayers(players []PlayerRecord) []PlayerRecord {
	out := make([]PlayerRecord, len(players))
	copy(out, players)
	return out
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }

// String returns a pointer to v.
func String(v string) *string { return &v }
