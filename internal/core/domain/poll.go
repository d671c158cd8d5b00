package domain

import (
	"time"

	"github.com/google/uuid"
)

// Poll is a single question with an ordered option list. The position of an
// option in Options is the choice index votes refer to, so options never
// change once a poll is active or has votes.
type Poll struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Question  string    `json:"question"`
	Options   []string  `json:"options"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidChoice reports whether index addresses one of the poll options.
func (p *Poll) ValidChoice(index int) bool {
	return index >= 0 && index < len(p.Options)
}

type OptionResult struct {
	Option string `json:"option"`
	Votes  int64  `json:"votes"`
}

// PollResults is the active poll together with its tallies, one entry per
// option in option order.
type PollResults struct {
	Poll    *Poll
	Results []OptionResult
	Total   int64
}

// WardResults holds the tallies of the votes cast with a given ward label. A
// nil Ward groups votes submitted without one.
type WardResults struct {
	Ward    *string
	Results []OptionResult
	Total   int64
}

// Tally zero-fills counts against options. Counts for indexes outside of the
// option list are ignored.
func Tally(options []string, counts map[int]int64) ([]OptionResult, int64) {
	results := make([]OptionResult, len(options))
	var total int64
	for i, opt := range options {
		results[i] = OptionResult{Option: opt, Votes: counts[i]}
		total += counts[i]
	}
	return results, total
}
