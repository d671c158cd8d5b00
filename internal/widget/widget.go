// Package widget is the client side of the ward poll: it loads the active
// poll, tracks a single selection and submits it once per poll.
package widget

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"sync"
)

type State int

const (
	StateLoading State = iota
	StateNoActivePoll
	StateReady
	StateLoadFailed
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateNoActivePoll:
		return "no active poll"
	case StateReady:
		return "ready"
	case StateLoadFailed:
		return "load failed"
	}
	return "unknown"
}

var (
	ErrNotReady       = errors.New("poll is not loaded")
	ErrNoSelection    = errors.New("no option selected")
	ErrAlreadyVoted   = errors.New("already voted in this poll")
	ErrSubmitInFlight = errors.New("a vote is already being submitted")
	ErrUnknownOption  = errors.New("option does not exist")
)

// PollAPI is the subset of Client the widget needs.
type PollAPI interface {
	FetchPoll(ctx context.Context) (*Poll, error)
	SubmitVote(ctx context.Context, choiceIndex int, ward *string) error
}

type Tally struct {
	Option  string
	Votes   int64
	Percent int
}

type Widget struct {
	api   PollAPI
	flags FlagStore

	mu         sync.Mutex
	state      State
	poll       *Poll
	loadErr    error
	selected   *int
	ward       *string
	submitting bool
}

func New(api PollAPI, flags FlagStore) *Widget {
	if flags == nil {
		flags = NewMemoryFlags()
	}
	return &Widget{
		api:   api,
		flags: flags,
		state: StateLoading,
	}
}

// Load fetches the active poll. A failed fetch moves the widget to
// StateLoadFailed; the error is also returned.
func (w *Widget) Load(ctx context.Context) error {
	w.mu.Lock()
	if w.poll == nil {
		w.state = StateLoading
	}
	w.mu.Unlock()

	poll, err := w.api.FetchPoll(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.state = StateLoadFailed
		w.loadErr = err
		return err
	}

	if w.poll == nil || poll == nil || poll.Slug != w.poll.Slug {
		w.selected = nil
	}
	w.poll = poll
	w.loadErr = nil
	if poll == nil {
		w.state = StateNoActivePoll
	} else {
		w.state = StateReady
	}
	return nil
}

func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// LoadError returns the error of the last failed Load.
func (w *Widget) LoadError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadErr
}

// Poll returns the loaded poll, nil unless the widget is ready.
func (w *Widget) Poll() *Poll {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateReady {
		return nil
	}
	return w.poll
}

func (w *Widget) Select(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateReady {
		return ErrNotReady
	}
	if index < 0 || index >= len(w.poll.Options) {
		return ErrUnknownOption
	}
	w.selected = &index
	return nil
}

// Selected returns the selected option index, or -1.
func (w *Widget) Selected() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.selected == nil {
		return -1
	}
	return *w.selected
}

// SelectWard sets the ward sent with the vote. An empty ward clears it.
func (w *Widget) SelectWard(ward string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ward == "" {
		w.ward = nil
		return
	}
	w.ward = &ward
}

func (w *Widget) HasVoted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.hasVoted()
}

func (w *Widget) hasVoted() bool {
	return w.poll != nil && w.flags.HasVoted(w.poll.Slug)
}

// CanSubmit reports whether Submit would send a vote right now.
func (w *Widget) CanSubmit() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.checkSubmit() == nil
}

func (w *Widget) checkSubmit() error {
	switch {
	case w.state != StateReady:
		return ErrNotReady
	case w.submitting:
		return ErrSubmitInFlight
	case w.hasVoted():
		return ErrAlreadyVoted
	case w.selected == nil:
		return ErrNoSelection
	}
	return nil
}

// Submit sends the selected option. On success the voted flag is set and
// the poll is fetched again for fresh tallies. On failure the selection is
// kept so the user can retry.
func (w *Widget) Submit(ctx context.Context) error {
	w.mu.Lock()
	if err := w.checkSubmit(); err != nil {
		w.mu.Unlock()
		return err
	}
	w.submitting = true
	slug := w.poll.Slug
	choice := *w.selected
	ward := w.ward
	w.mu.Unlock()

	err := w.api.SubmitVote(ctx, choice, ward)

	w.mu.Lock()
	w.submitting = false
	w.mu.Unlock()

	if err != nil {
		return err
	}

	if err := w.flags.MarkVoted(slug); err != nil {
		slog.Warn("failed to store voted flag", "poll", slug, "error", err)
	}

	if err := w.Load(ctx); err != nil {
		slog.Warn("failed to refresh poll after vote", "poll", slug, "error", err)
	}
	return nil
}

// Tallies returns one entry per option with its share of the total rounded
// to a whole percent.
func (w *Widget) Tallies() []Tally {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateReady {
		return nil
	}

	total := totalVotes(w.poll)
	tallies := make([]Tally, len(w.poll.Options))
	for i, option := range w.poll.Options {
		tallies[i].Option = option
		if i < len(w.poll.Results) {
			tallies[i].Votes = w.poll.Results[i].Votes
		}
		tallies[i].Percent = Percent(tallies[i].Votes, total)
	}
	return tallies
}

func (w *Widget) TotalVotes() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateReady {
		return 0
	}
	return totalVotes(w.poll)
}

func totalVotes(p *Poll) int64 {
	var total int64
	for _, r := range p.Results {
		total += r.Votes
	}
	return total
}

// Percent returns votes as a rounded share of total, 0 when total is 0.
func Percent(votes, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(votes) / float64(total) * 100))
}
