package domain

import (
	"time"

	"github.com/google/uuid"
)

// Vote is an append-only ledger entry. ChoiceLabel keeps the option text as it
// was when the vote was cast.
type Vote struct {
	ID          uuid.UUID `json:"id"`
	PollID      uuid.UUID `json:"poll_id"`
	Ward        *string   `json:"ward,omitempty"`
	ChoiceIndex int       `json:"choice_index"`
	ChoiceLabel string    `json:"choice_label"`
	CreatedAt   time.Time `json:"created_at"`
}

// WardCount is the number of votes for one choice index within one ward.
type WardCount struct {
	Ward        *string
	ChoiceIndex int
	Votes       int64
}
