package domain

import "errors"

var (
	ErrPollNotFound        = errors.New("poll not found")
	ErrInvalidPollID       = errors.New("invalid poll id")
	ErrInvalidPoll         = errors.New("invalid poll")
	ErrSlugTaken           = errors.New("poll slug already taken")
	ErrNoActivePoll        = errors.New("no active poll")
	ErrChoiceIndexRequired = errors.New("choice index is required")
	ErrInvalidChoiceIndex  = errors.New("invalid choice index")
)
