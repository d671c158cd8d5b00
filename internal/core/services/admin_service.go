package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/roysafi/poll/internal/core/domain"
	"github.com/roysafi/poll/internal/core/ports"
)

var slugRx = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type adminService struct {
	repo ports.PollRepository
}

func NewAdminService(repo ports.PollRepository) ports.AdminService {
	return &adminService{
		repo: repo,
	}
}

func (s *adminService) CreatePoll(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	slug := strings.TrimSpace(input.Slug)
	if !slugRx.MatchString(slug) {
		return nil, fmt.Errorf("%w: slug must be lowercase letters, digits and dashes", domain.ErrInvalidPoll)
	}
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidPoll)
	}

	var options []string
	for _, opt := range input.Options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		options = append(options, opt)
	}
	if len(options) < 2 {
		return nil, fmt.Errorf("%w: at least two valid options are required", domain.ErrInvalidPoll)
	}

	poll := &domain.Poll{
		ID:        uuid.New(),
		Slug:      slug,
		Question:  question,
		Options:   options,
		IsActive:  input.Active,
		CreatedAt: time.Now(),
	}
	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

func (s *adminService) ActivatePoll(ctx context.Context, id string) (*domain.Poll, error) {
	return s.setActive(ctx, id, true)
}

func (s *adminService) DeactivatePoll(ctx context.Context, id string) (*domain.Poll, error) {
	return s.setActive(ctx, id, false)
}

func (s *adminService) setActive(ctx context.Context, id string, active bool) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}
	if err := s.repo.SetActive(ctx, pollID, active); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, pollID)
}

func (s *adminService) ListPolls(ctx context.Context) ([]*domain.Poll, error) {
	return s.repo.List(ctx)
}
