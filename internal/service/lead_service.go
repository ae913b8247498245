package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/notify"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/pubsub"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/repository"

	"github.com/rs/zerolog"
)

var ErrLeadNotFound = errors.New("lead not found")

// Lead statuses an admin may set.
var leadStatuses = map[string]bool{
	model.LeadStatusNew: true,
	"contacted":         true,
	"qualified":         true,
	"closed":            true,
}

type LeadService interface {
	// CaptureLead stores a form submission, then publishes an event and
	// emails staff. Publish and email failures are logged, not returned.
	CaptureLead(ctx context.Context, l *model.Lead) (*model.Lead, error)
	ListLeads(ctx context.Context, kind model.LeadKind) ([]model.Lead, error)
	UpdateLeadStatus(ctx context.Context, kind model.LeadKind, id, status string) (*model.Lead, error)
	DeleteLead(ctx context.Context, kind model.LeadKind, id string) (*model.Lead, error)
}

type leadService struct {
	repo      repository.LeadRepository
	publisher pubsub.Publisher
	topic     string
	notifier  notify.Notifier
	logger    zerolog.Logger
}

func NewLeadService(repo repository.LeadRepository, publisher pubsub.Publisher, topic string, notifier notify.Notifier, logger zerolog.Logger) LeadService {
	return &leadService{
		repo:      repo,
		publisher: publisher,
		topic:     topic,
		notifier:  notifier,
		logger:    logger.With().Str("service", "LeadService").Logger(),
	}
}

func (s *leadService) CaptureLead(ctx context.Context, l *model.Lead) (*model.Lead, error) {
	l.Name = strings.TrimSpace(l.Name)
	l.Email = strings.ToLower(strings.TrimSpace(l.Email))
	l.Status = model.LeadStatusNew
	if err := s.repo.CreateLead(ctx, l); err != nil {
		return nil, fmt.Errorf("storing lead: %w", err)
	}

	log := s.logger.With().Str("lead_id", l.ID.Hex()).Str("kind", string(l.Kind)).Logger()
	log.Info().Msg("Lead captured")

	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if msgID, err := pubsub.PublishLead(notifyCtx, s.publisher, s.topic, l); err != nil {
		log.Error().Err(err).Msg("Failed to publish lead event")
	} else if msgID != "" {
		log.Debug().Str("message_id", msgID).Msg("Lead event published")
	}
	if err := s.notifier.NotifyLead(notifyCtx, l); err != nil {
		log.Error().Err(err).Msg("Failed to send lead notification")
	}
	return l, nil
}

func (s *leadService) ListLeads(ctx context.Context, kind model.LeadKind) ([]model.Lead, error) {
	leads, err := s.repo.ListLeads(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("listing %s leads: %w", kind, err)
	}
	return leads, nil
}

func (s *leadService) UpdateLeadStatus(ctx context.Context, kind model.LeadKind, id, status string) (*model.Lead, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	status = strings.TrimSpace(status)
	if !leadStatuses[status] {
		return nil, validationErrorf("status", "status must be one of new, contacted, qualified, closed")
	}
	l, err := s.repo.UpdateLeadStatus(ctx, kind, oid, status)
	if err != nil {
		return nil, fmt.Errorf("updating lead: %w", err)
	}
	if l == nil {
		return nil, ErrLeadNotFound
	}
	return l, nil
}

func (s *leadService) DeleteLead(ctx context.Context, kind model.LeadKind, id string) (*model.Lead, error) {
	oid, err := ParseID(id)
	if err != nil {
		return nil, err
	}
	l, err := s.repo.DeleteLead(ctx, kind, oid)
	if err != nil {
		return nil, fmt.Errorf("deleting lead: %w", err)
	}
	if l == nil {
		return nil, ErrLeadNotFound
	}
	return l, nil
}
