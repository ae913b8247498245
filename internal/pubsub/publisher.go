package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/config"
	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/model"

	"cloud.google.com/go/pubsub"
	"google.golang.org/api/option"
)

// Publisher defines an interface for publishing messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload []byte) (string, error)
	Close() error
}

// PubSubPublisher is an implementation of Publisher using Google Pub/Sub.
type PubSubPublisher struct {
	client *pubsub.Client
}

// NewPublisher creates a new PubSubPublisher using the GCP project from config.
func NewPublisher(ctx context.Context, cfg *config.Config) (*PubSubPublisher, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP project ID is not set")
	}
	var opts []option.ClientOption
	if cfg.GCPCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCPCredentialsFile))
	}
	client, err := pubsub.NewClient(ctx, cfg.GCPProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Pub/Sub client: %w", err)
	}
	return &PubSubPublisher{client: client}, nil
}

// Publish sends the payload to the given Pub/Sub topic and returns the message ID.
func (p *PubSubPublisher) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	t := p.client.Topic(topic)
	result := t.Publish(ctx, &pubsub.Message{Data: payload})
	id, err := result.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to publish message to topic %s: %w", topic, err)
	}
	return id, nil
}

func (p *PubSubPublisher) Close() error {
	return p.client.Close()
}

// NopPublisher drops messages. It is used when Pub/Sub is not configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, []byte) (string, error) { return "", nil }
func (NopPublisher) Close() error                                            { return nil }

const LeadCapturedEventType = "lead.captured"

// LeadCapturedEvent is published after a lead form submission is stored.
type LeadCapturedEvent struct {
	Type      string         `json:"type"`
	LeadID    string         `json:"leadId"`
	Kind      model.LeadKind `json:"kind"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Service   string         `json:"service,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

func NewLeadCapturedEvent(l *model.Lead) LeadCapturedEvent {
	return LeadCapturedEvent{
		Type:      LeadCapturedEventType,
		LeadID:    l.ID.Hex(),
		Kind:      l.Kind,
		Name:      l.Name,
		Email:     l.Email,
		Service:   l.Service,
		CreatedAt: l.CreatedAt,
	}
}

// PublishLead encodes and publishes a lead.captured event.
func PublishLead(ctx context.Context, p Publisher, topic string, l *model.Lead) (string, error) {
	payload, err := json.Marshal(NewLeadCapturedEvent(l))
	if err != nil {
		return "", fmt.Errorf("failed to encode lead event: %w", err)
	}
	return p.Publish(ctx, topic, payload)
}
