package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/studiosalgoforge-stack/AlgoForgestudios-sub001/internal/config"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

type SecretManagerService interface {
	// GetSecret returns the latest version of a secret. name is either a
	// short secret ID or a full resource name.
	GetSecret(ctx context.Context, name string) (string, error)
	Close() error
}

type secretManagerService struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManagerService(ctx context.Context, cfg *config.Config) (SecretManagerService, error) {
	if cfg.GCPProjectID == "" {
		return nil, fmt.Errorf("GCP project ID is not set")
	}

	var opts []option.ClientOption
	if cfg.GCPCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.GCPCredentialsFile))
	}

	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &secretManagerService{
		client:    client,
		projectID: cfg.GCPProjectID,
	}, nil
}

func (s *secretManagerService) GetSecret(ctx context.Context, name string) (string, error) {
	req := &secretmanagerpb.AccessSecretVersionRequest{
		Name: secretVersionName(s.projectID, name),
	}

	result, err := s.client.AccessSecretVersion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}

	return strings.TrimSpace(string(result.Payload.Data)), nil
}

func (s *secretManagerService) Close() error {
	return s.client.Close()
}

func secretVersionName(projectID, name string) string {
	if strings.HasPrefix(name, "projects/") {
		if strings.Contains(name, "/versions/") {
			return name
		}
		return name + "/versions/latest"
	}
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", projectID, name)
}
