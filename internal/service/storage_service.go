package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrStorageDisabled        = errors.New("image storage is not configured")
	ErrUnsupportedContentType = errors.New("unsupported image content type")
	ErrUnknownUploadFolder    = errors.New("unknown upload folder")
)

const uploadURLExpiry = 15 * time.Minute

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/avif": ".avif",
}

var uploadFolders = map[string]bool{
	"courses": true,
	"blogs":   true,
}

// ImageUpload is a presigned PUT for one image object.
type ImageUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	PublicURL string    `json:"publicUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type StorageService interface {
	// PresignImageUpload returns a URL the browser can PUT an image to.
	PresignImageUpload(ctx context.Context, folder, contentType string) (*ImageUpload, error)
}

type storageService struct {
	presignClient *s3.PresignClient
	bucketName    string
	publicBaseURL string
	logger        zerolog.Logger
}

// NewStorageService signs uploads against s3Client. A nil client yields a
// service that always returns ErrStorageDisabled.
func NewStorageService(s3Client *s3.Client, bucketName, publicBaseURL string, logger zerolog.Logger) StorageService {
	s := &storageService{
		bucketName:    bucketName,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger.With().Str("service", "StorageService").Logger(),
	}
	if s3Client != nil {
		s.presignClient = s3.NewPresignClient(s3Client)
	}
	return s
}

func (s *storageService) PresignImageUpload(ctx context.Context, folder, contentType string) (*ImageUpload, error) {
	if s.presignClient == nil {
		return nil, ErrStorageDisabled
	}
	if !uploadFolders[folder] {
		return nil, ErrUnknownUploadFolder
	}
	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return nil, ErrUnsupportedContentType
	}

	objectKey := path.Join("uploads", folder, uuid.NewString()+ext)
	request, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(uploadURLExpiry))
	if err != nil {
		s.logger.Error().Err(err).Str("object_key", objectKey).Msg("Failed to generate presigned PUT URL")
		return nil, fmt.Errorf("failed to generate presigned PUT URL: %w", err)
	}

	return &ImageUpload{
		UploadURL: request.URL,
		ObjectKey: objectKey,
		PublicURL: fmt.Sprintf("%s/%s/%s", s.publicBaseURL, s.bucketName, objectKey),
		ExpiresAt: time.Now().UTC().Add(uploadURLExpiry),
	}, nil
}
