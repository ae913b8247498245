package service

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testS3Client() *s3.Client {
	return s3.NewFromConfig(aws.Config{
		Region:      "us-east-1",
		Credentials: credentials.NewStaticCredentialsProvider("key", "secret", ""),
	}, func(o *s3.Options) {
		o.BaseEndpoint = aws.String("http://localhost:9000")
		o.UsePathStyle = true
	})
}

func TestPresignImageUpload(t *testing.T) {
	svc := NewStorageService(testS3Client(), "media", "http://localhost:9000/", zerolog.Nop())

	up, err := svc.PresignImageUpload(context.Background(), "courses", "image/png")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.ObjectKey, "uploads/courses/"))
	assert.True(t, strings.HasSuffix(up.ObjectKey, ".png"))
	assert.Contains(t, up.UploadURL, "http://localhost:9000/media/"+up.ObjectKey)
	assert.Contains(t, up.UploadURL, "X-Amz-Signature=")
	assert.Equal(t, "http://localhost:9000/media/"+up.ObjectKey, up.PublicURL)
}

func TestPresignImageUpload_Rejects(t *testing.T) {
	svc := NewStorageService(testS3Client(), "media", "http://localhost:9000", zerolog.Nop())

	_, err := svc.PresignImageUpload(context.Background(), "courses", "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)

	_, err = svc.PresignImageUpload(context.Background(), "secrets", "image/png")
	assert.ErrorIs(t, err, ErrUnknownUploadFolder)
}

func TestPresignImageUpload_Disabled(t *testing.T) {
	svc := NewStorageService(nil, "", "", zerolog.Nop())
	_, err := svc.PresignImageUpload(context.Background(), "courses", "image/png")
	assert.ErrorIs(t, err, ErrStorageDisabled)
}
