package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Store writes uploaded images to S3 and hands back public URLs.
type Store struct {
	Bucket string
	Region string
	client *s3.Client
}

func NewStore(ctx context.Context, bucket, region string) (*Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &Store{
		Bucket: bucket,
		Region: region,
		client: s3.NewFromConfig(cfg),
	}, nil
}

// PutImage stores the image under a uuid key, keeping the original
// extension, and returns the object's public URL.
func (s *Store) PutImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	ext := strings.ToLower(path.Ext(filename))
	key := "images/" + uuid.NewString() + ext

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.Bucket, s.Region, key), nil
}
